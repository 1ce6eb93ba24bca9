package config

const (
	LangEN = "en"
	LangES = "es"
)

// SupportedLanguages are the languages with built-in messages.
func SupportedLanguages() []string {
	return []string{LangEN, LangES}
}

func IsSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages() {
		if l == lang {
			return true
		}
	}
	return false
}
