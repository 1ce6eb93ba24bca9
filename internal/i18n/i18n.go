package i18n

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

type Translations struct {
	bundle   *i18n.Bundle
	localize *i18n.Localizer
}

// NewTranslations loads the built-in messages plus every locales/active.*.toml found under
// localesDir. An empty localesDir loads only the built-in messages.
func NewTranslations(lang, localesDir string) (*Translations, error) {
	if lang == "" {
		return nil, fmt.Errorf("language cannot be empty")
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	bundle.MustParseMessageFileBytes([]byte(defaultMessages), "default.en.toml")
	bundle.MustParseMessageFileBytes([]byte(spanishMessages), "default.es.toml")

	if localesDir != "" {
		files, err := filepath.Glob(filepath.Join(localesDir, "active.*.toml"))
		if err != nil {
			return nil, fmt.Errorf("error reading locales: %w", err)
		}
		for _, file := range files {
			if _, err := bundle.LoadMessageFile(file); err != nil {
				return nil, fmt.Errorf("error loading locale file %s: %w", file, err)
			}
		}
	}

	return &Translations{
		bundle:   bundle,
		localize: i18n.NewLocalizer(bundle, lang),
	}, nil
}

func (t *Translations) SetLanguage(lang string) error {
	for _, tag := range t.bundle.LanguageTags() {
		if tag.String() == lang {
			t.localize = i18n.NewLocalizer(t.bundle, lang)
			return nil
		}
	}
	return fmt.Errorf("language '%s' not supported", lang)
}

func (t *Translations) GetMessage(messageID string, count int, templateData map[string]interface{}) string {
	localized, err := t.localize.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID: messageID,
		},
		PluralCount:  count,
		TemplateData: templateData,
	})
	if err != nil {
		return "Translation missing: " + messageID
	}
	return localized
}

var defaultMessages = `
	[no_pending_release]
	other = "No merged release PR is waiting for a tag"

	[pending_release_detected]
	other = "Release PR #{{.pr_number}} ({{.version}}) is merged but not tagged yet. Run github-release first"

	[nothing_to_release]
	other = "Nothing to release since commit {{.since}}"

	[candidate_computed]
	other = "Next version {{.version}} ({{.release_type}}), previous tag {{.previous_tag}}"

	[package_skipped]
	other = "Skipping package {{.package}}: {{.reason}}"

	[noop_changelog_empty]
	other = "No user-facing changes for {{.version}}. No release PR opened"

	[updates_prepared]
	one = "Prepared {{.Count}} file update for {{.version}}"
	other = "Prepared {{.Count}} file updates for {{.version}}"

	[pr_opened]
	other = "Opened release PR #{{.pr_number}} for {{.version}}"

	[stale_closed]
	one = "Closed {{.Count}} stale release PR"
	other = "Closed {{.Count}} stale release PRs"

	[run_failed]
	other = "Release PR run failed: {{.error}}"

	[no_merged_pr_found]
	other = "No merged release PR found. Nothing to tag"

	[merged_pr_found]
	other = "Found merged release PR #{{.pr_number}} for {{.version}}"

	[notes_extracted]
	other = "Release notes extracted for {{.version}}"

	[notes_not_found]
	other = "Release notes not found in the changelog: {{.error}}"

	[finalize_failed]
	other = "GitHub release failed: {{.error}}"

	[release_created]
	other = "Created release {{.tag}} at {{.sha}}"

	[labels_removed]
	other = "Updated labels on PR #{{.pr_number}}"

	[dry_run_header]
	other = "Dry run: nothing was written"

	[dry_run_file]
	other = "--- {{.path}}"

	[dry_run_file_skipped]
	other = "--- {{.path}} (absent, skipped)"

	[config_created]
	other = "Configuration written to {{.path}}"

	[config_exists]
	other = "Configuration already exists at {{.path}}. Use --force to overwrite"

	[factory_already_registered]
	other = "Command '{{.FactoryName}}' is already registered"

	[app_usage]
	other = "Release pull requests and tags from Conventional Commits"

	[app_description]
	other = "releasemate opens a release pull request with the next version and changelog, and tags the release once that pull request is merged."

	[release_pr_usage]
	other = "Open or refresh the release pull request"

	[preview_usage]
	other = "Show the release pull request that would be opened, without writing anything"

	[github_release_usage]
	other = "Tag the merged release pull request and publish its release notes"

	[config_usage]
	other = "Manage the releasemate configuration"

	[config_init_usage]
	other = "Write a default configuration file"

	[flag_config_usage]
	other = "Path to the configuration file"

	[flag_debug_usage]
	other = "Enable debug logging"

	[flag_verbose_usage]
	other = "Enable informational logging"

	[flag_dry_run_usage]
	other = "Compute the release pull request without writing anything"

	[flag_release_as_usage]
	other = "Force the next version"

	[flag_force_usage]
	other = "Overwrite an existing configuration file"

	[flag_repo_usage]
	other = "Repository as owner/name"

	[flag_provider_usage]
	other = "Repository host: github or gitlab"

	[progress_starting]
	other = "Contacting the repository host..."

	[config_show_usage]
	other = "Show the effective configuration"

	[current_config]
	other = "Configuration ({{.path}})"

	[token_set]
	other = "set"

	[token_not_set]
	other = "not set"
	`

var spanishMessages = `
	[no_pending_release]
	other = "No hay PR de release mergeado esperando tag"

	[pending_release_detected]
	other = "El PR de release #{{.pr_number}} ({{.version}}) está mergeado pero sin tag. Ejecutá github-release primero"

	[nothing_to_release]
	other = "Nada para liberar desde el commit {{.since}}"

	[candidate_computed]
	other = "Próxima versión {{.version}} ({{.release_type}}), tag anterior {{.previous_tag}}"

	[package_skipped]
	other = "Se omite el paquete {{.package}}: {{.reason}}"

	[noop_changelog_empty]
	other = "Sin cambios visibles para {{.version}}. No se abrió PR de release"

	[updates_prepared]
	one = "{{.Count}} archivo preparado para {{.version}}"
	other = "{{.Count}} archivos preparados para {{.version}}"

	[pr_opened]
	other = "PR de release #{{.pr_number}} abierto para {{.version}}"

	[stale_closed]
	one = "Se cerró {{.Count}} PR de release viejo"
	other = "Se cerraron {{.Count}} PRs de release viejos"

	[run_failed]
	other = "Falló la ejecución del PR de release: {{.error}}"

	[no_merged_pr_found]
	other = "No se encontró PR de release mergeado. Nada para taggear"

	[merged_pr_found]
	other = "PR de release #{{.pr_number}} mergeado para {{.version}}"

	[notes_extracted]
	other = "Notas de release extraídas para {{.version}}"

	[notes_not_found]
	other = "No se encontraron notas de release en el changelog: {{.error}}"

	[finalize_failed]
	other = "Falló el release en GitHub: {{.error}}"

	[release_created]
	other = "Release {{.tag}} creado en {{.sha}}"

	[labels_removed]
	other = "Labels actualizados en el PR #{{.pr_number}}"

	[dry_run_header]
	other = "Dry run: no se escribió nada"

	[dry_run_file]
	other = "--- {{.path}}"

	[dry_run_file_skipped]
	other = "--- {{.path}} (no existe, omitido)"

	[config_created]
	other = "Configuración guardada en {{.path}}"

	[config_exists]
	other = "Ya existe configuración en {{.path}}. Usá --force para sobrescribir"

	[factory_already_registered]
	other = "El comando '{{.FactoryName}}' ya está registrado"

	[app_usage]
	other = "Pull requests de release y tags a partir de Conventional Commits"

	[app_description]
	other = "releasemate abre un pull request de release con la próxima versión y el changelog, y taggea el release cuando ese pull request se mergea."

	[release_pr_usage]
	other = "Abrir o actualizar el pull request de release"

	[preview_usage]
	other = "Mostrar el pull request de release que se abriría, sin escribir nada"

	[github_release_usage]
	other = "Taggear el pull request de release mergeado y publicar sus notas"

	[config_usage]
	other = "Administrar la configuración de releasemate"

	[config_init_usage]
	other = "Escribir un archivo de configuración por defecto"

	[flag_config_usage]
	other = "Ruta al archivo de configuración"

	[flag_debug_usage]
	other = "Activar logs de debug"

	[flag_verbose_usage]
	other = "Activar logs informativos"

	[flag_dry_run_usage]
	other = "Calcular el pull request de release sin escribir nada"

	[flag_release_as_usage]
	other = "Forzar la próxima versión"

	[flag_force_usage]
	other = "Sobrescribir un archivo de configuración existente"

	[flag_repo_usage]
	other = "Repositorio como owner/name"

	[flag_provider_usage]
	other = "Host del repositorio: github o gitlab"

	[progress_starting]
	other = "Contactando al host del repositorio..."

	[config_show_usage]
	other = "Mostrar la configuración efectiva"

	[current_config]
	other = "Configuración ({{.path}})"

	[token_set]
	other = "configurado"

	[token_not_set]
	other = "sin configurar"
	`
