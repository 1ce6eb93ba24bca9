package regex

import "regexp"

var (
	// Commit and Release patterns
	ConventionalCommit = regexp.MustCompile(`^(\w+)(\(([^)]*)\))?(!)?:\s*(.+)$`)
	BreakingChange     = regexp.MustCompile(`^BREAKING[ -]CHANGE:\s*(.*)`)
	SemVer             = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)(?:-([0-9A-Za-z.-]+))?(?:\+([0-9A-Za-z.-]+))?$`)
	GitHubPR           = regexp.MustCompile(`\s*\(#(\d+)\)\s*$`)

	// Release branch convention: release-v<version>
	ReleaseBranch = regexp.MustCompile(`^release-v(\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?)$`)

	// Changelog headings
	VersionHeading  = regexp.MustCompile(`^##\s`)
	NumberedHeading = regexp.MustCompile(`^###\s+\[?\d+\.`)

	// Root entry of a v2+ package-lock.json
	LockRootPackage = regexp.MustCompile(`"packages"\s*:\s*\{\s*""\s*:\s*\{`)
)

// VersionPattern locates a version string; group 1 captures the version.
type VersionPattern struct {
	Name    string
	Pattern *regexp.Regexp
}

// LanguageVersionPatterns are tried in order for files of each language family.
var LanguageVersionPatterns = map[string][]VersionPattern{
	"go": {
		{"const Version", regexp.MustCompile(`const\s+Version\s*=\s*"([^"]+)"`)},
		{"var Version", regexp.MustCompile(`var\s+Version\s*=\s*"([^"]+)"`)},
		{"Version:", regexp.MustCompile(`Version:\s*"([^"]+)"`)},
		{"Version =", regexp.MustCompile(`Version\s*=\s*"([^"]+)"`)},
	},
	"python": {
		{"__version__", regexp.MustCompile(`__version__\s*=\s*['"]([^'"]+)['"]`)},
		{"version", regexp.MustCompile(`version\s*=\s*['"]([^'"]+)['"]`)},
		{"VERSION", regexp.MustCompile(`VERSION\s*=\s*['"]([^'"]+)['"]`)},
	},
	"js": {
		{"version in JSON", regexp.MustCompile(`"version"\s*:\s*"([^"]+)"`)},
		{"export const version", regexp.MustCompile(`export\s+const\s+version\s*=\s*['"]([^'"]+)['"]`)},
	},
	"rust": {
		{"version in TOML", regexp.MustCompile(`version\s*=\s*"([^"]+)"`)},
	},
	"java": {
		{"version in XML", regexp.MustCompile(`<version>([^<]+)</version>`)},
		{"version in properties", regexp.MustCompile(`version\s*=\s*['"]?([^'"\s]+)['"]?`)},
	},
	"csharp": {
		{"AssemblyVersion", regexp.MustCompile(`AssemblyVersion\s*\(\s*"([^"]+)"`)},
		{"Version in XML", regexp.MustCompile(`<Version>([^<]+)</Version>`)},
	},
	"php": {
		{"version in JSON", regexp.MustCompile(`"version"\s*:\s*"([^"]+)"`)},
		{"const VERSION", regexp.MustCompile(`const\s+VERSION\s*=\s*['"]([^'"]+)['"]`)},
	},
	"ruby": {
		{"VERSION", regexp.MustCompile(`VERSION\s*=\s*['"]([^'"]+)['"]`)},
		{".version", regexp.MustCompile(`\.version\s*=\s*['"]([^'"]+)['"]`)},
	},
}
