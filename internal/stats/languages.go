// Package stats aggregates per-language and whole-repository statistics over
// a walked file list.
package stats

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/gitparse-go/internal/classify"
	"github.com/quantmind-br/gitparse-go/internal/domain"
	"github.com/quantmind-br/gitparse-go/internal/utils"
)

// mimeLanguage maps classified MIME types to human-readable language labels.
var mimeLanguage = map[string]string{
	"text/x-python":          "Python",
	"text/javascript":        "JavaScript",
	"application/javascript": "JavaScript",
	"text/typescript":        "TypeScript",
	"text/x-java":            "Java",
	"text/x-c":               "C",
	"text/x-c++":             "C++",
	"text/x-csharp":          "C#",
	"text/x-go":              "Go",
	"text/x-ruby":            "Ruby",
	"text/x-php":             "PHP",
	"text/x-rust":            "Rust",
	"text/x-swift":           "Swift",
	"text/x-kotlin":          "Kotlin",
	"text/x-scala":           "Scala",

	"text/html":          "HTML",
	"text/css":           "CSS",
	"application/json":   "JSON",
	"application/x-yaml": "YAML",
	"text/xml":           "XML",
	"application/xml":    "XML",

	"text/markdown": "Markdown",
	"text/x-rst":    "reStructuredText",
	"text/asciidoc": "AsciiDoc",
	"text/plain":    "Plain Text",

	"text/x-toml":       "TOML",
	"text/x-ini":        "INI",
	"text/x-properties": "Properties",

	"text/x-shellscript": "Shell",
	"text/x-bash":        "Bash",
	"text/x-powershell":  "PowerShell",
}

// extensionLanguage is the fallback for MIME types with no direct mapping.
var extensionLanguage = map[string]string{
	".py":   "Python",
	".pyi":  "Python",
	".js":   "JavaScript",
	".jsx":  "JavaScript",
	".ts":   "TypeScript",
	".tsx":  "TypeScript",
	".java": "Java",
	".c":    "C",
	".h":    "C",
	".cpp":  "C++",
	".hpp":  "C++",
	".cs":   "C#",
	".go":   "Go",
	".rb":   "Ruby",
	".php":  "PHP",
	".rs":   "Rust",

	".html": "HTML",
	".htm":  "HTML",
	".css":  "CSS",
	".scss": "SCSS",
	".sass": "SASS",
	".less": "Less",
	".json": "JSON",
	".yaml": "YAML",
	".yml":  "YAML",
	".xml":  "XML",
	".svg":  "SVG",

	".md":       "Markdown",
	".markdown": "Markdown",
	".rst":      "reStructuredText",
	".adoc":     "AsciiDoc",
	".txt":      "Plain Text",

	".toml":       "TOML",
	".ini":        "INI",
	".cfg":        "INI",
	".conf":       "INI",
	".properties": "Properties",

	".sh":   "Shell",
	".bash": "Bash",
	".zsh":  "Shell",
	".fish": "Shell",
	".ps1":  "PowerShell",
}

// specialFilenames covers extensionless build files.
var specialFilenames = map[string]string{
	"Makefile":       "Makefile",
	"Dockerfile":     "Dockerfile",
	"CMakeLists.txt": "CMake",
}

const otherLanguage = "Other"

// LanguageFor maps a MIME type and relative path to a language label,
// falling back from the MIME table to the extension table to "Other".
func LanguageFor(mime, relPath string) string {
	mime, _, _ = strings.Cut(mime, ";")
	if lang, ok := mimeLanguage[strings.TrimSpace(mime)]; ok {
		return lang
	}
	if lang, ok := specialFilenames[filepath.Base(relPath)]; ok {
		return lang
	}
	if lang, ok := extensionLanguage[strings.ToLower(filepath.Ext(relPath))]; ok {
		return lang
	}
	return otherLanguage
}

// Languages accumulates per-language file and byte counts over one pass of
// the walked file list, skipping binary files, then computes percentage
// shares of the total text bytes.
func Languages(root string, files []string, logger *utils.Logger) map[string]domain.LanguageStat {
	if logger == nil {
		logger = utils.NewNopLogger()
	}

	acc := map[string]*domain.LanguageStat{}
	var totalBytes int64

	for _, rel := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))

		mime, binary := classify.Classify(abs)
		if binary {
			continue
		}

		info, err := os.Stat(abs)
		if err != nil {
			logger.Warn().Err(err).Str("path", rel).Msg("Skipping unstatable file")
			continue
		}

		lang := LanguageFor(mime, rel)
		bucket, ok := acc[lang]
		if !ok {
			bucket = &domain.LanguageStat{}
			acc[lang] = bucket
		}
		bucket.Files++
		bucket.Bytes += info.Size()
		totalBytes += info.Size()
	}

	result := make(map[string]domain.LanguageStat, len(acc))
	for lang, bucket := range acc {
		if totalBytes > 0 {
			bucket.Percentage = round2(float64(bucket.Bytes) / float64(totalBytes) * 100)
		}
		result[lang] = *bucket
	}
	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
