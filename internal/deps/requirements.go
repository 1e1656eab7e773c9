package deps

import (
	"net/url"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/quantmind-br/gitparse-go/internal/domain"
	"github.com/quantmind-br/gitparse-go/internal/utils"
)

// specifierRe matches a PEP 508 style requirement: name, optional extras,
// optional comma-separated version constraints, optional environment marker.
var specifierRe = regexp.MustCompile(
	`^([A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?)` + // name
		`\s*(\[[^\]]+\])?` + // extras
		`\s*((?:===|==|!=|<=|>=|~=|<|>)\s*[^\s;,=]+(?:\s*,\s*(?:===|==|!=|<=|>=|~=|<|>)\s*[^\s;,=]+)*)?` + // constraints
		`\s*(?:;\s*(.+))?$`) // marker

var vcsPrefixes = []string{"git+", "hg+", "svn+", "bzr+"}

var directURLRe = regexp.MustCompile(`^https?://\S+\.(tar\.gz|tgz|tar\.bz2|zip|whl)$`)

var eggFragmentRe = regexp.MustCompile(`[#&]egg=([A-Za-z0-9._-]+)`)

// parseSpecifier attempts strict requirement parsing of one line.
func parseSpecifier(line string) (domain.DependencyRecord, bool) {
	m := specifierRe.FindStringSubmatch(line)
	if m == nil {
		return domain.DependencyRecord{}, false
	}

	rec := domain.DependencyRecord{
		Name:              m[1],
		VersionConstraint: strings.TrimSpace(m[3]),
		Kind:              domain.KindRegistry,
		Markers:           strings.TrimSpace(m[4]),
	}
	if m[2] != "" {
		rec.Extras = splitExtras(m[2])
	}
	return rec, true
}

func splitExtras(bracketed string) []string {
	inner := strings.Trim(bracketed, "[]")
	var extras []string
	for _, e := range strings.Split(inner, ",") {
		if e = strings.TrimSpace(e); e != "" {
			extras = append(extras, e)
		}
	}
	sort.Strings(extras)
	return extras
}

// parseRequirements is line-oriented: blank lines and comments are skipped,
// and each remaining line degrades from strict specifier to VCS URL to
// direct URL to an unknown record. The file is never aborted.
func parseRequirements(absPath, relPath string, logger *utils.Logger) domain.ManifestResult {
	result := domain.ManifestResult{
		Manifest: "requirements.txt",
		Records:  []domain.DependencyRecord{},
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", relPath).Msg("Failed to read requirements file")
		return result
	}

	dev := isDevManifest(relPath)

	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if idx := strings.Index(line, " #"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		// pip options like -r/--index-url are not dependencies
		line = strings.TrimPrefix(line, "--editable ")
		line = strings.TrimPrefix(line, "-e ")
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "-") {
			continue
		}

		if rec, ok := parseSpecifier(line); ok {
			rec.Dev = dev
			result.Records = append(result.Records, rec)
			continue
		}

		if hasVCSPrefix(line) {
			result.Records = append(result.Records, domain.DependencyRecord{
				Name: eggName(line),
				Kind: domain.KindVCS,
				URL:  line,
				Dev:  dev,
				Raw:  line,
			})
			continue
		}

		if directURLRe.MatchString(line) {
			result.Records = append(result.Records, domain.DependencyRecord{
				Name: archiveName(line),
				Kind: domain.KindURL,
				URL:  line,
				Dev:  dev,
				Raw:  line,
			})
			continue
		}

		logger.Warn().Str("path", relPath).Str("line", line).Msg("Invalid requirement")
		result.Records = append(result.Records, domain.DependencyRecord{
			Kind: domain.KindUnknown,
			Dev:  dev,
			Raw:  line,
		})
	}

	return result
}

func hasVCSPrefix(line string) bool {
	for _, p := range vcsPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

func eggName(line string) string {
	if m := eggFragmentRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return ""
}

func archiveName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	base := u.Path
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	return base
}

// isDevManifest infers the dependency group from the file path.
func isDevManifest(relPath string) bool {
	lower := strings.ToLower(relPath)
	for _, marker := range []string{"dev", "test", "doc"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
