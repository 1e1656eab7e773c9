package deps

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/quantmind-br/gitparse-go/internal/domain"
	"github.com/quantmind-br/gitparse-go/internal/utils"
)

type packageJSON struct {
	Dependencies         map[string]json.RawMessage `json:"dependencies"`
	DevDependencies      map[string]json.RawMessage `json:"devDependencies"`
	PeerDependencies     map[string]json.RawMessage `json:"peerDependencies"`
	OptionalDependencies map[string]json.RawMessage `json:"optionalDependencies"`
}

type npmDependencySpec struct {
	Version   string `json:"version"`
	Git       string `json:"git"`
	GitHub    string `json:"github"`
	GitLab    string `json:"gitlab"`
	Bitbucket string `json:"bitbucket"`
	URL       string `json:"url"`
}

// parsePackageJSON extracts the four dependency sections independently.
// Malformed JSON yields an empty result.
func parsePackageJSON(absPath, relPath string, logger *utils.Logger) domain.ManifestResult {
	result := domain.ManifestResult{
		Manifest: "nodejs",
		Records:  []domain.DependencyRecord{},
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", relPath).Msg("Failed to read package.json")
		return result
	}

	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		logger.Warn().Err(err).Str("path", relPath).Msg("Failed to parse package.json")
		return result
	}

	sections := []struct {
		deps     map[string]json.RawMessage
		dev      bool
		optional bool
	}{
		{pkg.Dependencies, false, false},
		{pkg.DevDependencies, true, false},
		{pkg.PeerDependencies, false, false},
		{pkg.OptionalDependencies, false, true},
	}

	for _, section := range sections {
		names := make([]string, 0, len(section.deps))
		for name := range section.deps {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			result.Records = append(result.Records,
				npmRecord(name, section.deps[name], section.dev, section.optional))
		}
	}

	return result
}

func npmRecord(name string, raw json.RawMessage, dev, optional bool) domain.DependencyRecord {
	rec := domain.DependencyRecord{
		Name:     name,
		Kind:     domain.KindRegistry,
		Dev:      dev,
		Optional: optional,
	}

	var version string
	if err := json.Unmarshal(raw, &version); err == nil {
		rec.VersionConstraint = NormalizeVersion(version)
		return rec
	}

	var spec npmDependencySpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		rec.Kind = domain.KindUnknown
		rec.Raw = string(raw)
		return rec
	}

	rec.VersionConstraint = NormalizeVersion(spec.Version)
	for _, vcsURL := range []string{spec.Git, spec.GitHub, spec.GitLab, spec.Bitbucket} {
		if vcsURL != "" {
			rec.Kind = domain.KindVCS
			rec.URL = vcsURL
			break
		}
	}
	if rec.Kind == domain.KindRegistry && spec.URL != "" {
		rec.Kind = domain.KindURL
		rec.URL = spec.URL
	}
	return rec
}

// NormalizeVersion strips leading npm range operators and a leading v:
// "^1.0.0" and "v1.0.0" both become "1.0.0".
func NormalizeVersion(version string) string {
	version = strings.TrimLeft(strings.TrimSpace(version), "^~><= ")
	return strings.TrimPrefix(version, "v")
}
