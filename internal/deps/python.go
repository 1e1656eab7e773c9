package deps

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/quantmind-br/gitparse-go/internal/domain"
	"github.com/quantmind-br/gitparse-go/internal/utils"
)

// parsePyproject handles Poetry dependency tables (including legacy
// dev-dependencies and named groups) with PEP 621 project tables as a
// fallback and supplement. Unparsable TOML yields an empty result.
func parsePyproject(absPath, relPath string, logger *utils.Logger) domain.ManifestResult {
	result := domain.ManifestResult{
		Manifest: "poetry",
		Records:  []domain.DependencyRecord{},
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", relPath).Msg("Failed to read pyproject.toml")
		return result
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		logger.Warn().Err(err).Str("path", relPath).Msg("Failed to parse pyproject.toml")
		return result
	}

	seen := map[string]bool{}
	add := func(rec domain.DependencyRecord) {
		key := fmt.Sprintf("%s|%t|%t", rec.Name, rec.Dev, rec.Optional)
		if rec.Name != "" && seen[key] {
			return
		}
		seen[key] = true
		result.Records = append(result.Records, rec)
	}

	if poetry := tableAt(doc, "tool", "poetry"); poetry != nil {
		if deps := asTable(poetry["dependencies"]); deps != nil {
			for _, rec := range poetryRecords(deps, false, false) {
				add(rec)
			}
		}

		if groups := asTable(poetry["group"]); groups != nil {
			for name, group := range groups {
				deps := asTable(asTable(group)["dependencies"])
				if deps == nil {
					continue
				}
				dev := name == "dev"
				for _, rec := range poetryRecords(deps, dev, !dev) {
					add(rec)
				}
			}
		}

		// Poetry < 1.2 style
		if deps := asTable(poetry["dev-dependencies"]); deps != nil {
			for _, rec := range poetryRecords(deps, true, false) {
				add(rec)
			}
		}
	}

	if project := asTable(doc["project"]); project != nil {
		for _, rec := range pep621Records(project["dependencies"], false) {
			add(rec)
		}
		if optional := asTable(project["optional-dependencies"]); optional != nil {
			for _, groupDeps := range optional {
				for _, rec := range pep621Records(groupDeps, true) {
					add(rec)
				}
			}
		}
	}

	return result
}

// poetryRecords converts one Poetry dependency table. The python
// pseudo-dependency is never a record.
func poetryRecords(deps map[string]any, dev, optional bool) []domain.DependencyRecord {
	names := make([]string, 0, len(deps))
	for name := range deps {
		if name == "python" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	records := make([]domain.DependencyRecord, 0, len(names))
	for _, name := range names {
		records = append(records, poetryRecord(name, deps[name], dev, optional))
	}
	return records
}

func poetryRecord(name string, spec any, dev, optional bool) domain.DependencyRecord {
	rec := domain.DependencyRecord{
		Name:     name,
		Kind:     domain.KindRegistry,
		Dev:      dev,
		Optional: optional,
	}

	switch v := spec.(type) {
	case string:
		rec.VersionConstraint = v

	case map[string]any:
		if s, ok := v["version"].(string); ok {
			rec.VersionConstraint = s
		}
		if gitURL, ok := v["git"].(string); ok {
			rec.Kind = domain.KindVCS
			rec.URL = gitURL
			if rev, ok := v["rev"].(string); ok {
				rec.VersionConstraint = rev
			}
		}
		if p, ok := v["path"].(string); ok {
			rec.Kind = domain.KindPath
			rec.URL = p
		}
		if opt, ok := v["optional"].(bool); ok && opt {
			rec.Optional = true
		}
		if markers, ok := v["markers"].(string); ok {
			rec.Markers = markers
		}
		if extras, ok := v["extras"].([]any); ok {
			for _, e := range extras {
				if s, ok := e.(string); ok {
					rec.Extras = append(rec.Extras, s)
				}
			}
			sort.Strings(rec.Extras)
		}

	default:
		rec.Kind = domain.KindUnknown
		rec.Raw = fmt.Sprintf("%v", spec)
	}

	return rec
}

// pep621Records converts a [project] dependency list of PEP 508 strings.
func pep621Records(value any, optional bool) []domain.DependencyRecord {
	list, ok := value.([]any)
	if !ok {
		return nil
	}

	records := make([]domain.DependencyRecord, 0, len(list))
	for _, item := range list {
		line, ok := item.(string)
		if !ok {
			continue
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if rec, ok := parseSpecifier(line); ok {
			rec.Optional = optional
			records = append(records, rec)
		} else {
			records = append(records, domain.DependencyRecord{
				Kind:     domain.KindUnknown,
				Optional: optional,
				Raw:      line,
			})
		}
	}
	return records
}

func tableAt(doc map[string]any, keys ...string) map[string]any {
	current := doc
	for _, key := range keys {
		current = asTable(current[key])
		if current == nil {
			return nil
		}
	}
	return current
}

func asTable(v any) map[string]any {
	t, _ := v.(map[string]any)
	return t
}
