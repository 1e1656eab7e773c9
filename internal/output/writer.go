// Package output renders analysis results as JSON or YAML and writes them
// to stdout or a file, gzip-compressing when the target name asks for it.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"gopkg.in/yaml.v3"

	"github.com/quantmind-br/gitparse-go/internal/domain"
)

// Format names for rendered results.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Writer renders values in one configured format.
type Writer struct {
	format string
}

// NewWriter creates a Writer. Unknown formats fail with
// domain.ErrConfiguration.
func NewWriter(format string) (*Writer, error) {
	switch format {
	case FormatJSON, FormatYAML:
		return &Writer{format: format}, nil
	default:
		return nil, fmt.Errorf("%w: unknown output format %q", domain.ErrConfiguration, format)
	}
}

// Render serializes v in the writer's format.
func (w *Writer) Render(v any) ([]byte, error) {
	switch w.format {
	case FormatYAML:
		return yaml.Marshal(v)
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

// Write renders v and emits it to path, or to out when path is empty.
func (w *Writer) Write(out io.Writer, path string, v any) error {
	data, err := w.Render(v)
	if err != nil {
		return err
	}
	return Emit(out, path, data)
}

// Emit writes already-rendered bytes to path, or to out when path is empty.
// A path ending in .gz is written gzip-compressed.
func Emit(out io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := out.Write(data)
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	if strings.HasSuffix(path, ".gz") {
		return writeGzip(path, data)
	}
	return os.WriteFile(path, data, 0644)
}

func writeGzip(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	gz := gzip.NewWriter(f)
	if _, err := gz.Write(data); err != nil {
		gz.Close()
		f.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// AutoFilename builds a default output filename from the operation and
// repository name, like "tree-myrepo.json".
func AutoFilename(operation, repoName, format string) string {
	name := strings.TrimSuffix(filepath.Base(repoName), ".git")
	if name == "" || name == "." {
		name = "repository"
	}
	return fmt.Sprintf("%s-%s.%s", operation, name, format)
}
