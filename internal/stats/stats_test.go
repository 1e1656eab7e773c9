package stats

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTree(t *testing.T, files map[string][]byte) (string, []string) {
	t.Helper()
	root := t.TempDir()

	rels := make([]string, 0, len(files))
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, content, 0644))
		rels = append(rels, rel)
	}
	return root, rels
}

func TestLanguages(t *testing.T) {
	root, files := buildTree(t, map[string][]byte{
		"main.py":      []byte(strings.Repeat("x", 60)),
		"lib/util.py":  []byte(strings.Repeat("x", 20)),
		"web/app.js":   []byte(strings.Repeat("x", 20)),
		"logo.png":     {0x89, 0x50, 0x4E, 0x47, 0x00},
	})

	result := Languages(root, files, nil)

	py := result["Python"]
	assert.Equal(t, 2, py.Files)
	assert.Equal(t, int64(80), py.Bytes)
	assert.InDelta(t, 80.0, py.Percentage, 0.001)

	js := result["JavaScript"]
	assert.Equal(t, 1, js.Files)
	assert.InDelta(t, 20.0, js.Percentage, 0.001)

	// Binary files contribute nothing.
	_, hasPNG := result["Other"]
	assert.False(t, hasPNG)
}

func TestLanguages_PercentagesSumToHundred(t *testing.T) {
	root, files := buildTree(t, map[string][]byte{
		"a.py":  []byte(strings.Repeat("x", 17)),
		"b.js":  []byte(strings.Repeat("x", 23)),
		"c.go":  []byte(strings.Repeat("x", 31)),
		"d.rb":  []byte(strings.Repeat("x", 7)),
	})

	result := Languages(root, files, nil)

	var sum float64
	for _, stat := range result {
		sum += stat.Percentage
	}
	assert.InDelta(t, 100.0, sum, 0.1)
}

func TestLanguages_Deterministic(t *testing.T) {
	root, files := buildTree(t, map[string][]byte{
		"a.py": []byte("pass\n"),
		"b.js": []byte("void 0\n"),
	})

	first := Languages(root, files, nil)
	second := Languages(root, files, nil)
	assert.Equal(t, first, second)
}

func TestLanguages_Empty(t *testing.T) {
	result := Languages(t.TempDir(), nil, nil)
	assert.Empty(t, result)
}

func TestLanguages_ZeroByteFilesOnly(t *testing.T) {
	root, files := buildTree(t, map[string][]byte{
		"empty.py": nil,
	})

	result := Languages(root, files, nil)
	py := result["Python"]
	assert.Equal(t, 1, py.Files)
	assert.Equal(t, 0.0, py.Percentage)
}

func TestLanguageFor(t *testing.T) {
	tests := []struct {
		name     string
		mime     string
		path     string
		expected string
	}{
		{"mime table", "text/x-python", "x.py", "Python"},
		{"charset suffix stripped", "text/markdown; charset=utf-8", "x.md", "Markdown"},
		{"special filename", "text/plain; charset=utf-8", "sub/Makefile", "Plain Text"},
		{"extension fallback", "application/unknown", "mod.rs", "Rust"},
		{"makefile without mime hit", "application/unknown", "Makefile", "Makefile"},
		{"unknown everything", "application/unknown", "data.xyz", "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LanguageFor(tt.mime, tt.path))
		})
	}
}

func TestStatistics(t *testing.T) {
	root, files := buildTree(t, map[string][]byte{
		"main.py":   []byte(strings.Repeat("x", 100)),
		"small.py":  []byte(strings.Repeat("x", 10)),
		"data.bin":  {0x00, 0x01, 0x02, 0x03},
		"README.md": []byte(strings.Repeat("x", 50)),
	})

	result := Statistics(root, files, nil)

	assert.Equal(t, 4, result.TotalFiles)
	assert.Equal(t, int64(164), result.TotalSize)
	assert.Equal(t, 1, result.BinaryCount)
	assert.InDelta(t, 41.0, result.AverageFileSize, 0.001)
	assert.InDelta(t, 0.25, result.BinaryRatio, 0.001)
	assert.Equal(t, 2, result.FileTypes[".py"])
	assert.Equal(t, 1, result.FileTypes[".md"])

	require.Len(t, result.LargestFiles, 4)
	assert.Equal(t, "main.py", result.LargestFiles[0].Path)
	assert.Equal(t, int64(100), result.LargestFiles[0].Size)
}

func TestStatistics_LargestFilesCapped(t *testing.T) {
	contents := map[string][]byte{}
	for i := 0; i < 15; i++ {
		contents[filepath.ToSlash(filepath.Join("f", string(rune('a'+i))+".txt"))] =
			[]byte(strings.Repeat("x", i+1))
	}
	root, files := buildTree(t, contents)

	result := Statistics(root, files, nil)
	assert.Len(t, result.LargestFiles, 10)
	// Descending by size.
	for i := 1; i < len(result.LargestFiles); i++ {
		assert.GreaterOrEqual(t, result.LargestFiles[i-1].Size, result.LargestFiles[i].Size)
	}
}

func TestStatistics_Empty(t *testing.T) {
	result := Statistics(t.TempDir(), nil, nil)

	assert.Equal(t, 0, result.TotalFiles)
	assert.Equal(t, 0.0, result.AverageFileSize)
	assert.Equal(t, 0.0, result.BinaryRatio)
	assert.Empty(t, result.LargestFiles)
}
