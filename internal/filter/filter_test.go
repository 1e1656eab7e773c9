package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldInclude_Defaults(t *testing.T) {
	f := New(nil, nil)

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"plain source file", "src/main.py", true},
		{"root readme", "README.md", true},
		{"git metadata", ".git/config", false},
		{"git object", ".git/objects/ab/cdef", false},
		{"pycache", "src/__pycache__/main.cpython-311.pyc", false},
		{"node modules", "web/node_modules/react/index.js", false},
		{"build output", "pkg/build/out.js", false},
		{"compiled python", "src/main.pyc", false},
		{"archive", "assets/bundle.zip", false},
		{"log file", "run/server.log", false},
		{"ds store", "docs/.DS_Store", false},
		{"backslash separators", "src\\main.py", true},
		{"dot slash prefix", "./src/main.py", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.ShouldInclude(tt.path))
		})
	}
}

func TestShouldInclude_ExcludeBeatsInclude(t *testing.T) {
	f := New([]string{"**/*.secret"}, []string{"**/*.secret", "**/*.go"})

	assert.False(t, f.ShouldInclude("config/api.secret"))
	assert.True(t, f.ShouldInclude("main.go"))
}

func TestShouldInclude_IncludeListRestricts(t *testing.T) {
	f := New([]string{}, []string{"**/*.py"})

	assert.True(t, f.ShouldInclude("pkg/module.py"))
	assert.False(t, f.ShouldInclude("pkg/module.go"))
}

func TestShouldInclude_ExplicitExcludesReplaceDefaults(t *testing.T) {
	// Providing any exclude list disables the built-in set entirely.
	f := New([]string{"**/*.tmp"}, nil)

	assert.True(t, f.ShouldInclude(".git/config"))
	assert.False(t, f.ShouldInclude("work/file.tmp"))
}

func TestExcludesDir(t *testing.T) {
	f := New(nil, nil)

	tests := []struct {
		name     string
		dir      string
		expected bool
	}{
		{"git dir", ".git", true},
		{"nested pycache", "src/__pycache__", true},
		{"node modules", "app/node_modules", true},
		{"ordinary dir", "src", false},
		{"root", ".", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.ExcludesDir(tt.dir))
		})
	}
}

func TestExcludesDir_FilePatternGivesNoGuarantee(t *testing.T) {
	// "**/*.log" rejects individual files, but says nothing about a
	// directory named logs.
	f := New([]string{"**/*.log"}, nil)

	assert.False(t, f.ExcludesDir("logs"))
}
