package deps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/gitparse-go/internal/domain"
	"github.com/quantmind-br/gitparse-go/internal/utils"
)

func nopLogger() *utils.Logger {
	return utils.NewNopLogger()
}

func writeManifest(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func recordByName(t *testing.T, records []domain.DependencyRecord, name string) domain.DependencyRecord {
	t.Helper()
	for _, rec := range records {
		if rec.Name == name {
			return rec
		}
	}
	t.Fatalf("no record named %q", name)
	return domain.DependencyRecord{}
}

func TestParseRequirements(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "requirements.txt", `
# web framework
flask==2.0.1
requests>=2.25.0,<3.0.0  # http client
click[colorama,shellingham]~=8.1

invalid==requirement==here
`)

	result := parseRequirements(path, "requirements.txt", nopLogger())

	require.Len(t, result.Records, 4)

	flask := recordByName(t, result.Records, "flask")
	assert.Equal(t, "==2.0.1", flask.VersionConstraint)
	assert.Equal(t, domain.KindRegistry, flask.Kind)
	assert.False(t, flask.Dev)

	requests := recordByName(t, result.Records, "requests")
	assert.Equal(t, ">=2.25.0,<3.0.0", requests.VersionConstraint)

	click := recordByName(t, result.Records, "click")
	assert.Equal(t, []string{"colorama", "shellingham"}, click.Extras)

	// The double == line degrades to an unknown record, not an error.
	unknown := result.Records[3]
	assert.Equal(t, domain.KindUnknown, unknown.Kind)
	assert.Equal(t, "invalid==requirement==here", unknown.Raw)
	assert.Empty(t, unknown.Name)
}

func TestParseRequirements_VCSAndURL(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "requirements.txt", `
git+https://github.com/pallets/flask.git@2.0.1#egg=flask
https://example.com/packages/demo-1.0.0.tar.gz
-e git+ssh://git@github.com/org/tool.git#egg=tool
--index-url https://pypi.internal/simple
-r base.txt
`)

	result := parseRequirements(path, "requirements.txt", nopLogger())

	require.Len(t, result.Records, 3)

	assert.Equal(t, domain.KindVCS, result.Records[0].Kind)
	assert.Equal(t, "flask", result.Records[0].Name)

	assert.Equal(t, domain.KindURL, result.Records[1].Kind)
	assert.Equal(t, "demo-1.0.0.tar.gz", result.Records[1].Name)

	assert.Equal(t, domain.KindVCS, result.Records[2].Kind)
	assert.Equal(t, "tool", result.Records[2].Name)
}

func TestParseRequirements_DevInference(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "requirements-dev.txt", "pytest==7.0.0\n")

	result := parseRequirements(path, "requirements-dev.txt", nopLogger())

	require.Len(t, result.Records, 1)
	assert.True(t, result.Records[0].Dev)
}

func TestParseRequirements_Markers(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "requirements.txt",
		`pywin32>=300; sys_platform == "win32"`+"\n")

	result := parseRequirements(path, "requirements.txt", nopLogger())

	require.Len(t, result.Records, 1)
	assert.Equal(t, "pywin32", result.Records[0].Name)
	assert.Equal(t, `sys_platform == "win32"`, result.Records[0].Markers)
}

func TestParsePyproject_Poetry(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "pyproject.toml", `
[tool.poetry]
name = "demo"

[tool.poetry.dependencies]
python = "^3.9"
flask = "^2.0"
requests = { version = ">=2.25", extras = ["socks"], optional = true }
internal = { path = "../internal" }
tracker = { git = "https://github.com/org/tracker.git", rev = "v1.2" }

[tool.poetry.group.dev.dependencies]
pytest = "^7.0"

[tool.poetry.group.docs.dependencies]
sphinx = "^5.0"
`)

	result := parsePyproject(path, "pyproject.toml", nopLogger())

	// python is a constraint on the interpreter, never a dependency record.
	for _, rec := range result.Records {
		assert.NotEqual(t, "python", rec.Name)
	}

	flask := recordByName(t, result.Records, "flask")
	assert.Equal(t, "^2.0", flask.VersionConstraint)
	assert.Equal(t, domain.KindRegistry, flask.Kind)

	requests := recordByName(t, result.Records, "requests")
	assert.True(t, requests.Optional)
	assert.Equal(t, []string{"socks"}, requests.Extras)

	internal := recordByName(t, result.Records, "internal")
	assert.Equal(t, domain.KindPath, internal.Kind)
	assert.Equal(t, "../internal", internal.URL)

	tracker := recordByName(t, result.Records, "tracker")
	assert.Equal(t, domain.KindVCS, tracker.Kind)
	assert.Equal(t, "v1.2", tracker.VersionConstraint)

	pytest := recordByName(t, result.Records, "pytest")
	assert.True(t, pytest.Dev)

	sphinx := recordByName(t, result.Records, "sphinx")
	assert.False(t, sphinx.Dev)
	assert.True(t, sphinx.Optional)
}

func TestParsePyproject_LegacyDevDependencies(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "pyproject.toml", `
[tool.poetry.dependencies]
flask = "^2.0"

[tool.poetry.dev-dependencies]
pytest = "^6.0"
`)

	result := parsePyproject(path, "pyproject.toml", nopLogger())
	pytest := recordByName(t, result.Records, "pytest")
	assert.True(t, pytest.Dev)
}

func TestParsePyproject_PEP621(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "pyproject.toml", `
[project]
name = "demo"
dependencies = [
    "httpx>=0.24",
    "rich",
]

[project.optional-dependencies]
test = ["pytest>=7.0"]
`)

	result := parsePyproject(path, "pyproject.toml", nopLogger())

	httpx := recordByName(t, result.Records, "httpx")
	assert.Equal(t, ">=0.24", httpx.VersionConstraint)

	rich := recordByName(t, result.Records, "rich")
	assert.Empty(t, rich.VersionConstraint)

	pytest := recordByName(t, result.Records, "pytest")
	assert.True(t, pytest.Optional)
}

func TestParsePyproject_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "pyproject.toml", "this is [not valid toml\n")

	result := parsePyproject(path, "pyproject.toml", nopLogger())
	assert.Empty(t, result.Records)
	assert.Equal(t, "poetry", result.Manifest)
}

func TestParsePackageJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "package.json", `{
  "name": "demo",
  "dependencies": {
    "express": "^4.18.0",
    "lodash": "v4.17.21",
    "mylib": { "git": "https://github.com/org/mylib.git" }
  },
  "devDependencies": {
    "left-pad": "^1.0.0"
  },
  "optionalDependencies": {
    "fsevents": "~2.3.0"
  }
}`)

	result := parsePackageJSON(path, "package.json", nopLogger())

	express := recordByName(t, result.Records, "express")
	assert.Equal(t, "4.18.0", express.VersionConstraint)

	lodash := recordByName(t, result.Records, "lodash")
	assert.Equal(t, "4.17.21", lodash.VersionConstraint)

	mylib := recordByName(t, result.Records, "mylib")
	assert.Equal(t, domain.KindVCS, mylib.Kind)
	assert.Equal(t, "https://github.com/org/mylib.git", mylib.URL)

	leftPad := recordByName(t, result.Records, "left-pad")
	assert.Equal(t, "1.0.0", leftPad.VersionConstraint)
	assert.True(t, leftPad.Dev)

	fsevents := recordByName(t, result.Records, "fsevents")
	assert.Equal(t, "2.3.0", fsevents.VersionConstraint)
	assert.True(t, fsevents.Optional)
}

func TestParsePackageJSON_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "package.json", "{not json")

	result := parsePackageJSON(path, "package.json", nopLogger())
	assert.Empty(t, result.Records)
	assert.Equal(t, "nodejs", result.Manifest)
}

func TestNormalizeVersion(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"^1.0.0", "1.0.0"},
		{"~2.3.4", "2.3.4"},
		{">=3.0.0", "3.0.0"},
		{"v4.17.21", "4.17.21"},
		{"1.2.3", "1.2.3"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeVersion(tt.in))
		})
	}
}

func TestDescriptorMatches(t *testing.T) {
	registry := Registry()
	requirements, poetry, nodejs := registry[0], registry[1], registry[2]

	assert.True(t, requirements.Matches("requirements.txt"))
	assert.True(t, requirements.Matches("requirements-dev.txt"))
	assert.True(t, requirements.Matches("backend/requirements.txt"))
	assert.True(t, requirements.Matches("requirements/base.txt"))
	assert.False(t, requirements.Matches("notes.txt"))

	assert.True(t, poetry.Matches("pyproject.toml"))
	assert.True(t, poetry.Matches("lib/pyproject.toml"))
	assert.False(t, poetry.Matches("other.toml"))

	assert.True(t, nodejs.Matches("package.json"))
	assert.True(t, nodejs.Matches("web/package.json"))
	assert.False(t, nodejs.Matches("package-lock.json"))
}

func TestParseAll(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "requirements.txt", "flask==2.0.1\n")
	writeManifest(t, root, "web/package.json", `{"dependencies": {"react": "^18.0.0"}}`)

	results := ParseAll(root, []string{"requirements.txt", "web/package.json", "src/main.py"}, nil)

	// The canonical keys are always present.
	require.Contains(t, results, "requirements.txt")
	require.Contains(t, results, "pyproject.toml")
	require.Contains(t, results, "package.json")

	assert.Len(t, results["requirements.txt"].Records, 1)
	assert.Empty(t, results["pyproject.toml"].Records)
	assert.Empty(t, results["package.json"].Records)

	require.Contains(t, results, "web/package.json")
	assert.Len(t, results["web/package.json"].Records, 1)
}
