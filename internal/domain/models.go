package domain

// FileEntry describes a single walked file. Attributes are derived on demand
// during a traversal and never cached across calls.
type FileEntry struct {
	Path     string `json:"path"` // relative to the repository root, "/"-separated
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type,omitempty"`
	Binary   bool   `json:"binary,omitempty"`
	Language string `json:"language,omitempty"`
}

// LanguageStat holds accumulated counts for one language bucket.
// Percentage is only meaningful after aggregation completes.
type LanguageStat struct {
	Files      int     `json:"files"`
	Bytes      int64   `json:"bytes"`
	Percentage float64 `json:"percentage"`
}

// DependencyKind classifies how a dependency is sourced.
type DependencyKind string

const (
	KindRegistry DependencyKind = "registry"
	KindVCS      DependencyKind = "vcs"
	KindURL      DependencyKind = "url"
	KindPath     DependencyKind = "path"
	KindUnknown  DependencyKind = "unknown"
)

// DependencyRecord is the normalized shape of one declared dependency.
// For unknown kinds Raw retains the offending manifest line or section.
type DependencyRecord struct {
	Name              string         `json:"name"`
	VersionConstraint string         `json:"version_constraint"`
	Extras            []string       `json:"extras,omitempty"`
	Kind              DependencyKind `json:"kind"`
	Optional          bool           `json:"optional"`
	Dev               bool           `json:"dev"`
	Markers           string         `json:"markers,omitempty"`
	URL               string         `json:"url,omitempty"`
	Raw               string         `json:"raw,omitempty"`
}

// ManifestResult is the per-file parse outcome. A completely unreadable file
// yields an empty record list; per-entry failures become unknown-kind records.
type ManifestResult struct {
	Manifest string             `json:"manifest"`
	Records  []DependencyRecord `json:"records"`
}

// FileSize pairs a relative path with its byte size.
type FileSize struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// RepoStats summarizes a whole-repository scan.
type RepoStats struct {
	TotalFiles      int            `json:"total_files"`
	TotalSize       int64          `json:"total_size"`
	BinaryCount     int            `json:"binary_count"`
	FileTypes       map[string]int `json:"file_types"`
	LargestFiles    []FileSize     `json:"largest_files"`
	AverageFileSize float64        `json:"average_file_size"`
	BinaryRatio     float64        `json:"binary_ratio"`
}

// RepoInfo is a read-only snapshot of Git metadata for a repository.
// Only Name is populated when the directory is not a Git repository.
type RepoInfo struct {
	Name          string   `json:"name"`
	DefaultBranch string   `json:"default_branch,omitempty"`
	HeadCommit    string   `json:"head_commit,omitempty"`
	Remotes       []string `json:"remotes,omitempty"`
	Bare          bool     `json:"is_bare,omitempty"`
}
