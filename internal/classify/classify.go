// Package classify determines MIME types and binary/text status for files
// using a layered heuristic: a static extension table, content sniffing, and
// a NUL-byte scan fallback.
package classify

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const sniffLen = 1024

// MIME types treated as text despite not carrying a text/ prefix.
var structuredTextTypes = map[string]bool{
	"application/json":   true,
	"application/xml":    true,
	"application/x-yaml": true,
}

// Extensions that are binary no matter what sniffing says. Checked first.
var alwaysBinaryExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".ico": true,
	".pdf": true, ".zip": true, ".gz": true, ".tar": true, ".rar": true,
	".7z": true, ".exe": true, ".dll": true, ".so": true, ".dylib": true,
	".pyc": true, ".class": true, ".jar": true, ".o": true, ".a": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
}

// Static extension to MIME table, tried before content sniffing.
var extensionMIME = map[string]string{
	".py":    "text/x-python",
	".pyi":   "text/x-python",
	".js":    "text/javascript",
	".jsx":   "text/javascript",
	".ts":    "text/typescript",
	".tsx":   "text/typescript",
	".java":  "text/x-java",
	".c":     "text/x-c",
	".h":     "text/x-c",
	".cpp":   "text/x-c++",
	".hpp":   "text/x-c++",
	".cc":    "text/x-c++",
	".cs":    "text/x-csharp",
	".go":    "text/x-go",
	".rb":    "text/x-ruby",
	".php":   "text/x-php",
	".rs":    "text/x-rust",
	".swift": "text/x-swift",
	".kt":    "text/x-kotlin",
	".scala": "text/x-scala",

	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".scss": "text/x-scss",
	".sass": "text/x-sass",
	".less": "text/x-less",
	".json": "application/json",
	".yaml": "application/x-yaml",
	".yml":  "application/x-yaml",
	".xml":  "application/xml",
	".svg":  "image/svg+xml",

	".md":       "text/markdown",
	".markdown": "text/markdown",
	".rst":      "text/x-rst",
	".adoc":     "text/asciidoc",
	".txt":      "text/plain",

	".toml":       "text/x-toml",
	".ini":        "text/x-ini",
	".cfg":        "text/x-ini",
	".conf":       "text/x-ini",
	".properties": "text/x-properties",

	".sh":   "text/x-shellscript",
	".bash": "text/x-bash",
	".zsh":  "text/x-shellscript",
	".fish": "text/x-shellscript",
	".ps1":  "text/x-powershell",

	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".ico":  "image/vnd.microsoft.icon",
	".pdf":  "application/pdf",
	".zip":  "application/zip",
	".gz":   "application/gzip",
	".tar":  "application/x-tar",
	".exe":  "application/vnd.microsoft.portable-executable",
	".so":   "application/x-sharedlib",
}

// IsBinaryMIME reports whether a MIME type denotes binary content: anything
// that is not text/ and not one of the structured-text allow list.
func IsBinaryMIME(mime string) bool {
	mime, _, _ = strings.Cut(mime, ";")
	mime = strings.TrimSpace(mime)
	if strings.HasPrefix(mime, "text/") {
		return false
	}
	return !structuredTextTypes[mime]
}

// Classify returns the MIME type and binary flag for a file.
// The layered heuristic is: extension blocklist, extension table, content
// sniffing, NUL-byte scan. Sniffing failures degrade to the byte scan; only a
// top-level read failure yields (application/octet-stream, true).
func Classify(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))

	if alwaysBinaryExts[ext] {
		mime, ok := extensionMIME[ext]
		if !ok {
			mime = "application/octet-stream"
		}
		return mime, true
	}

	if mime, ok := extensionMIME[ext]; ok {
		return mime, IsBinaryMIME(mime)
	}

	if mt, err := mimetype.DetectFile(path); err == nil {
		mime, _, _ := strings.Cut(mt.String(), ";")
		mime = strings.TrimSpace(mime)
		return mime, IsBinaryMIME(mime)
	}

	return scanBytes(path)
}

// IsBinary reports whether the file at path holds binary content.
func IsBinary(path string) bool {
	_, binary := Classify(path)
	return binary
}

func scanBytes(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "application/octet-stream", true
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return "application/octet-stream", true
	}

	for _, b := range buf[:n] {
		if b == 0 {
			return "application/octet-stream", true
		}
	}
	return "text/plain", false
}
