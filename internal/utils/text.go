package utils

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeUTF8 returns content as a string when it is valid UTF-8 text.
// A leading BOM is stripped. NUL bytes mark the content as non-text.
func DecodeUTF8(content []byte) (string, bool) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if bytes.IndexByte(content, 0) >= 0 {
		return "", false
	}
	if !utf8.Valid(content) {
		return "", false
	}
	return string(content), true
}

// DecodeText decodes content as UTF-8, falling back to a Latin-1 transcode
// for legacy files. Content containing NUL bytes is rejected.
func DecodeText(content []byte) (string, bool) {
	if s, ok := DecodeUTF8(content); ok {
		return s, true
	}
	if bytes.IndexByte(content, 0) >= 0 {
		return "", false
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(content)
	if err != nil {
		return "", false
	}
	return string(decoded), true
}
