package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/quantmind-br/gitparse-go/internal/config"
)

// ResultKey derives a cache key for one operation against one repository
// root under one extraction configuration. Any change to the filters or the
// size limit changes the key, so stale filtered views are never served.
func ResultKey(root, operation string, cfg config.ExtractionConfig) string {
	fingerprint := strings.Join([]string{
		root,
		operation,
		fmt.Sprintf("max=%d", cfg.MaxFileSize),
		"exclude=" + strings.Join(cfg.ExcludePatterns, ","),
		"include=" + strings.Join(cfg.IncludePatterns, ","),
	}, "|")

	hash := sha256.Sum256([]byte(fingerprint))
	return operation + ":" + hex.EncodeToString(hash[:])
}
