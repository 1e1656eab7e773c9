package stats

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/quantmind-br/gitparse-go/internal/classify"
	"github.com/quantmind-br/gitparse-go/internal/domain"
	"github.com/quantmind-br/gitparse-go/internal/utils"
)

const largestFilesLimit = 10

// Statistics computes whole-repository totals: file and byte counts, binary
// share, a per-extension histogram, and the ten largest files.
func Statistics(root string, files []string, logger *utils.Logger) *domain.RepoStats {
	if logger == nil {
		logger = utils.NewNopLogger()
	}

	result := &domain.RepoStats{
		FileTypes:    map[string]int{},
		LargestFiles: []domain.FileSize{},
	}

	for _, rel := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))

		info, err := os.Stat(abs)
		if err != nil {
			logger.Warn().Err(err).Str("path", rel).Msg("Skipping unstatable file")
			continue
		}

		result.TotalFiles++
		result.TotalSize += info.Size()

		if ext := strings.ToLower(filepath.Ext(rel)); ext != "" {
			result.FileTypes[ext]++
		}
		if classify.IsBinary(abs) {
			result.BinaryCount++
		}

		result.LargestFiles = append(result.LargestFiles, domain.FileSize{Path: rel, Size: info.Size()})
	}

	if result.TotalFiles > 0 {
		result.AverageFileSize = float64(result.TotalSize) / float64(result.TotalFiles)
		result.BinaryRatio = float64(result.BinaryCount) / float64(result.TotalFiles)
	}

	// Size descending, path ascending on ties, for reproducible output.
	sort.Slice(result.LargestFiles, func(i, j int) bool {
		a, b := result.LargestFiles[i], result.LargestFiles[j]
		if a.Size != b.Size {
			return a.Size > b.Size
		}
		return a.Path < b.Path
	})
	if len(result.LargestFiles) > largestFilesLimit {
		result.LargestFiles = result.LargestFiles[:largestFilesLimit]
	}

	return result
}
