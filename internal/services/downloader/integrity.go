package downloader

import (
	"fmt"
	"os"

	"github.com/vodtools/streamreup/internal/utils"
)

// sizeTolerance is the allowed deviation from the expected file size before
// a file is considered incomplete.
const sizeTolerance = 0.05

// VerifyFileIntegrity checks that an existing file looks like a complete
// download: non-empty, within tolerance of the expected size when one is
// known, and readable. expectedSize <= 0 skips the size comparison.
func VerifyFileIntegrity(path string, expectedSize int64) error {
	stat, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	if stat.Size() == 0 {
		return fmt.Errorf("file %s is empty", path)
	}

	if expectedSize > 0 {
		diff := stat.Size() - expectedSize
		if diff < 0 {
			diff = -diff
		}
		if float64(diff) > float64(expectedSize)*sizeTolerance {
			return fmt.Errorf("file size mismatch for %s: expected %d, got %d", path, expectedSize, stat.Size())
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("file %s appears corrupted: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			utils.LogWarning("Failed to close file: %v", err)
		}
	}()

	// Read the first 1KB to check the file is readable at all.
	buf := make([]byte, 1024)
	if _, err := f.Read(buf); err != nil {
		return fmt.Errorf("file %s appears corrupted: %w", path, err)
	}

	return nil
}
