package lifecycle

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/contriboss/extbuild/internal/logger"
	"github.com/contriboss/extbuild/internal/registry"
)

// Clean removes every artifact of every registered module, plus the release
// manifest when manifestPath is set. Missing files are skipped; any other
// removal error stops the clean. It returns how many files were removed.
func Clean(root string, reg *registry.Registry, manifestPath string) (int, error) {
	var targets []string
	for _, m := range reg.Modules() {
		for _, rel := range m.ArtifactPaths() {
			targets = append(targets, filepath.Join(root, rel))
		}
	}
	if manifestPath != "" {
		targets = append(targets, manifestPath)
	}

	removed := 0
	for _, path := range targets {
		if err := os.Remove(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		logger.Debug("removed artifact", "path", path)
		removed++
	}
	return removed, nil
}
