// Package artifacts measures the files a build leaves in the tree.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/contriboss/extbuild/internal/registry"
)

// Stats represents artifact statistics
type Stats struct {
	Files     int
	TotalSize int64
}

// CollectStats sums the artifact files of modules present under root.
func CollectStats(root string, modules []registry.ModuleDescriptor) (Stats, error) {
	var stats Stats

	for _, m := range modules {
		for _, rel := range m.ArtifactPaths() {
			info, err := os.Stat(filepath.Join(root, rel))
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return stats, err
			}
			if !info.Mode().IsRegular() {
				continue
			}
			stats.Files++
			stats.TotalSize += info.Size()
		}
	}

	return stats, nil
}

// HumanBytes converts bytes to human-readable format (KiB, MiB, GiB, etc)
func HumanBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
