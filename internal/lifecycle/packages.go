package lifecycle

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const packageMarker = "__init__.py"

// DiscoverPackages returns the dotted names of every package under root. A
// directory is a package when it holds __init__.py and its parent is the
// root or itself a package.
func DiscoverPackages(root string) ([]string, error) {
	var packages []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || path == root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if _, err := os.Stat(filepath.Join(path, packageMarker)); err != nil {
			return filepath.SkipDir
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		packages = append(packages, strings.ReplaceAll(filepath.ToSlash(rel), "/", "."))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(packages)
	return packages, nil
}
