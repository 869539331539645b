package lifecycle

import (
	"fmt"
	"os"
	"path/filepath"
)

// PathEnv is the interpreter's module search path variable.
const PathEnv = "PYTHONPATH"

// Enter makes root the working directory and puts it first on the
// interpreter search path, so the generator and metadata lookups resolve
// against the project tree. The returned func restores both and must be
// called on every exit path.
func Enter(root string) (func() error, error) {
	prevDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	prevPath, hadPath := os.LookupEnv(PathEnv)

	if err := os.Chdir(root); err != nil {
		return nil, fmt.Errorf("failed to enter %s: %w", root, err)
	}

	searchPath := root
	if hadPath && prevPath != "" {
		searchPath = root + string(filepath.ListSeparator) + prevPath
	}
	if err := os.Setenv(PathEnv, searchPath); err != nil {
		_ = os.Chdir(prevDir)
		return nil, err
	}

	restore := func() error {
		if hadPath {
			_ = os.Setenv(PathEnv, prevPath)
		} else {
			_ = os.Unsetenv(PathEnv)
		}
		if err := os.Chdir(prevDir); err != nil {
			return fmt.Errorf("failed to restore working directory %s: %w", prevDir, err)
		}
		return nil
	}
	return restore, nil
}
