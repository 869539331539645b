// Package generator regenerates C++ sources from the package's Cython files
// before native compilation.
package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/contriboss/extbuild/internal/logger"
)

// SourceReleaseMarker marks a tree that already ships generated sources.
const SourceReleaseMarker = "PKG-INFO"

// Entrypoint is the generator script, relative to the root.
var Entrypoint = filepath.Join("bin", "cythonize.py")

// Options configures one generation run.
type Options struct {
	Root        string // project root
	Package     string // package directory name passed to the script
	Interpreter string // interpreter running the script
	Stdout      io.Writer
	Stderr      io.Writer
}

// Error reports a failed generation step.
type Error struct {
	Command  string
	ExitCode int
	Err      error
}

func (e *Error) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("running cythonize failed (exit status %d): %s", e.ExitCode, e.Command)
	}
	return fmt.Sprintf("running cythonize failed: %s: %v", e.Command, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsSourceRelease reports whether root is a prepared source distribution,
// in which case generation is skipped.
func IsSourceRelease(root string) bool {
	_, err := os.Stat(filepath.Join(root, SourceReleaseMarker))
	return err == nil
}

// Generate runs the generator for the package. It always runs; staleness
// is left to the script. A non-zero exit is returned as *Error.
func Generate(ctx context.Context, opts Options) error {
	interpreter := opts.Interpreter
	if interpreter == "" {
		interpreter = "python3"
	}

	args := []string{filepath.Join(opts.Root, Entrypoint), opts.Package}
	cmd := exec.CommandContext(ctx, interpreter, args...)
	cmd.Dir = opts.Root
	cmd.Env = os.Environ()
	cmd.Stdout = writerOr(opts.Stdout, os.Stdout)
	cmd.Stderr = writerOr(opts.Stderr, os.Stderr)

	command := interpreter + " " + strings.Join(args, " ")
	logger.Debug("running generator", "command", command, "dir", opts.Root)

	if err := cmd.Run(); err != nil {
		genErr := &Error{Command: command, Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			genErr.ExitCode = exitErr.ExitCode()
		}
		return genErr
	}
	return nil
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}
