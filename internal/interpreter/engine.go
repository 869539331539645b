// Package interpreter identifies the Python implementation that runs the
// source generator and supplies the headers extensions compile against.
package interpreter

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Engine represents a Python implementation
type Engine struct {
	Name    string // cpython, pypy, graalpy, jython, ironpython
	Version string // e.g. "3.12.4"
	Include string // platform header directory
}

// Engine name constants for common implementations
const (
	EngineCPython    = "cpython"
	EnginePyPy       = "pypy"
	EngineGraalPy    = "graalpy"
	EngineJython     = "jython"
	EngineIronPython = "ironpython"
)

// queryScript prints the implementation, version and header directory on
// separate lines.
const queryScript = `import platform, sys, sysconfig
print(platform.python_implementation())
print("%d.%d.%d" % sys.version_info[:3])
print(sysconfig.get_paths()["platinclude"])`

// Detect runs the interpreter once and reports what it is.
func Detect(ctx context.Context, python string) (Engine, error) {
	output, err := exec.CommandContext(ctx, python, "-c", queryScript).Output()
	if err != nil {
		return Engine{}, fmt.Errorf("failed to query interpreter %s: %w", python, err)
	}
	return parseQueryOutput(string(output))
}

func parseQueryOutput(output string) (Engine, error) {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) < 3 {
		return Engine{}, fmt.Errorf("unexpected interpreter output %q", output)
	}

	engine := Engine{
		Name:    normalizeEngineName(lines[0]),
		Version: strings.TrimSpace(lines[1]),
		Include: strings.TrimSpace(lines[2]),
	}
	if engine.Include == "" {
		return Engine{}, fmt.Errorf("interpreter reported no include directory")
	}
	return engine, nil
}

// normalizeEngineName normalizes implementation name variations
func normalizeEngineName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))

	switch {
	case name == "python" || name == "cpython":
		return EngineCPython
	case strings.HasPrefix(name, "pypy"):
		return EnginePyPy
	case strings.HasPrefix(name, "graalvm"), strings.HasPrefix(name, "graalpy"):
		return EngineGraalPy
	case strings.HasPrefix(name, "jython"):
		return EngineJython
	case strings.HasPrefix(name, "ironpython"):
		return EngineIronPython
	default:
		return name
	}
}

// SupportsNativeExtensions returns true if the engine can load compiled
// C/C++ extension modules
func (e Engine) SupportsNativeExtensions() bool {
	switch e.Name {
	case EngineCPython, EnginePyPy, EngineGraalPy:
		return true
	default:
		// JVM and CLR implementations have no C API
		return false
	}
}

// String returns a human-readable representation
func (e Engine) String() string {
	if e.Version != "" {
		return e.Name + " " + e.Version
	}
	return e.Name
}
