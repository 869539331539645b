package lifecycle

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/contriboss/extbuild/internal/interpreter"
)

// resolveInterpreter identifies the interpreter unless its header directory
// was configured explicitly, in which case it is not run at all.
func resolveInterpreter(ctx context.Context, python, configuredInclude string) (interpreter.Engine, error) {
	if configuredInclude != "" {
		return interpreter.Engine{Include: configuredInclude}, nil
	}

	engine, err := interpreter.Detect(ctx, python)
	if err != nil {
		return interpreter.Engine{}, err
	}
	if !engine.SupportsNativeExtensions() {
		return interpreter.Engine{}, fmt.Errorf("%s cannot load native extensions", engine)
	}
	return engine, nil
}

// IncludeDirs lists the header search path for every unit: the interpreter
// headers, the project's include dir, and include/msvc9 for the legacy
// MSVC 9 compiler.
func IncludeDirs(root, pythonInclude string, legacyMSVC bool) []string {
	dirs := []string{pythonInclude, filepath.Join(root, "include")}
	if legacyMSVC {
		dirs = append(dirs, filepath.Join(root, "include", "msvc9"))
	}
	return dirs
}
