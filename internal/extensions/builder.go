// Package extensions compiles the registered modules into loadable native
// extensions with the detected toolchain.
package extensions

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/contriboss/extbuild/internal/logger"
	"github.com/contriboss/extbuild/internal/registry"
	"github.com/contriboss/extbuild/internal/toolchain"
	rubyext "github.com/contriboss/ruby-extension-go"
)

// BuildConfig controls a native build run.
type BuildConfig struct {
	Root        string // all unit paths are relative to it
	SkipCompile bool
	Verbose     bool
	Stdout      io.Writer // receives command echo in verbose mode
	Env         map[string]string
}

// Builder compiles units one after another with a single toolchain.
type Builder struct {
	config    *BuildConfig
	toolchain toolchain.Toolchain
	platform  toolchain.Platform
}

// NewBuilder creates a builder for the detected toolchain.
func NewBuilder(config *BuildConfig, tc toolchain.Toolchain, plat toolchain.Platform) *Builder {
	if config == nil {
		config = &BuildConfig{}
	}
	if config.Stdout == nil {
		config.Stdout = os.Stdout
	}

	return &Builder{
		config:    config,
		toolchain: tc,
		platform:  plat,
	}
}

// BuildResult represents the outcome of building all units
type BuildResult struct {
	Extensions []string // built binaries, relative to the root
	Units      []*Unit
	Success    bool
	Skipped    bool
	Error      error
}

// CompileError reports the module and step that failed along with the
// compiler's own output.
type CompileError struct {
	Module string
	Step   string // "compile" or "link"
	Output []string
	Err    error
}

func (e *CompileError) Error() string {
	return rubyext.BuildError(e.Step+" "+e.Module, e.Output, e.Err).Error()
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Build compiles and links every unit in order. hook runs right before each
// unit is compiled. The first failure stops the build; units after it are
// never started.
func (b *Builder) Build(ctx context.Context, units []*Unit, hook OptionsHook) (*BuildResult, error) {
	result := &BuildResult{Units: units}

	for _, u := range units {
		if hook != nil {
			hook(b.toolchain, u)
		}

		if b.config.SkipCompile {
			continue
		}

		if err := b.buildUnit(ctx, u); err != nil {
			result.Error = err
			return result, err
		}
		result.Extensions = append(result.Extensions, u.Output)
	}

	result.Skipped = b.config.SkipCompile
	result.Success = true
	return result, nil
}

func (b *Builder) buildUnit(ctx context.Context, u *Unit) error {
	for _, src := range u.Sources {
		if _, err := os.Stat(filepath.Join(b.config.Root, src)); err != nil {
			return &CompileError{
				Module: u.Name(),
				Step:   "compile",
				Err:    fmt.Errorf("generated source %s is missing: %w", src, err),
			}
		}
	}

	u.Object = u.Module.ObjectPath(b.objectExt())
	u.Output = u.Module.BinaryPath(b.binaryExt())

	logger.Debug("compiling extension", "module", u.Name(), "toolchain", b.toolchain.Kind)
	if err := b.run(ctx, u, "compile", b.compileCommand(u)); err != nil {
		return err
	}
	return b.run(ctx, u, "link", b.linkCommand(u))
}

func (b *Builder) run(ctx context.Context, u *Unit, step string, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = b.config.Root

	cmd.Env = os.Environ()
	for key, value := range b.config.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
	}

	if b.config.Verbose {
		fmt.Fprintf(b.config.Stdout, "Running: %s\n", strings.Join(argv, " "))
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return &CompileError{
			Module: u.Name(),
			Step:   step,
			Output: splitOutput(output),
			Err:    err,
		}
	}
	if b.config.Verbose && len(output) > 0 {
		_, _ = b.config.Stdout.Write(output)
	}
	return nil
}

func (b *Builder) objectExt() string {
	if b.toolchain.Kind == toolchain.KindMSVC {
		return registry.MSVCObjectExt
	}
	return registry.ObjectExt
}

func (b *Builder) binaryExt() string {
	if b.platform.OS == "windows" {
		return registry.WindowsBinaryExt
	}
	return registry.BinaryExt
}

// compileCommand builds the argv compiling the unit's sources to its object.
func (b *Builder) compileCommand(u *Unit) []string {
	cc := b.toolchain.Path

	if b.toolchain.Kind == toolchain.KindMSVC {
		argv := []string{cc, "/c", "/nologo"}
		for _, dir := range u.IncludeDirs {
			argv = append(argv, "/I"+dir)
		}
		argv = append(argv, "/Tp"+u.Sources[0], "/Fo"+u.Object)
		return append(argv, u.ExtraCompileArgs...)
	}

	argv := []string{cc}
	if b.toolchain.Kind != toolchain.KindMinGW {
		argv = append(argv, "-fPIC")
	}
	for _, dir := range u.IncludeDirs {
		argv = append(argv, "-I"+dir)
	}
	argv = append(argv, "-c", u.Sources[0], "-o", u.Object)
	return append(argv, u.ExtraCompileArgs...)
}

// linkCommand builds the argv linking the unit's object into a module.
func (b *Builder) linkCommand(u *Unit) []string {
	if b.toolchain.Kind == toolchain.KindMSVC {
		linker := filepath.Join(filepath.Dir(b.toolchain.Path), "link.exe")
		argv := []string{linker, "/DLL", "/nologo", u.Object, "/OUT:" + u.Output}
		return append(argv, u.ExtraLinkArgs...)
	}

	argv := []string{b.toolchain.Path}
	if b.platform.IsDarwin() {
		argv = append(argv, "-bundle", "-undefined", "dynamic_lookup")
	} else {
		argv = append(argv, "-shared")
	}
	argv = append(argv, u.Object, "-o", u.Output)
	return append(argv, u.ExtraLinkArgs...)
}

// CheckTools verifies the toolchain executables are still reachable.
func (b *Builder) CheckTools() error {
	reqs := []rubyext.ToolRequirement{
		{Name: b.toolchain.Path, Purpose: "C++ compiler for native extensions"},
	}
	if b.toolchain.Kind == toolchain.KindMSVC {
		reqs = append(reqs, rubyext.ToolRequirement{
			Name:         filepath.Join(filepath.Dir(b.toolchain.Path), "link.exe"),
			Alternatives: []string{"link"},
			Purpose:      "MSVC linker",
		})
	}
	return rubyext.CheckRequiredTools(reqs)
}

func splitOutput(output []byte) []string {
	text := strings.TrimRight(string(output), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
