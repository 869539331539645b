package lifecycle

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/contriboss/extbuild/internal/config"
	"github.com/contriboss/extbuild/internal/extensions"
	"github.com/contriboss/extbuild/internal/generator"
	"github.com/contriboss/extbuild/internal/interpreter"
	"github.com/contriboss/extbuild/internal/logger"
	"github.com/contriboss/extbuild/internal/packaging"
	"github.com/contriboss/extbuild/internal/registry"
	"github.com/contriboss/extbuild/internal/toolchain"
)

// Build stages, in the order they run.
const (
	StageWorkdir   = "workdir"
	StageRegistry  = "registry"
	StageMetadata  = "metadata"
	StageToolchain = "toolchain"
	StageInclude   = "include"
	StageGenerate  = "generate"
	StageCompile   = "compile"
	StagePackage   = "package"
)

// StageError names the build stage that failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageError(stage string, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// Options configures a build run.
type Options struct {
	Root          string
	Package       string
	Name          string // distribution name
	Python        string // interpreter for the generator and include lookup
	PythonInclude string // skips interpreter detection when set
	Compiler      string // preferred compiler, empty to detect
	Registry      *registry.Registry
	Packager      packaging.Packager // nil skips packaging

	// Platform overrides host detection
	Platform *toolchain.Platform

	SkipCompile bool
	Verbose     bool
	Stdout      io.Writer
	Stderr      io.Writer
}

// BuildContext is what a run derived from the tree and host before
// compiling. It is not modified after the include stage.
type BuildContext struct {
	Root          string
	Package       string
	Version       string
	Modules       []registry.ModuleDescriptor
	IncludeDirs   []string
	SourceRelease bool
	Toolchain     toolchain.Toolchain
	Platform      toolchain.Platform
	Interpreter   interpreter.Engine
}

// Result reports a finished build.
type Result struct {
	Context   BuildContext
	Generated bool
	Build     *extensions.BuildResult
	Packages  []string
}

// Build runs the whole pipeline inside root. The working directory and
// search path are restored whether or not the build succeeds.
func Build(ctx context.Context, opts Options) (result *Result, err error) {
	reg := opts.Registry
	if reg == nil {
		reg = registry.Default()
	}
	pkg := opts.Package
	if pkg == "" {
		pkg = registry.DefaultPackage
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, stageError(StageWorkdir, err)
	}

	restore, err := Enter(root)
	if err != nil {
		return nil, stageError(StageWorkdir, err)
	}
	defer func() {
		if rerr := restore(); rerr != nil && err == nil {
			err = stageError(StageWorkdir, rerr)
		}
	}()

	if err := reg.Validate(); err != nil {
		return nil, stageError(StageRegistry, err)
	}

	bctx := BuildContext{
		Root:          root,
		Package:       pkg,
		Modules:       reg.Modules(),
		SourceRelease: generator.IsSourceRelease(root),
	}
	result = &Result{Context: bctx}

	version, err := ReadVersion(config.MetadataPath(root, pkg))
	if err != nil {
		return result, stageError(StageMetadata, err)
	}
	bctx.Version = version
	logger.Info("building extensions", "package", pkg, "version", version, "modules", len(bctx.Modules))

	tc, err := toolchain.Detect(opts.Compiler)
	if err != nil {
		return result, stageError(StageToolchain, err)
	}
	bctx.Toolchain = tc
	if opts.Platform != nil {
		bctx.Platform = *opts.Platform
	} else {
		bctx.Platform = toolchain.DetectPlatform(ctx)
	}
	logger.Debug("detected toolchain", "toolchain", tc.String(), "platform", bctx.Platform.String())

	engine, err := resolveInterpreter(ctx, opts.Python, opts.PythonInclude)
	if err != nil {
		return result, stageError(StageInclude, err)
	}
	bctx.Interpreter = engine
	bctx.IncludeDirs = IncludeDirs(root, engine.Include, toolchain.IsLegacyMSVC(ctx, tc))
	result.Context = bctx

	if bctx.SourceRelease {
		logger.Info("source release detected, skipping generation", "marker", generator.SourceReleaseMarker)
	} else {
		fmt.Fprintf(stdout, "🔧 Generating sources for %s\n", pkg)
		genErr := generator.Generate(ctx, generator.Options{
			Root:        root,
			Package:     pkg,
			Interpreter: opts.Python,
			Stdout:      stdout,
			Stderr:      opts.Stderr,
		})
		if genErr != nil {
			return result, stageError(StageGenerate, genErr)
		}
		result.Generated = true
	}

	units := extensions.NewUnits(bctx.Modules, bctx.IncludeDirs, pkg, bctx.Platform)
	hook := extensions.ApplyOptions(toolchain.NewOptionTable(bctx.Platform))
	builder := extensions.NewBuilder(&extensions.BuildConfig{
		Root:        root,
		SkipCompile: opts.SkipCompile,
		Verbose:     opts.Verbose,
		Stdout:      stdout,
	}, tc, bctx.Platform)

	if !opts.SkipCompile {
		if err := builder.CheckTools(); err != nil {
			return result, stageError(StageCompile, err)
		}
	}

	buildResult, err := builder.Build(ctx, units, hook)
	result.Build = buildResult
	if err != nil {
		return result, stageError(StageCompile, err)
	}

	packages, err := DiscoverPackages(root)
	if err != nil {
		return result, stageError(StagePackage, err)
	}
	result.Packages = packages

	if opts.Packager != nil {
		name := opts.Name
		if name == "" {
			name = config.DefaultDistName
		}
		rel := packaging.Release{
			Name:     name,
			Version:  version,
			Packages: packages,
			Units:    units,
			Hook:     hook,
		}
		if err := opts.Packager.Package(ctx, rel); err != nil {
			return result, stageError(StagePackage, err)
		}
	}

	return result, nil
}
