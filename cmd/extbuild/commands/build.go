package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/contriboss/extbuild/internal/config"
	"github.com/contriboss/extbuild/internal/lifecycle"
	"github.com/contriboss/extbuild/internal/logger"
	"github.com/contriboss/extbuild/internal/packaging"
)

// RunBuild implements the extbuild build command
func RunBuild(args []string, cfg *config.Config) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	root := fs.String("root", "", "Project root directory")
	pkg := fs.String("package", config.DefaultPackage(cfg), "Package holding the extension modules")
	python := fs.String("python", "", "Interpreter running the source generator")
	compiler := fs.String("compiler", cfg.Compiler, "Preferred C++ compiler")
	manifest := fs.String("manifest", "", "Release manifest path")
	skipCompile := fs.Bool("skip-compile", config.ShouldSkipCompile(), "Resolve options without compiling")
	verbose := fs.Bool("v", false, "Enable verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger.SetupLogger(*verbose)

	rootDir, err := resolveRoot(*root, cfg)
	if err != nil {
		return err
	}
	interpreter := *python
	if interpreter == "" {
		interpreter = config.DefaultPython(cfg)
	}
	manifestPath := resolveManifest(*manifest, cfg, rootDir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fmt.Printf("🔨 Building %s extensions in %s\n", *pkg, rootDir)
	start := time.Now()

	result, err := lifecycle.Build(ctx, lifecycle.Options{
		Root:          rootDir,
		Package:       *pkg,
		Name:          config.DefaultDist(cfg),
		Python:        interpreter,
		PythonInclude: cfg.PythonInclude,
		Compiler:      *compiler,
		Registry:      config.Registry(cfg),
		Packager:      &packaging.ManifestPackager{Path: manifestPath},
		SkipCompile:   *skipCompile,
		Verbose:       *verbose,
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
	})
	if err != nil {
		return err
	}

	printBuildSummary(os.Stdout, result, manifestPath, time.Since(start))
	return nil
}

func printBuildSummary(w io.Writer, result *lifecycle.Result, manifestPath string, elapsed time.Duration) {
	bctx := result.Context

	fmt.Fprintf(w, "\n%s %s\n", headerStyle.Render(bctx.Package), dimStyle.Render("v"+bctx.Version))
	fmt.Fprintf(w, "  %s %s (%s)\n", dimStyle.Render("toolchain:"), bctx.Toolchain.Kind, bctx.Toolchain.Path)
	fmt.Fprintf(w, "  %s %s\n", dimStyle.Render("platform: "), bctx.Platform.String())
	if bctx.Interpreter.Name != "" {
		fmt.Fprintf(w, "  %s %s\n", dimStyle.Render("python:   "), bctx.Interpreter.String())
	}
	fmt.Fprintf(w, "  %s %s\n", dimStyle.Render("includes: "), strings.Join(bctx.IncludeDirs, ", "))

	if bctx.SourceRelease {
		fmt.Fprintln(w, "  📦 source release, generation skipped")
	}

	if result.Build != nil && result.Build.Skipped {
		fmt.Fprintf(w, "⏭️  Compilation skipped for %d module(s)\n", len(result.Build.Units))
	} else if result.Build != nil {
		fmt.Fprintf(w, "✅ Built %d extension(s) in %s\n", len(result.Build.Extensions), elapsed.Round(time.Millisecond))
	}

	rel, err := filepath.Rel(bctx.Root, manifestPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = manifestPath
	}
	fmt.Fprintf(w, "📝 Release manifest: %s\n", rel)
}
