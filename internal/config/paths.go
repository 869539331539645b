package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/contriboss/extbuild/internal/registry"
)

const (
	// DefaultDistName is the distribution name handed to the packager.
	DefaultDistName = "spacyLambda"

	// DefaultManifestName is the release manifest written next to the sources.
	DefaultManifestName = "extbuild-release.yaml"

	// MetadataFile holds the package version, relative to the package dir.
	MetadataFile = "about.py"
)

// Config represents the application configuration
type Config struct {
	Root          string   `toml:"root"`
	Package       string   `toml:"package"`
	Name          string   `toml:"name"`
	Python        string   `toml:"python"`
	PythonInclude string   `toml:"python_include"`
	Compiler      string   `toml:"compiler"`
	Manifest      string   `toml:"manifest"`
	Modules       []string `toml:"modules"`
}

// Merge overlays the non-empty fields of other onto c.
func (c *Config) Merge(other Config) {
	if other.Root != "" {
		c.Root = other.Root
	}
	if other.Package != "" {
		c.Package = other.Package
	}
	if other.Name != "" {
		c.Name = other.Name
	}
	if other.Python != "" {
		c.Python = other.Python
	}
	if other.PythonInclude != "" {
		c.PythonInclude = other.PythonInclude
	}
	if other.Compiler != "" {
		c.Compiler = other.Compiler
	}
	if other.Manifest != "" {
		c.Manifest = other.Manifest
	}
	if len(other.Modules) > 0 {
		c.Modules = append([]string{}, other.Modules...)
	}
}

// DefaultRoot returns the project root to build in.
// Priority: EXTBUILD_ROOT, config file, current directory.
func DefaultRoot(cfg *Config) (string, error) {
	root := os.Getenv("EXTBUILD_ROOT")
	if root == "" && cfg != nil {
		root = cfg.Root
	}
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to determine working directory: %w", err)
		}
		root = cwd
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root %s: %w", root, err)
	}
	return abs, nil
}

// DefaultPackage returns the package directory holding the modules.
func DefaultPackage(cfg *Config) string {
	if cfg != nil && cfg.Package != "" {
		return cfg.Package
	}
	return registry.DefaultPackage
}

// DefaultDist returns the distribution name.
func DefaultDist(cfg *Config) string {
	if cfg != nil && cfg.Name != "" {
		return cfg.Name
	}
	return DefaultDistName
}

// DefaultPython returns the interpreter used to run the generator.
// Priority: EXTBUILD_PYTHON, PYTHON, config file, python3/python in PATH.
func DefaultPython(cfg *Config) string {
	if env := os.Getenv("EXTBUILD_PYTHON"); env != "" {
		return env
	}
	if env := os.Getenv("PYTHON"); env != "" {
		return env
	}
	if cfg != nil && cfg.Python != "" {
		return cfg.Python
	}

	candidates := []string{"python3", "python"}
	if runtime.GOOS == "windows" {
		candidates = []string{"python", "py"}
	}
	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return candidates[0]
}

// DefaultManifestPath returns where the release manifest is written.
// Priority: EXTBUILD_MANIFEST, config file, root/extbuild-release.yaml.
// Relative values are taken from root so build and clean agree on the file
// whatever the working directory.
func DefaultManifestPath(cfg *Config, root string) string {
	path := os.Getenv("EXTBUILD_MANIFEST")
	if path == "" && cfg != nil {
		path = cfg.Manifest
	}
	if path == "" {
		return filepath.Join(root, DefaultManifestName)
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// MetadataPath returns the version declarations file for a package.
func MetadataPath(root, pkg string) string {
	return filepath.Join(root, pkg, MetadataFile)
}

// Registry returns the configured module registry, or the built-in one.
func Registry(cfg *Config) *registry.Registry {
	if cfg != nil && len(cfg.Modules) > 0 {
		return registry.New(cfg.Modules...)
	}
	return registry.Default()
}

// ShouldSkipCompile checks EXTBUILD_SKIP_COMPILE
func ShouldSkipCompile() bool {
	skip := os.Getenv("EXTBUILD_SKIP_COMPILE")
	switch strings.ToLower(skip) {
	case "1", "true", "yes":
		return true
	}
	return false
}
