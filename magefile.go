//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

var binary = filepath.Join("bin", "extbuild")

// Build compiles the extbuild binary into ./bin/extbuild.
func Build() error {
	fmt.Println("🔨 Building extbuild…")

	if err := os.MkdirAll("bin", 0o755); err != nil {
		return fmt.Errorf("failed to create bin directory: %w", err)
	}
	return sh.RunV("go", "build", "-ldflags", buildLdflags(), "-o", binary, "./cmd/extbuild")
}

// Test runs the Go test suite.
func Test() error {
	fmt.Println("🧪 Running tests…")
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet on all packages.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Clean removes the built binary.
func Clean() error {
	fmt.Println("🧹 Cleaning build artifacts…")
	return sh.Rm("bin")
}

// Smoke builds a one-module fixture with the host compiler, checks the
// module state, then cleans it and verifies nothing is left behind.
func Smoke() error {
	mg.Deps(Build)
	fmt.Println("💨 Running fixture build…")

	dir, err := os.MkdirTemp("", "extbuild-smoke-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	if err := writeFixture(dir); err != nil {
		return err
	}

	bin, err := filepath.Abs(binary)
	if err != nil {
		return err
	}
	env := map[string]string{"EXTBUILD_CONFIG": filepath.Join(dir, "extbuild.toml")}

	if err := sh.RunWithV(env, bin, "build", "-root", dir, "-v"); err != nil {
		return fmt.Errorf("fixture build failed: %w", err)
	}
	if err := sh.RunWithV(env, bin, "modules", "-root", dir); err != nil {
		return err
	}
	if err := sh.RunWithV(env, bin, "clean", "-root", dir); err != nil {
		return fmt.Errorf("fixture clean failed: %w", err)
	}

	leftovers, err := filepath.Glob(filepath.Join(dir, "demo", "hello.*"))
	if err != nil {
		return err
	}
	if len(leftovers) > 0 {
		return fmt.Errorf("clean left artifacts behind: %s", strings.Join(leftovers, ", "))
	}

	fmt.Println("✅ Fixture built and cleaned")
	return nil
}

// writeFixture lays out a source release, so no generator is needed, with
// one C++ module and a config pointing the build at it.
func writeFixture(dir string) error {
	cfg := fmt.Sprintf("package = %q\nname = %q\npython_include = %q\nmodules = [\"demo.hello\"]\n",
		"demo", "demo-smoke", filepath.Join(dir, "python"))

	files := map[string]string{
		"PKG-INFO":         "Name: demo\n",
		"demo/__init__.py": "",
		"demo/about.py":    "__title__ = 'demo'\n__version__ = '0.0.1'\n",
		"demo/hello.cpp":   "extern \"C\" int hello() { return 42; }\n",
		"include/.keep":    "",
		"python/.keep":     "",
		"extbuild.toml":    cfg,
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write fixture %s: %w", name, err)
		}
	}
	return nil
}

// CI runs vet, tests and the fixture build.
func CI() error {
	mg.SerialDeps(Vet, Test, Smoke)
	fmt.Println("All CI checks passed!")
	return nil
}

func buildLdflags() string {
	version := buildVersion()
	commit, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil || commit == "" {
		commit = "unknown"
	}
	timestamp := time.Now().UTC().Format(time.RFC3339)

	return fmt.Sprintf("-s -w -X main.version=%s -X main.buildCommit=%s -X main.buildTime=%s", version, commit, timestamp)
}

func buildVersion() string {
	data, err := os.ReadFile("VERSION")
	if err == nil {
		if v := strings.TrimSpace(string(data)); v != "" {
			return v
		}
	}
	return "dev"
}
