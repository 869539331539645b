package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/contriboss/extbuild/cmd/extbuild/commands"
	"github.com/contriboss/extbuild/internal/lifecycle"
)

var (
	version     = "0.1.0"
	buildCommit = "unknown"
	buildTime   = "unknown"
)

func main() {
	args := os.Args[1:]

	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "--help", "-h", "help":
		printHelp()
	case "--version", "-V", "version":
		printVersion()
	case "modules":
		if err := commands.RunModules(args[1:], appConfig); err != nil {
			exitWithError(err)
		}
	case "flags":
		if err := commands.RunFlags(args[1:], appConfig); err != nil {
			exitWithError(err)
		}
	default:
		if err := runLifecycle(args); err != nil {
			exitWithError(err)
		}
	}
}

// runLifecycle dispatches clean or build. Any leading word other than
// "clean" is treated as a build request, so "extbuild build_ext" and
// "extbuild install" both build.
func runLifecycle(args []string) error {
	rest := args
	if len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
		rest = rest[1:]
	}

	if lifecycle.ParseMode(args) == lifecycle.ModeClean {
		return commands.RunClean(rest, appConfig)
	}
	return commands.RunBuild(rest, appConfig)
}

func printHelp() {
	fmt.Print(`extbuild

Usage: extbuild [COMMAND] [OPTIONS]

Options:
  -V, --version    Print version info and exit
  -h, --help       Print help

Commands:
    build         Generate sources and compile all extension modules (default)
    clean         Remove every generated and compiled artifact
    modules       List registered modules and their build state (-i to browse)
    flags         Show compiler and linker flags for the detected toolchain
    version       Print version info
    help          Show this help

Build options:
    -root DIR         Project root (default: $EXTBUILD_ROOT or current directory)
    -package NAME     Package holding the modules (default: spacy)
    -python PATH      Interpreter running the generator
    -compiler NAME    Preferred C++ compiler
    -manifest PATH    Release manifest location
    -skip-compile     Apply options without compiling
    -v                Verbose output

Configuration is read from $EXTBUILD_CONFIG (or $XDG_CONFIG_HOME/extbuild/config.toml)
and ./.extbuild.toml. Set EXTBUILD_LOG_LEVEL=debug for detailed logs.
`)
}

func printVersion() {
	fmt.Println(versionInfo())
	fmt.Println("Native extension build driver written in Go")
}

func versionInfo() string {
	hash := shortHash(buildCommit)
	return fmt.Sprintf("extbuild v%s (%s, built %s)", version, hash, buildTime)
}

func shortHash(commit string) string {
	if commit == "" || commit == "unknown" {
		return "unknown"
	}
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
