package toolchain

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	rubyext "github.com/contriboss/ruby-extension-go"
)

// Toolchain is the compiler that will actually run, as opposed to the one
// configuration nominally asked for.
type Toolchain struct {
	Kind string // KindMSVC, KindMinGW or KindUnix
	Path string // resolved executable
}

func (t Toolchain) String() string {
	return fmt.Sprintf("%s (%s)", t.Kind, t.Path)
}

// candidateCompilers are tried in order when nothing is configured.
var candidateCompilers = []string{"c++", "g++", "clang++", "cl"}

// RequiredTools describes the compiler requirement for tool checks.
func RequiredTools() []rubyext.ToolRequirement {
	return []rubyext.ToolRequirement{
		{
			Name:         candidateCompilers[0],
			Alternatives: candidateCompilers[1:],
			Purpose:      "C++ compiler for native extensions",
		},
	}
}

// Detect resolves the compiler to use. preferred comes from configuration
// and wins when set; otherwise CXX, then CC, then the first candidate found
// in PATH.
func Detect(preferred string) (Toolchain, error) {
	for _, name := range []string{preferred, os.Getenv("CXX"), os.Getenv("CC")} {
		name = compilerName(name)
		if name == "" {
			continue
		}
		path, err := exec.LookPath(name)
		if err != nil {
			return Toolchain{}, fmt.Errorf("compiler %q not found: %w", name, err)
		}
		return Toolchain{Kind: KindOf(path), Path: path}, nil
	}

	if err := rubyext.CheckRequiredTools(RequiredTools()); err != nil {
		return Toolchain{}, err
	}
	for _, name := range candidateCompilers {
		if path, err := exec.LookPath(name); err == nil {
			return Toolchain{Kind: KindOf(path), Path: path}, nil
		}
	}
	return Toolchain{}, fmt.Errorf("no C++ compiler found in PATH")
}

// KindOf classifies a compiler executable by name.
func KindOf(compiler string) string {
	base := strings.ToLower(filepath.Base(compiler))
	base = strings.TrimSuffix(base, ".exe")

	switch {
	case base == "cl":
		return KindMSVC
	case strings.Contains(base, "mingw32"):
		return KindMinGW
	default:
		return KindUnix
	}
}

var compilerWrappers = map[string]bool{"ccache": true, "sccache": true, "distcc": true}

// compilerName extracts the compiler from values like CXX="ccache g++ -m64".
// Wrappers and arguments are dropped.
func compilerName(s string) string {
	fields := strings.Fields(s)
	for i, field := range fields {
		if compilerWrappers[filepath.Base(field)] && i+1 < len(fields) {
			continue
		}
		return field
	}
	return ""
}
