package toolchain

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Platform identifies the host OS family and, on macOS, its version.
type Platform struct {
	OS      string // runtime.GOOS value
	Version string // e.g. "10.12"; empty when unknown
}

// IsDarwin reports whether the platform is in the macOS family.
func (p Platform) IsDarwin() bool {
	return p.OS == "darwin"
}

func (p Platform) String() string {
	if p.Version == "" {
		return p.OS
	}
	return p.OS + "-" + p.Version
}

// Flags pinning libc++ on macOS. Apple's toolchain switched its default C++
// standard library at 10.10 and extensions must match the interpreter.
const (
	LibCxxCompileFlag = "-stdlib=libc++"
	LibCxxLinkFlag    = "-lc++"
	NoDefaultLibsFlag = "-nodefaultlibs"
)

// MinLibCxxVersion is the first macOS version that gets the libc++ flags.
const MinLibCxxVersion = "10.10"

var libCxxConstraint = mustConstraint(">= " + MinLibCxxVersion)

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

// NeedsLibCxx reports whether the platform requires the libc++ flags.
func NeedsLibCxx(plat Platform) bool {
	if !plat.IsDarwin() || plat.Version == "" {
		return false
	}
	v, err := semver.NewVersion(plat.Version)
	if err != nil {
		return false
	}
	return libCxxConstraint.Check(v)
}

// ApplyPlatformAdjustment returns p with the platform-specific flags added.
// Only the default (gcc/clang style) profile is adjusted. The input is not
// modified and applying the adjustment twice yields the same flags.
func ApplyPlatformAdjustment(p Profile, plat Platform) Profile {
	p = p.clone()
	if p.Kind != KindDefault || !NeedsLibCxx(plat) {
		return p
	}
	p.CompileArgs = appendMissing(p.CompileArgs, LibCxxCompileFlag)
	p.LinkArgs = appendMissing(p.LinkArgs, LibCxxLinkFlag, NoDefaultLibsFlag)
	return p
}

func appendMissing(args []string, flags ...string) []string {
	for _, flag := range flags {
		if !slices.Contains(args, flag) {
			args = append(args, flag)
		}
	}
	return args
}

// DetectPlatform inspects the host. On macOS the version follows the
// distutils convention: MACOSX_DEPLOYMENT_TARGET first, then sw_vers.
func DetectPlatform(ctx context.Context) Platform {
	return detectPlatform(ctx, runtime.GOOS)
}

func detectPlatform(ctx context.Context, goos string) Platform {
	plat := Platform{OS: goos}
	if !plat.IsDarwin() {
		return plat
	}

	if target := strings.TrimSpace(os.Getenv("MACOSX_DEPLOYMENT_TARGET")); target != "" {
		plat.Version = target
		return plat
	}

	output, err := exec.CommandContext(ctx, "sw_vers", "-productVersion").Output()
	if err == nil {
		plat.Version = strings.TrimSpace(string(output))
	}
	return plat
}
