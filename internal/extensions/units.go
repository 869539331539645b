package extensions

import (
	"strings"

	"github.com/contriboss/extbuild/internal/registry"
	"github.com/contriboss/extbuild/internal/toolchain"
)

// Unit is one compilation unit: a module, its sources and the flags it is
// compiled and linked with. Extra args start out with the per-module
// settings and receive the toolchain flags from the OptionsHook.
type Unit struct {
	Module           registry.ModuleDescriptor
	Sources          []string // relative to the root
	Language         string
	IncludeDirs      []string
	ExtraCompileArgs []string
	ExtraLinkArgs    []string

	// Set once the unit has been built
	Object string
	Output string
}

// Name returns the dotted module identifier.
func (u *Unit) Name() string {
	return u.Module.ID
}

// darwinLibDir is where bundled shared libraries live inside the package.
const darwinLibDir = "platform/darwin/lib"

// LoaderRPath returns the loader-relative search path for a module nested
// Depth() levels below the root. A module at depth 0 yields an empty parent
// segment ("@loader_path//pkg/..."); that form is kept as is.
func LoaderRPath(m registry.ModuleDescriptor, pkg string) string {
	parents := make([]string, m.Depth())
	for i := range parents {
		parents[i] = ".."
	}
	return "@loader_path/" + strings.Join(parents, "/") + "/" + pkg + "/" + darwinLibDir
}

// RPathLinkArg wraps LoaderRPath as a linker flag.
func RPathLinkArg(m registry.ModuleDescriptor, pkg string) string {
	return "-Wl,-rpath," + LoaderRPath(m, pkg)
}

// NewUnits creates one unit per module. On macOS each unit links with an
// rpath pointing back at the package's bundled libraries.
func NewUnits(modules []registry.ModuleDescriptor, includeDirs []string, pkg string, plat toolchain.Platform) []*Unit {
	units := make([]*Unit, 0, len(modules))
	for _, m := range modules {
		var linkArgs []string
		if plat.IsDarwin() {
			linkArgs = append(linkArgs, RPathLinkArg(m, pkg))
		}
		units = append(units, &Unit{
			Module:        m,
			Sources:       []string{m.SourcePath()},
			Language:      "c++",
			IncludeDirs:   append([]string{}, includeDirs...),
			ExtraLinkArgs: linkArgs,
		})
	}
	return units
}

// OptionsHook applies toolchain options to a unit. The builder calls it
// after the toolchain has been detected and immediately before the unit is
// compiled.
type OptionsHook func(tc toolchain.Toolchain, u *Unit)

// ApplyOptions returns the hook that appends the profile resolved for the
// detected toolchain to each unit.
func ApplyOptions(table *toolchain.OptionTable) OptionsHook {
	return func(tc toolchain.Toolchain, u *Unit) {
		profile := table.Resolve(tc.Kind)
		u.ExtraCompileArgs = append(u.ExtraCompileArgs, profile.CompileArgs...)
		u.ExtraLinkArgs = append(u.ExtraLinkArgs, profile.LinkArgs...)
	}
}
