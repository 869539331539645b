// Package toolchain identifies the native compiler in use and maps it to the
// compile and link flags every extension module is built with.
package toolchain

import "github.com/contriboss/extbuild/internal/logger"

// Toolchain kinds. Detection reports one of the first three; KindDefault is
// the profile every unrecognised kind falls back to.
const (
	KindMSVC    = "msvc"
	KindMinGW   = "mingw32"
	KindUnix    = "unix"
	KindDefault = "other"
)

// Profile is the resolved flag set for a toolchain.
type Profile struct {
	// Kind is the key the flags were taken from.
	Kind string
	// Requested is the toolchain kind that was asked for.
	Requested   string
	CompileArgs []string
	LinkArgs    []string
}

// IsDefault reports whether the profile came from the fallback entry.
func (p Profile) IsDefault() bool {
	return p.Kind == KindDefault
}

func (p Profile) clone() Profile {
	p.CompileArgs = append([]string{}, p.CompileArgs...)
	p.LinkArgs = append([]string{}, p.LinkArgs...)
	return p
}

var compileOptions = map[string][]string{
	KindMSVC:    {"/Ox", "/EHsc"},
	KindMinGW:   {"-O2", "-Wno-strict-prototypes", "-Wno-unused-function"},
	KindDefault: {"-O2", "-Wno-strict-prototypes", "-Wno-unused-function"},
}

var linkOptions = map[string][]string{
	KindMSVC:    {},
	KindMinGW:   {},
	KindDefault: {},
}

// OptionTable maps toolchain kinds to profiles. It is built once per run,
// with platform adjustments already applied, and only read afterwards.
type OptionTable struct {
	profiles map[string]Profile
}

// DefaultTable returns the option table without platform adjustments.
func DefaultTable() *OptionTable {
	t := &OptionTable{profiles: make(map[string]Profile, len(compileOptions))}
	for kind, compile := range compileOptions {
		t.profiles[kind] = Profile{
			Kind:        kind,
			CompileArgs: append([]string{}, compile...),
			LinkArgs:    append([]string{}, linkOptions[kind]...),
		}
	}
	return t
}

// NewOptionTable returns the option table adjusted for the given platform.
func NewOptionTable(plat Platform) *OptionTable {
	t := DefaultTable()
	for kind, p := range t.profiles {
		t.profiles[kind] = ApplyPlatformAdjustment(p, plat)
	}
	return t
}

// Resolve returns the profile for kind, or the default profile when kind
// has no entry of its own. It never fails.
func (t *OptionTable) Resolve(kind string) Profile {
	p, ok := t.profiles[kind]
	if !ok {
		logger.Debug("no toolchain profile, using default", "kind", kind, "default", KindDefault)
		p = t.profiles[KindDefault]
	}
	p = p.clone()
	p.Requested = kind
	return p
}

// Resolve looks kind up in the unadjusted default table.
func Resolve(kind string) Profile {
	return DefaultTable().Resolve(kind)
}
