package toolchain

import (
	"reflect"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		kind        string
		wantKind    string
		wantCompile []string
	}{
		{KindMSVC, KindMSVC, []string{"/Ox", "/EHsc"}},
		{KindMinGW, KindMinGW, []string{"-O2", "-Wno-strict-prototypes", "-Wno-unused-function"}},
		{KindDefault, KindDefault, []string{"-O2", "-Wno-strict-prototypes", "-Wno-unused-function"}},
		{KindUnix, KindDefault, []string{"-O2", "-Wno-strict-prototypes", "-Wno-unused-function"}},
		{"bcpp", KindDefault, []string{"-O2", "-Wno-strict-prototypes", "-Wno-unused-function"}},
		{"", KindDefault, []string{"-O2", "-Wno-strict-prototypes", "-Wno-unused-function"}},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			p := Resolve(tt.kind)
			if p.Kind != tt.wantKind {
				t.Errorf("Resolve(%q).Kind = %q, want %q", tt.kind, p.Kind, tt.wantKind)
			}
			if p.Requested != tt.kind {
				t.Errorf("Resolve(%q).Requested = %q", tt.kind, p.Requested)
			}
			if !reflect.DeepEqual(p.CompileArgs, tt.wantCompile) {
				t.Errorf("Resolve(%q).CompileArgs = %v, want %v", tt.kind, p.CompileArgs, tt.wantCompile)
			}
			if p.LinkArgs == nil {
				t.Errorf("Resolve(%q).LinkArgs should be empty, not nil", tt.kind)
			}
		})
	}
}

func TestResolveUnknownIsDefault(t *testing.T) {
	p := Resolve("definitely-not-a-compiler")
	if !p.IsDefault() {
		t.Fatalf("unknown kinds should resolve to the default profile, got %q", p.Kind)
	}
	if len(p.CompileArgs) == 0 {
		t.Error("default profile should carry compile flags")
	}
}

func TestResolveReturnsCopies(t *testing.T) {
	table := DefaultTable()
	p := table.Resolve(KindDefault)
	p.CompileArgs[0] = "-O0"
	p.LinkArgs = append(p.LinkArgs, "-lfoo")

	again := table.Resolve(KindDefault)
	if again.CompileArgs[0] != "-O2" {
		t.Errorf("table was mutated through a resolved profile: %v", again.CompileArgs)
	}
	if len(again.LinkArgs) != 0 {
		t.Errorf("table link args were mutated: %v", again.LinkArgs)
	}
}

func TestNewOptionTable(t *testing.T) {
	table := NewOptionTable(Platform{OS: "darwin", Version: "10.12"})

	other := table.Resolve(KindUnix)
	if !contains(other.CompileArgs, LibCxxCompileFlag) {
		t.Errorf("default profile on new macOS should pin libc++: %v", other.CompileArgs)
	}

	msvc := table.Resolve(KindMSVC)
	if contains(msvc.CompileArgs, LibCxxCompileFlag) {
		t.Errorf("msvc profile must not be adjusted: %v", msvc.CompileArgs)
	}
}

func contains(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}
