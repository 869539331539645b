package toolchain

import (
	"context"
	"reflect"
	"testing"
)

func TestApplyPlatformAdjustment(t *testing.T) {
	base := []string{"-O2", "-Wno-strict-prototypes", "-Wno-unused-function"}

	tests := []struct {
		name        string
		plat        Platform
		kind        string
		wantCompile []string
		wantLink    []string
	}{
		{
			name:        "macOS 10.9 is unchanged",
			plat:        Platform{OS: "darwin", Version: "10.9"},
			kind:        KindDefault,
			wantCompile: base,
			wantLink:    []string{},
		},
		{
			name:        "macOS 10.12 pins libc++",
			plat:        Platform{OS: "darwin", Version: "10.12"},
			kind:        KindDefault,
			wantCompile: append(append([]string{}, base...), LibCxxCompileFlag),
			wantLink:    []string{LibCxxLinkFlag, NoDefaultLibsFlag},
		},
		{
			name:        "macOS threshold is inclusive",
			plat:        Platform{OS: "darwin", Version: MinLibCxxVersion},
			kind:        KindDefault,
			wantCompile: append(append([]string{}, base...), LibCxxCompileFlag),
			wantLink:    []string{LibCxxLinkFlag, NoDefaultLibsFlag},
		},
		{
			name:        "macOS 14 pins libc++",
			plat:        Platform{OS: "darwin", Version: "14.2.1"},
			kind:        KindDefault,
			wantCompile: append(append([]string{}, base...), LibCxxCompileFlag),
			wantLink:    []string{LibCxxLinkFlag, NoDefaultLibsFlag},
		},
		{
			name:        "linux is unchanged",
			plat:        Platform{OS: "linux", Version: "10.12"},
			kind:        KindDefault,
			wantCompile: base,
			wantLink:    []string{},
		},
		{
			name:        "unknown macOS version is unchanged",
			plat:        Platform{OS: "darwin"},
			kind:        KindDefault,
			wantCompile: base,
			wantLink:    []string{},
		},
		{
			name:        "garbage macOS version is unchanged",
			plat:        Platform{OS: "darwin", Version: "sonoma"},
			kind:        KindDefault,
			wantCompile: base,
			wantLink:    []string{},
		},
		{
			name:        "mingw profile is unchanged",
			plat:        Platform{OS: "darwin", Version: "10.12"},
			kind:        KindMinGW,
			wantCompile: base,
			wantLink:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyPlatformAdjustment(DefaultTable().Resolve(tt.kind), tt.plat)
			if !reflect.DeepEqual(got.CompileArgs, tt.wantCompile) {
				t.Errorf("CompileArgs = %v, want %v", got.CompileArgs, tt.wantCompile)
			}
			if !reflect.DeepEqual(got.LinkArgs, tt.wantLink) {
				t.Errorf("LinkArgs = %v, want %v", got.LinkArgs, tt.wantLink)
			}
		})
	}
}

func TestApplyPlatformAdjustmentIdempotent(t *testing.T) {
	plat := Platform{OS: "darwin", Version: "10.12"}
	once := ApplyPlatformAdjustment(Resolve(KindDefault), plat)
	twice := ApplyPlatformAdjustment(once, plat)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("adjustment is not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestApplyPlatformAdjustmentIsPure(t *testing.T) {
	p := Resolve(KindDefault)
	before := append([]string{}, p.CompileArgs...)
	_ = ApplyPlatformAdjustment(p, Platform{OS: "darwin", Version: "10.12"})

	if !reflect.DeepEqual(p.CompileArgs, before) {
		t.Errorf("input profile was modified: %v", p.CompileArgs)
	}
}

func TestDetectPlatform(t *testing.T) {
	ctx := context.Background()

	t.Run("deployment target wins on darwin", func(t *testing.T) {
		t.Setenv("MACOSX_DEPLOYMENT_TARGET", "10.12")
		plat := detectPlatform(ctx, "darwin")
		if plat.Version != "10.12" {
			t.Errorf("Version = %q, want 10.12", plat.Version)
		}
		if plat.String() != "darwin-10.12" {
			t.Errorf("String() = %q", plat.String())
		}
	})

	t.Run("linux has no version", func(t *testing.T) {
		t.Setenv("MACOSX_DEPLOYMENT_TARGET", "10.12")
		plat := detectPlatform(ctx, "linux")
		if plat.Version != "" || plat.IsDarwin() {
			t.Errorf("unexpected platform %+v", plat)
		}
	})
}
