package toolchain

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		compiler string
		want     string
	}{
		{"cl", KindMSVC},
		{"CL.EXE", KindMSVC},
		{`C:\VC\bin\cl.exe`, KindMSVC},
		{"x86_64-w64-mingw32-g++", KindMinGW},
		{"/usr/bin/c++", KindUnix},
		{"clang++", KindUnix},
		{"g++-13", KindUnix},
	}

	for _, tt := range tests {
		t.Run(tt.compiler, func(t *testing.T) {
			if got := KindOf(tt.compiler); got != tt.want {
				t.Errorf("KindOf(%q) = %q, want %q", tt.compiler, got, tt.want)
			}
		})
	}
}

func TestCompilerName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"g++", "g++"},
		{"ccache g++", "g++"},
		{"g++ -m64", "g++"},
		{"ccache", "ccache"},
	}

	for _, tt := range tests {
		if got := compilerName(tt.in); got != tt.want {
			t.Errorf("compilerName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDetectPreferred(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as compiler")
	}

	dir := t.TempDir()
	compiler := filepath.Join(dir, "fake-c++")
	if err := os.WriteFile(compiler, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatal(err)
	}

	tc, err := Detect(compiler)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if tc.Path != compiler {
		t.Errorf("Path = %q, want %q", tc.Path, compiler)
	}
	if tc.Kind != KindUnix {
		t.Errorf("Kind = %q, want %q", tc.Kind, KindUnix)
	}
}

func TestDetectFromEnv(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as compiler")
	}

	dir := t.TempDir()
	compiler := filepath.Join(dir, "x86_64-w64-mingw32-g++")
	if err := os.WriteFile(compiler, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CXX", compiler)

	tc, err := Detect("")
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if tc.Kind != KindMinGW {
		t.Errorf("Kind = %q, want %q", tc.Kind, KindMinGW)
	}
}

func TestDetectMissingPreferred(t *testing.T) {
	if _, err := Detect(filepath.Join(t.TempDir(), "no-such-compiler")); err == nil {
		t.Error("Detect() should fail for a missing compiler")
	}
}

func TestParseMSVCBanner(t *testing.T) {
	tests := []struct {
		banner  string
		want    float64
		wantErr bool
	}{
		{"Microsoft (R) 32-bit C/C++ Optimizing Compiler Version 15.00.30729.01 for 80x86", 9, false},
		{"Microsoft (R) C/C++ Optimizing Compiler Version 16.00.40219.01 for x64", 10, false},
		{"Microsoft (R) C/C++ Optimizing Compiler Version 19.29.30133 for x64", 14.2, false},
		{"gcc (GCC) 13.2.0", 0, true},
	}

	for _, tt := range tests {
		got, err := parseMSVCBanner(tt.banner)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseMSVCBanner(%q) error = %v, wantErr %v", tt.banner, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && (got < tt.want-0.001 || got > tt.want+0.001) {
			t.Errorf("parseMSVCBanner(%q) = %v, want %v", tt.banner, got, tt.want)
		}
	}
}
