package artifacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/contriboss/extbuild/internal/registry"
)

func TestCollectStats(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "pkg"), 0755); err != nil {
		t.Fatal(err)
	}
	for name, size := range map[string]int{"a.cpp": 100, "a.so": 2048, "a.pyx": 10} {
		if err := os.WriteFile(filepath.Join(root, "pkg", name), make([]byte, size), 0644); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := CollectStats(root, registry.New("pkg.a", "pkg.b").Modules())
	if err != nil {
		t.Fatalf("CollectStats() error = %v", err)
	}
	if stats.Files != 2 || stats.TotalSize != 2148 {
		t.Errorf("CollectStats() = %+v, want 2 files / 2148 bytes", stats)
	}
}

func TestCollectStatsEmptyTree(t *testing.T) {
	stats, err := CollectStats(t.TempDir(), registry.Default().Modules())
	if err != nil || stats.Files != 0 {
		t.Errorf("CollectStats() = %+v, %v", stats, err)
	}
}

func TestHumanBytes(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := HumanBytes(tt.size); got != tt.want {
			t.Errorf("HumanBytes(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}
