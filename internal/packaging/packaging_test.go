package packaging

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/contriboss/extbuild/internal/extensions"
	"github.com/contriboss/extbuild/internal/registry"
	"github.com/contriboss/extbuild/internal/toolchain"
)

func TestManifestPackager(t *testing.T) {
	plat := toolchain.Platform{OS: "darwin", Version: "10.12"}
	units := extensions.NewUnits(registry.New("spacy.strings").Modules(), []string{"include"}, "spacy", plat)
	hook := extensions.ApplyOptions(toolchain.NewOptionTable(plat))
	hook(toolchain.Toolchain{Kind: toolchain.KindUnix}, units[0])
	units[0].Output = filepath.FromSlash("spacy/strings.so")

	path := filepath.Join(t.TempDir(), "out", "release.yaml")
	p := &ManifestPackager{Path: path}

	rel := Release{
		Name:     "spacyLambda",
		Version:  "1.2.3",
		Packages: []string{"spacy", "spacy.tokens"},
		Units:    units,
		Hook:     hook,
	}
	if err := p.Package(context.Background(), rel); err != nil {
		t.Fatalf("Package() error = %v", err)
	}

	m, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}
	if m.Name != "spacyLambda" || m.Version != "1.2.3" {
		t.Errorf("manifest header = %s %s", m.Name, m.Version)
	}
	if len(m.Extensions) != 1 {
		t.Fatalf("expected 1 extension, got %d", len(m.Extensions))
	}

	ext := m.Extensions[0]
	if ext.Output != "spacy/strings.so" {
		t.Errorf("Output = %q", ext.Output)
	}
	if !slices.Contains(ext.LinkArgs, toolchain.NoDefaultLibsFlag) {
		t.Errorf("link args should include hook flags: %v", ext.LinkArgs)
	}
	if !strings.HasPrefix(ext.LinkArgs[0], "-Wl,-rpath,@loader_path/../spacy") {
		t.Errorf("rpath should come first: %v", ext.LinkArgs)
	}
}

func TestManifestPackagerRequiresName(t *testing.T) {
	p := &ManifestPackager{Path: filepath.Join(t.TempDir(), "release.yaml")}
	if err := p.Package(context.Background(), Release{}); err == nil {
		t.Fatal("expected error for unnamed release")
	}
	if _, err := os.Stat(p.Path); !os.IsNotExist(err) {
		t.Error("no manifest should be written on error")
	}
}

func TestManifestPackagerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &ManifestPackager{Path: filepath.Join(t.TempDir(), "release.yaml")}
	if err := p.Package(ctx, Release{Name: "x"}); err == nil {
		t.Fatal("expected context error")
	}
}
