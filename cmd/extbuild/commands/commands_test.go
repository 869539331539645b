package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/contriboss/extbuild/internal/config"
	"github.com/contriboss/extbuild/internal/extensions"
	"github.com/contriboss/extbuild/internal/registry"
	"github.com/contriboss/extbuild/internal/toolchain"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
}

func sampleStatuses(t *testing.T) (string, []extensions.ModuleStatus) {
	t.Helper()
	root := t.TempDir()
	touch(t, filepath.Join(root, "spacy", "strings.cpp"))
	touch(t, filepath.Join(root, "spacy", "strings.so"))
	touch(t, filepath.Join(root, "spacy", "tokens", "doc.cpp"))

	reg := registry.New("spacy.strings", "spacy.tokens.doc", "spacy.vocab")
	return root, extensions.Inspect(root, reg.Modules())
}

func TestModuleState(t *testing.T) {
	_, statuses := sampleStatuses(t)

	want := []string{"built", "generated", "missing"}
	for i, s := range statuses {
		if got := moduleState(s); got != want[i] {
			t.Errorf("moduleState(%s) = %q, want %q", s.Module.ID, got, want[i])
		}
	}
}

func TestDisplayModules(t *testing.T) {
	_, statuses := sampleStatuses(t)

	var out strings.Builder
	displayModules(&out, statuses)

	for _, want := range []string{"spacy.tokens.doc", "1 of 3 built"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestFilterModules(t *testing.T) {
	_, statuses := sampleStatuses(t)

	tests := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"tokens", 1},
		{"SPACY", 3},
		{"lexeme", 0},
	}
	for _, tt := range tests {
		if got := filterModules(statuses, tt.query); len(got) != tt.want {
			t.Errorf("filterModules(%q) returned %d, want %d", tt.query, len(got), tt.want)
		}
	}
}

func TestBrowseModelKeys(t *testing.T) {
	_, statuses := sampleStatuses(t)
	m := initialModel(statuses, "spacy")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = updated.(model)
	if m.message != "@loader_path/../spacy/platform/darwin/lib" {
		t.Errorf("rpath message = %q", m.message)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("i")})
	m = updated.(model)
	if !strings.Contains(m.message, "built") {
		t.Errorf("info message = %q", m.message)
	}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = updated.(model)
	if !m.quitting || cmd == nil {
		t.Error("q should quit")
	}
	if m.View() != "" {
		t.Error("quitting model should render nothing")
	}
}

func TestBrowseApplyFilter(t *testing.T) {
	_, statuses := sampleStatuses(t)
	m := initialModel(statuses, "spacy")

	m.applyFilter("vocab")
	if len(m.list.Items()) != 1 {
		t.Fatalf("expected 1 item, got %d", len(m.list.Items()))
	}
	if !strings.Contains(m.list.Title, "vocab") {
		t.Errorf("title should mention the filter: %q", m.list.Title)
	}

	m.applyFilter("")
	if len(m.list.Items()) != 3 || m.list.Title != browseTitle {
		t.Errorf("clearing the filter should restore all modules")
	}
}

func TestExistingArtifacts(t *testing.T) {
	root, _ := sampleStatuses(t)
	manifest := filepath.Join(root, "release.yaml")
	touch(t, manifest)

	reg := registry.New("spacy.strings", "spacy.vocab")
	got := existingArtifacts(root, reg.Modules(), manifest)

	want := []string{
		filepath.FromSlash("spacy/strings.so"),
		filepath.FromSlash("spacy/strings.cpp"),
		manifest,
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("existingArtifacts() = %v, want %v", got, want)
	}
}

func TestRunCleanDryRun(t *testing.T) {
	root, _ := sampleStatuses(t)
	cfg := &config.Config{Modules: []string{"spacy.strings"}}

	if err := RunClean([]string{"-root", root, "-dry-run"}, cfg); err != nil {
		t.Fatalf("RunClean() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "spacy", "strings.so")); err != nil {
		t.Error("dry run must not remove files")
	}

	if err := RunClean([]string{"-root", root}, cfg); err != nil {
		t.Fatalf("RunClean() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "spacy", "strings.so")); !os.IsNotExist(err) {
		t.Error("clean should remove built modules")
	}
	if _, err := os.Stat(filepath.Join(root, "spacy", "tokens", "doc.cpp")); err != nil {
		t.Error("clean must only touch registered modules")
	}
}

func TestResolveManifest(t *testing.T) {
	t.Setenv("EXTBUILD_MANIFEST", "")
	root := filepath.FromSlash("/src/proj")

	tests := []struct {
		flag string
		cfg  *config.Config
		want string
	}{
		{"", &config.Config{}, filepath.Join(root, config.DefaultManifestName)},
		{"out.yaml", &config.Config{}, filepath.Join(root, "out.yaml")},
		{"", &config.Config{Manifest: "dist/m.yaml"}, filepath.Join(root, "dist", "m.yaml")},
	}
	for _, tt := range tests {
		if got := resolveManifest(tt.flag, tt.cfg, root); got != tt.want {
			t.Errorf("resolveManifest(%q) = %q, want %q", tt.flag, got, tt.want)
		}
	}
}

func TestDisplayFlags(t *testing.T) {
	plat := toolchain.Platform{OS: "darwin", Version: "10.12"}
	tc := toolchain.Toolchain{Kind: toolchain.KindUnix, Path: "/usr/bin/c++"}
	u := extensions.NewUnits(registry.New("spacy.tokens.doc").Modules(), nil, "spacy", plat)[0]
	extensions.ApplyOptions(toolchain.NewOptionTable(plat))(tc, u)

	var out strings.Builder
	displayFlags(&out, tc, plat, u)

	for _, want := range []string{
		"-stdlib=libc++",
		"-nodefaultlibs",
		"@loader_path/../../spacy/platform/darwin/lib",
		`no profile for "unix"`,
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("flags output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunFlagsUnknownModule(t *testing.T) {
	cfg := &config.Config{}
	err := RunFlags([]string{"-kind", "msvc", "-os", "windows", "-module", "spacy.nope"}, cfg)
	if err == nil || !strings.Contains(err.Error(), "unknown module") {
		t.Fatalf("expected unknown module error, got %v", err)
	}
}
