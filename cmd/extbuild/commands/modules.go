package commands

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/contriboss/extbuild/internal/artifacts"
	"github.com/contriboss/extbuild/internal/config"
	"github.com/contriboss/extbuild/internal/extensions"
	"github.com/contriboss/extbuild/internal/registry"
	"github.com/mattn/go-isatty"
)

// RunModules implements the extbuild modules command
// With -i it opens the interactive browser when attached to a terminal.
func RunModules(args []string, cfg *config.Config) error {
	fs := flag.NewFlagSet("modules", flag.ContinueOnError)
	root := fs.String("root", "", "Project root directory")
	interactive := fs.Bool("i", false, "Browse modules interactively")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rootDir, err := resolveRoot(*root, cfg)
	if err != nil {
		return err
	}

	reg := config.Registry(cfg)
	if err := reg.Validate(); err != nil {
		return err
	}
	statuses := extensions.Inspect(rootDir, reg.Modules())

	if *interactive {
		if isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stdin.Fd()) {
			return RunBrowse(statuses, config.DefaultPackage(cfg))
		}
		fmt.Fprintln(os.Stderr, "warning: interactive mode requires a TTY; falling back to plain text output")
	}

	displayModules(os.Stdout, statuses)

	stats, err := artifacts.CollectStats(rootDir, reg.Modules())
	if err != nil {
		return err
	}
	fmt.Println(dimStyle.Render(fmt.Sprintf("%d artifact file(s), %s", stats.Files, artifacts.HumanBytes(stats.TotalSize))))
	if extensions.NeedsBuild(rootDir, reg.Modules()) {
		fmt.Println(warnStyle.Render("💡 Some modules are not built; run `extbuild build`"))
	}
	return nil
}

// moduleState summarizes what is on disk for a module.
func moduleState(s extensions.ModuleStatus) string {
	switch {
	case s.Built():
		return "built"
	case s.HasSource:
		return "generated"
	default:
		return "missing"
	}
}

func displayModules(w io.Writer, statuses []extensions.ModuleStatus) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Registered modules (%d)", len(statuses))))
	fmt.Fprintln(w)

	built := 0
	for _, s := range statuses {
		state := moduleState(s)
		var rendered string
		switch state {
		case "built":
			built++
			rendered = nameStyle.Render(state)
		case "generated":
			rendered = warnStyle.Render(state)
		default:
			rendered = errorStyle.Render(state)
		}
		fmt.Fprintf(w, "  %-28s %s  %s\n", s.Module.ID, dimStyle.Render(s.Module.SourcePath()), rendered)
	}

	fmt.Fprintf(w, "\n%d of %d built\n", built, len(statuses))
}

// existingArtifacts lists the artifact files currently present under root.
func existingArtifacts(root string, modules []registry.ModuleDescriptor, manifestPath string) []string {
	var present []string
	for _, m := range modules {
		for _, rel := range m.ArtifactPaths() {
			if _, err := os.Stat(filepath.Join(root, rel)); err == nil {
				present = append(present, rel)
			}
		}
	}
	if _, err := os.Stat(manifestPath); err == nil {
		present = append(present, manifestPath)
	}
	return present
}
