package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/contriboss/extbuild/internal/config"
	"github.com/contriboss/extbuild/internal/extensions"
	"github.com/contriboss/extbuild/internal/registry"
	"github.com/contriboss/extbuild/internal/toolchain"
)

// RunFlags implements the extbuild flags command
// It prints the options every module would be compiled with.
func RunFlags(args []string, cfg *config.Config) error {
	fs := flag.NewFlagSet("flags", flag.ContinueOnError)
	compiler := fs.String("compiler", cfg.Compiler, "Preferred C++ compiler")
	kind := fs.String("kind", "", "Show the profile for this toolchain kind instead of detecting")
	goos := fs.String("os", "", "Override the target OS")
	osVersion := fs.String("os-version", "", "Override the OS version (macOS deployment target)")
	module := fs.String("module", "", "Module to show the link flags for")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	plat := toolchain.DetectPlatform(ctx)
	if *goos != "" {
		plat = toolchain.Platform{OS: *goos, Version: *osVersion}
	} else if *osVersion != "" {
		plat.Version = *osVersion
	}

	tc := toolchain.Toolchain{Kind: *kind}
	if tc.Kind == "" {
		detected, err := toolchain.Detect(*compiler)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v; showing the default profile\n", err)
			tc.Kind = toolchain.KindDefault
		} else {
			tc = detected
		}
	}

	reg := config.Registry(cfg)
	id := *module
	if id == "" && reg.Len() > 0 {
		id = reg.Modules()[0].ID
	}
	m, ok := reg.Lookup(id)
	if !ok {
		return fmt.Errorf("unknown module %q", id)
	}

	units := extensions.NewUnits([]registry.ModuleDescriptor{m}, nil, config.DefaultPackage(cfg), plat)
	extensions.ApplyOptions(toolchain.NewOptionTable(plat))(tc, units[0])

	displayFlags(os.Stdout, tc, plat, units[0])
	return nil
}

func displayFlags(w io.Writer, tc toolchain.Toolchain, plat toolchain.Platform, u *extensions.Unit) {
	profile := toolchain.NewOptionTable(plat).Resolve(tc.Kind)

	fmt.Fprintln(w, headerStyle.Render("Toolchain options"))
	fmt.Fprintf(w, "  %s %s\n", dimStyle.Render("platform:"), plat.String())
	fmt.Fprintf(w, "  %s %s", dimStyle.Render("toolchain:"), tc.Kind)
	if tc.Path != "" {
		fmt.Fprintf(w, " (%s)", tc.Path)
	}
	fmt.Fprintln(w)
	if profile.Kind != tc.Kind {
		fmt.Fprintf(w, "  %s\n", warnStyle.Render(fmt.Sprintf("no profile for %q, using %q", tc.Kind, profile.Kind)))
	}

	fmt.Fprintf(w, "\n%s\n", nameStyle.Render(u.Name()))
	fmt.Fprintf(w, "  compile: %s\n", joinArgs(u.ExtraCompileArgs))
	fmt.Fprintf(w, "  link:    %s\n", joinArgs(u.ExtraLinkArgs))
}

func joinArgs(args []string) string {
	if len(args) == 0 {
		return dimStyle.Render("(none)")
	}
	return strings.Join(args, " ")
}
