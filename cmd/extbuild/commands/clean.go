package commands

import (
	"flag"
	"fmt"

	"github.com/contriboss/extbuild/internal/artifacts"
	"github.com/contriboss/extbuild/internal/config"
	"github.com/contriboss/extbuild/internal/lifecycle"
	"github.com/contriboss/extbuild/internal/logger"
)

// RunClean implements the extbuild clean command
func RunClean(args []string, cfg *config.Config) error {
	fs := flag.NewFlagSet("clean", flag.ContinueOnError)
	root := fs.String("root", "", "Project root directory")
	manifest := fs.String("manifest", "", "Release manifest path")
	dryRun := fs.Bool("dry-run", false, "Print what would be removed without actually removing")
	verbose := fs.Bool("v", false, "Enable verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger.SetupLogger(*verbose)

	rootDir, err := resolveRoot(*root, cfg)
	if err != nil {
		return err
	}
	manifestPath := resolveManifest(*manifest, cfg, rootDir)
	reg := config.Registry(cfg)

	if *dryRun || *verbose {
		present := existingArtifacts(rootDir, reg.Modules(), manifestPath)
		if len(present) == 0 {
			fmt.Println("✨ Nothing to clean")
			return nil
		}
		fmt.Printf("Artifacts to remove:\n")
		for _, path := range present {
			fmt.Printf("  * %s\n", path)
		}
		if *dryRun {
			stats, err := artifacts.CollectStats(rootDir, reg.Modules())
			if err != nil {
				return err
			}
			fmt.Printf("\n[dry-run] Would remove %d file(s), %s of build output\n", len(present), artifacts.HumanBytes(stats.TotalSize))
			return nil
		}
	}

	removed, err := lifecycle.Clean(rootDir, reg, manifestPath)
	if err != nil {
		return err
	}

	fmt.Printf("✨ Removed %d artifact(s)\n", removed)
	return nil
}
