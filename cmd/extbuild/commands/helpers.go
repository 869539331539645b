package commands

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/contriboss/extbuild/internal/config"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

// resolveRoot returns the absolute project root, preferring the flag value.
func resolveRoot(flagValue string, cfg *config.Config) (string, error) {
	if flagValue == "" {
		return config.DefaultRoot(cfg)
	}
	abs, err := filepath.Abs(flagValue)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root %s: %w", flagValue, err)
	}
	return abs, nil
}

// resolveManifest returns the manifest path, preferring the flag value.
func resolveManifest(flagValue string, cfg *config.Config, root string) string {
	if flagValue == "" {
		return config.DefaultManifestPath(cfg, root)
	}
	if filepath.IsAbs(flagValue) {
		return flagValue
	}
	return filepath.Join(root, flagValue)
}
