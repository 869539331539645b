// Package packaging hands compiled extensions to the packaging step.
package packaging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/contriboss/extbuild/internal/extensions"
	"github.com/contriboss/extbuild/internal/logger"
	"gopkg.in/yaml.v3"
)

// Release describes what the build produced.
type Release struct {
	Name     string
	Version  string
	Packages []string
	Units    []*extensions.Unit
	Hook     extensions.OptionsHook // already applied to Units
}

// Packager turns a finished build into an installable unit.
type Packager interface {
	Package(ctx context.Context, rel Release) error
}

// ManifestPackager records the release as a YAML manifest instead of
// producing an archive.
type ManifestPackager struct {
	Path string
}

// Manifest is the on-disk form written by ManifestPackager.
type Manifest struct {
	Name       string          `yaml:"name"`
	Version    string          `yaml:"version"`
	Packages   []string        `yaml:"packages,omitempty"`
	Extensions []ExtensionInfo `yaml:"extensions"`
}

type ExtensionInfo struct {
	Name        string   `yaml:"name"`
	Language    string   `yaml:"language,omitempty"`
	Sources     []string `yaml:"sources"`
	IncludeDirs []string `yaml:"include_dirs,omitempty"`
	CompileArgs []string `yaml:"extra_compile_args,omitempty"`
	LinkArgs    []string `yaml:"extra_link_args,omitempty"`
	Output      string   `yaml:"output,omitempty"`
}

// NewManifest converts a release to its manifest form.
func NewManifest(rel Release) Manifest {
	m := Manifest{
		Name:       rel.Name,
		Version:    rel.Version,
		Packages:   rel.Packages,
		Extensions: make([]ExtensionInfo, 0, len(rel.Units)),
	}
	for _, u := range rel.Units {
		m.Extensions = append(m.Extensions, ExtensionInfo{
			Name:        u.Name(),
			Language:    u.Language,
			Sources:     u.Sources,
			IncludeDirs: u.IncludeDirs,
			CompileArgs: u.ExtraCompileArgs,
			LinkArgs:    u.ExtraLinkArgs,
			Output:      filepath.ToSlash(u.Output),
		})
	}
	return m
}

// Package writes the manifest for rel.
func (p *ManifestPackager) Package(ctx context.Context, rel Release) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rel.Name == "" {
		return fmt.Errorf("release has no name")
	}

	data, err := yaml.Marshal(NewManifest(rel))
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(p.Path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}
	if err := os.WriteFile(p.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	logger.Debug("wrote release manifest", "path", p.Path, "extensions", len(rel.Units))
	return nil
}

// ReadManifest loads a manifest written by ManifestPackager.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return &m, nil
}
