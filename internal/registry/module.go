package registry

import (
	"path/filepath"
	"strings"
)

// Artifact extensions produced for every module. The generator writes the
// source, header and annotation files; the native toolchain writes the
// intermediate object and the loadable binary.
const (
	SourceExt        = ".cpp"
	CSourceExt       = ".c"
	HeaderExt        = ".h"
	AnnotationExt    = ".html"
	ObjectExt        = ".o"
	MSVCObjectExt    = ".obj"
	BinaryExt        = ".so"
	WindowsBinaryExt = ".pyd"
)

// ArtifactExtensions lists every extension Clean removes, in removal order.
var ArtifactExtensions = []string{
	BinaryExt,
	WindowsBinaryExt,
	ObjectExt,
	MSVCObjectExt,
	AnnotationExt,
	SourceExt,
	CSourceExt,
	HeaderExt,
}

// ModuleDescriptor names one compiled extension by its dotted identifier,
// e.g. "spacy.tokens.doc".
type ModuleDescriptor struct {
	ID string
}

// Stem returns the identifier as a relative path without extension
// ("spacy/tokens/doc" on Unix).
func (m ModuleDescriptor) Stem() string {
	return filepath.FromSlash(strings.ReplaceAll(m.ID, ".", "/"))
}

// SourcePath returns the generated C++ source path relative to the root.
func (m ModuleDescriptor) SourcePath() string {
	return m.Stem() + SourceExt
}

// ObjectPath returns the intermediate object path for the given object
// extension (ObjectExt or MSVCObjectExt).
func (m ModuleDescriptor) ObjectPath(ext string) string {
	return m.Stem() + ext
}

// BinaryPath returns the loadable module path for the given binary
// extension (BinaryExt or WindowsBinaryExt).
func (m ModuleDescriptor) BinaryPath(ext string) string {
	return m.Stem() + ext
}

// ArtifactPaths returns every path Clean may remove for this module,
// relative to the root.
func (m ModuleDescriptor) ArtifactPaths() []string {
	stem := m.Stem()
	paths := make([]string, 0, len(ArtifactExtensions))
	for _, ext := range ArtifactExtensions {
		paths = append(paths, stem+ext)
	}
	return paths
}

// Depth returns how many package levels the module is nested below the
// root, i.e. the number of separators in its identifier.
func (m ModuleDescriptor) Depth() int {
	return strings.Count(m.ID, ".")
}

// Package returns the top-level package of the module ("spacy").
func (m ModuleDescriptor) Package() string {
	if i := strings.IndexByte(m.ID, '.'); i >= 0 {
		return m.ID[:i]
	}
	return m.ID
}

func (m ModuleDescriptor) String() string {
	return m.ID
}

// FromSourcePath reverses SourcePath. It accepts any artifact extension
// and returns false when the path carries none of them.
func FromSourcePath(path string) (ModuleDescriptor, bool) {
	ext := filepath.Ext(path)
	known := false
	for _, candidate := range ArtifactExtensions {
		if ext == candidate {
			known = true
			break
		}
	}
	if !known {
		return ModuleDescriptor{}, false
	}

	stem := filepath.ToSlash(strings.TrimSuffix(path, ext))
	if stem == "" {
		return ModuleDescriptor{}, false
	}
	return ModuleDescriptor{ID: strings.ReplaceAll(stem, "/", ".")}, true
}
