package extensions

import (
	"os"
	"path/filepath"

	"github.com/contriboss/extbuild/internal/registry"
	rubyext "github.com/contriboss/ruby-extension-go"
)

// ModuleStatus describes what is on disk for one module.
type ModuleStatus struct {
	Module    registry.ModuleDescriptor
	HasSource bool
	Binary    string // relative path of the built module, empty if none
}

// Built reports whether a compiled module exists.
func (s ModuleStatus) Built() bool {
	return s.Binary != ""
}

// Inspect reports the source and binary state of each module under root.
func Inspect(root string, modules []registry.ModuleDescriptor) []ModuleStatus {
	statuses := make([]ModuleStatus, 0, len(modules))
	for _, m := range modules {
		status := ModuleStatus{Module: m}
		if _, err := os.Stat(filepath.Join(root, m.SourcePath())); err == nil {
			status.HasSource = true
		}
		status.Binary = findBinary(root, m)
		statuses = append(statuses, status)
	}
	return statuses
}

// NeedsBuild reports whether any module lacks a compiled binary.
func NeedsBuild(root string, modules []registry.ModuleDescriptor) bool {
	for _, status := range Inspect(root, modules) {
		if !status.Built() {
			return true
		}
	}
	return false
}

func findBinary(root string, m registry.ModuleDescriptor) string {
	for _, ext := range []string{registry.BinaryExt, registry.WindowsBinaryExt} {
		rel := m.BinaryPath(ext)
		info, err := os.Stat(filepath.Join(root, rel))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if rubyext.MatchesExtension(rel, registry.BinaryExt, registry.WindowsBinaryExt) {
			return rel
		}
	}
	return ""
}
