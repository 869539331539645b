// Package registry holds the fixed list of native extension modules the
// build produces and the identifier-to-path transforms derived from it.
package registry

import (
	"fmt"
	"strings"
)

// DefaultPackage is the top-level package the default modules live in.
const DefaultPackage = "spacy"

// defaultModules is the ordered list of Cython modules shipped by spaCy.
var defaultModules = []string{
	"spacy._align",
	"spacy.parts_of_speech",
	"spacy.strings",
	"spacy.lexeme",
	"spacy.vocab",
	"spacy.attrs",
	"spacy.kb",
	"spacy.morphology",
	"spacy.pipeline.pipes",
	"spacy.pipeline.morphologizer",
	"spacy.syntax.stateclass",
	"spacy.syntax._state",
	"spacy.tokenizer",
	"spacy.syntax.nn_parser",
	"spacy.syntax._parser_model",
	"spacy.syntax._beam_utils",
	"spacy.syntax.nonproj",
	"spacy.syntax.transition_system",
	"spacy.syntax.arc_eager",
	"spacy.gold",
	"spacy.tokens.doc",
	"spacy.tokens.span",
	"spacy.tokens.token",
	"spacy.tokens.morphanalysis",
	"spacy.tokens._retokenize",
	"spacy.matcher.matcher",
	"spacy.matcher.phrasematcher",
	"spacy.matcher.dependencymatcher",
	"spacy.syntax.ner",
	"spacy.symbols",
	"spacy.vectors",
}

// Registry is an ordered, immutable collection of module descriptors.
type Registry struct {
	modules []ModuleDescriptor
}

// Default returns the built-in module registry.
func Default() *Registry {
	return New(defaultModules...)
}

// New creates a registry from dotted module identifiers. Blank entries are
// dropped; order is preserved.
func New(ids ...string) *Registry {
	modules := make([]ModuleDescriptor, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		modules = append(modules, ModuleDescriptor{ID: id})
	}
	return &Registry{modules: modules}
}

// Modules returns a copy of the registered descriptors.
func (r *Registry) Modules() []ModuleDescriptor {
	return append([]ModuleDescriptor{}, r.modules...)
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	return len(r.modules)
}

// Lookup finds a module by identifier.
func (r *Registry) Lookup(id string) (ModuleDescriptor, bool) {
	for _, m := range r.modules {
		if m.ID == id {
			return m, true
		}
	}
	return ModuleDescriptor{}, false
}

// Validate checks that every identifier is well formed and that no two
// modules share a generated source path.
func (r *Registry) Validate() error {
	seen := make(map[string]string, len(r.modules))
	for _, m := range r.modules {
		if err := validateID(m.ID); err != nil {
			return err
		}
		path := m.SourcePath()
		if other, ok := seen[path]; ok {
			return fmt.Errorf("modules %q and %q both map to %s", other, m.ID, path)
		}
		seen[path] = m.ID
	}
	return nil
}

func validateID(id string) error {
	if strings.ContainsAny(id, `/\ `) {
		return fmt.Errorf("invalid module identifier %q: must be a dotted name", id)
	}
	for _, part := range strings.Split(id, ".") {
		if part == "" {
			return fmt.Errorf("invalid module identifier %q: empty path segment", id)
		}
	}
	return nil
}
