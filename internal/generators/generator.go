// Package generators turns one token document into the compiler's artifacts:
// the base stylesheet of custom properties, one stylesheet per supported
// slide framework and the utility-framework configuration module.
//
// Generators are pure. Given the same document they return byte-identical
// output, and they never touch the file system.
package generators

import (
	"fmt"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/prism/internal/tokens"
)

// Generator produces one artifact from a token document.
type Generator interface {
	// Name is the artifact name and the stem of its output file.
	Name() string
	// Extension is appended to Name to form the output file name.
	Extension() string
	Description() string
	Generate(in *Input) ([]byte, error)
}

// Input is shared by every generator of one compilation pass. The flattened
// and categorized views are computed on first use and then reused.
type Input struct {
	Doc *tokens.Document

	once        sync.Once
	flat        *tokens.FlatMap
	categorized *tokens.Categorized
	err         error
}

// NewInput wraps a loaded document.
func NewInput(doc *tokens.Document) *Input {
	return &Input{Doc: doc}
}

func (in *Input) derive() {
	in.once.Do(func() {
		in.flat, in.err = tokens.Flatten(in.Doc, "")
		if in.err == nil {
			in.categorized = tokens.Categorize(in.flat)
		}
	})
}

// Flat returns the flattened token map.
func (in *Input) Flat() (*tokens.FlatMap, error) {
	in.derive()
	return in.flat, in.err
}

// Categorized returns the flattened tokens grouped by category.
func (in *Input) Categorized() (*tokens.Categorized, error) {
	in.derive()
	return in.categorized, in.err
}

// Info describes a registered generator.
type Info struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	File        string `json:"file"`
	Description string `json:"description"`
}

// displayNamer is implemented by generators whose display name is not the
// title-cased artifact name.
type displayNamer interface {
	DisplayName() string
}

// Registry holds generators in registration order.
type Registry struct {
	order      []string
	generators map[string]Generator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]Generator),
	}
}

// Register adds a generator. Names must be non-empty and unique.
func (r *Registry) Register(g Generator) error {
	name := g.Name()
	if name == "" {
		return fmt.Errorf("generator must have a name")
	}

	if _, exists := r.generators[name]; exists {
		return fmt.Errorf("generator %s is already registered", name)
	}

	r.generators[name] = g
	r.order = append(r.order, name)

	return nil
}

// Get retrieves a generator by name.
func (r *Registry) Get(name string) (Generator, bool) {
	g, exists := r.generators[name]

	return g, exists
}

// List returns all generator names in registration order.
func (r *Registry) List() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)

	return names
}

// Generators returns all generators in registration order.
func (r *Registry) Generators() []Generator {
	out := make([]Generator, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.generators[name])
	}

	return out
}

// Len returns the number of registered generators.
func (r *Registry) Len() int {
	return len(r.order)
}

// Info returns metadata about a generator.
func (r *Registry) Info(name string) (*Info, error) {
	g, exists := r.generators[name]
	if !exists {
		return nil, fmt.Errorf("generator %s not found", name)
	}

	display := cases.Title(language.English).String(name)
	if dn, ok := g.(displayNamer); ok {
		display = dn.DisplayName()
	}

	return &Info{
		Name:        name,
		DisplayName: display,
		File:        FileName(g),
		Description: g.Description(),
	}, nil
}

// FileName returns the output file name of a generator.
func FileName(g Generator) string {
	return g.Name() + g.Extension()
}

// Default returns the fixed registry: base, slidev, reveal, webslides and
// config, in that order.
func Default() *Registry {
	r := NewRegistry()
	for _, g := range []Generator{
		&BaseGenerator{},
		&SlidevGenerator{},
		&RevealGenerator{},
		&WebSlidesGenerator{},
		&ConfigGenerator{},
	} {
		if err := r.Register(g); err != nil {
			panic(err)
		}
	}

	return r
}

// Stylesheets returns the names of the generators producing CSS.
func (r *Registry) Stylesheets() []string {
	var names []string
	for _, name := range r.order {
		if r.generators[name].Extension() == ".css" {
			names = append(names, name)
		}
	}

	return names
}
