package generators

import (
	"github.com/conneroisu/prism/internal/tokens"
)

// darkPairs re-binds slide-scoped properties to their dark-scoped
// counterparts. It is the only dark mode mechanism; framework sheets only
// reference the slide-* properties.
var darkPairs = [][2]string{
	{"slide-background", "dark-background"},
	{"slide-surface", "dark-surface"},
	{"slide-text", "dark-text"},
	{"slide-text-muted", "dark-text-muted"},
	{"slide-heading", "dark-heading"},
	{"slide-accent", "dark-accent"},
	{"slide-link", "dark-link"},
	{"slide-code-background", "dark-code-background"},
	{"slide-code-text", "dark-code-text"},
	{"slide-border", "dark-border"},
}

// DarkSelector scopes the dark mode overrides.
const DarkSelector = ".dark,\n[data-theme=\"dark\"]"

// BaseGenerator emits every flattened token as a custom property.
type BaseGenerator struct{}

func (g *BaseGenerator) Name() string      { return "base" }
func (g *BaseGenerator) Extension() string { return ".css" }

func (g *BaseGenerator) Description() string {
	return "Custom properties for every token, grouped by category, plus dark mode overrides"
}

// Generate renders the base stylesheet.
func (g *BaseGenerator) Generate(in *Input) ([]byte, error) {
	categorized, err := in.Categorized()
	if err != nil {
		return nil, err
	}

	var s sheet
	s.header("Prism base theme")

	s.line(":root {")
	first := true
	for _, cat := range tokens.Categories {
		lines := categorized.Lines(cat)
		if cat == tokens.CategoryOther && len(lines) == 0 {
			continue
		}

		if !first {
			s.blank()
		}
		first = false

		s.line(indent + "/* " + cat.Title() + " */")
		for _, l := range lines {
			s.line(indent + l)
		}
	}
	s.line("}")
	s.blank()

	s.comment("Dark mode")
	decls := make([]decl, len(darkPairs))
	for i, pair := range darkPairs {
		decls[i] = d(tokens.PropertyName(pair[0]), v(pair[1]))
	}
	s.rule(DarkSelector, decls...)

	return s.bytes(), nil
}

// DarkPairs returns the slide/dark property pairs re-bound in dark mode.
func DarkPairs() [][2]string {
	out := make([][2]string, len(darkPairs))
	copy(out, darkPairs)
	return out
}
