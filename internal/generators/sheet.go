package generators

import (
	"strings"

	"github.com/conneroisu/prism/internal/errors"
	"github.com/conneroisu/prism/internal/tokens"
)

const indent = "  "

// decl is one CSS declaration.
type decl struct {
	prop  string
	value string
}

func d(prop, value string) decl {
	return decl{prop: prop, value: value}
}

// v references the custom property of a flattened token key.
func v(key string) string {
	return "var(" + tokens.PropertyName(key) + ")"
}

// sel joins selectors into a selector list, one per line.
func sel(selectors ...string) string {
	return strings.Join(selectors, ",\n")
}

// within prefixes every selector with scope.
func within(scope string, selectors ...string) string {
	scoped := make([]string, len(selectors))
	for i, s := range selectors {
		scoped[i] = scope + " " + s
	}
	return sel(scoped...)
}

// sheet accumulates stylesheet text.
type sheet struct {
	b strings.Builder
}

func (s *sheet) line(text string) {
	s.b.WriteString(text)
	s.b.WriteByte('\n')
}

func (s *sheet) blank() {
	s.b.WriteByte('\n')
}

func (s *sheet) comment(text string) {
	s.line("/* " + text + " */")
	s.blank()
}

func (s *sheet) header(title string) {
	s.line("/**")
	s.line(" * " + title)
	s.line(" * Generated by prism from the design token document. Do not edit.")
	s.line(" */")
	s.blank()
}

func (s *sheet) rule(selector string, decls ...decl) {
	s.line(selector + " {")
	for _, dc := range decls {
		s.line(indent + dc.prop + ": " + dc.value + ";")
	}
	s.line("}")
	s.blank()
}

func (s *sheet) bytes() []byte {
	return []byte(strings.TrimRight(s.b.String(), "\n") + "\n")
}

// dimension resolves a literal value from the document, falling back when the
// path is absent. A present value of the wrong shape is malformed.
func dimension(doc *tokens.Document, path, fallback string) (string, error) {
	value, ok := doc.Lookup(path)
	if !ok {
		return fallback, nil
	}

	s, ok := tokens.Unwrap(value)
	if !ok {
		return "", errors.NewMalformedTokenError(errors.CodeTokenShape,
			strings.ReplaceAll(path, ".", "-"), "expected a scalar dimension")
	}

	if s.Text == "" {
		return fallback, nil
	}
	return s.Text, nil
}

// prose describes the content rules every framework sheet shares.
type prose struct {
	scope    string
	headings int
	// codeBlock overrides the declarations of "pre code".
	codeBlock []decl
}

var headingSizes = []string{
	"typography-fontSize-4xl",
	"typography-fontSize-2xl",
	"typography-fontSize-xl",
	"typography-fontSize-base",
}

// write emits headings, paragraphs, links, code, blockquotes and lists.
func (p prose) write(s *sheet) {
	s.comment("Typography")

	for i := 0; i < p.headings && i < len(headingSizes); i++ {
		weight := "typography-fontWeight-bold"
		if i > 0 {
			weight = "typography-fontWeight-semibold"
		}
		s.rule(within(p.scope, "h"+string(rune('1'+i))),
			d("font-family", v("typography-fontFamily-heading")),
			d("font-size", v(headingSizes[i])),
			d("font-weight", v(weight)),
			d("line-height", v("typography-lineHeight-tight")),
			d("color", v("slide-heading")),
			d("margin", "0 0 "+v("spacing-4")),
		)
	}

	s.rule(within(p.scope, "p"),
		d("font-size", v("typography-fontSize-base")),
		d("line-height", v("typography-lineHeight-normal")),
		d("margin", "0 0 "+v("spacing-4")),
	)

	s.comment("Links")

	s.rule(within(p.scope, "a"),
		d("color", v("slide-link")),
		d("text-decoration", "none"),
		d("transition", "color "+v("transitions-fast")),
	)
	s.rule(within(p.scope, "a:hover"),
		d("color", v("slide-accent")),
	)

	s.comment("Code")

	s.rule(within(p.scope, "code"),
		d("font-family", v("typography-fontFamily-mono")),
		d("font-size", "0.9em"),
		d("background", v("slide-code-background")),
		d("color", v("slide-code-text")),
		d("padding", "0.125em 0.375em"),
		d("border-radius", v("borderRadius-sm")),
	)
	s.rule(within(p.scope, "pre"),
		d("background", v("slide-code-background")),
		d("border-radius", v("borderRadius-md")),
		d("overflow-x", "auto"),
	)

	block := p.codeBlock
	if block == nil {
		block = []decl{
			d("display", "block"),
			d("padding", v("spacing-4")),
			d("background", "transparent"),
		}
	}
	s.rule(within(p.scope, "pre code"), block...)

	s.comment("Quotes and lists")

	s.rule(within(p.scope, "blockquote"),
		d("margin", v("spacing-4")+" 0"),
		d("padding", v("spacing-2")+" "+v("spacing-4")),
		d("border-left", "4px solid "+v("colors-primary-500")),
		d("background", v("colors-primary-50")),
		d("color", v("slide-text-muted")),
		d("border-radius", "0 "+v("borderRadius-md")+" "+v("borderRadius-md")+" 0"),
	)
	s.rule(within(p.scope, "ul", "ol"),
		d("margin", "0 0 "+v("spacing-4")),
		d("padding-left", v("spacing-8")),
	)
	s.rule(within(p.scope, "li"),
		d("margin-bottom", v("spacing-2")),
	)
	s.rule(within(p.scope, "li::marker"),
		d("color", v("slide-accent")),
	)
}
