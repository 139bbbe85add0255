package generators

import (
	"regexp"
	"strings"

	"github.com/conneroisu/prism/internal/errors"
	"github.com/conneroisu/prism/internal/tokens"
)

var (
	// colorRamps are copied verbatim into theme.extend.colors.
	colorRamps = []string{"primary", "secondary", "neutral"}
	// fontRoles are copied verbatim into theme.extend.fontFamily.
	fontRoles = []string{"sans", "heading", "mono", "display"}
)

// ConfigGenerator emits a Tailwind-style configuration module.
type ConfigGenerator struct{}

func (g *ConfigGenerator) Name() string      { return "config" }
func (g *ConfigGenerator) Extension() string { return ".js" }

func (g *ConfigGenerator) Description() string {
	return "Utility framework configuration exposing colors, fonts, sizes, radii and shadows"
}

// Generate renders the configuration module.
func (g *ConfigGenerator) Generate(in *Input) ([]byte, error) {
	obj, err := ConfigObject(in.Doc)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("/**\n")
	b.WriteString(" * Prism utility configuration.\n")
	b.WriteString(" * Generated by prism from the design token document. Do not edit.\n")
	b.WriteString(" *\n")
	b.WriteString(" * Extend your own config with it:\n")
	b.WriteString(" *   const prism = require('./config.js');\n")
	b.WriteString(" *   module.exports = { presets: [prism], content: ['./slides/**/*.md'] };\n")
	b.WriteString(" *\n")
	b.WriteString(" * @type {import('tailwindcss').Config}\n")
	b.WriteString(" */\n")
	b.WriteString("module.exports = ")
	writeJS(&b, obj, 0)
	b.WriteString(";\n")

	return []byte(b.String()), nil
}

// ConfigObject builds the structured configuration object. Sections missing
// from the document are omitted.
func ConfigObject(doc *tokens.Document) (*tokens.Document, error) {
	extend := tokens.NewDocument()

	colors := tokens.NewDocument()
	for _, ramp := range colorRamps {
		if value, ok := doc.Lookup("colors." + ramp); ok {
			colors.Set(ramp, stripMetadata(value))
		}
	}
	if semantic, ok := doc.LookupDocument("colors.semantic"); ok {
		for _, e := range semantic.Entries() {
			if !tokens.IsMetadataKey(e.Key) {
				colors.Set(e.Key, stripMetadata(e.Value))
			}
		}
	}
	if colors.Len() > 0 {
		extend.Set("colors", colors)
	}

	fonts := tokens.NewDocument()
	for _, role := range fontRoles {
		if value, ok := doc.Lookup("typography.fontFamily." + role); ok {
			fonts.Set(role, stripMetadata(value))
		}
	}
	if fonts.Len() > 0 {
		extend.Set("fontFamily", fonts)
	}

	if sizes, ok := doc.LookupDocument("typography.fontSize"); ok {
		normalized, err := fontSizes(sizes)
		if err != nil {
			return nil, err
		}
		extend.Set("fontSize", normalized)
	}

	if radius, ok := lookupFirst(doc, "borderRadius", "radii"); ok {
		extend.Set("borderRadius", stripMetadata(radius))
	}
	if shadows, ok := lookupFirst(doc, "shadows", "boxShadow"); ok {
		extend.Set("boxShadow", stripMetadata(shadows))
	}

	theme := tokens.NewDocument().Set("extend", extend)

	return tokens.NewDocument().
		Set("darkMode", tokens.String("class")).
		Set("theme", theme).
		Set("plugins", tokens.List{}), nil
}

// fontSizes collapses value wrappers into plain scalars.
func fontSizes(sizes *tokens.Document) (*tokens.Document, error) {
	out := tokens.NewDocument()
	for _, e := range sizes.Entries() {
		if tokens.IsMetadataKey(e.Key) {
			continue
		}
		s, ok := tokens.Unwrap(e.Value)
		if !ok {
			return nil, errors.NewMalformedTokenError(errors.CodeTokenShape,
				"typography-fontSize-"+e.Key, "font sizes must be a scalar or {\"value\": scalar}")
		}
		out.Set(e.Key, s)
	}
	return out, nil
}

func lookupFirst(doc *tokens.Document, paths ...string) (tokens.Value, bool) {
	for _, p := range paths {
		if value, ok := doc.Lookup(p); ok {
			return value, true
		}
	}
	return nil, false
}

func stripMetadata(value tokens.Value) tokens.Value {
	doc, ok := value.(*tokens.Document)
	if !ok {
		return value
	}
	out := tokens.NewDocument()
	for _, e := range doc.Entries() {
		if !tokens.IsMetadataKey(e.Key) {
			out.Set(e.Key, stripMetadata(e.Value))
		}
	}
	return out
}

var jsIdentifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// writeJS renders value as a JavaScript literal with two-space indentation.
func writeJS(b *strings.Builder, value tokens.Value, depth int) {
	pad := strings.Repeat(indent, depth)

	switch val := value.(type) {
	case *tokens.Document:
		if val.Len() == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteString("{\n")
		for _, e := range val.Entries() {
			b.WriteString(pad + indent + jsKey(e.Key) + ": ")
			writeJS(b, e.Value, depth+1)
			b.WriteString(",\n")
		}
		b.WriteString(pad + "}")

	case tokens.List:
		if len(val) == 0 {
			b.WriteString("[]")
			return
		}
		if scalars, ok := val.Strings(); ok {
			quoted := make([]string, len(scalars))
			for i, s := range scalars {
				quoted[i] = jsString(s)
			}
			b.WriteString("[" + strings.Join(quoted, ", ") + "]")
			return
		}
		b.WriteString("[\n")
		for _, item := range val {
			b.WriteString(pad + indent)
			writeJS(b, item, depth+1)
			b.WriteString(",\n")
		}
		b.WriteString(pad + "]")

	case tokens.Scalar:
		switch val.Kind {
		case tokens.ScalarNumber:
			b.WriteString(val.Text)
		case tokens.ScalarBool:
			b.WriteString(strings.ToLower(val.Text))
		case tokens.ScalarNull:
			b.WriteString("null")
		default:
			b.WriteString(jsString(val.Text))
		}

	default:
		b.WriteString("null")
	}
}

func jsKey(key string) string {
	if jsIdentifier.MatchString(key) {
		return key
	}
	return jsString(key)
}

var jsEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)

func jsString(s string) string {
	return "'" + jsEscaper.Replace(s) + "'"
}
