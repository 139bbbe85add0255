package generators

// Slidev defaults used when the document has no override.
const (
	slidevPadding       = "40px"
	slidevFooterText    = "Made with prism"
	slidevFooterOpacity = "0.6"
)

const baseImport = "@import './base.css';"

// SlidevGenerator styles Slidev layouts.
type SlidevGenerator struct{}

func (g *SlidevGenerator) Name() string        { return "slidev" }
func (g *SlidevGenerator) Extension() string   { return ".css" }
func (g *SlidevGenerator) Description() string { return "Theme for Slidev layouts" }

// Generate renders the Slidev stylesheet.
func (g *SlidevGenerator) Generate(in *Input) ([]byte, error) {
	padding, err := dimension(in.Doc, "slide.padding.slidev", slidevPadding)
	if err != nil {
		return nil, err
	}

	const scope = ".slidev-layout"

	var s sheet
	s.line(baseImport)
	s.blank()
	s.header("Prism theme for Slidev")

	s.comment("Layout")
	s.rule(scope,
		d("font-family", v("typography-fontFamily-sans")),
		d("background", v("slide-background")),
		d("color", v("slide-text")),
		d("padding", padding),
	)

	prose{scope: scope, headings: 3}.write(&s)

	s.comment("Cover")
	s.rule(sel(scope+".cover", scope+".intro"),
		d("background", v("gradients-title")),
		d("color", "#ffffff"),
		d("display", "flex"),
		d("flex-direction", "column"),
		d("justify-content", "center"),
	)
	s.rule(sel(scope+".cover h1", scope+".intro h1"),
		d("color", "inherit"),
		d("font-size", v("typography-fontSize-6xl")),
	)

	s.comment("Two columns")
	s.rule(scope+".two-cols",
		d("display", "grid"),
		d("grid-template-columns", "1fr 1fr"),
		d("gap", v("spacing-8")),
	)

	s.comment("Branding")
	s.rule(".prsm-footer",
		d("position", "fixed"),
		d("right", v("spacing-4")),
		d("bottom", v("spacing-2")),
		d("font-family", v("typography-fontFamily-sans")),
		d("font-size", v("typography-fontSize-sm")),
		d("color", v("slide-text-muted")),
		d("opacity", slidevFooterOpacity),
		d("pointer-events", "none"),
	)
	s.rule(".prsm-footer::after",
		d("content", "'"+slidevFooterText+"'"),
	)

	return s.bytes(), nil
}
