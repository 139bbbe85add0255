package generators

// Reveal defaults used when the document has no override.
const (
	revealPadding       = "40px 80px"
	revealCodeMaxHeight = "400px"
)

// RevealGenerator styles reveal.js presentations.
type RevealGenerator struct{}

func (g *RevealGenerator) Name() string        { return "reveal" }
func (g *RevealGenerator) Extension() string   { return ".css" }
func (g *RevealGenerator) Description() string { return "Theme for reveal.js presentations" }

// Generate renders the reveal.js stylesheet.
func (g *RevealGenerator) Generate(in *Input) ([]byte, error) {
	padding, err := dimension(in.Doc, "slide.padding.reveal", revealPadding)
	if err != nil {
		return nil, err
	}

	const scope = ".reveal"

	var s sheet
	s.line(baseImport)
	s.blank()
	s.header("Prism theme for reveal.js")

	s.comment("Layout")
	s.rule(".reveal-viewport",
		d("background", v("slide-background")),
	)
	s.rule(scope,
		d("font-family", v("typography-fontFamily-sans")),
		d("font-size", v("typography-fontSize-base")),
		d("color", v("slide-text")),
	)
	s.rule(scope+" .slides section",
		d("padding", padding),
		d("text-align", "left"),
		d("box-sizing", "border-box"),
	)

	prose{
		scope:    scope,
		headings: 4,
		codeBlock: []decl{
			d("display", "block"),
			d("max-height", revealCodeMaxHeight),
			d("overflow", "auto"),
			d("padding", v("spacing-4")),
			d("background", "transparent"),
		},
	}.write(&s)

	s.comment("Title slide")
	s.rule(sel(scope+" .slides section.title-slide", scope+" .slides section.cover"),
		d("background", v("gradients-title")),
		d("color", "#ffffff"),
	)
	s.rule(sel(scope+" .slides section.title-slide h1", scope+" .slides section.cover h1"),
		d("color", "inherit"),
		d("font-size", v("typography-fontSize-6xl")),
	)

	s.comment("Tables")
	s.rule(scope+" table",
		d("border-collapse", "collapse"),
		d("width", "100%"),
		d("margin", v("spacing-4")+" 0"),
	)
	s.rule(scope+" table th",
		d("background", v("slide-surface")),
		d("color", v("slide-heading")),
		d("font-weight", v("typography-fontWeight-semibold")),
		d("text-align", "left"),
		d("padding", v("spacing-2")+" "+v("spacing-4")),
		d("border-bottom", "2px solid "+v("slide-border")),
	)
	s.rule(scope+" table td",
		d("padding", v("spacing-2")+" "+v("spacing-4")),
		d("border-bottom", "1px solid "+v("slide-border")),
	)

	s.comment("Controls")
	s.rule(scope+" .progress",
		d("color", v("slide-accent")),
		d("height", "4px"),
	)
	s.rule(scope+" .progress span",
		d("background", v("slide-accent")),
		d("transition", "width "+v("transitions-normal")),
	)
	s.rule(scope+" .controls",
		d("color", v("slide-accent")),
	)
	s.rule(scope+" .slide-number",
		d("background", v("slide-surface")),
		d("color", v("slide-text-muted")),
		d("font-family", v("typography-fontFamily-mono")),
		d("font-size", v("typography-fontSize-sm")),
		d("border-radius", v("borderRadius-sm")),
	)

	return s.bytes(), nil
}
