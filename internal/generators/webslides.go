package generators

// WebSlides defaults used when the document has no override.
const webSlidesPadding = "80px"

// WebSlidesGenerator styles WebSlides decks.
type WebSlidesGenerator struct{}

func (g *WebSlidesGenerator) Name() string        { return "webslides" }
func (g *WebSlidesGenerator) Extension() string   { return ".css" }
func (g *WebSlidesGenerator) Description() string { return "Theme for WebSlides decks" }
func (g *WebSlidesGenerator) DisplayName() string { return "WebSlides" }

// Generate renders the WebSlides stylesheet.
func (g *WebSlidesGenerator) Generate(in *Input) ([]byte, error) {
	padding, err := dimension(in.Doc, "slide.padding.webslides", webSlidesPadding)
	if err != nil {
		return nil, err
	}

	const scope = "#webslides"

	var s sheet
	s.line(baseImport)
	s.blank()
	s.header("Prism theme for WebSlides")

	s.comment("Layout")
	s.rule(scope,
		d("font-family", v("typography-fontFamily-sans")),
		d("background", v("slide-background")),
		d("color", v("slide-text")),
	)
	s.rule(scope+" section",
		d("padding", padding),
		d("box-sizing", "border-box"),
	)

	prose{scope: scope, headings: 3}.write(&s)

	s.comment("Title slide")
	s.rule(sel(scope+" section.title-slide", scope+" section.bg-gradient"),
		d("background", v("gradients-title")),
		d("color", "#ffffff"),
	)
	s.rule(sel(scope+" section.title-slide h1", scope+" section.bg-gradient h1"),
		d("color", "inherit"),
		d("font-size", v("typography-fontSize-6xl")),
	)

	s.comment("Cards")
	s.rule(".card",
		d("background", v("slide-surface")),
		d("border", "1px solid "+v("slide-border")),
		d("border-radius", v("borderRadius-lg")),
		d("box-shadow", v("shadows-md")),
		d("padding", v("spacing-8")),
	)

	s.comment("Grid")
	s.rule(".grid-2",
		d("display", "grid"),
		d("grid-template-columns", "repeat(2, minmax(0, 1fr))"),
		d("gap", v("spacing-8")),
	)
	s.rule(".grid-3",
		d("display", "grid"),
		d("grid-template-columns", "repeat(3, minmax(0, 1fr))"),
		d("gap", v("spacing-8")),
	)

	s.comment("Utilities")
	s.rule(".bg-primary",
		d("background-color", v("colors-primary")),
		d("color", "#ffffff"),
	)
	s.rule(".bg-secondary",
		d("background-color", v("colors-secondary")),
		d("color", "#ffffff"),
	)
	s.rule(".bg-surface",
		d("background-color", v("slide-surface")),
	)
	s.rule(".text-primary",
		d("color", v("colors-primary")),
	)
	s.rule(".text-secondary",
		d("color", v("colors-secondary")),
	)
	s.rule(".text-muted",
		d("color", v("slide-text-muted")),
	)

	s.comment("Navigation")
	s.rule("#navigation",
		d("position", "fixed"),
		d("right", v("spacing-8")),
		d("bottom", v("spacing-4")),
		d("font-size", v("typography-fontSize-sm")),
		d("color", v("slide-text-muted")),
	)
	s.rule("#navigation a",
		d("color", v("slide-text-muted")),
	)
	s.rule("#navigation a:hover",
		d("color", v("slide-accent")),
	)
	s.rule("#counter",
		d("font-family", v("typography-fontFamily-mono")),
		d("color", v("slide-text-muted")),
	)

	return s.bytes(), nil
}
