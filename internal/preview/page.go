package preview

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/conneroisu/prism/internal/compiler"
	"github.com/conneroisu/prism/internal/tokens"
)

// Sheet links one generated artifact from the style guide.
type Sheet struct {
	Name        string
	DisplayName string
	Description string
	Href        string
}

// Page is the data rendered by StyleGuide.
type Page struct {
	Title      string
	Sheets     []Sheet
	Properties []compiler.Property
	// Error is shown in place of the token sections when the document
	// could not be loaded.
	Error string
}

const fontSizePrefix = "typography-fontSize-"

const reloadScript = `(function () {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");
  ws.onmessage = function (event) {
    if (event.data !== "reload") return;
    document.querySelectorAll("link[rel=stylesheet]").forEach(function (link) {
      var url = new URL(link.href);
      url.searchParams.set("t", Date.now());
      link.href = url.toString();
    });
  };
})();`

const pageStyle = `body { margin: 0; padding: 2rem; }
.prsm-swatches { display: flex; flex-wrap: wrap; gap: 1rem; }
.prsm-swatch { width: 8rem; }
.prsm-swatch-chip { height: 4rem; border-radius: 0.25rem; border: 1px solid rgba(0, 0, 0, 0.1); }
.prsm-swatch code { display: block; font-size: 0.75rem; word-break: break-all; }
table { border-collapse: collapse; }
td, th { text-align: left; padding: 0.25rem 1rem 0.25rem 0; }`

// StyleGuide renders page as a complete HTML document.
func StyleGuide(page Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
			return err
		}
		return html.Render(w, page.document())
	})
}

func (p Page) document() *html.Node {
	head := element(atom.Head, nil,
		element(atom.Meta, attrs("charset", "utf-8")),
		element(atom.Title, nil, text(p.Title)),
	)
	for _, sheet := range p.Sheets {
		if strings.HasSuffix(sheet.Href, ".css") || strings.HasPrefix(sheet.Href, "/css/") {
			head.AppendChild(element(atom.Link, attrs("rel", "stylesheet", "href", sheet.Href)))
		}
	}
	head.AppendChild(element(atom.Style, nil, text(pageStyle)))

	body := element(atom.Body, nil, element(atom.H1, nil, text(p.Title)))
	body.AppendChild(p.sheetList())

	if p.Error != "" {
		body.AppendChild(element(atom.Pre, attrs("class", "prsm-error"), text(p.Error)))
	} else {
		if swatches := p.swatches(); swatches != nil {
			body.AppendChild(swatches)
		}
		if scale := p.typeScale(); scale != nil {
			body.AppendChild(scale)
		}
		for _, section := range p.categorySections() {
			body.AppendChild(section)
		}
	}
	body.AppendChild(element(atom.Script, nil, text(reloadScript)))

	return element(atom.Html, attrs("lang", "en"), head, body)
}

func (p Page) sheetList() *html.Node {
	list := element(atom.Ul, attrs("class", "prsm-sheets"))
	for _, sheet := range p.Sheets {
		item := element(atom.Li, nil,
			element(atom.A, attrs("href", sheet.Href), text(sheet.DisplayName)),
		)
		if sheet.Description != "" {
			item.AppendChild(text(" " + sheet.Description))
		}
		list.AppendChild(item)
	}
	return element(atom.Section, attrs("id", "sheets"),
		element(atom.H2, nil, text("Stylesheets")),
		list,
	)
}

func (p Page) swatches() *html.Node {
	grid := element(atom.Div, attrs("class", "prsm-swatches"))
	for _, prop := range p.Properties {
		if prop.Category != tokens.CategoryColors.String() || !isColor(prop.Value) {
			continue
		}
		grid.AppendChild(element(atom.Div, attrs("class", "prsm-swatch"),
			element(atom.Div, attrs("class", "prsm-swatch-chip", "style", "background: var("+prop.Name+")")),
			element(atom.Code, nil, text(prop.Name)),
			element(atom.Code, nil, text(prop.Value)),
		))
	}
	if grid.FirstChild == nil {
		return nil
	}
	return element(atom.Section, attrs("id", "colors"),
		element(atom.H2, nil, text("Colors")),
		grid,
	)
}

func (p Page) typeScale() *html.Node {
	section := element(atom.Section, attrs("id", "type-scale"),
		element(atom.H2, nil, text("Type scale")),
	)
	found := false
	for _, prop := range p.Properties {
		if !strings.HasPrefix(prop.Key, fontSizePrefix) {
			continue
		}
		found = true
		label := strings.TrimPrefix(prop.Key, fontSizePrefix)
		section.AppendChild(element(atom.P, attrs("style", "font-size: var("+prop.Name+")"),
			text(label+" ("+prop.Value+") The quick brown fox"),
		))
	}
	if !found {
		return nil
	}
	return section
}

func (p Page) categorySections() []*html.Node {
	var sections []*html.Node
	for _, cat := range tokens.Categories {
		var rows []*html.Node
		for _, prop := range p.Properties {
			if prop.Category != cat.String() {
				continue
			}
			rows = append(rows, element(atom.Tr, nil,
				element(atom.Td, nil, element(atom.Code, nil, text(prop.Name))),
				element(atom.Td, nil, text(prop.Value)),
			))
		}
		if len(rows) == 0 {
			continue
		}
		table := element(atom.Table, nil,
			element(atom.Thead, nil, element(atom.Tr, nil,
				element(atom.Th, nil, text("Property")),
				element(atom.Th, nil, text("Value")),
			)),
			element(atom.Tbody, nil, rows...),
		)
		sections = append(sections, element(atom.Section, attrs("id", "tokens-"+cat.String()),
			element(atom.H2, nil, text(cat.Title())),
			table,
		))
	}
	return sections
}

func isColor(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, prefix := range []string{"#", "rgb", "hsl", "oklch", "oklab", "hwb", "lab(", "lch("} {
		if strings.HasPrefix(v, prefix) {
			return true
		}
	}
	return false
}

func element(tag atom.Atom, attributes []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: tag,
		Data:     tag.String(),
		Attr:     attributes,
	}
	for _, child := range children {
		n.AppendChild(child)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func attrs(pairs ...string) []html.Attribute {
	out := make([]html.Attribute, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, html.Attribute{Key: pairs[i], Val: pairs[i+1]})
	}
	return out
}
