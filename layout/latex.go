package layout

import (
	"bytes"
	"fmt"
	"strings"

	treeblood "github.com/wyatt915/goldmark-treeblood"
	"github.com/yuin/goldmark"
	"golang.org/x/net/html"

	"github.com/wudi/flowpdf/observability"
)

var formulaMarkdown = goldmark.New(goldmark.WithExtensions(treeblood.MathML()))

// LaTeX typesets a formula written in LaTeX math notation. The source may
// carry its own delimiters: $ or \( \) set it inline, left aligned, while
// $$, \[ \] or no delimiters at all set it as a centered display formula.
// Every math element the conversion yields becomes one paragraph in the
// importer's size.
func (im *Importer) LaTeX(src string) ([]Part, error) {
	body, display := stripMathDelimiters(src)
	if body == "" {
		return nil, nil
	}
	source := "$" + body + "$"
	if display {
		source = "$$" + body + "$$"
	}
	var buf bytes.Buffer
	if err := formulaMarkdown.Convert([]byte(source), &buf); err != nil {
		return nil, fmt.Errorf("convert formula: %w", err)
	}
	doc, err := html.Parse(&buf)
	if err != nil {
		return nil, fmt.Errorf("parse mathml: %w", err)
	}

	var parts []Part
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "math" {
			if p := im.mathParagraph(n); p != nil {
				p.Align = AlignLeft
				if display {
					p.Align = AlignCenter
				}
				parts = append(parts, p)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if len(parts) == 0 {
		im.logger().Warn("formula produced no math", observability.String("latex", src))
	}
	return parts, nil
}

// stripMathDelimiters removes one pair of surrounding math delimiters and
// reports whether the formula is display math.
func stripMathDelimiters(src string) (string, bool) {
	s := strings.TrimSpace(src)
	for _, d := range []struct {
		open, close string
		display     bool
	}{
		{`$$`, `$$`, true},
		{`\[`, `\]`, true},
		{`\(`, `\)`, false},
		{`$`, `$`, false},
	} {
		if len(s) >= len(d.open)+len(d.close) && strings.HasPrefix(s, d.open) && strings.HasSuffix(s, d.close) {
			return strings.TrimSpace(s[len(d.open) : len(s)-len(d.close)]), d.display
		}
	}
	return s, true
}
