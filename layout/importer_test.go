package layout

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wudi/flowpdf/fonts"
	"github.com/wudi/flowpdf/images"
)

func runContents(p *Paragraph) []string {
	var out []string
	for _, t := range p.Texts {
		out = append(out, t.Content)
	}
	return out
}

func TestMarkdown(t *testing.T) {
	src := "# Title\n\nHello **bold** world\n\n- one\n- two\n\n| a | b |\n|---|--:|\n| 1 | 2 |\n"
	parts, err := (&Importer{}).Markdown(src)
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if len(parts) != 5 {
		t.Fatalf("parts = %d, want 5", len(parts))
	}

	heading := parts[0].(*Paragraph)
	if heading.Texts[0].Content != "Title" || heading.Texts[0].Size != 24 || heading.Texts[0].Font.Style != fonts.Bold {
		t.Errorf("heading = %+v", heading.Texts[0])
	}

	body := parts[1].(*Paragraph)
	if diff := cmp.Diff([]string{"Hello ", "bold", " world"}, runContents(body)); diff != "" {
		t.Errorf("paragraph runs mismatch (-want +got):\n%s", diff)
	}
	if body.Texts[1].Font.Style != fonts.Bold {
		t.Errorf("strong run not bold: %+v", body.Texts[1].Font)
	}

	item := parts[2].(*Paragraph)
	if diff := cmp.Diff([]string{bullet + " ", "one"}, runContents(item)); diff != "" {
		t.Errorf("list item runs mismatch (-want +got):\n%s", diff)
	}
	if item.Spacing.Left != listIndent {
		t.Errorf("list indent = %v", item.Spacing.Left)
	}

	tbl := parts[4].(*Table)
	if tbl.HeaderRows != 1 || len(tbl.Rows) != 2 {
		t.Fatalf("table header %d rows %d", tbl.HeaderRows, len(tbl.Rows))
	}
	if c := tbl.Rows[1][1]; c.Text.Content != "2" || c.Text.Align != AlignRight {
		t.Errorf("cell = %+v", c.Text)
	}
}

func TestMarkdownCodeAndImages(t *testing.T) {
	var loaded []string
	im := &Importer{LoadImage: func(src string) (*images.Image, error) {
		loaded = append(loaded, src)
		if src == "missing.png" {
			return nil, errors.New("not found")
		}
		return testImage(10, 10), nil
	}}
	parts, err := im.Markdown("```\nfunc main() {}\n```\n\n![logo](logo.png) ![gone](missing.png)\n")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	code, ok := parts[0].(*Text)
	if !ok || code.Content != "func main() {}" || code.Font.Family != "Courier" {
		t.Fatalf("code block = %+v", parts[0])
	}
	if _, ok := parts[1].(*Image); !ok {
		t.Errorf("parts[1] = %T, want *Image", parts[1])
	}
	if diff := cmp.Diff([]string{"logo.png", "missing.png"}, loaded); diff != "" {
		t.Errorf("loaded images mismatch (-want +got):\n%s", diff)
	}
}

func TestHTML(t *testing.T) {
	src := `<h2>T</h2><p align="center">a <i>b</i></p><ul><li>x</li></ul>` +
		`<table border="1"><tr><th>h</th><th>k</th></tr><tr><td colspan="2">c</td></tr></table>`
	parts, err := (&Importer{}).HTML(src)
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if len(parts) != 4 {
		t.Fatalf("parts = %d, want 4", len(parts))
	}
	if h := parts[0].(*Paragraph).Texts[0]; h.Content != "T" || h.Size != 18 {
		t.Errorf("heading = %+v", h)
	}
	p := parts[1].(*Paragraph)
	if diff := cmp.Diff([]string{"a ", "b"}, runContents(p)); diff != "" {
		t.Errorf("paragraph runs mismatch (-want +got):\n%s", diff)
	}
	if p.Align != AlignCenter || p.Texts[1].Font.Style != fonts.Italic {
		t.Errorf("paragraph align %v, italic run %+v", p.Align, p.Texts[1].Font)
	}
	if item := parts[2].(*Paragraph); !strings.HasPrefix(item.Texts[0].Content, bullet) {
		t.Errorf("list item = %q", item.Texts[0].Content)
	}
	tbl := parts[3].(*Table)
	if tbl.HeaderRows != 1 || tbl.Border != 1 || tbl.Rows[1][0].ColSpan != 2 {
		t.Errorf("table = header %d border %v colspan %d", tbl.HeaderRows, tbl.Border, tbl.Rows[1][0].ColSpan)
	}
}

func TestHTMLScripts(t *testing.T) {
	parts, err := (&Importer{}).HTML(`<p>x<sup>2</sup> H<sub>2</sub>O<br>next</p>`)
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	p := parts[0].(*Paragraph)
	var sup, sub *Text
	for _, r := range p.Texts {
		switch {
		case r.Rise > 0:
			sup = r
		case r.Rise < 0:
			sub = r
		}
	}
	if sup == nil || sup.Content != "2" || !near(sup.Size, 8.4) {
		t.Errorf("superscript = %+v", sup)
	}
	if sub == nil || sub.Content != "2" {
		t.Errorf("subscript = %+v", sub)
	}
	joined := strings.Join(runContents(p), "")
	if !strings.Contains(joined, "O\nnext") {
		t.Errorf("line break lost: %q", joined)
	}
}

func TestMathML(t *testing.T) {
	src := `<math display="block"><msup><mi>x</mi><mn>2</mn></msup><mo>+</mo><mfrac><mn>1</mn><mrow><mi>a</mi><mo>+</mo><mi>b</mi></mrow></mfrac></math>`
	parts, err := (&Importer{}).HTML(src)
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if len(parts) != 1 {
		t.Fatalf("parts = %d, want 1", len(parts))
	}
	p := parts[0].(*Paragraph)
	if p.Align != AlignCenter {
		t.Errorf("display math align = %v", p.Align)
	}
	if p.Texts[0].Content != "x" || p.Texts[0].Font.Style != fonts.Italic {
		t.Errorf("identifier run = %+v", p.Texts[0])
	}
	if exp := p.Texts[1]; exp.Content != "2" || !near(exp.Rise, 4.8) || !near(exp.Size, 8.4) {
		t.Errorf("exponent run = %+v", exp)
	}
	var b strings.Builder
	for _, r := range p.Texts {
		b.WriteString(r.Content)
	}
	if got := b.String(); got != "x2 + 1/(a + b)" {
		t.Errorf("linearized formula = %q", got)
	}
}

func TestLaTeX(t *testing.T) {
	parts, err := (&Importer{}).LaTeX(`E = mc^2`)
	if err != nil {
		t.Fatalf("LaTeX: %v", err)
	}
	if len(parts) == 0 {
		t.Fatal("no parts")
	}
	var raised bool
	var b strings.Builder
	for _, part := range parts {
		p, ok := part.(*Paragraph)
		if !ok {
			continue
		}
		for _, r := range p.Texts {
			b.WriteString(r.Content)
			raised = raised || r.Rise > 0
		}
	}
	if !strings.Contains(b.String(), "E") || !strings.Contains(b.String(), "2") {
		t.Errorf("formula text = %q", b.String())
	}
	if !raised {
		t.Errorf("exponent not raised")
	}
}

func TestLaTeXDelimitersAndSize(t *testing.T) {
	im := &Importer{Size: 20}
	cases := []struct {
		src   string
		align Alignment
	}{
		{`x^2`, AlignCenter},
		{`$$x^2$$`, AlignCenter},
		{`\[x^2\]`, AlignCenter},
		{`\(x^2\)`, AlignLeft},
		{`$x^2$`, AlignLeft},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			parts, err := im.LaTeX(c.src)
			if err != nil {
				t.Fatalf("LaTeX: %v", err)
			}
			if len(parts) != 1 {
				t.Fatalf("parts = %d, want 1", len(parts))
			}
			p := parts[0].(*Paragraph)
			if p.Align != c.align {
				t.Errorf("align = %v, want %v", p.Align, c.align)
			}
			if base := p.Texts[0]; base.Content != "x" || base.Size != 20 {
				t.Errorf("base run = %+v, want x at 20pt", base)
			}
		})
	}
	if parts, err := im.LaTeX("  $$ $$ "); err != nil || len(parts) != 0 {
		t.Errorf("empty formula = %d parts, %v", len(parts), err)
	}
}

func TestImportedPartsLayOut(t *testing.T) {
	f := newTestFlow()
	parts, err := f.Importer().Markdown("# Report\n\n" + lorem + "\n\n> quoted\n\n---\n\n1. first\n2. second\n")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if err := f.Add(parts...); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if diff := cmp.Diff(strings.Fields("Report "+lorem+" quoted 1. first 2. second"), flowWords(f)); diff != "" {
		t.Errorf("words mismatch (-want +got):\n%s", diff)
	}
	checkFlowBoxes(t, f)
}
