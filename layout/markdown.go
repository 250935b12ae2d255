package layout

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/wudi/flowpdf/fonts"
	"github.com/wudi/flowpdf/observability"
)

// Markdown converts CommonMark with GitHub tables into parts.
func (im *Importer) Markdown(source string) ([]Part, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough))
	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))

	var out []Part
	im.walkMarkdown(doc, src, 0, &out)
	return out, nil
}

func (im *Importer) walkMarkdown(node ast.Node, source []byte, indent float64, out *[]Part) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		im.markdownBlock(child, source, indent, out)
	}
}

func (im *Importer) markdownBlock(child ast.Node, source []byte, indent float64, out *[]Part) {
	switch n := child.(type) {
	case *ast.Heading:
		runs := im.markdownInlines(n, source, inline{bold: true, size: im.headingSize(n.Level)})
		*out = append(*out, im.heading(runs, indent))
	case *ast.Paragraph, *ast.TextBlock:
		runs := im.markdownInlines(n, source, inline{size: im.size()})
		*out = append(*out, im.images(n, source)...)
		if hasText(runs) {
			*out = append(*out, im.paragraph(runs, indent))
		}
	case *ast.List:
		im.markdownList(n, source, indent, out)
	case *ast.Blockquote:
		im.walkMarkdown(n, source, indent+quoteIndent, out)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		*out = append(*out, im.code(linesOf(n, source), indent))
	case *ast.ThematicBreak:
		*out = append(*out, NewText("\n"))
	case *east.Table:
		*out = append(*out, im.markdownTable(n, source))
	case *ast.HTMLBlock:
		im.logger().Debug("raw html block skipped")
	default:
		im.walkMarkdown(n, source, indent, out)
	}
}

func linesOf(n ast.Node, source []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (im *Importer) markdownList(n *ast.List, source []byte, indent float64, out *[]Part) {
	num := n.Start
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		marker := bullet
		if n.IsOrdered() {
			marker = strconv.Itoa(num) + "."
			num++
		}
		first := true
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch b := c.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				runs := im.markdownInlines(b, source, inline{size: im.size()})
				if first {
					runs = append([]*Text{im.run(marker+" ", inline{size: im.size()})}, runs...)
					first = false
				}
				*out = append(*out, im.paragraph(runs, indent+listIndent))
			case *ast.List:
				im.markdownList(b, source, indent+listIndent, out)
			default:
				im.markdownBlock(b, source, indent+listIndent, out)
			}
		}
	}
}

// markdownInlines flattens the inline children of n into styled runs.
func (im *Importer) markdownInlines(n ast.Node, source []byte, st inline) []*Text {
	var runs []*Text
	var walk func(ast.Node, inline)
	walk = func(n ast.Node, st inline) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch v := c.(type) {
			case *ast.Text:
				s := string(v.Segment.Value(source))
				switch {
				case v.HardLineBreak():
					s += "\n"
				case v.SoftLineBreak():
					s += " "
				}
				runs = appendRun(runs, im.run(s, st))
			case *ast.String:
				runs = appendRun(runs, im.run(string(v.Value), st))
			case *ast.CodeSpan:
				cs := st
				cs.mono = true
				walk(v, cs)
			case *ast.Emphasis:
				es := st
				if v.Level >= 2 {
					es.bold = true
				} else {
					es.italic = true
				}
				walk(v, es)
			case *ast.Link:
				ls := st
				ls.link = true
				walk(v, ls)
			case *ast.AutoLink:
				ls := st
				ls.link = true
				runs = appendRun(runs, im.run(string(v.Label(source)), ls))
			case *ast.Image, *ast.RawHTML:
			default:
				walk(v, st)
			}
		}
	}
	walk(n, st)
	return runs
}

// images loads the images referenced in a paragraph; they are placed
// ahead of its text.
func (im *Importer) images(n ast.Node, source []byte) []Part {
	var out []Part
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if img, ok := c.(*ast.Image); ok && entering {
			if p := im.image(string(img.Destination), 0, 0); p != nil {
				out = append(out, p)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return out
}

func (im *Importer) markdownTable(n *east.Table, source []byte) *Table {
	t := NewTable(len(n.Alignments))
	for r := n.FirstChild(); r != nil; r = r.NextSibling() {
		_, header := r.(*east.TableHeader)
		var row []*Cell
		col := 0
		for c := r.FirstChild(); c != nil; c = c.NextSibling() {
			runs := im.markdownInlines(c, source, inline{bold: header, size: im.size()})
			cell := &Cell{Text: joinRuns(runs, inline{bold: header, size: im.size()}, im)}
			if col < len(n.Alignments) {
				cell.Text.Align = markdownAlign(n.Alignments[col])
			}
			row = append(row, cell)
			col++
		}
		t.AddRow(row...)
		if header {
			t.HeaderRows++
		}
	}
	im.logger().Debug("markdown table", observability.Int("rows", len(t.Rows)))
	return t
}

func markdownAlign(a east.Alignment) Alignment {
	switch a {
	case east.AlignRight:
		return AlignRight
	case east.AlignCenter:
		return AlignCenter
	}
	return AlignLeft
}

// joinRuns collapses runs into one text for places that hold a single
// style, such as table cells.
func joinRuns(runs []*Text, st inline, im *Importer) *Text {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Content)
	}
	return im.run(strings.TrimSpace(b.String()), st)
}

// fontKey maps inline flags to a font key. An empty family keeps the
// flow's current font.
func (st inline) fontKey() fonts.Key {
	var k fonts.Key
	if st.mono {
		k.Family = "Courier"
	}
	if st.bold {
		k.Style |= fonts.Bold
	}
	if st.italic {
		k.Style |= fonts.Italic
	}
	return k
}
