package layout

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTML converts an HTML document or fragment into parts.
func (im *Importer) HTML(source string) ([]Part, error) {
	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return nil, err
	}
	var out []Part
	im.walkHTML(doc, 0, &out)
	return out, nil
}

// walkHTML handles block elements. Inline content found directly inside a
// container is gathered into a paragraph.
func (im *Importer) walkHTML(n *html.Node, indent float64, out *[]Part) {
	var pending []*Text
	flush := func() {
		if hasText(pending) {
			*out = append(*out, im.paragraph(pending, indent))
		}
		pending = nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && isBlock(c.DataAtom, c.Data) {
			flush()
			im.htmlBlock(c, indent, out)
			continue
		}
		pending = im.htmlInlines(c, inline{size: im.size()}, pending)
	}
	flush()
}

func hasText(runs []*Text) bool {
	for _, r := range runs {
		if strings.TrimSpace(r.Content) != "" {
			return true
		}
	}
	return false
}

func isBlock(a atom.Atom, data string) bool {
	switch a {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.P, atom.Div, atom.Ul, atom.Ol, atom.Li, atom.Pre, atom.Table,
		atom.Blockquote, atom.Hr, atom.Img, atom.Html, atom.Body, atom.Head,
		atom.Section, atom.Article, atom.Header, atom.Footer, atom.Math:
		return true
	}
	return data == "math"
}

func (im *Importer) htmlBlock(n *html.Node, indent float64, out *[]Part) {
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level := int(n.Data[1] - '0')
		runs := im.htmlInlines(n, inline{bold: true, size: im.headingSize(level)}, nil)
		runs = trimRuns(runs)
		if len(runs) > 0 {
			*out = append(*out, im.heading(runs, indent))
		}
	case atom.P:
		runs := trimRuns(im.htmlInlines(n, inline{size: im.size()}, nil))
		if len(runs) > 0 {
			p := im.paragraph(runs, indent)
			p.Align = htmlAlign(n)
			*out = append(*out, p)
		}
	case atom.Ul, atom.Ol:
		im.htmlList(n, indent, out)
	case atom.Li:
		im.htmlListItem(n, bullet, indent, out)
	case atom.Pre:
		*out = append(*out, im.code(strings.Trim(extractText(n), "\n"), indent))
	case atom.Blockquote:
		im.walkHTML(n, indent+quoteIndent, out)
	case atom.Hr:
		*out = append(*out, NewText("\n"))
	case atom.Img:
		w, _ := strconv.ParseFloat(attr(n, "width"), 64)
		h, _ := strconv.ParseFloat(attr(n, "height"), 64)
		if p := im.image(attr(n, "src"), w, h); p != nil {
			*out = append(*out, p)
		}
	case atom.Table:
		if t := im.htmlTable(n); t != nil {
			*out = append(*out, t)
		}
	case atom.Head:
	default:
		if n.Data == "math" {
			if p := im.mathParagraph(n); p != nil {
				*out = append(*out, p)
			}
			return
		}
		im.walkHTML(n, indent, out)
	}
}

func (im *Importer) htmlList(n *html.Node, indent float64, out *[]Part) {
	num := 1
	if s, err := strconv.Atoi(attr(n, "start")); err == nil {
		num = s
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom != atom.Li {
			continue
		}
		marker := bullet
		if n.DataAtom == atom.Ol {
			marker = strconv.Itoa(num) + "."
			num++
		}
		im.htmlListItem(c, marker, indent, out)
	}
}

func (im *Importer) htmlListItem(n *html.Node, marker string, indent float64, out *[]Part) {
	runs := []*Text{im.run(marker+" ", inline{size: im.size()})}
	var nested []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Ul || c.DataAtom == atom.Ol) {
			nested = append(nested, c)
			continue
		}
		runs = im.htmlInlines(c, inline{size: im.size()}, runs)
	}
	*out = append(*out, im.paragraph(trimRuns(runs), indent+listIndent))
	for _, l := range nested {
		im.htmlList(l, indent+listIndent, out)
	}
}

// htmlInlines appends the runs of n and its inline descendants.
func (im *Importer) htmlInlines(n *html.Node, st inline, runs []*Text) []*Text {
	switch n.Type {
	case html.TextNode:
		return appendRun(runs, im.run(collapseSpace(n.Data), st))
	case html.ElementNode:
	default:
		return runs
	}
	switch n.DataAtom {
	case atom.B, atom.Strong, atom.Th:
		st.bold = true
	case atom.I, atom.Em, atom.Cite, atom.Var:
		st.italic = true
	case atom.Code, atom.Tt, atom.Kbd, atom.Samp:
		st.mono = true
	case atom.A:
		st.link = attr(n, "href") != ""
	case atom.Sup:
		st.rise += st.size * 0.33
		st.size *= 0.7
	case atom.Sub:
		st.rise -= st.size * 0.2
		st.size *= 0.7
	case atom.Br:
		return appendRun(runs, im.run("\n", st))
	case atom.Script, atom.Style, atom.Head:
		return runs
	}
	if n.Data == "math" {
		return im.mathRuns(n, st, runs)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		runs = im.htmlInlines(c, st, runs)
	}
	return runs
}

func (im *Importer) htmlTable(n *html.Node) *Table {
	t := NewTable(0)
	var walk func(*html.Node, bool)
	walk = func(n *html.Node, header bool) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Thead:
				walk(c, true)
			case atom.Tbody, atom.Tfoot:
				walk(c, false)
			case atom.Tr:
				var row []*Cell
				allHeader := true
				for td := c.FirstChild; td != nil; td = td.NextSibling {
					if td.Type != html.ElementNode || (td.DataAtom != atom.Td && td.DataAtom != atom.Th) {
						continue
					}
					isTH := td.DataAtom == atom.Th
					allHeader = allHeader && isTH
					st := inline{bold: isTH || header, size: im.size()}
					cell := &Cell{Text: joinRuns(im.htmlInlines(td, st, nil), st, im)}
					cell.Text.Align = htmlAlign(td)
					if span, err := strconv.Atoi(attr(td, "colspan")); err == nil && span > 1 {
						cell.ColSpan = span
					}
					if w, err := strconv.ParseFloat(attr(td, "width"), 64); err == nil {
						cell.Width = w
					}
					row = append(row, cell)
				}
				if len(row) == 0 {
					continue
				}
				if (header || allHeader) && len(t.Rows) == t.HeaderRows {
					t.HeaderRows++
				}
				t.AddRow(row...)
			}
		}
	}
	walk(n, false)
	if len(t.Rows) == 0 {
		return nil
	}
	if b, err := strconv.ParseFloat(attr(n, "border"), 64); err == nil {
		t.Border = b
	}
	return t
}

func htmlAlign(n *html.Node) Alignment {
	a := strings.ToLower(attr(n, "align"))
	if style := strings.ToLower(attr(n, "style")); strings.Contains(style, "text-align") {
		for _, decl := range strings.Split(style, ";") {
			k, v, ok := strings.Cut(decl, ":")
			if ok && strings.TrimSpace(k) == "text-align" {
				a = strings.TrimSpace(v)
			}
		}
	}
	switch a {
	case "center":
		return AlignCenter
	case "right":
		return AlignRight
	case "justify":
		return AlignJustify
	}
	return AlignLeft
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func collapseSpace(s string) string {
	if s == "" {
		return s
	}
	fields := strings.Fields(s)
	out := strings.Join(fields, " ")
	if isSpaceByte(s[0]) {
		out = " " + out
	}
	if len(fields) > 0 && isSpaceByte(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isSpaceByte(b byte) bool { return b == ' ' || b == '\n' || b == '\t' || b == '\r' }

// trimRuns drops leading and trailing whitespace-only runs.
func trimRuns(runs []*Text) []*Text {
	for len(runs) > 0 && strings.TrimSpace(runs[0].Content) == "" {
		runs = runs[1:]
	}
	for len(runs) > 0 && strings.TrimSpace(runs[len(runs)-1].Content) == "" {
		runs = runs[:len(runs)-1]
	}
	return runs
}

func extractText(n *html.Node) string {
	var sb strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return sb.String()
}
