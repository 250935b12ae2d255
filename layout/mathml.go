package layout

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Script placement relative to the base size.
const (
	scriptScale = 0.7
	supRise     = 0.4
	subDrop     = 0.15
)

// Symbols outside WinAnsiEncoding get a plain-text spelling.
var mathSymbols = strings.NewReplacer(
	"−", "-",
	"⋅", "·",
	"∗", "*",
	"′", "'",
	"≤", "<=",
	"≥", ">=",
	"≠", "!=",
	"→", "->",
	"∞", "inf",
	"∑", "sum",
	"∫", "int",
	"α", "alpha",
	"β", "beta",
	"γ", "gamma",
	"δ", "delta",
	"ε", "epsilon",
	"θ", "theta",
	"λ", "lambda",
	"μ", "mu",
	"π", "pi",
	"σ", "sigma",
	"φ", "phi",
	"ω", "omega",
)

// binaryOps are spaced on both sides.
var binaryOps = map[string]bool{
	"=": true, "+": true, "-": true, "<": true, ">": true,
	"×": true, "÷": true, "±": true, "<=": true, ">=": true, "!=": true, "->": true,
}

// mathParagraph sets a formula as a paragraph of its own, centered when
// it is a display formula.
func (im *Importer) mathParagraph(n *html.Node) *Paragraph {
	runs := trimRuns(im.mathRuns(n, inline{size: im.size()}, nil))
	if len(runs) == 0 {
		return nil
	}
	p := im.paragraph(runs, 0)
	if attr(n, "display") == "block" {
		p.Align = AlignCenter
	}
	return p
}

func mathChildren(n *html.Node) []*html.Node {
	var kids []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode || (c.Type == html.TextNode && strings.TrimSpace(c.Data) != "") {
			kids = append(kids, c)
		}
	}
	return kids
}

func script(st inline, up bool) inline {
	s := st
	if up {
		s.rise += st.size * supRise
	} else {
		s.rise -= st.size * subDrop
	}
	s.size = st.size * scriptScale
	return s
}

// mathRuns linearizes MathML into runs. Scripts are raised or lowered and
// set smaller; fractions and roots are spelled out on the baseline.
func (im *Importer) mathRuns(n *html.Node, st inline, runs []*Text) []*Text {
	switch n.Type {
	case html.TextNode:
		s := strings.TrimSpace(n.Data)
		if s == "" {
			return runs
		}
		return appendRun(runs, im.run(mathSymbols.Replace(s), st))
	case html.ElementNode:
	default:
		return runs
	}

	kids := mathChildren(n)
	switch n.Data {
	case "annotation", "annotation-xml":
		return runs
	case "semantics":
		if len(kids) > 0 {
			return im.mathRuns(kids[0], st, runs)
		}
		return runs
	case "mi":
		s := strings.TrimSpace(extractText(n))
		is := st
		if utf8.RuneCountInString(s) == 1 && attr(n, "mathvariant") != "normal" {
			is.italic = true
		}
		return appendRun(runs, im.run(mathSymbols.Replace(s), is))
	case "mo":
		op := mathSymbols.Replace(strings.TrimSpace(extractText(n)))
		if binaryOps[op] && len(runs) > 0 {
			op = " " + op + " "
		}
		return appendRun(runs, im.run(op, st))
	case "mspace":
		return appendRun(runs, im.run(" ", st))
	case "mfrac":
		if len(kids) >= 2 {
			runs = im.mathGroup(kids[0], st, runs)
			runs = appendRun(runs, im.run("/", st))
			return im.mathGroup(kids[1], st, runs)
		}
	case "msup", "msub":
		if len(kids) >= 2 {
			runs = im.mathRuns(kids[0], st, runs)
			return im.mathRuns(kids[1], script(st, n.Data == "msup"), runs)
		}
	case "msubsup":
		if len(kids) >= 3 {
			runs = im.mathRuns(kids[0], st, runs)
			runs = im.mathRuns(kids[1], script(st, false), runs)
			return im.mathRuns(kids[2], script(st, true), runs)
		}
	case "msqrt":
		runs = appendRun(runs, im.run("sqrt(", st))
		for _, k := range kids {
			runs = im.mathRuns(k, st, runs)
		}
		return appendRun(runs, im.run(")", st))
	case "mroot":
		if len(kids) >= 2 {
			runs = im.mathRuns(kids[1], script(st, true), runs)
			runs = appendRun(runs, im.run("sqrt(", st))
			runs = im.mathRuns(kids[0], st, runs)
			return appendRun(runs, im.run(")", st))
		}
	}
	for _, k := range kids {
		runs = im.mathRuns(k, st, runs)
	}
	return runs
}

// mathGroup sets a fraction term, in parentheses when it has more than
// one element.
func (im *Importer) mathGroup(n *html.Node, st inline, runs []*Text) []*Text {
	compound := n.Type == html.ElementNode && n.Data == "mrow" && len(mathChildren(n)) > 1
	if compound {
		runs = appendRun(runs, im.run("(", st))
	}
	runs = im.mathRuns(n, st, runs)
	if compound {
		runs = appendRun(runs, im.run(")", st))
	}
	return runs
}
