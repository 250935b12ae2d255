package layout

import (
	"github.com/wudi/flowpdf/observability"
)

// AnchorSide says where an anchored image sits relative to its line.
type AnchorSide int

const (
	AnchorAbove AnchorSide = iota
	AnchorBelow
	AnchorLeft
	AnchorRight
)

// Anchor attaches an image to a line of one of a paragraph's texts.
// LineIndex counts the lines in which that text appears.
type Anchor struct {
	Image     *Image
	TextIndex int
	LineIndex int
	Side      AnchorSide
}

// Paragraph flows several texts as one block: each text continues on the
// line where the previous one ended. Alignment and placement belong to the
// paragraph; font, size and color belong to each text.
type Paragraph struct {
	Texts    []*Text
	Position Position
	Spacing  Spacing
	Align    Alignment
	Anchors  []Anchor
}

// NewParagraph returns a paragraph placed by the engine.
func NewParagraph(texts ...*Text) *Paragraph {
	return &Paragraph{Texts: texts, Position: AutoPosition()}
}

func (p *Paragraph) isPart() {}

func (p *Paragraph) process(e *env, page *Page, force bool) Part {
	if len(p.Texts) == 0 {
		return nil
	}
	styles := make([]*style, len(p.Texts))
	runs := make([]string, len(p.Texts))
	for i, t := range p.Texts {
		styles[i] = e.style(t)
		runs[i] = t.Content
	}
	s := newSplitter(styles, runs)
	res := flowLines(page, s, flowOptions{
		start:   p.Position,
		spacing: p.Spacing,
		align:   p.Align,
		leading: page.Leading,
		force:   force,
	})

	ps := &ParagraphState{}
	for _, ts := range res.states {
		if ts != nil {
			ps.Texts = append(ps.Texts, ts)
		}
	}
	var pending []Anchor
	for _, a := range p.Anchors {
		if a.Image == nil || a.Image.Source == nil || a.TextIndex < 0 || a.TextIndex >= len(p.Texts) || a.LineIndex < 0 {
			e.logger.Warn("anchor ignored",
				observability.Int("text", a.TextIndex),
				observability.Int("line", a.LineIndex))
			continue
		}
		lines := res.lines[a.TextIndex]
		if a.LineIndex >= len(lines) {
			pending = append(pending, a)
			continue
		}
		r := anchorRect(lines[a.LineIndex], a)
		ps.Images = append(ps.Images, &ImageState{Image: a.Image.Source, Rect: r})
		page.reserve(r.expand(a.Image.Spacing), BoxExplicit)
	}
	if len(ps.Texts) > 0 || len(ps.Images) > 0 {
		page.add(ps)
	}

	if s.done(res.next) {
		for _, a := range pending {
			e.logger.Warn("anchor line not found",
				observability.Int("text", a.TextIndex),
				observability.Int("line", a.LineIndex))
		}
		return nil
	}

	first := s.toks[res.next].run
	rest := &Paragraph{Position: continued(p.Position), Spacing: p.Spacing, Align: p.Align}
	if res.next > 0 && s.toks[res.next-1].run == first {
		t := *p.Texts[first]
		t.Content = s.rest(res.next, first)
		t.Position = AutoPosition()
		rest.Texts = append(rest.Texts, &t)
	} else {
		rest.Texts = append(rest.Texts, p.Texts[first])
	}
	rest.Texts = append(rest.Texts, p.Texts[first+1:]...)
	for _, a := range pending {
		if a.TextIndex < first {
			e.logger.Warn("anchor line not found",
				observability.Int("text", a.TextIndex),
				observability.Int("line", a.LineIndex))
			continue
		}
		a.LineIndex -= len(res.lines[a.TextIndex])
		a.TextIndex -= first
		rest.Anchors = append(rest.Anchors, a)
	}
	return rest
}

// anchorRect places an anchored image against the rectangle of its line.
func anchorRect(line Rect, a Anchor) Rect {
	w, h := a.Image.size()
	switch a.Side {
	case AnchorBelow:
		return Rect{Left: line.Left, Bottom: line.Bottom - h, Right: line.Left + w, Top: line.Bottom}
	case AnchorLeft:
		return Rect{Left: line.Left - w, Bottom: line.Top - h, Right: line.Left, Top: line.Top}
	case AnchorRight:
		return Rect{Left: line.Right, Bottom: line.Top - h, Right: line.Right + w, Top: line.Top}
	}
	return Rect{Left: line.Left, Bottom: line.Top, Right: line.Left + w, Top: line.Top + h}
}
