package layout

import (
	"math"
	"strings"

	"github.com/wudi/flowpdf/contentstream"
	"github.com/wudi/flowpdf/fonts"
)

// Text is a run of text set in a single font and size. Lines wrap at word
// boundaries to the width available where each line lands; a line break in
// Content forces a new line.
type Text struct {
	Content string
	// Font selects the face; an empty family uses the flow's current font
	// with the given style.
	Font fonts.Key
	// Size in points; 0 uses the flow's current size.
	Size     float64
	Color    contentstream.Color
	Position Position
	Spacing  Spacing
	Align    Alignment
	// Leading is the baseline-to-baseline distance; 0 uses the page's
	// leading, or 1.2 times the size.
	Leading float64
	// Scale is the horizontal scaling factor; 0 means 1.
	Scale float64
	// Shear skews glyphs by the given angle in radians.
	Shear float64
	// Rise raises the glyphs above the baseline, negative to lower them.
	Rise float64
}

// NewText returns a Text placed by the engine.
func NewText(content string) *Text {
	return &Text{Content: content, Position: AutoPosition()}
}

// At pins the top-left corner of the text and returns t.
func (t *Text) At(x, y float64) *Text {
	t.Position = At(x, y)
	return t
}

func (t *Text) isPart() {}

func (t *Text) process(e *env, page *Page, force bool) Part {
	st := e.style(t)
	if strings.TrimSpace(t.Content) == "" {
		lines := max(1, strings.Count(t.Content, "\n"))
		page.spacer(float64(lines)*st.advance(page.Leading) + t.Spacing.Top + t.Spacing.Bottom)
		return nil
	}
	s := newSplitter([]*style{st}, []string{t.Content})
	res := flowLines(page, s, flowOptions{
		start:   t.Position,
		spacing: t.Spacing,
		align:   t.Align,
		leading: page.Leading,
		force:   force,
	})
	if ts := res.states[0]; ts != nil {
		page.add(ts)
	}
	if s.done(res.next) {
		return nil
	}
	rest := *t
	rest.Content = s.rest(res.next, 0)
	rest.Position = continued(t.Position)
	return &rest
}

type flowOptions struct {
	start   Position
	spacing Spacing
	align   Alignment
	leading float64
	force   bool
}

type flowResult struct {
	// states holds one text state per run, nil for runs with no line here.
	states []*TextState
	// lines holds, per run, the rectangle of each line segment placed.
	lines [][]Rect
	// next is the first token left unplaced.
	next int
}

// flowLines places the splitter's tokens on page one line at a time, each
// line in the first open slot below the previous one. Text with an
// explicit top-left corner is set there without collision checks; when
// that corner lies outside the usable area every hard line is set as-is.
func flowLines(page *Page, s *splitter, o flowOptions) flowResult {
	u := page.Usable()
	sp := o.spacing
	res := flowResult{
		states: make([]*TextState, len(s.styles)),
		lines:  make([][]Rect, len(s.styles)),
	}
	explicit := o.start.HasX() && o.start.HasY()
	outside := explicit && !(o.start.X >= u.Left && o.start.X < u.Right &&
		o.start.Y <= u.Top && o.start.Y > u.Bottom)
	maxWidth := u.Width() - sp.Left - sp.Right
	wasEmpty := page.IsEmpty()
	top := o.start.Y
	placed := 0
	lastBox := -1

	place := func(above, down, width float64) (Slot, BoxKind, bool) {
		if explicit {
			avail := u.Right - o.start.X - sp.Right
			if outside {
				avail = math.Inf(1)
			} else if placed > 0 && top-above-down < u.Bottom-epsilon {
				return Slot{}, 0, false
			}
			return Slot{X: o.start.X, Top: top, Baseline: top - above, Available: avail}, BoxExplicit, true
		}
		lineSp := Spacing{Left: sp.Left, Right: sp.Right}
		if placed == 0 {
			lineSp.Top = sp.Top
		}
		start := Position{X: o.start.X, Y: top}
		if slot, ok := page.OpenPosition(above, down, lineSp, math.Min(width, maxWidth), start); ok {
			return slot, BoxFlow, true
		}
		if placed > 0 || !(o.force || wasEmpty) {
			return Slot{}, 0, false
		}
		// Nothing fits even on a fresh page: set the first line at the
		// top-left corner and let it overflow.
		x := u.Left + sp.Left
		if o.start.HasX() {
			x = o.start.X
		}
		t := u.Top - sp.Top
		if o.start.HasY() {
			t = o.start.Y
		}
		return Slot{X: x, Top: t, Baseline: t - above, Available: u.Right - x - sp.Right}, BoxFlow, true
	}

	commit := func(slot Slot, kind BoxKind, down, width float64) {
		box := Rect{
			Left:   slot.X - sp.Left,
			Bottom: slot.Baseline - down,
			Right:  slot.X + slot.Available + sp.Right,
			Top:    slot.Top,
		}
		if math.IsInf(slot.Available, 1) {
			box.Right = slot.X + width + sp.Right
		}
		if kind == BoxFlow && placed == 0 {
			box.Top += sp.Top
		}
		page.reserve(box, kind)
		lastBox = len(page.boxes) - 1
		top = box.Bottom
		placed++
	}

	i := 0
	for !s.done(i) {
		if placed > 0 {
			for b := 1; b < s.toks[i].breaks; b++ {
				above, down := s.metrics(i, i+1, o.leading)
				slot, kind, ok := place(above, down, 0)
				if !ok {
					res.next = i
					return res
				}
				commit(slot, kind, down, 0)
			}
		}

		above, down := s.metrics(i, i+1, o.leading)
		var (
			slot Slot
			kind BoxKind
			fit  lineFit
		)
		for {
			var ok bool
			slot, kind, ok = place(above, down, s.wordWidth(i))
			if !ok {
				res.next = i
				return res
			}
			fit = s.fill(i, slot.Available)
			a, d := s.metrics(fit.start, fit.end, o.leading)
			if a <= above+epsilon && d <= down+epsilon {
				break
			}
			// A taller run joined the line: find room for the larger extents.
			above, down = math.Max(above, a), math.Max(down, d)
		}

		last := s.done(fit.end) || s.toks[fit.end].breaks > 0
		offset, perSpace := alignLine(o.align, fit, slot.Available, last)
		x := slot.X + offset
		for _, seg := range fit.segs {
			st := s.styles[seg.run]
			ts := res.states[seg.run]
			if ts == nil {
				ts = st.newState()
				res.states[seg.run] = ts
			}
			ts.Lines = append(ts.Lines, Line{
				Position:    Position{X: x, Y: slot.Baseline},
				Text:        seg.text,
				Width:       seg.width,
				WordSpacing: perSpace / st.scale,
			})
			w := seg.width + perSpace*float64(seg.spaces)
			res.lines[seg.run] = append(res.lines[seg.run], Rect{
				Left:   x,
				Bottom: slot.Baseline - st.below(),
				Right:  x + w,
				Top:    slot.Baseline + st.above(),
			})
			x += w
		}
		commit(slot, kind, down, fit.width)
		i = fit.end
	}
	page.extendBottom(lastBox, sp.Bottom)
	res.next = i
	return res
}

// alignLine returns the offset of a line within its slot and the extra
// width added to each space when justifying. The last line of a block is
// never justified; lines wider than the slot are not moved.
func alignLine(a Alignment, fit lineFit, avail float64, last bool) (offset, perSpace float64) {
	slack := avail - fit.width
	if slack <= epsilon || math.IsInf(avail, 1) {
		return 0, 0
	}
	switch a {
	case AlignRight:
		return slack, 0
	case AlignCenter:
		return slack / 2, 0
	case AlignJustify:
		if !last && fit.spaces > 0 {
			return 0, slack / float64(fit.spaces)
		}
	}
	return 0, 0
}
