package layout

import (
	"github.com/wudi/flowpdf/contentstream"
	"github.com/wudi/flowpdf/fonts"
	"github.com/wudi/flowpdf/images"
)

// Content is a resolved item on a page: one of *TextState,
// *ParagraphState, *TableState or *ImageState.
type Content interface{ content() }

// Line is one placed line of text.
type Line struct {
	// Position is the baseline origin of the line.
	Position Position
	Text     string
	// Width is the measured width before justification.
	Width float64
	// WordSpacing is the Tw value for justified lines, in unscaled text
	// space units.
	WordSpacing float64
}

// TextState is the placement of one Text on one page.
type TextState struct {
	Font    fonts.Key
	Metrics fonts.Metrics
	Size    float64
	// Scale is the horizontal scaling factor, 1 for none.
	Scale float64
	// Shear is the skew angle in radians.
	Shear float64
	// Rise moves glyphs above the line baseline.
	Rise  float64
	Color contentstream.Color
	Lines []Line
}

// ParagraphState holds the text states of a paragraph's runs and the
// images anchored to its lines.
type ParagraphState struct {
	Texts  []*TextState
	Images []*ImageState
}

// ImageState is a placed image. Rect is its bounding box in page space.
type ImageState struct {
	Image *images.Image
	Rect  Rect
}

// TableState holds the cells of the rows placed on one page.
type TableState struct {
	Cells []*CellState
}

// CellState is a placed table cell.
type CellState struct {
	Rect       Rect
	Border     float64
	Background *contentstream.Color
	Content    []Content
}

func (*TextState) content()      {}
func (*ParagraphState) content() {}
func (*ImageState) content()     {}
func (*TableState) content()     {}

// BoxKind classifies occupied areas.
type BoxKind int

const (
	// BoxFlow is an automatically placed area.
	BoxFlow BoxKind = iota
	// BoxExplicit is placed where the caller asked, without collision checks.
	BoxExplicit
	// BoxSpacing reserves room without holding content.
	BoxSpacing
	// BoxMaster was cloned from a master page.
	BoxMaster
)

// Box is an occupied rectangle, including the clearance of its part.
type Box struct {
	Rect
	Kind BoxKind
}

// Page is one page of the flow: its size, margins, placed content and the
// areas that content occupies.
type Page struct {
	Width    float64
	Height   float64
	Margins  Margins
	Leading  float64
	Rotation int

	content []Content
	boxes   []Box
	// cursor is the top edge of the last flow placement, or the bottom edge
	// of the last spacer.
	cursor       float64
	filledWidth  float64
	filledHeight float64
	master       *Page
	frozen       bool
}

// NewPage returns an empty page.
func NewPage(width, height float64, margins Margins) *Page {
	p := &Page{Width: width, Height: height, Margins: margins}
	p.cursor = p.Usable().Top
	return p
}

// fromMaster returns a new page that starts with the master's content.
func fromMaster(m *Page) *Page {
	p := NewPage(m.Width, m.Height, m.Margins)
	p.Leading = m.Leading
	p.Rotation = m.Rotation
	p.master = m
	p.content = append(p.content, m.content...)
	for _, b := range m.boxes {
		b.Kind = BoxMaster
		p.boxes = append(p.boxes, b)
	}
	return p
}

// Usable is the area inside the margins.
func (p *Page) Usable() Rect {
	return Rect{
		Left:   p.Margins.Left,
		Bottom: p.Margins.Bottom,
		Right:  p.Width - p.Margins.Right,
		Top:    p.Height - p.Margins.Top,
	}
}

// Content returns the placed content in insertion order.
func (p *Page) Content() []Content { return p.content }

// Boxes returns the occupied areas in insertion order.
func (p *Page) Boxes() []Box { return p.boxes }

// Master returns the template this page was created from, if any.
func (p *Page) Master() *Page { return p.master }

// FilledWidth and FilledHeight measure how far flow content reaches into
// the usable area from its top-left corner.
func (p *Page) FilledWidth() float64  { return p.filledWidth }
func (p *Page) FilledHeight() float64 { return p.filledHeight }

// IsEmpty reports whether nothing except master content was placed.
func (p *Page) IsEmpty() bool {
	for _, b := range p.boxes {
		if b.Kind != BoxMaster {
			return false
		}
	}
	return true
}

func (p *Page) add(c Content) { p.content = append(p.content, c) }

// reserve records an occupied area. Flow boxes move the cursor and grow
// the filled counters, which never exceed the usable area. Spacing boxes
// never block placement, so the cursor moves past their bottom edge.
func (p *Page) reserve(r Rect, kind BoxKind) {
	p.boxes = append(p.boxes, Box{Rect: r, Kind: kind})
	if kind != BoxFlow && kind != BoxSpacing {
		return
	}
	u := p.Usable()
	p.cursor = r.Top
	if kind == BoxSpacing {
		p.cursor = r.Bottom
	}
	if h := u.Top - r.Bottom; h > p.filledHeight {
		p.filledHeight = min(h, u.Height())
	}
	if kind == BoxFlow {
		if w := r.Right - u.Left; w > p.filledWidth {
			p.filledWidth = min(w, u.Width())
		}
	}
}

// isFree reports whether r overlaps no occupied area.
func (p *Page) isFree(r Rect) bool {
	for _, b := range p.boxes {
		if b.Overlaps(r) {
			return false
		}
	}
	return true
}

// spacer reserves a full-width band of height h below the flow.
func (p *Page) spacer(h float64) {
	if h <= 0 {
		return
	}
	u := p.Usable()
	slot, ok := p.OpenPosition(h, 0, Spacing{}, u.Width(), AutoPosition())
	if !ok {
		// Clamp to what is left above the bottom margin.
		top := p.lowestFlowBottom()
		if top <= u.Bottom {
			return
		}
		p.reserve(Rect{Left: u.Left, Bottom: u.Bottom, Right: u.Right, Top: top}, BoxSpacing)
		return
	}
	p.reserve(Rect{Left: u.Left, Bottom: slot.Top - h, Right: u.Right, Top: slot.Top}, BoxSpacing)
}

func (p *Page) lowestFlowBottom() float64 {
	low := p.Usable().Top
	for _, b := range p.boxes {
		if b.Bottom < low {
			low = b.Bottom
		}
	}
	return low
}

// extendBottom grows box i downward by h when the extra band is free,
// stopping at the bottom margin.
func (p *Page) extendBottom(i int, h float64) {
	if i < 0 || i >= len(p.boxes) || h <= 0 {
		return
	}
	b := p.boxes[i]
	u := p.Usable()
	ext := Rect{Left: b.Left, Right: b.Right, Top: b.Bottom, Bottom: max(b.Bottom-h, u.Bottom)}
	if ext.Height() <= 0 || !p.isFree(ext) {
		return
	}
	p.boxes[i].Bottom = ext.Bottom
	if b.Kind == BoxFlow {
		p.filledHeight = max(p.filledHeight, min(u.Top-ext.Bottom, u.Height()))
	}
}
