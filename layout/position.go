package layout

import "math"

// Auto marks a coordinate the layout engine chooses.
const Auto = -math.MaxFloat32

const epsilon = 1e-5

func isAuto(v float64) bool { return v == Auto }

// Position locates a part in page space (origin bottom-left, y up). For
// parts it is the top-left corner; for a text line it is the baseline
// origin. Each coordinate is explicit or Auto independently.
type Position struct {
	X, Y float64
}

// AutoPosition lets the engine choose both coordinates.
func AutoPosition() Position { return Position{X: Auto, Y: Auto} }

// At returns an explicit position.
func At(x, y float64) Position { return Position{X: x, Y: y} }

func (p Position) HasX() bool { return !isAuto(p.X) }
func (p Position) HasY() bool { return !isAuto(p.Y) }

// HasCustomPosition reports whether either coordinate is explicit.
func (p Position) HasCustomPosition() bool { return p.HasX() || p.HasY() }

// Equal compares within 1e-5; Auto only equals Auto.
func (p Position) Equal(o Position) bool {
	return coordEqual(p.X, o.X) && coordEqual(p.Y, o.Y)
}

func coordEqual(a, b float64) bool {
	if isAuto(a) || isAuto(b) {
		return isAuto(a) && isAuto(b)
	}
	return math.Abs(a-b) <= epsilon
}

// Spacing is clearance reserved around a part.
type Spacing struct {
	Top, Bottom, Left, Right float64
}

// Margins defines page margins in points.
type Margins struct {
	Top, Bottom, Left, Right float64
}

// UniformMargins returns margins of v on every side.
func UniformMargins(v float64) Margins { return Margins{Top: v, Bottom: v, Left: v, Right: v} }

// Rect is an axis-aligned rectangle in page space.
type Rect struct {
	Left, Bottom, Right, Top float64
}

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Top - r.Bottom }

// Overlaps reports whether the interiors of r and o intersect. Rectangles
// that only share an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.Left < o.Right-epsilon && o.Left < r.Right-epsilon &&
		r.Bottom < o.Top-epsilon && o.Bottom < r.Top-epsilon
}

// Alignment controls horizontal placement of text within its line.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
	AlignJustify
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	}
	return "left"
}

// expand grows r by the clearance in sp.
func (r Rect) expand(sp Spacing) Rect {
	return Rect{Left: r.Left - sp.Left, Bottom: r.Bottom - sp.Bottom, Right: r.Right + sp.Right, Top: r.Top + sp.Top}
}

// continued is the position of a part's remainder on the next page: the
// left edge is kept, the vertical position is chosen again.
func continued(p Position) Position { return Position{X: p.X, Y: Auto} }
