package contentstream

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/wudi/flowpdf/coords"
)

// Stream accumulates content stream operators for one page.
//
//	s := contentstream.New()
//	s.BeginText()
//	s.SetFont("F1", 12)
//	s.SetTextMatrix(coords.Translate(72, 720))
//	s.ShowText([]byte("Hello"))
//	s.EndText()
type Stream struct {
	buf bytes.Buffer
}

func New() *Stream { return &Stream{} }

func (s *Stream) Bytes() []byte  { return s.buf.Bytes() }
func (s *Stream) String() string { return s.buf.String() }
func (s *Stream) Len() int       { return s.buf.Len() }

// writeOp writes operands then the operator, one operation per line.
func (s *Stream) writeOp(operator string, operands ...string) {
	for _, o := range operands {
		s.buf.WriteString(o)
		s.buf.WriteByte(' ')
	}
	s.buf.WriteString(operator)
	s.buf.WriteByte('\n')
}

func (s *Stream) BeginText() { s.writeOp("BT") }
func (s *Stream) EndText()   { s.writeOp("ET") }

// SetFont selects a font resource (Tf).
func (s *Stream) SetFont(name string, size float64) {
	s.writeOp("Tf", "/"+name, Number(size))
}

// SetTextMatrix sets the text and text line matrix (Tm).
func (s *Stream) SetTextMatrix(m coords.Matrix) {
	s.writeOp("Tm", matrixOperands(m)...)
}

// SetWordSpacing sets the extra space added at each 0x20 byte (Tw).
func (s *Stream) SetWordSpacing(w float64) { s.writeOp("Tw", Number(w)) }

// SetCharSpacing sets the extra space added after each glyph (Tc).
func (s *Stream) SetCharSpacing(c float64) { s.writeOp("Tc", Number(c)) }

// SetRise moves the baseline of subsequent glyphs up by r.
func (s *Stream) SetRise(r float64) { s.writeOp("Ts", Number(r)) }

// ShowText shows an already encoded string (Tj).
func (s *Stream) ShowText(text []byte) { s.writeOp("Tj", EscapeString(text)) }

func (s *Stream) SaveState()    { s.writeOp("q") }
func (s *Stream) RestoreState() { s.writeOp("Q") }

// Transform concatenates m onto the current transformation matrix (cm).
func (s *Stream) Transform(m coords.Matrix) { s.writeOp("cm", matrixOperands(m)...) }

// DrawXObject paints a named XObject resource (Do).
func (s *Stream) DrawXObject(name string) { s.writeOp("Do", "/"+name) }

func (s *Stream) SetFillColor(c Color) {
	s.writeOp("rg", Number(c.R), Number(c.G), Number(c.B))
}

func (s *Stream) SetStrokeColor(c Color) {
	s.writeOp("RG", Number(c.R), Number(c.G), Number(c.B))
}

func (s *Stream) SetLineWidth(w float64) { s.writeOp("w", Number(w)) }
func (s *Stream) SetLineCap(c LineCap)   { s.writeOp("J", strconv.Itoa(int(c))) }
func (s *Stream) MoveTo(x, y float64)    { s.writeOp("m", Number(x), Number(y)) }
func (s *Stream) LineTo(x, y float64)    { s.writeOp("l", Number(x), Number(y)) }
func (s *Stream) Stroke()                { s.writeOp("S") }
func (s *Stream) Fill()                  { s.writeOp("f") }
func (s *Stream) Rectangle(x, y, w, h float64) {
	s.writeOp("re", Number(x), Number(y), Number(w), Number(h))
}

func matrixOperands(m coords.Matrix) []string {
	out := make([]string, len(m))
	for i, v := range m {
		out[i] = Number(v)
	}
	return out
}

// Number formats v with at most four decimals and no trailing zeros.
func Number(v float64) string {
	v = math.Round(v*1e4) / 1e4
	if v == 0 {
		return "0"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// EscapeString returns data as a literal string operand.
func EscapeString(data []byte) string {
	var b strings.Builder
	b.Grow(len(data) + 2)
	b.WriteByte('(')
	for _, c := range data {
		switch c {
		case '\\', '(', ')':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\r':
			b.WriteString(`\r`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(')')
	return b.String()
}
