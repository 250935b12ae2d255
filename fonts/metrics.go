package fonts

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrUnknownFont is returned when no metrics are registered for a key.
var ErrUnknownFont = errors.New("unknown font")

// Style selects a face within a family.
type Style uint8

const (
	Regular Style = 0
	Bold    Style = 1 << 0
	Italic  Style = 1 << 1
)

func (s Style) String() string {
	switch s {
	case Regular:
		return "regular"
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case Bold | Italic:
		return "bold-italic"
	}
	return "style(" + strconv.Itoa(int(s)) + ")"
}

// Key identifies a font within a document. Two parts that use the same
// key share one PDF font object.
type Key struct {
	Family string
	Style  Style
}

func (k Key) String() string { return k.Family + "/" + k.Style.String() }

// Normalize lower-cases the family so lookups are case-insensitive.
func (k Key) Normalize() Key {
	return Key{Family: strings.ToLower(strings.TrimSpace(k.Family)), Style: k.Style}
}

// Flags is the /Flags bitset of a font descriptor.
type Flags uint32

const (
	FlagFixedPitch  Flags = 1 << 0
	FlagSerif       Flags = 1 << 1
	FlagSymbolic    Flags = 1 << 2
	FlagScript      Flags = 1 << 3
	FlagNonsymbolic Flags = 1 << 5
	FlagItalic      Flags = 1 << 6
	FlagForceBold   Flags = 1 << 18
)

// Program holds embeddable font program bytes.
type Program struct {
	// Key is the descriptor entry the stream is attached to: FontFile or FontFile2.
	Key     string
	Data    []byte
	Length1 int
	Length2 int
	Length3 int
}

// Descriptor carries the values written into a /FontDescriptor.
// Vertical values are in glyph space (1/1000 em).
type Descriptor struct {
	FontName    string
	Flags       Flags
	ItalicAngle float64
	Ascent      float64
	Descent     float64
	CapHeight   float64
	XHeight     float64
	StemV       int
	BBox        [4]float64
}

// Metrics is the per-font provider used by layout and by font embedding.
// Widths and kerning are in 1/1000 em. Implementations must be
// deterministic for a given key.
type Metrics interface {
	// Name is the PostScript name written as /BaseFont.
	Name() string
	// Subtype is the /Subtype of the font dictionary: Type1 or TrueType.
	Subtype() string
	Width(r rune) int
	Kerning(left, right rune) int
	Ascent(size float64) float64
	// Descent is negative for glyphs that extend below the baseline.
	Descent(size float64) float64
	Program() (*Program, bool)
	Flags() Flags
	Descriptor() Descriptor
}

// Differencer is implemented by fonts whose glyph names differ from
// WinAnsiEncoding for some codes.
type Differencer interface {
	Differences() map[byte]string
}

// RunMeasurer is implemented by fonts that measure whole runs, for
// instance through a shaping engine. The result is in 1/1000 em.
type RunMeasurer interface {
	MeasureRun(text string) float64
}

// MeasureString returns the width of s set at size, in points.
func MeasureString(m Metrics, s string, size float64) float64 {
	if s == "" {
		return 0
	}
	if rm, ok := m.(RunMeasurer); ok {
		return rm.MeasureRun(s) * size / 1000
	}
	total := 0
	prev := rune(-1)
	for _, r := range s {
		total += m.Width(r)
		if prev >= 0 {
			total += m.Kerning(prev, r)
		}
		prev = r
	}
	return float64(total) * size / 1000
}

// baseRune strips combining marks so an accented letter can borrow the
// metrics of its base glyph.
func baseRune(r rune) rune {
	d := norm.NFD.String(string(r))
	for _, b := range d {
		return b
	}
	return r
}
