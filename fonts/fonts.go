package fonts

import (
	"fmt"
	"math"
	"strings"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// TrueType provides metrics for a TrueType/OpenType font embedded as a
// simple font with WinAnsiEncoding and a /FontFile2 program. The full
// font is embedded (no subsetting).
type TrueType struct {
	font       *sfnt.Font
	buf        sfnt.Buffer
	data       []byte
	name       string
	unitsPerEm sfnt.Units
	ppem       fixed.Int26_6
	desc       Descriptor
	widths     map[rune]int
	shaper     *runShaper
}

var _ Metrics = (*TrueType)(nil)

// LoadTrueType parses font data. name is used when the font carries no
// PostScript name.
func LoadTrueType(name string, data []byte) (*TrueType, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("truetype font data is empty")
	}
	font, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse truetype: %w", err)
	}
	unitsPerEm := font.UnitsPerEm()
	if unitsPerEm == 0 {
		return nil, fmt.Errorf("invalid unitsPerEm")
	}
	t := &TrueType{
		font:       font,
		data:       data,
		unitsPerEm: unitsPerEm,
		ppem:       fixed.Int26_6(unitsPerEm << 6),
		widths:     make(map[rune]int),
	}

	baseName := strings.TrimSpace(name)
	if ps, _ := font.Name(&t.buf, sfnt.NameIDPostScript); len(ps) > 0 {
		baseName = ps
	}
	if baseName == "" {
		baseName = "CustomTT"
	}
	t.name = strings.ReplaceAll(baseName, " ", "")

	metrics, err := font.Metrics(&t.buf, t.ppem, xfont.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("truetype metrics: %w", err)
	}
	bounds, err := font.Bounds(&t.buf, t.ppem, xfont.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("truetype bounds: %w", err)
	}
	italic := italicAngle(font)
	flags := FlagNonsymbolic
	if italic != 0 {
		flags |= FlagItalic
	}
	capHeight := t.scale(metrics.CapHeight)
	if capHeight == 0 {
		capHeight = t.scale(metrics.Ascent)
	}
	t.desc = Descriptor{
		FontName:    t.name,
		Flags:       flags,
		ItalicAngle: italic,
		Ascent:      t.scale(metrics.Ascent),
		Descent:     -t.scale(metrics.Descent),
		CapHeight:   capHeight,
		XHeight:     t.scale(metrics.XHeight),
		StemV:       80,
		// Bounds are y-down; flip into glyph space.
		BBox: [4]float64{
			t.scale(bounds.Min.X),
			-t.scale(bounds.Max.Y),
			t.scale(bounds.Max.X),
			-t.scale(bounds.Min.Y),
		},
	}
	t.shaper = newRunShaper(data)
	return t, nil
}

func (t *TrueType) Name() string                 { return t.name }
func (t *TrueType) Subtype() string              { return "TrueType" }
func (t *TrueType) Flags() Flags                 { return t.desc.Flags }
func (t *TrueType) Descriptor() Descriptor       { return t.desc }
func (t *TrueType) Ascent(size float64) float64  { return t.desc.Ascent * size / 1000 }
func (t *TrueType) Descent(size float64) float64 { return t.desc.Descent * size / 1000 }

func (t *TrueType) Program() (*Program, bool) {
	return &Program{Key: "FontFile2", Data: t.data, Length1: len(t.data)}, true
}

// Width returns the advance of the glyph that WinAnsiEncoding selects for r.
func (t *TrueType) Width(r rune) int {
	r = WinAnsiRune(WinAnsiCode(r))
	if w, ok := t.widths[r]; ok {
		return w
	}
	w := 0
	if gi, err := t.font.GlyphIndex(&t.buf, r); err == nil && gi != 0 {
		if adv, err := t.font.GlyphAdvance(&t.buf, gi, t.ppem, xfont.HintingNone); err == nil {
			w = int(math.Round(t.scale(adv)))
		}
	}
	t.widths[r] = w
	return w
}

// Kerning reads the legacy kern table. Fonts that only carry GPOS kerning
// report zero here; MeasureRun covers them.
func (t *TrueType) Kerning(left, right rune) int {
	g0, err := t.font.GlyphIndex(&t.buf, left)
	if err != nil || g0 == 0 {
		return 0
	}
	g1, err := t.font.GlyphIndex(&t.buf, right)
	if err != nil || g1 == 0 {
		return 0
	}
	k, err := t.font.Kern(&t.buf, g0, g1, t.ppem, xfont.HintingNone)
	if err != nil {
		return 0
	}
	return int(math.Round(t.scale(k)))
}

// MeasureRun shapes text and returns its advance in 1/1000 em. Without a
// usable shaping face it falls back to summing widths and kerning.
func (t *TrueType) MeasureRun(text string) float64 {
	if t.shaper != nil {
		if w, ok := t.shaper.advance(text); ok {
			return w
		}
	}
	total := 0
	prev := rune(-1)
	for _, r := range text {
		total += t.Width(r)
		if prev >= 0 {
			total += t.Kerning(prev, r)
		}
		prev = r
	}
	return float64(total)
}

func (t *TrueType) scale(v fixed.Int26_6) float64 { return scaleFixed(v, t.unitsPerEm) }

func italicAngle(font *sfnt.Font) float64 {
	post := font.PostTable()
	if post == nil {
		return 0
	}
	return post.ItalicAngle
}

func scaleFixed(val fixed.Int26_6, unitsPerEm sfnt.Units) float64 {
	return float64(val) * 1000.0 / (64.0 * float64(unitsPerEm))
}
