package fonts

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Type1 provides metrics for a Type 1 font described by an AFM file,
// optionally with an embeddable program.
type Type1 struct {
	afm      *AFM
	name     string
	italic   float64
	flags    Flags
	stemV    int
	program  *Program
	symbolic bool
}

var _ Metrics = (*Type1)(nil)

// NewType1 builds metrics from a parsed AFM. pfb may be nil, in which case
// the font is referenced by name only.
func NewType1(afm *AFM, pfb []byte) (*Type1, error) {
	f := &Type1{
		afm:    afm,
		name:   afm.FontName,
		italic: afm.ItalicAngle,
		stemV:  afm.StdVW,
	}
	if f.stemV == 0 {
		f.stemV = 80
	}
	f.symbolic = afm.EncodingScheme == "FontSpecific"
	f.flags = afmFlags(afm)
	if len(pfb) > 0 {
		prog, err := ParsePFB(pfb)
		if err != nil {
			return nil, fmt.Errorf("font %s: %w", afm.FontName, err)
		}
		f.program = prog
	}
	return f, nil
}

// LoadType1 parses an AFM file and an optional PFB program.
func LoadType1(afmData, pfbData []byte) (*Type1, error) {
	afm, err := ParseAFM(bytes.NewReader(afmData))
	if err != nil {
		return nil, fmt.Errorf("parse afm: %w", err)
	}
	return NewType1(afm, pfbData)
}

func afmFlags(afm *AFM) Flags {
	var fl Flags
	if afm.EncodingScheme == "FontSpecific" {
		fl |= FlagSymbolic
	} else {
		fl |= FlagNonsymbolic
	}
	if afm.IsFixedPitch {
		fl |= FlagFixedPitch
	}
	if afm.ItalicAngle != 0 {
		fl |= FlagItalic
	}
	return fl
}

// withStyle derives a synthetic variant sharing the same glyph metrics,
// as the Oblique standard faces do.
func (f *Type1) withStyle(name string, italicAngle float64) *Type1 {
	v := *f
	v.name = name
	v.italic = italicAngle
	if italicAngle != 0 {
		v.flags |= FlagItalic
	}
	return &v
}

func (f *Type1) Name() string    { return f.name }
func (f *Type1) Subtype() string { return "Type1" }
func (f *Type1) Flags() Flags    { return f.flags }

// AFM exposes the parsed metrics file.
func (f *Type1) AFM() *AFM { return f.afm }

func (f *Type1) glyphFor(r rune) (*Glyph, bool) {
	code := WinAnsiCode(r)
	var name string
	if f.symbolic {
		name, _ = f.afm.GlyphAt(int(code))
	} else {
		name = GlyphName(code)
	}
	if g, ok := f.afm.Glyphs[name]; ok {
		return g, true
	}
	if b := baseRune(r); b != r {
		return f.glyphFor(b)
	}
	return nil, false
}

func (f *Type1) Width(r rune) int {
	if g, ok := f.glyphFor(r); ok {
		return g.Width
	}
	if g, ok := f.afm.Glyphs["question"]; ok {
		return g.Width
	}
	return 0
}

func (f *Type1) Kerning(left, right rune) int {
	l, ok := f.glyphFor(left)
	if !ok {
		return 0
	}
	r, ok := f.glyphFor(right)
	if !ok {
		return 0
	}
	return f.afm.Kern(l.Name, r.Name)
}

func (f *Type1) Ascent(size float64) float64  { return float64(f.afm.Ascender) * size / 1000 }
func (f *Type1) Descent(size float64) float64 { return float64(f.afm.Descender) * size / 1000 }

func (f *Type1) Program() (*Program, bool) { return f.program, f.program != nil }

func (f *Type1) Descriptor() Descriptor {
	bbox := f.afm.BBox
	return Descriptor{
		FontName:    f.name,
		Flags:       f.flags,
		ItalicAngle: f.italic,
		Ascent:      float64(f.afm.Ascender),
		Descent:     float64(f.afm.Descender),
		CapHeight:   float64(f.afm.CapHeight),
		XHeight:     float64(f.afm.XHeight),
		StemV:       f.stemV,
		BBox:        [4]float64{float64(bbox[0]), float64(bbox[1]), float64(bbox[2]), float64(bbox[3])},
	}
}

// Differences maps codes to the glyph names of a font-specific encoding.
// Fonts with a standard encoding report none.
func (f *Type1) Differences() map[byte]string {
	if !f.symbolic {
		return nil
	}
	diffs := make(map[byte]string)
	for code := 32; code < 256; code++ {
		if name, ok := f.afm.GlyphAt(code); ok && name != GlyphName(byte(code)) {
			diffs[byte(code)] = name
		}
	}
	return diffs
}

// ParsePFB strips the segment headers from a PFB file and returns the
// program in the form embedded as /FontFile, with the cleartext, binary
// and trailer lengths.
func ParsePFB(data []byte) (*Program, error) {
	r := bytes.NewReader(data)
	var out bytes.Buffer
	var lengths []int
	for {
		kind, err := checkHeader(r)
		if err != nil {
			return nil, err
		}
		if kind == 3 {
			break
		}
		n, err := readLength(r)
		if err != nil {
			return nil, err
		}
		if int64(n) > int64(r.Len()) {
			return nil, fmt.Errorf("pfb segment length %d exceeds remaining %d bytes", n, r.Len())
		}
		if _, err := io.CopyN(&out, r, int64(n)); err != nil {
			return nil, err
		}
		// Consecutive segments of the same kind count as one part.
		if len(lengths) > 0 && len(lengths)%2 == int(kind)%2 {
			lengths[len(lengths)-1] += int(n)
		} else {
			lengths = append(lengths, int(n))
		}
		if r.Len() == 0 {
			break
		}
	}
	if len(lengths) < 2 {
		return nil, fmt.Errorf("pfb: expected cleartext and binary segments, got %d", len(lengths))
	}
	prog := &Program{Key: "FontFile", Data: out.Bytes(), Length1: lengths[0], Length2: lengths[1]}
	if len(lengths) > 2 {
		prog.Length3 = lengths[2]
	}
	return prog, nil
}

func checkHeader(r *bytes.Reader) (byte, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	if b != 0x80 {
		return 0, fmt.Errorf("invalid pfb header byte: %x", b)
	}
	t, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	if t < 1 || t > 3 {
		return 0, fmt.Errorf("invalid pfb segment type %d", t)
	}
	return t, nil
}

func readLength(r *bytes.Reader) (uint32, error) {
	var l uint32
	if err := binary.Read(r, binary.LittleEndian, &l); err != nil {
		return 0, err
	}
	return l, nil
}
