package fonts

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Glyph is one character metric entry of an AFM file.
type Glyph struct {
	Code  int
	Width int
	Name  string
	BBox  [4]int
}

type kernPair struct{ left, right string }

// AFM holds the parsed contents of an Adobe Font Metrics file.
type AFM struct {
	FontName       string
	FamilyName     string
	Weight         string
	EncodingScheme string
	ItalicAngle    float64
	IsFixedPitch   bool
	BBox           [4]int
	CapHeight      int
	XHeight        int
	Ascender       int
	Descender      int
	StdVW          int

	Glyphs map[string]*Glyph
	byCode map[int]string
	kern   map[kernPair]int
}

// ParseAFM reads font metrics in Adobe's AFM text format. Only the global
// header, the character metrics and the kerning pairs are used.
func ParseAFM(r io.Reader) (*AFM, error) {
	afm := &AFM{
		Glyphs: make(map[string]*Glyph),
		byCode: make(map[int]string),
		kern:   make(map[kernPair]int),
	}
	sc := bufio.NewScanner(r)
	section := ""
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "Comment") {
			continue
		}
		key, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)
		switch key {
		case "StartFontMetrics":
			continue
		case "StartCharMetrics", "StartKernPairs", "StartKernPairs0":
			section = key
			continue
		case "EndCharMetrics", "EndKernPairs":
			section = ""
			continue
		case "EndFontMetrics":
			return afm.finish()
		}

		var err error
		switch section {
		case "StartCharMetrics":
			err = afm.parseGlyph(line)
		case "StartKernPairs", "StartKernPairs0":
			err = afm.parseKerning(line)
		default:
			err = afm.parseHeader(key, rest)
		}
		if err != nil {
			return nil, fmt.Errorf("afm line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read afm: %w", err)
	}
	return afm.finish()
}

func (a *AFM) finish() (*AFM, error) {
	if a.FontName == "" {
		return nil, fmt.Errorf("afm: missing FontName")
	}
	if len(a.Glyphs) == 0 {
		return nil, fmt.Errorf("afm %s: no character metrics", a.FontName)
	}
	return a, nil
}

func (a *AFM) parseHeader(key, rest string) error {
	var err error
	switch key {
	case "FontName":
		a.FontName = rest
	case "FamilyName":
		a.FamilyName = rest
	case "Weight":
		a.Weight = rest
	case "EncodingScheme":
		a.EncodingScheme = rest
	case "ItalicAngle":
		_, err = fmt.Sscanf(rest, "%g", &a.ItalicAngle)
	case "IsFixedPitch":
		a.IsFixedPitch = rest == "true"
	case "FontBBox":
		_, err = fmt.Sscanf(rest, "%d %d %d %d", &a.BBox[0], &a.BBox[1], &a.BBox[2], &a.BBox[3])
	case "CapHeight":
		_, err = fmt.Sscanf(rest, "%d", &a.CapHeight)
	case "XHeight":
		_, err = fmt.Sscanf(rest, "%d", &a.XHeight)
	case "Ascender":
		_, err = fmt.Sscanf(rest, "%d", &a.Ascender)
	case "Descender":
		_, err = fmt.Sscanf(rest, "%d", &a.Descender)
	case "StdVW":
		_, err = fmt.Sscanf(rest, "%d", &a.StdVW)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

// parseGlyph handles lines such as "C 102 ; WX 333 ; N f ; B 20 0 383 683 ;".
func (a *AFM) parseGlyph(line string) error {
	g := &Glyph{Code: -1}
	for _, elt := range strings.Split(line, ";") {
		elt = strings.TrimSpace(elt)
		if elt == "" {
			continue
		}
		var n int
		var s string
		switch {
		case strings.HasPrefix(elt, "C "):
			if _, err := fmt.Sscanf(elt, "C %d", &n); err != nil {
				return err
			}
			g.Code = n
		case strings.HasPrefix(elt, "CH "):
			if _, err := fmt.Sscanf(elt, "CH <%x>", &n); err != nil {
				return err
			}
			g.Code = n
		case strings.HasPrefix(elt, "WX "):
			if _, err := fmt.Sscanf(elt, "WX %d", &n); err != nil {
				return err
			}
			g.Width = n
		case strings.HasPrefix(elt, "N "):
			if _, err := fmt.Sscanf(elt, "N %s", &s); err != nil {
				return err
			}
			g.Name = s
		case strings.HasPrefix(elt, "B "):
			if _, err := fmt.Sscanf(elt, "B %d %d %d %d", &g.BBox[0], &g.BBox[1], &g.BBox[2], &g.BBox[3]); err != nil {
				return err
			}
		}
	}
	if g.Name == "" {
		return fmt.Errorf("glyph without name: %q", line)
	}
	a.Glyphs[g.Name] = g
	if g.Code >= 0 {
		a.byCode[g.Code] = g.Name
	}
	return nil
}

// parseKerning handles "KPX A T -120". Other pair forms are ignored.
func (a *AFM) parseKerning(line string) error {
	if !strings.HasPrefix(line, "KPX ") {
		return nil
	}
	var left, right string
	var amount int
	if _, err := fmt.Sscanf(line, "KPX %s %s %d", &left, &right, &amount); err != nil {
		return fmt.Errorf("kerning %q: %w", line, err)
	}
	a.kern[kernPair{left, right}] = amount
	return nil
}

// GlyphAt returns the name of the glyph encoded at code in the font's
// built-in encoding.
func (a *AFM) GlyphAt(code int) (string, bool) {
	name, ok := a.byCode[code]
	return name, ok
}

// Kern returns the kerning adjustment for a named pair.
func (a *AFM) Kern(left, right string) int { return a.kern[kernPair{left, right}] }
