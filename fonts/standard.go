package fonts

import (
	"fmt"
	"strings"
)

const obliqueAngle = -12

var familyAliases = map[string]string{
	"helvetica":  "helvetica",
	"arial":      "helvetica",
	"sans-serif": "helvetica",
	"sans":       "helvetica",
	"courier":    "courier",
	"monospace":  "courier",
	"mono":       "courier",
}

// HasStandard reports whether key names one of the built-in faces.
func HasStandard(key Key) bool {
	_, ok := familyAliases[key.Normalize().Family]
	return ok
}

// Standard returns the metrics of a built-in face. The Oblique faces share
// glyph metrics with their upright counterparts.
func Standard(key Key) (*Type1, error) {
	k := key.Normalize()
	family, ok := familyAliases[k.Family]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFont, key)
	}
	var src, name string
	switch family {
	case "helvetica":
		src, name = helveticaAFM, "Helvetica"
		if k.Style&Bold != 0 {
			src, name = helveticaBoldAFM, "Helvetica-Bold"
		}
	case "courier":
		src, name = courierAFM(false), "Courier"
		if k.Style&Bold != 0 {
			src, name = courierAFM(true), "Courier-Bold"
		}
	}
	afm, err := ParseAFM(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("standard font %s: %w", name, err)
	}
	f, err := NewType1(afm, nil)
	if err != nil {
		return nil, err
	}
	switch k.Style {
	case Italic:
		return f.withStyle(name+"-Oblique", obliqueAngle), nil
	case Bold | Italic:
		return f.withStyle(name+"Oblique", obliqueAngle), nil
	}
	return f, nil
}

func courierAFM(bold bool) string {
	if bold {
		return monospaceAFM("Courier-Bold", "Bold", [4]int{-113, -250, 749, 801}, 439, 106)
	}
	return monospaceAFM("Courier", "Medium", [4]int{-23, -250, 715, 805}, 426, 51)
}

// monospaceAFM writes AFM text for a fixed-pitch face covering every
// WinAnsi glyph at 600 units.
func monospaceAFM(name, weight string, bbox [4]int, xHeight, stemV int) string {
	var glyphs []string
	seen := make(map[string]bool)
	for code := 32; code < 256; code++ {
		g := GlyphName(byte(code))
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		c := code
		if code > 126 {
			c = -1
		}
		glyphs = append(glyphs, fmt.Sprintf("C %d ; WX 600 ; N %s ;", c, g))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "StartFontMetrics 4.1\nFontName %s\nFamilyName Courier\nWeight %s\n", name, weight)
	fmt.Fprintf(&b, "ItalicAngle 0\nIsFixedPitch true\nFontBBox %d %d %d %d\n", bbox[0], bbox[1], bbox[2], bbox[3])
	fmt.Fprintf(&b, "EncodingScheme AdobeStandardEncoding\nCapHeight 562\nXHeight %d\nAscender 629\nDescender -157\nStdVW %d\n", xHeight, stemV)
	fmt.Fprintf(&b, "StartCharMetrics %d\n%s\nEndCharMetrics\nEndFontMetrics\n", len(glyphs), strings.Join(glyphs, "\n"))
	return b.String()
}
