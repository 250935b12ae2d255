package fonts

import (
	"bytes"
	"unicode"

	"github.com/go-text/typesetting/di"
	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// runShaper measures runs with the HarfBuzz port from go-text, so GPOS
// kerning is taken into account.
type runShaper struct {
	shaper shaping.HarfbuzzShaper
	// template carries the parsed face; Text and run bounds are filled per call.
	template shaping.Input
}

// newRunShaper returns nil if the font cannot be loaded by go-text.
func newRunShaper(data []byte) *runShaper {
	face, err := gofont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	return &runShaper{
		template: shaping.Input{
			Face: face,
			// 1000 units per em, so advances come out in glyph space.
			Size:     fixed.Int26_6(1000 * 64),
			Language: language.DefaultLanguage(),
		},
	}
}

// advance returns the total advance of text in 1/1000 em.
func (s *runShaper) advance(text string) (float64, bool) {
	runes := []rune(text)
	if len(runes) == 0 {
		return 0, true
	}
	input := s.template
	input.Text = runes
	input.RunStart = 0
	input.RunEnd = len(runes)
	input.Script = DetectScript(runes)
	input.Direction = scriptDirection(input.Script)

	out := s.shaper.Shape(input)
	if len(out.Glyphs) == 0 {
		return 0, false
	}
	var total fixed.Int26_6
	for _, g := range out.Glyphs {
		total += g.XAdvance
	}
	return float64(total) / 64.0, true
}

func scriptDirection(script language.Script) di.Direction {
	switch script {
	case language.Arabic, language.Hebrew, language.Syriac, language.Thaana, language.Nko:
		return di.DirectionRTL
	default:
		return di.DirectionLTR
	}
}

// DetectScript returns the most frequent script among runes, Latin if
// none is recognized.
func DetectScript(runes []rune) language.Script {
	counts := make(map[language.Script]int)
	maxCount := 0
	bestScript := language.Latin

	for _, r := range runes {
		script := scriptFromRune(r)
		if script == language.Unknown {
			continue
		}
		counts[script]++
		if counts[script] > maxCount {
			maxCount = counts[script]
			bestScript = script
		}
	}
	return bestScript
}

var scriptTables = []struct {
	table  *unicode.RangeTable
	script language.Script
}{
	{unicode.Latin, language.Latin},
	{unicode.Greek, language.Greek},
	{unicode.Cyrillic, language.Cyrillic},
	{unicode.Arabic, language.Arabic},
	{unicode.Hebrew, language.Hebrew},
	{unicode.Thai, language.Thai},
	{unicode.Devanagari, language.Devanagari},
	{unicode.Han, language.Han},
	{unicode.Hiragana, language.Hiragana},
	{unicode.Katakana, language.Katakana},
	{unicode.Hangul, language.Hangul},
}

func scriptFromRune(r rune) language.Script {
	for _, st := range scriptTables {
		if unicode.Is(st.table, r) {
			return st.script
		}
	}
	return language.Unknown
}
