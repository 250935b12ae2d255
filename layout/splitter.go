package layout

import (
	"math"
	"strings"
	"unicode"

	"github.com/wudi/flowpdf/contentstream"
	"github.com/wudi/flowpdf/fonts"
)

// defaultLineHeight is the leading used when neither the text nor the page
// sets one, relative to the font size.
const defaultLineHeight = 1.2

// style is the resolved appearance of one run of text.
type style struct {
	key     fonts.Key
	metrics fonts.Metrics
	size    float64
	scale   float64
	shear   float64
	rise    float64
	color   contentstream.Color
	leading float64
}

func (s *style) width(text string) float64 {
	return fonts.MeasureString(s.metrics, text, s.size) * s.scale
}

func (s *style) above() float64 { return max(0, s.metrics.Ascent(s.size)+s.rise) }
func (s *style) below() float64 { return max(0, -s.metrics.Descent(s.size)-s.rise) }

// advance is the baseline-to-baseline distance of a line set in s.
func (s *style) advance(pageLeading float64) float64 {
	l := s.leading
	if l <= 0 {
		l = pageLeading
	}
	if l <= 0 {
		l = s.size * defaultLineHeight
	}
	return math.Max(l, s.above()+s.below())
}

func (s *style) newState() *TextState {
	return &TextState{
		Font:    s.key,
		Metrics: s.metrics,
		Size:    s.size,
		Scale:   s.scale,
		Shear:   s.shear,
		Rise:    s.rise,
		Color:   s.color,
	}
}

// token is a word of one run, with the whitespace that preceded it.
type token struct {
	run  int
	word string
	// space is set when whitespace separates the word from the previous one.
	space bool
	// breaks counts the hard line breaks before the word.
	breaks int
}

// tokenize splits the runs into words. Whitespace and line breaks carry
// over run boundaries, so "a " followed by "b" yields a spaced pair while
// "a" followed by ",b" stays joined.
func tokenize(runs []string) []token {
	var toks []token
	space, breaks := false, 0
	for ri, text := range runs {
		var word strings.Builder
		flush := func() {
			if word.Len() == 0 {
				return
			}
			toks = append(toks, token{run: ri, word: word.String(), space: space, breaks: breaks})
			word.Reset()
			space, breaks = false, 0
		}
		for _, r := range text {
			switch {
			case r == '\n':
				flush()
				breaks++
			case r == '\r':
			case unicode.IsSpace(r):
				flush()
				space = true
			default:
				word.WriteRune(r)
			}
		}
		flush()
	}
	if len(toks) > 0 {
		toks[0].space, toks[0].breaks = false, 0
	}
	return toks
}

// segment is the part of a line set in one run.
type segment struct {
	run    int
	text   string
	width  float64
	spaces int
}

// lineFit is the result of filling one line.
type lineFit struct {
	start, end int
	segs       []segment
	width      float64
	spaces     int
}

type splitter struct {
	styles []*style
	toks   []token
}

func newSplitter(styles []*style, runs []string) *splitter {
	return &splitter{styles: styles, toks: tokenize(runs)}
}

func (s *splitter) done(i int) bool { return i >= len(s.toks) }

// wordWidth is the width of token i alone.
func (s *splitter) wordWidth(i int) float64 {
	t := s.toks[i]
	return s.styles[t.run].width(t.word)
}

// fill packs tokens starting at i into a line at most avail wide. The
// first token is always taken, even when it is wider than avail. A token
// preceded by a hard break ends the line.
func (s *splitter) fill(i int, avail float64) lineFit {
	fit := lineFit{start: i, end: i}
	for j := i; j < len(s.toks); j++ {
		t := s.toks[j]
		if j > i && t.breaks > 0 {
			break
		}
		sep := ""
		if j > i && t.space {
			sep = " "
		}
		n := len(fit.segs)
		extend := n > 0 && fit.segs[n-1].run == t.run
		seg := segment{run: t.run, text: sep + t.word}
		old := 0.0
		if extend {
			seg = fit.segs[n-1]
			old = seg.width
			seg.text += sep + t.word
		}
		if sep != "" {
			seg.spaces++
		}
		seg.width = s.styles[t.run].width(seg.text)
		width := fit.width - old + seg.width
		if j > i && width > avail+epsilon {
			break
		}
		if extend {
			fit.segs[n-1] = seg
		} else {
			fit.segs = append(fit.segs, seg)
		}
		fit.width = width
		fit.end = j + 1
		if sep != "" {
			fit.spaces++
		}
	}
	return fit
}

// metrics returns the extents above and below the baseline of a line made
// of tokens [i, j). down includes the room under the descenders that the
// line's leading requires, so above+down is the line advance.
func (s *splitter) metrics(i, j int, pageLeading float64) (above, down float64) {
	if j <= i {
		j = i + 1
	}
	below, adv := 0.0, 0.0
	for k := i; k < j && k < len(s.toks); k++ {
		st := s.styles[s.toks[k].run]
		above = math.Max(above, st.above())
		below = math.Max(below, st.below())
		adv = math.Max(adv, st.advance(pageLeading))
	}
	return above, math.Max(below, adv-above)
}

// rest rebuilds the unplaced text of run from token i on.
func (s *splitter) rest(i, run int) string {
	var b strings.Builder
	for k := i; k < len(s.toks) && s.toks[k].run == run; k++ {
		t := s.toks[k]
		if k > i {
			switch {
			case t.breaks > 0:
				b.WriteString(strings.Repeat("\n", t.breaks))
			case t.space:
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.word)
	}
	return b.String()
}

// SplitText breaks text into lines no wider than width when set in the
// given font and size. A word wider than width gets a line of its own.
func SplitText(m fonts.Metrics, size float64, text string, width float64) []string {
	st := &style{metrics: m, size: size, scale: 1}
	s := newSplitter([]*style{st}, []string{text})
	var lines []string
	for i := 0; !s.done(i); {
		fit := s.fill(i, width)
		lines = append(lines, fit.segs[0].text)
		i = fit.end
	}
	return lines
}
