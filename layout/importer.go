package layout

import (
	"github.com/wudi/flowpdf/contentstream"
	"github.com/wudi/flowpdf/images"
	"github.com/wudi/flowpdf/observability"
)

const (
	bullet      = "•"
	listIndent  = 15
	quoteIndent = 20
)

var linkColor = contentstream.Color{B: 0.8}

// Importer converts Markdown, HTML and LaTeX into parts.
type Importer struct {
	// Size is the body text size; 0 means 12.
	Size float64
	// LoadImage resolves image references. Images are skipped when nil.
	LoadImage func(src string) (*images.Image, error)
	Logger    observability.Logger
}

// Importer returns an importer using the flow's current size and logger.
func (f *Flow) Importer() *Importer {
	return &Importer{Size: f.env.size, Logger: f.env.logger}
}

func (im *Importer) size() float64 {
	if im.Size > 0 {
		return im.Size
	}
	return 12
}

func (im *Importer) logger() observability.Logger {
	if im.Logger == nil {
		return observability.NopLogger{}
	}
	return im.Logger
}

func (im *Importer) headingSize(level int) float64 {
	switch level {
	case 1:
		return im.size() * 2
	case 2:
		return im.size() * 1.5
	}
	return im.size() * 1.25
}

// inline is the style in effect while collecting inline runs.
type inline struct {
	bold, italic, mono, link bool
	size                     float64
	rise                     float64
}

func (im *Importer) run(s string, st inline) *Text {
	t := NewText(s)
	t.Font = st.fontKey()
	t.Size = st.size
	t.Rise = st.rise
	if st.link {
		t.Color = linkColor
	}
	return t
}

// appendRun adds t to runs, merging it into the last run when both share
// a style.
func appendRun(runs []*Text, t *Text) []*Text {
	if t.Content == "" {
		return runs
	}
	if n := len(runs); n > 0 {
		last := runs[n-1]
		if last.Font == t.Font && last.Size == t.Size && last.Color == t.Color && last.Rise == t.Rise {
			last.Content += t.Content
			return runs
		}
	}
	return append(runs, t)
}

func (im *Importer) heading(runs []*Text, indent float64) *Paragraph {
	p := NewParagraph(runs...)
	size := im.size()
	if len(runs) > 0 && runs[0].Size > 0 {
		size = runs[0].Size
	}
	p.Spacing = Spacing{Top: size * 0.5, Bottom: size * 0.25, Left: indent}
	return p
}

func (im *Importer) paragraph(runs []*Text, indent float64) *Paragraph {
	p := NewParagraph(runs...)
	p.Spacing = Spacing{Bottom: im.size() * 0.5, Left: indent}
	return p
}

func (im *Importer) code(s string, indent float64) *Text {
	t := im.run(s, inline{mono: true, size: im.size() * 0.9})
	t.Spacing = Spacing{Left: indent + 10, Bottom: im.size() * 0.5}
	return t
}

func (im *Importer) image(src string, width, height float64) Part {
	if im.LoadImage == nil {
		im.logger().Debug("image skipped", observability.String("src", src))
		return nil
	}
	img, err := im.LoadImage(src)
	if err != nil {
		im.logger().Warn("image unavailable",
			observability.String("src", src),
			observability.Error("error", err))
		return nil
	}
	p := NewImage(img)
	p.Width, p.Height = width, height
	p.Spacing = Spacing{Bottom: im.size() * 0.5}
	return p
}
