package writer

import (
	"errors"
	"fmt"

	"github.com/wudi/flowpdf/contentstream"
	"github.com/wudi/flowpdf/coords"
	"github.com/wudi/flowpdf/fonts"
	"github.com/wudi/flowpdf/images"
	"github.com/wudi/flowpdf/ir/raw"
	"github.com/wudi/flowpdf/layout"
	"github.com/wudi/flowpdf/observability"
	"github.com/wudi/flowpdf/resources"
)

// AddPage renders the page content into a content stream and appends a
// page object to the page tree. Master content is part of the page and is
// rendered first.
func (b *Body) AddPage(p *layout.Page) (raw.ObjectRef, error) {
	if b.closed {
		return raw.ObjectRef{}, ErrBodyClosed
	}
	cs := contentstream.New()
	res := resources.NewSet()
	for _, c := range p.Content() {
		if err := b.render(cs, res, c); err != nil {
			return raw.ObjectRef{}, fmt.Errorf("page %d: %w", b.PageCount()+1, err)
		}
	}
	b.seed.Write(cs.Bytes())

	stream, err := b.encodeStream(raw.Dict(), cs.Bytes())
	if err != nil {
		return raw.ObjectRef{}, err
	}
	contents, _ := b.AddObject(stream)

	page := raw.Dict().
		SetName("Type", raw.NameLiteral("Page")).
		SetName("Parent", raw.Ref(b.pages.Num, b.pages.Gen)).
		SetName("MediaBox", raw.NewArray(number(0), number(0), number(p.Width), number(p.Height))).
		SetName("Resources", res.Dict()).
		SetName("Contents", raw.Ref(contents.Num, contents.Gen))
	if rot := normalizeRotation(p.Rotation); rot != 0 {
		page.SetName("Rotate", raw.NumberInt(int64(rot)))
	}
	ref, _ := b.AddObject(page)
	b.kids.Append(raw.Ref(ref.Num, ref.Gen))
	b.pagesDict.SetName("Count", raw.NumberInt(int64(b.kids.Len())))
	b.logger.Debug("page rendered",
		observability.Int("page", b.kids.Len()),
		observability.Int("content_bytes", cs.Len()))
	return ref, nil
}

// normalizeRotation maps r to 0, 90, 180 or 270. Other angles are rounded
// down to the previous quarter turn.
func normalizeRotation(r int) int {
	r %= 360
	if r < 0 {
		r += 360
	}
	return r - r%90
}

func (b *Body) render(cs *contentstream.Stream, res *resources.Set, c layout.Content) error {
	switch v := c.(type) {
	case *layout.TextState:
		return b.renderText(cs, res, v)
	case *layout.ParagraphState:
		for _, t := range v.Texts {
			if err := b.renderText(cs, res, t); err != nil {
				return err
			}
		}
		for _, im := range v.Images {
			if err := b.renderImage(cs, res, im); err != nil {
				return err
			}
		}
	case *layout.ImageState:
		return b.renderImage(cs, res, v)
	case *layout.TableState:
		return b.renderTable(cs, res, v)
	default:
		return fmt.Errorf("unknown content %T", c)
	}
	return nil
}

func (b *Body) renderText(cs *contentstream.Stream, res *resources.Set, ts *layout.TextState) error {
	if len(ts.Lines) == 0 {
		return nil
	}
	ref, err := b.AddFont(ts.Font, ts.Metrics)
	if err != nil {
		return err
	}
	name := res.Add(resources.CategoryFont, ref)
	scale := ts.Scale
	if scale == 0 {
		scale = 1
	}

	cs.SaveState()
	cs.BeginText()
	cs.SetFont(name, ts.Size)
	if ts.Color != (contentstream.Color{}) {
		cs.SetFillColor(ts.Color)
	}
	if ts.Rise != 0 {
		cs.SetRise(ts.Rise)
	}
	var ws float64
	for _, l := range ts.Lines {
		if l.WordSpacing != ws {
			cs.SetWordSpacing(l.WordSpacing)
			ws = l.WordSpacing
		}
		cs.SetTextMatrix(coords.TextMatrix(l.Position.X, l.Position.Y, scale, ts.Shear))
		cs.ShowText(fonts.EncodeWinAnsi(l.Text))
	}
	cs.EndText()
	cs.RestoreState()
	return nil
}

func (b *Body) renderImage(cs *contentstream.Stream, res *resources.Set, is *layout.ImageState) error {
	ref, err := b.AddImage(is.Image)
	if errors.Is(err, images.ErrUnsupported) {
		b.logger.Warn("image skipped", observability.Error("error", err))
		return nil
	}
	if err != nil {
		return err
	}
	name := res.Add(resources.CategoryXObject, ref)
	r := is.Rect
	cs.SaveState()
	cs.Transform(coords.Matrix{r.Right - r.Left, 0, 0, r.Top - r.Bottom, r.Left, r.Bottom})
	cs.DrawXObject(name)
	cs.RestoreState()
	return nil
}

// renderTable paints backgrounds under the cell content and borders over it.
func (b *Body) renderTable(cs *contentstream.Stream, res *resources.Set, ts *layout.TableState) error {
	for _, cell := range ts.Cells {
		if cell.Background == nil {
			continue
		}
		r := cell.Rect
		cs.SaveState()
		cs.SetFillColor(*cell.Background)
		cs.Rectangle(r.Left, r.Bottom, r.Right-r.Left, r.Top-r.Bottom)
		cs.Fill()
		cs.RestoreState()
	}
	for _, cell := range ts.Cells {
		for _, c := range cell.Content {
			if err := b.render(cs, res, c); err != nil {
				return err
			}
		}
	}
	for _, cell := range ts.Cells {
		if cell.Border <= 0 {
			continue
		}
		r := cell.Rect
		cs.SaveState()
		cs.SetLineWidth(cell.Border)
		cs.Rectangle(r.Left, r.Bottom, r.Right-r.Left, r.Top-r.Bottom)
		cs.Stroke()
		cs.RestoreState()
	}
	return nil
}
