package layout

import (
	"github.com/wudi/flowpdf/images"
)

// Image places a decoded image. Width and Height set the displayed size
// in points; when only one is set the other follows the aspect ratio, and
// when neither is set one pixel maps to one point.
type Image struct {
	Source   *images.Image
	Width    float64
	Height   float64
	Position Position
	Spacing  Spacing
}

// NewImage returns an image placed by the engine at its natural size.
func NewImage(src *images.Image) *Image {
	return &Image{Source: src, Position: AutoPosition()}
}

func (im *Image) isPart() {}

func (im *Image) size() (w, h float64) {
	w, h = im.Width, im.Height
	if im.Source == nil || im.Source.Width == 0 || im.Source.Height == 0 {
		return w, h
	}
	nw, nh := float64(im.Source.Width), float64(im.Source.Height)
	switch {
	case w > 0 && h > 0:
	case w > 0:
		h = w * nh / nw
	case h > 0:
		w = h * nw / nh
	default:
		w, h = nw, nh
	}
	return w, h
}

func (im *Image) process(e *env, page *Page, force bool) Part {
	if im.Source == nil {
		e.logger.Warn("image without source skipped")
		return nil
	}
	w, h := im.size()
	sp := im.Spacing
	if im.Position.HasX() && im.Position.HasY() {
		r := Rect{Left: im.Position.X, Bottom: im.Position.Y - h, Right: im.Position.X + w, Top: im.Position.Y}
		page.add(&ImageState{Image: im.Source, Rect: r})
		page.reserve(r.expand(sp), BoxExplicit)
		return nil
	}

	slot, ok := page.OpenPosition(h, 0, sp, w, im.Position)
	if !ok {
		if !force && !page.IsEmpty() {
			rest := *im
			rest.Position = continued(im.Position)
			return &rest
		}
		u := page.Usable()
		slot = Slot{X: u.Left + sp.Left, Top: u.Top - sp.Top}
		if im.Position.HasX() {
			slot.X = im.Position.X
		}
		if im.Position.HasY() {
			slot.Top = im.Position.Y
		}
	}
	r := Rect{Left: slot.X, Bottom: slot.Top - h, Right: slot.X + w, Top: slot.Top}
	page.add(&ImageState{Image: im.Source, Rect: r})
	page.reserve(r.expand(sp), BoxFlow)
	return nil
}
