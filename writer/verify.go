package writer

import (
	"context"
	"errors"
	"fmt"

	"github.com/wudi/flowpdf/contentstream"
	"github.com/wudi/flowpdf/filters"
	"github.com/wudi/flowpdf/ir/raw"
)

// ErrUnbalanced is returned when a content stream leaves a graphics state
// or text object open, or closes one it never opened.
var ErrUnbalanced = errors.New("unbalanced content stream")

// PageContents returns the decoded content stream of every page, in page
// order.
func (b *Body) PageContents(ctx context.Context) ([][]byte, error) {
	pipeline := filters.DefaultPipeline()
	out := make([][]byte, 0, len(b.kids.Items))
	for i, kid := range b.kids.Items {
		stream, err := b.contentStream(kid)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		data, err := pipeline.DecodeStream(ctx, stream)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		out = append(out, data)
	}
	return out, nil
}

func (b *Body) contentStream(kid raw.Object) (*raw.StreamObj, error) {
	ref, ok := kid.(raw.RefObj)
	if !ok {
		return nil, fmt.Errorf("page entry is %T", kid)
	}
	page, ok := b.lookup(ref.Ref()).(*raw.DictObj)
	if !ok {
		return nil, fmt.Errorf("object %d is not a page", ref.Ref().Num)
	}
	c, ok := page.KV["Contents"].(raw.RefObj)
	if !ok {
		return nil, fmt.Errorf("page without contents")
	}
	stream, ok := b.lookup(c.Ref()).(*raw.StreamObj)
	if !ok {
		return nil, fmt.Errorf("object %d is not a stream", c.Ref().Num)
	}
	return stream, nil
}

func (b *Body) lookup(ref raw.ObjectRef) raw.Object {
	if ref.Num < 1 || ref.Num > len(b.objects) {
		return nil
	}
	return b.objects[ref.Num-1].Object
}

// CheckContents decodes every page's content stream, parses it and checks
// that q/Q and BT/ET pairs nest.
func (b *Body) CheckContents(ctx context.Context) error {
	pages, err := b.PageContents(ctx)
	if err != nil {
		return err
	}
	for i, data := range pages {
		if err := checkNesting(ctx, data); err != nil {
			return fmt.Errorf("page %d: %w", i+1, err)
		}
	}
	return nil
}

func checkNesting(ctx context.Context, data []byte) error {
	var saves, texts int
	p := contentstream.NewProcessor()
	counter := func(n *int, delta int, op string) contentstream.HandlerFunc {
		return func(contentstream.Operation) error {
			*n += delta
			if *n < 0 {
				return fmt.Errorf("%w: %s without opener", ErrUnbalanced, op)
			}
			return nil
		}
	}
	p.RegisterHandler("q", counter(&saves, 1, "q"))
	p.RegisterHandler("Q", counter(&saves, -1, "Q"))
	p.RegisterHandler("BT", counter(&texts, 1, "BT"))
	p.RegisterHandler("ET", counter(&texts, -1, "ET"))
	if err := p.Process(ctx, data); err != nil {
		return err
	}
	if saves != 0 || texts != 0 {
		return fmt.Errorf("%w: %d q and %d BT left open", ErrUnbalanced, saves, texts)
	}
	return nil
}
