package filters

import (
	"context"
	"fmt"

	"github.com/wudi/flowpdf/ir/raw"
)

// StreamFilters lists the filters a stream dictionary names, in decoding
// order, with one parameter entry per filter. A single /DecodeParms
// dictionary belongs to the first filter; array entries that are not
// dictionaries, such as null, leave their filter without parameters.
func StreamFilters(dict raw.Dictionary) ([]string, []raw.Dictionary) {
	if dict == nil {
		return nil, nil
	}
	f, ok := dict.Get(raw.NameLiteral("Filter"))
	if !ok {
		return nil, nil
	}
	var names []string
	switch v := f.(type) {
	case raw.Name:
		names = []string{v.Value()}
	case *raw.ArrayObj:
		for _, item := range v.Items {
			if n, ok := item.(raw.Name); ok {
				names = append(names, n.Value())
			}
		}
	}
	params := make([]raw.Dictionary, len(names))
	p, ok := dict.Get(raw.NameLiteral("DecodeParms"))
	if !ok || len(names) == 0 {
		return names, params
	}
	switch v := p.(type) {
	case raw.Dictionary:
		params[0] = v
	case *raw.ArrayObj:
		for i, item := range v.Items {
			if d, ok := item.(raw.Dictionary); ok && i < len(params) {
				params[i] = d
			}
		}
	}
	return names, params
}

// DecodeStream returns the data of s with every filter its dictionary
// names undone.
func (p *Pipeline) DecodeStream(ctx context.Context, s *raw.StreamObj) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("nil stream")
	}
	var dict raw.Dictionary
	if s.Dict != nil {
		dict = s.Dict
	}
	names, params := StreamFilters(dict)
	if len(names) == 0 {
		return s.Data, nil
	}
	out, err := p.Decode(ctx, s.Data, names, params)
	if err != nil {
		return nil, fmt.Errorf("decode %v: %w", names, err)
	}
	return out, nil
}
