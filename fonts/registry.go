package fonts

import (
	"fmt"
	"sort"

	"github.com/wudi/flowpdf/observability"
)

// Registry resolves font keys to metrics for one document. Metrics are
// loaded once per key and shared by layout and embedding.
type Registry struct {
	logger   observability.Logger
	fallback Key
	fonts    map[Key]Metrics
	warned   map[Key]bool
}

// NewRegistry returns a registry that knows the built-in faces. A nil
// logger discards warnings.
func NewRegistry(logger observability.Logger) *Registry {
	if logger == nil {
		logger = observability.NopLogger{}
	}
	return &Registry{
		logger:   logger,
		fallback: Key{Family: "helvetica"},
		fonts:    make(map[Key]Metrics),
		warned:   make(map[Key]bool),
	}
}

// Register installs metrics for key, replacing any earlier entry.
func (r *Registry) Register(key Key, m Metrics) {
	r.fonts[key.Normalize()] = m
}

// RegisterType1 loads an AFM (and optional PFB program) under key.
func (r *Registry) RegisterType1(key Key, afm, pfb []byte) error {
	m, err := LoadType1(afm, pfb)
	if err != nil {
		return fmt.Errorf("register %s: %w", key, err)
	}
	r.Register(key, m)
	return nil
}

// RegisterTrueType loads a TrueType font under key.
func (r *Registry) RegisterTrueType(key Key, data []byte) error {
	m, err := LoadTrueType(key.Family, data)
	if err != nil {
		return fmt.Errorf("register %s: %w", key, err)
	}
	r.Register(key, m)
	return nil
}

// Lookup returns the metrics registered or built in for key.
func (r *Registry) Lookup(key Key) (Metrics, error) {
	k := key.Normalize()
	if m, ok := r.fonts[k]; ok {
		return m, nil
	}
	if !HasStandard(k) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFont, key)
	}
	m, err := Standard(k)
	if err != nil {
		return nil, err
	}
	r.fonts[k] = m
	return m, nil
}

// Resolve is Lookup with a fallback: unknown keys get the Helvetica face
// of the same style and a single warning per key. The returned key is the
// one the metrics were found under.
func (r *Registry) Resolve(key Key) (Key, Metrics) {
	k := key.Normalize()
	m, err := r.Lookup(k)
	if err == nil {
		return k, m
	}
	if !r.warned[k] {
		r.warned[k] = true
		r.logger.Warn("font unavailable, using fallback",
			observability.String("font", key.String()),
			observability.String("fallback", r.fallback.Family),
			observability.Error("error", err),
		)
	}
	fk := Key{Family: r.fallback.Family, Style: k.Style}
	m, err = r.Lookup(fk)
	if err != nil {
		// The fallback family is built in.
		panic(err)
	}
	return fk, m
}

// Keys returns the keys loaded so far, sorted by family then style.
func (r *Registry) Keys() []Key {
	keys := make([]Key, 0, len(r.fonts))
	for k := range r.fonts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Family != keys[j].Family {
			return keys[i].Family < keys[j].Family
		}
		return keys[i].Style < keys[j].Style
	})
	return keys
}
