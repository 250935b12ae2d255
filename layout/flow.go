package layout

import (
	"errors"
	"fmt"

	"github.com/wudi/flowpdf/fonts"
	"github.com/wudi/flowpdf/observability"
)

var (
	// ErrPageOutOfRange is returned for page numbers outside 1..len(pages).
	ErrPageOutOfRange = errors.New("page out of range")
	// ErrFrozen is returned when content is added after layout finished.
	ErrFrozen = errors.New("layout is frozen")
)

// A4 page size in points.
const (
	A4Width  = 595.28
	A4Height = 841.89
)

// Part is content that can be added to a Flow: *Text, *Paragraph, *Table,
// *Image, *Font or *Page.
type Part interface{ isPart() }

// Font switches the current font and size for texts that do not set
// their own.
type Font struct {
	Key  fonts.Key
	Size float64
}

func (*Font) isPart() {}
func (*Page) isPart() {}

// Option configures a Flow.
type Option func(*config)

type config struct {
	width, height float64
	margins       Margins
	leading       float64
	font          fonts.Key
	size          float64
	logger        observability.Logger
}

// WithPageSize sets the dimensions of new pages.
func WithPageSize(width, height float64) Option {
	return func(c *config) {
		c.width = width
		c.height = height
	}
}

// WithMargins sets the margins of new pages.
func WithMargins(m Margins) Option {
	return func(c *config) {
		c.margins = m
	}
}

// WithLeading sets the default baseline-to-baseline distance of new pages.
func WithLeading(l float64) Option {
	return func(c *config) {
		c.leading = l
	}
}

// WithDefaultFont sets the font used by texts without one.
func WithDefaultFont(key fonts.Key) Option {
	return func(c *config) {
		c.font = key
	}
}

// WithDefaultFontSize sets the size used by texts without one.
func WithDefaultFontSize(size float64) Option {
	return func(c *config) {
		c.size = size
	}
}

// WithLogger sets the logger for layout warnings.
func WithLogger(l observability.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// env is the state parts read while they are laid out.
type env struct {
	fonts  *fonts.Registry
	font   fonts.Key
	size   float64
	logger observability.Logger
}

// style resolves the appearance of t against the current defaults.
func (e *env) style(t *Text) *style {
	key := t.Font
	if key.Family == "" {
		key.Family = e.font.Family
		if key.Style == fonts.Regular {
			key.Style = e.font.Style
		}
	}
	resolved, m := e.fonts.Resolve(key)
	st := &style{
		key:     resolved,
		metrics: m,
		size:    t.Size,
		scale:   t.Scale,
		shear:   t.Shear,
		rise:    t.Rise,
		color:   t.Color,
		leading: t.Leading,
	}
	if st.size <= 0 {
		st.size = e.size
	}
	if st.scale <= 0 {
		st.scale = 1
	}
	return st
}

// Flow distributes parts over pages. Each part is placed on the current
// page; what does not fit continues on a new page inserted after it.
type Flow struct {
	cfg     config
	env     *env
	pages   []*Page
	current int
	master  *Page
	frozen  bool
}

// New returns an empty flow. A nil registry gets the built-in fonts only.
func New(registry *fonts.Registry, opts ...Option) *Flow {
	cfg := config{
		width:   A4Width,
		height:  A4Height,
		margins: UniformMargins(50),
		font:    fonts.Key{Family: "Helvetica"},
		size:    12,
		logger:  observability.NopLogger{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if registry == nil {
		registry = fonts.NewRegistry(cfg.logger)
	}
	return &Flow{
		cfg:     cfg,
		current: -1,
		env: &env{
			fonts:  registry,
			font:   cfg.font,
			size:   cfg.size,
			logger: cfg.logger,
		},
	}
}

// Registry returns the font registry used for measuring.
func (f *Flow) Registry() *fonts.Registry { return f.env.fonts }

// Pages returns the pages in order.
func (f *Flow) Pages() []*Page { return f.pages }

// CurrentPage returns the 1-based number of the current page, 0 before
// the first page exists.
func (f *Flow) CurrentPage() int { return f.current + 1 }

// Page returns page n, counting from 1.
func (f *Flow) Page(n int) (*Page, error) {
	if n < 1 || n > len(f.pages) {
		return nil, fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, n, len(f.pages))
	}
	return f.pages[n-1], nil
}

// SetCurrentPage makes page n, counting from 1, receive the next parts.
// The current page is unchanged on error.
func (f *Flow) SetCurrentPage(n int) error {
	if n < 1 || n > len(f.pages) {
		f.env.logger.Warn("page out of range",
			observability.Int("page", n),
			observability.Int("pages", len(f.pages)))
		return fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, n, len(f.pages))
	}
	f.current = n - 1
	return nil
}

// NewMasterPage starts a template with the flow's page settings. Content
// added to it with AddTo appears on every page created afterwards.
func (f *Flow) NewMasterPage() *Page {
	m := f.blankPage(f.cfg.width, f.cfg.height)
	f.master = m
	return m
}

// SetMasterPage sets the template for pages created afterwards; nil
// clears it.
func (f *Flow) SetMasterPage(m *Page) { f.master = m }

func (f *Flow) blankPage(width, height float64) *Page {
	p := NewPage(width, height, f.cfg.margins)
	p.Leading = f.cfg.leading
	return p
}

func (f *Flow) newPage(width, height float64) *Page {
	if m := f.master; m != nil && m.Width == width && m.Height == height {
		return fromMaster(m)
	}
	return f.blankPage(width, height)
}

// AddNewPage appends a page and makes it current. Zero dimensions use the
// flow's page size.
func (f *Flow) AddNewPage(width, height float64) (*Page, error) {
	if f.frozen {
		return nil, ErrFrozen
	}
	if width <= 0 || height <= 0 {
		width, height = f.cfg.width, f.cfg.height
	}
	p := f.newPage(width, height)
	f.pages = append(f.pages, p)
	f.current = len(f.pages) - 1
	return p, nil
}

// insertPage adds a page after the current one and makes it current. The
// new page repeats the current page's master.
func (f *Flow) insertPage() *Page {
	var p *Page
	switch {
	case f.current < 0:
		p = f.newPage(f.cfg.width, f.cfg.height)
	case f.pages[f.current].Master() != nil:
		p = fromMaster(f.pages[f.current].Master())
	default:
		cur := f.pages[f.current]
		p = f.blankPage(cur.Width, cur.Height)
	}
	at := f.current + 1
	f.pages = append(f.pages, nil)
	copy(f.pages[at+1:], f.pages[at:])
	f.pages[at] = p
	f.current = at
	f.env.logger.Debug("page added", observability.Int("page", at+1))
	return p
}

// Add places parts in order, adding pages as they overflow.
func (f *Flow) Add(parts ...Part) error {
	for _, p := range parts {
		if err := f.add(p); err != nil {
			return err
		}
	}
	return nil
}

func (f *Flow) add(p Part) error {
	if f.frozen {
		return ErrFrozen
	}
	switch v := p.(type) {
	case *Page:
		if v.frozen {
			return ErrFrozen
		}
		f.pages = append(f.pages, v)
		f.current = len(f.pages) - 1
		return nil
	case *Font:
		f.setFont(v)
		return nil
	}
	if f.current < 0 {
		f.insertPage()
	}
	rest := f.place(p, f.pages[f.current], false)
	for rest != nil {
		page := f.insertPage()
		next := f.place(rest, page, false)
		if next != nil && page.IsEmpty() {
			// No progress on a fresh page: force the first unit in.
			next = f.place(rest, page, true)
		}
		rest = next
	}
	return nil
}

func (f *Flow) setFont(v *Font) {
	if v.Key.Family != "" {
		f.env.font = v.Key
	}
	if v.Size > 0 {
		f.env.size = v.Size
	}
}

// AddTo places a part on a specific page, typically a master page.
// Whatever does not fit is dropped with a warning.
func (f *Flow) AddTo(page *Page, p Part) error {
	if f.frozen || page.frozen {
		return ErrFrozen
	}
	switch v := p.(type) {
	case *Page:
		return fmt.Errorf("cannot add a page to a page")
	case *Font:
		f.setFont(v)
		return nil
	}
	if rest := f.place(p, page, false); rest != nil {
		f.env.logger.Warn("content does not fit on page and was dropped")
	}
	return nil
}

// place dispatches a part to its layout.
func (f *Flow) place(p Part, page *Page, force bool) Part {
	switch v := p.(type) {
	case *Text:
		return v.process(f.env, page, force)
	case *Paragraph:
		return v.process(f.env, page, force)
	case *Table:
		return v.process(f.env, page, force)
	case *Image:
		return v.process(f.env, page, force)
	}
	f.env.logger.Warn("unsupported part", observability.String("type", fmt.Sprintf("%T", p)))
	return nil
}

// Freeze ends layout. An empty flow gets one blank page so the document
// is never without pages.
func (f *Flow) Freeze() {
	if f.frozen {
		return
	}
	if len(f.pages) == 0 {
		f.insertPage()
	}
	for _, p := range f.pages {
		p.frozen = true
	}
	f.frozen = true
}

// Frozen reports whether Freeze was called.
func (f *Flow) Frozen() bool { return f.frozen }
