package builder

import (
	"github.com/wudi/flowpdf/fonts"
	"github.com/wudi/flowpdf/layout"
	"github.com/wudi/flowpdf/observability"
	"github.com/wudi/flowpdf/writer"
)

type options struct {
	layout       []layout.Option
	cfg          writer.Config
	registry     *fonts.Registry
	logger       observability.Logger
	tracer       observability.Tracer
	interceptors []writer.Interceptor
	imageDir     string
}

func defaultOptions() options {
	return options{
		cfg:    writer.DefaultConfig(),
		logger: observability.NopLogger{},
		tracer: observability.NopTracer(),
	}
}

// Option configures a Document.
type Option func(*options)

// WithPageSize sets the default page size in points.
func WithPageSize(width, height float64) Option {
	return func(o *options) { o.layout = append(o.layout, layout.WithPageSize(width, height)) }
}

func WithMargins(m layout.Margins) Option {
	return func(o *options) { o.layout = append(o.layout, layout.WithMargins(m)) }
}

func WithLeading(l float64) Option {
	return func(o *options) { o.layout = append(o.layout, layout.WithLeading(l)) }
}

func WithDefaultFont(key fonts.Key) Option {
	return func(o *options) { o.layout = append(o.layout, layout.WithDefaultFont(key)) }
}

func WithDefaultFontSize(size float64) Option {
	return func(o *options) { o.layout = append(o.layout, layout.WithDefaultFontSize(size)) }
}

// WithFontRegistry shares a registry between documents.
func WithFontRegistry(r *fonts.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithWriterConfig replaces the writer configuration. The logger field is
// always taken from WithLogger.
func WithWriterConfig(cfg writer.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

func WithInfo(info writer.Info) Option {
	return func(o *options) { o.cfg.Info = info }
}

func WithContentFilter(f writer.ContentFilter) Option {
	return func(o *options) { o.cfg.ContentFilter = f }
}

// WithDeterministic makes equal input produce equal bytes.
func WithDeterministic() Option {
	return func(o *options) { o.cfg.Deterministic = true }
}

func WithLogger(l observability.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithTracer(t observability.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithInterceptor observes every object the writer emits.
func WithInterceptor(i writer.Interceptor) Option {
	return func(o *options) { o.interceptors = append(o.interceptors, i) }
}

// WithImageDir resolves relative image references of imported Markdown
// and HTML against dir.
func WithImageDir(dir string) Option {
	return func(o *options) { o.imageDir = dir }
}
