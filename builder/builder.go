// Package builder is the document front end: it owns a layout flow, the
// font registry and the writer configuration, and turns added parts into
// PDF bytes.
//
// A Document moves through three stages. Parts are added while it is
// open; Finish resolves the layout and builds the PDF body; WriteTo and
// Bytes serialize the finished body any number of times.
package builder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/wudi/flowpdf/fonts"
	"github.com/wudi/flowpdf/images"
	"github.com/wudi/flowpdf/layout"
	"github.com/wudi/flowpdf/observability"
	"github.com/wudi/flowpdf/writer"
)

var (
	// ErrNotFinished is returned when writing a document before Finish.
	ErrNotFinished = errors.New("document not finished")
	// ErrAlreadyFinished is returned by Finish and by mutations once the
	// document is finished.
	ErrAlreadyFinished = errors.New("document already finished")
)

// Document builds one PDF file.
type Document struct {
	flow     *layout.Flow
	registry *fonts.Registry
	cfg      writer.Config
	logger   observability.Logger
	tracer   observability.Tracer
	writer   writer.Writer
	imageDir string

	body *writer.Body
}

// New returns an open document. Without options it lays out A4 pages with
// 50pt margins in 12pt Helvetica and writes flate-compressed PDF 1.7.
func New(opts ...Option) *Document {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = fonts.NewRegistry(o.logger)
	}
	o.cfg.Logger = o.logger
	layoutOpts := append([]layout.Option{layout.WithLogger(o.logger)}, o.layout...)
	wb := &writer.WriterBuilder{}
	for _, ic := range o.interceptors {
		wb.WithInterceptor(ic)
	}
	return &Document{
		flow:     layout.New(o.registry, layoutOpts...),
		registry: o.registry,
		cfg:      o.cfg,
		logger:   o.logger,
		tracer:   o.tracer,
		writer:   wb.Build(),
		imageDir: o.imageDir,
	}
}

// Flow exposes the layout flow for page-level control such as master
// pages and explicit page placement.
func (d *Document) Flow() *layout.Flow { return d.flow }

// Fonts is the registry the document measures and embeds with.
func (d *Document) Fonts() *fonts.Registry { return d.registry }

// Finished reports whether Finish succeeded.
func (d *Document) Finished() bool { return d.body != nil }

// Add lays out parts in order on the current page, adding pages as
// content overflows.
func (d *Document) Add(parts ...layout.Part) error {
	if d.Finished() {
		return ErrAlreadyFinished
	}
	return d.flow.Add(parts...)
}

// AddNewPage appends a page and makes it current. Zero dimensions use the
// document page size.
func (d *Document) AddNewPage(width, height float64) (*layout.Page, error) {
	if d.Finished() {
		return nil, ErrAlreadyFinished
	}
	return d.flow.AddNewPage(width, height)
}

// SetCurrentPage makes page n, counting from 1, receive the next parts.
// An out of range page is logged and leaves the current page as it was.
func (d *Document) SetCurrentPage(n int) error {
	if d.Finished() {
		return ErrAlreadyFinished
	}
	return d.flow.SetCurrentPage(n)
}

// RegisterTrueTypeFont makes a TrueType font available under key.
func (d *Document) RegisterTrueTypeFont(key fonts.Key, data []byte) error {
	if d.Finished() {
		return ErrAlreadyFinished
	}
	return d.registry.RegisterTrueType(key, data)
}

// RegisterType1Font makes a Type 1 font available under key. pfb may be
// nil, in which case only metrics are used and the program is not
// embedded.
func (d *Document) RegisterType1Font(key fonts.Key, afm, pfb []byte) error {
	if d.Finished() {
		return ErrAlreadyFinished
	}
	return d.registry.RegisterType1(key, afm, pfb)
}

// ImageFromFile parses an image file into an auto-placed image part.
func ImageFromFile(path string) (*layout.Image, error) {
	img, err := images.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("image %s: %w", path, err)
	}
	return layout.NewImage(img), nil
}

// importer resolves image references relative to the image directory.
func (d *Document) importer() *layout.Importer {
	im := d.flow.Importer()
	im.LoadImage = func(src string) (*images.Image, error) {
		if d.imageDir != "" && !filepath.IsAbs(src) {
			src = filepath.Join(d.imageDir, src)
		}
		return images.ParseFile(src)
	}
	return im
}

// AddMarkdown converts Markdown into parts and adds them.
func (d *Document) AddMarkdown(src string) error {
	parts, err := d.importer().Markdown(src)
	if err != nil {
		return fmt.Errorf("markdown: %w", err)
	}
	return d.Add(parts...)
}

// AddHTML converts an HTML fragment into parts and adds them.
func (d *Document) AddHTML(src string) error {
	parts, err := d.importer().HTML(src)
	if err != nil {
		return fmt.Errorf("html: %w", err)
	}
	return d.Add(parts...)
}

// AddLaTeX typesets a LaTeX formula and adds it.
func (d *Document) AddLaTeX(src string) error {
	parts, err := d.importer().LaTeX(src)
	if err != nil {
		return fmt.Errorf("latex: %w", err)
	}
	return d.Add(parts...)
}

// Finish freezes the layout and renders every page into the PDF body.
// It fails with ErrAlreadyFinished when called again.
func (d *Document) Finish(ctx context.Context) (err error) {
	if d.Finished() {
		return ErrAlreadyFinished
	}
	ctx, span := d.tracer.StartSpan(ctx, observability.SpanLayoutFinish)
	defer func() {
		if err != nil {
			span.SetError(err)
		}
		span.Finish()
	}()

	d.flow.Freeze()
	pages := d.flow.Pages()
	span.SetTag("pages", len(pages))

	body, err := writer.NewBody(d.cfg)
	if err != nil {
		return err
	}
	_, rspan := d.tracer.StartSpan(ctx, observability.SpanRender)
	for i, p := range pages {
		if err := ctx.Err(); err != nil {
			rspan.SetError(err)
			rspan.Finish()
			return err
		}
		if _, err := body.AddPage(p); err != nil {
			rspan.SetError(err)
			rspan.Finish()
			return fmt.Errorf("render page %d: %w", i+1, err)
		}
	}
	rspan.Finish()
	if err := body.Close(); err != nil {
		return err
	}
	d.body = body
	d.logger.Info("document finished",
		observability.Int("pages", len(pages)),
		observability.Int("objects", len(body.Objects())))
	return nil
}

// WriteTo serializes the finished document.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	return d.Write(context.Background(), w)
}

// Write serializes the finished document, stopping early when ctx ends.
func (d *Document) Write(ctx context.Context, w io.Writer) (n int64, err error) {
	if !d.Finished() {
		return 0, ErrNotFinished
	}
	ctx, span := d.tracer.StartSpan(ctx, observability.SpanWrite)
	defer func() {
		if err != nil {
			span.SetError(err)
		}
		span.SetTag("bytes", n)
		span.Finish()
	}()
	return d.writer.Write(ctx, d.body, w)
}

// Bytes returns the serialized document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Body is the finished PDF body, nil before Finish.
func (d *Document) Body() *writer.Body { return d.body }
