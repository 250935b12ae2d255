// Command pdfgen lays out Markdown, HTML, LaTeX or plain text as a PDF.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/wudi/flowpdf/builder"
	"github.com/wudi/flowpdf/fonts"
	"github.com/wudi/flowpdf/layout"
	"github.com/wudi/flowpdf/observability"
	"github.com/wudi/flowpdf/writer"
	"github.com/wudi/flowpdf/xref"
)

type options struct {
	input    string
	output   string
	format   string
	title    string
	pageSize string
	margin   float64
	fontSize float64
	fontFile string
	filter   string
	verify   bool
	verbose  bool
	fixedID  bool
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "pdfgen: %v\n", err)
		os.Exit(2)
	}
	if err := run(context.Background(), opts, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "pdfgen: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("pdfgen", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: pdfgen [flags] <input|->\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.output, "o", "out.pdf", "Output file, - for stdout")
	fs.StringVar(&opts.format, "format", "", "Input format: md, html, tex or txt (default from extension)")
	fs.StringVar(&opts.title, "title", "", "Document title")
	fs.StringVar(&opts.pageSize, "page", "a4", "Page size: a4, letter or WIDTHxHEIGHT in points")
	fs.Float64Var(&opts.margin, "margin", 50, "Page margin in points")
	fs.Float64Var(&opts.fontSize, "size", 12, "Body font size")
	fs.StringVar(&opts.fontFile, "font", "", "TrueType font file for body text")
	fs.StringVar(&opts.filter, "filter", "flate", "Content filter: none, flate, hex or a85")
	fs.BoolVar(&opts.verify, "verify", false, "Re-read the cross-reference table and page contents after writing")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	fs.BoolVar(&opts.fixedID, "deterministic", false, "Derive the file ID from the content and omit the creation date")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return options{}, fmt.Errorf("missing input")
	}
	opts.input = fs.Arg(0)
	if opts.format == "" {
		opts.format = strings.TrimPrefix(filepath.Ext(opts.input), ".")
	}
	return opts, nil
}

func pageSize(s string) (float64, float64, error) {
	switch strings.ToLower(s) {
	case "", "a4":
		return layout.A4Width, layout.A4Height, nil
	case "letter":
		return 612, 792, nil
	}
	var w, h float64
	if _, err := fmt.Sscanf(strings.ToLower(s), "%gx%g", &w, &h); err != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid page size %q", s)
	}
	return w, h, nil
}

func contentFilter(s string) (writer.ContentFilter, error) {
	switch s {
	case "none":
		return writer.FilterNone, nil
	case "", "flate":
		return writer.FilterFlate, nil
	case "hex":
		return writer.FilterASCIIHex, nil
	case "a85":
		return writer.FilterASCII85, nil
	}
	return 0, fmt.Errorf("unknown filter %q", s)
}

func run(ctx context.Context, opts options, stdin io.Reader, stdout io.Writer) error {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := observability.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var src []byte
	var err error
	if opts.input == "-" {
		src, err = io.ReadAll(stdin)
	} else {
		src, err = os.ReadFile(opts.input)
	}
	if err != nil {
		return err
	}
	w, h, err := pageSize(opts.pageSize)
	if err != nil {
		return err
	}
	filter, err := contentFilter(opts.filter)
	if err != nil {
		return err
	}

	docOpts := []builder.Option{
		builder.WithLogger(logger),
		builder.WithPageSize(w, h),
		builder.WithMargins(layout.UniformMargins(opts.margin)),
		builder.WithDefaultFontSize(opts.fontSize),
		builder.WithContentFilter(filter),
		builder.WithInfo(writer.Info{Title: opts.title, Creator: "pdfgen"}),
	}
	if opts.input != "-" {
		docOpts = append(docOpts, builder.WithImageDir(filepath.Dir(opts.input)))
	}
	if opts.fixedID {
		docOpts = append(docOpts, builder.WithDeterministic())
	}
	var fontData []byte
	if opts.fontFile != "" {
		if fontData, err = os.ReadFile(opts.fontFile); err != nil {
			return err
		}
		docOpts = append(docOpts, builder.WithDefaultFont(fonts.Key{Family: "Body"}))
	}
	doc := builder.New(docOpts...)
	if fontData != nil {
		if err := doc.RegisterTrueTypeFont(fonts.Key{Family: "Body"}, fontData); err != nil {
			return err
		}
	}

	switch strings.ToLower(opts.format) {
	case "md", "markdown":
		err = doc.AddMarkdown(string(src))
	case "html", "htm":
		err = doc.AddHTML(string(src))
	case "tex", "latex":
		err = doc.AddLaTeX(string(src))
	case "txt", "text", "":
		err = doc.Add(layout.NewText(string(src)))
	default:
		err = fmt.Errorf("unknown format %q", opts.format)
	}
	if err != nil {
		return err
	}
	if err := doc.Finish(ctx); err != nil {
		return err
	}

	var buf bytes.Buffer
	if _, err := doc.Write(ctx, &buf); err != nil {
		return err
	}
	if opts.verify {
		tbl, err := xref.Verify(ctx, buf.Bytes())
		if err != nil {
			return fmt.Errorf("verify: %w", err)
		}
		if err := doc.Body().CheckContents(ctx); err != nil {
			return fmt.Errorf("verify: %w", err)
		}
		logger.Info("output verified",
			observability.Int("objects", len(tbl.Objects())),
			observability.Int("pages", doc.Body().PageCount()))
	}
	if opts.output == "-" {
		_, err = stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(opts.output, buf.Bytes(), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s (%d pages, %d bytes)\n", opts.output, doc.Body().PageCount(), buf.Len())
	return nil
}
