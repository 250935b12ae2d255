package builder

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/wudi/flowpdf/fonts"
	"github.com/wudi/flowpdf/images"
	"github.com/wudi/flowpdf/layout"
	"github.com/wudi/flowpdf/observability"
	"github.com/wudi/flowpdf/writer"
	"github.com/wudi/flowpdf/xref"
)

func finish(t *testing.T, d *Document) []byte {
	t.Helper()
	if err := d.Finish(context.Background()); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	out, err := d.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if _, err := xref.Verify(context.Background(), out); err != nil {
		t.Fatalf("xref: %v", err)
	}
	return out
}

func TestHelloBatmanAtExplicitPosition(t *testing.T) {
	d := New(WithPageSize(200, 200), WithContentFilter(writer.FilterNone))
	if err := d.Add(layout.NewText("Hello, Batman!").At(150, 500)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	out := finish(t, d)
	if n := len(d.Flow().Pages()); n != 1 {
		t.Fatalf("pages = %d, want 1", n)
	}
	for _, want := range []string{"/Type /Font", "/Type /FontDescriptor", "(Hello, Batman!) Tj"} {
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("output lacks %q", want)
		}
	}
}

func TestSetCurrentPageOutOfRange(t *testing.T) {
	d := New()
	if err := d.Add(layout.NewText("first")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := d.AddNewPage(0, 0); err != nil {
		t.Fatalf("AddNewPage: %v", err)
	}
	if err := d.Add(layout.NewText("second")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	before := d.Flow().CurrentPage()
	if err := d.SetCurrentPage(0); !errors.Is(err, layout.ErrPageOutOfRange) {
		t.Fatalf("SetCurrentPage(0) = %v", err)
	}
	if got := d.Flow().CurrentPage(); got != before {
		t.Fatalf("current page moved from %d to %d", before, got)
	}
	if err := d.Add(layout.NewText("third")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	var got [][]string
	for _, p := range d.Flow().Pages() {
		var texts []string
		for _, c := range p.Content() {
			if ts, ok := c.(*layout.TextState); ok {
				texts = append(texts, ts.Lines[0].Text)
			}
		}
		got = append(got, texts)
	}
	if diff := cmp.Diff([][]string{{"first"}, {"second", "third"}}, got); diff != "" {
		t.Errorf("page contents mismatch (-want +got):\n%s", diff)
	}

	if err := d.SetCurrentPage(1); err != nil {
		t.Fatalf("SetCurrentPage(1): %v", err)
	}
	if err := d.Add(layout.NewText("back")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if n := len(d.Flow().Pages()[0].Content()); n != 2 {
		t.Errorf("page 1 holds %d items after switching back", n)
	}
}

func TestLifecycle(t *testing.T) {
	d := New()
	if _, err := d.Bytes(); !errors.Is(err, ErrNotFinished) {
		t.Fatalf("Bytes before Finish = %v", err)
	}
	if err := d.Add(layout.NewText("x")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := d.Finish(context.Background()); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if err := d.Finish(context.Background()); !errors.Is(err, ErrAlreadyFinished) {
		t.Errorf("second Finish = %v", err)
	}
	if err := d.Add(layout.NewText("late")); !errors.Is(err, ErrAlreadyFinished) {
		t.Errorf("Add after Finish = %v", err)
	}
	if _, err := d.AddNewPage(0, 0); !errors.Is(err, ErrAlreadyFinished) {
		t.Errorf("AddNewPage after Finish = %v", err)
	}
	if err := d.Flow().Add(layout.NewText("late")); !errors.Is(err, layout.ErrFrozen) {
		t.Errorf("flow Add after Finish = %v", err)
	}
	a, _ := d.Bytes()
	b, _ := d.Bytes()
	if len(a) == 0 || len(a) != len(b) {
		t.Errorf("repeated writes differ in size: %d, %d", len(a), len(b))
	}
}

func TestEmptyDocumentHasOnePage(t *testing.T) {
	d := New(WithDeterministic())
	finish(t, d)
	if d.Body().PageCount() != 1 {
		t.Errorf("pages = %d, want 1", d.Body().PageCount())
	}
}

func TestDeterministicDocuments(t *testing.T) {
	build := func() []byte {
		d := New(WithDeterministic(), WithInfo(writer.Info{Title: "Same"}))
		if err := d.AddMarkdown("# Title\n\nBody text with **bold** words.\n"); err != nil {
			t.Fatalf("AddMarkdown: %v", err)
		}
		return finish(t, d)
	}
	if !bytes.Equal(build(), build()) {
		t.Errorf("equal documents produced different bytes")
	}
}

func TestTableHeaderRepeats(t *testing.T) {
	d := New(WithPageSize(300, 300), WithContentFilter(writer.FilterNone))
	tbl := layout.NewTable(2)
	tbl.HeaderRows = 1
	tbl.AddRow(layout.TextCell("Name"), layout.TextCell("Value"))
	for i := 0; i < 60; i++ {
		tbl.AddRow(layout.TextCell("key"), layout.TextCell("value"))
	}
	if err := d.Add(tbl); err != nil {
		t.Fatalf("Add: %v", err)
	}
	out := finish(t, d)
	pages := d.Body().PageCount()
	if pages < 2 {
		t.Fatalf("pages = %d, want >= 2", pages)
	}
	if n := bytes.Count(out, []byte("(Name) Tj")); n != pages {
		t.Errorf("header shown %d times on %d pages", n, pages)
	}
}

func TestTrueTypeEmbedding(t *testing.T) {
	d := New(WithContentFilter(writer.FilterNone))
	key := fonts.Key{Family: "Go"}
	if err := d.RegisterTrueTypeFont(key, goregular.TTF); err != nil {
		t.Fatalf("RegisterTrueTypeFont: %v", err)
	}
	txt := layout.NewText("Gophers")
	txt.Font = key
	if err := d.Add(txt, layout.NewText("and Helvetica")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	out := finish(t, d)
	for _, want := range []string{"/Subtype /TrueType", "/FontFile2 ", "/BaseFont /Helvetica"} {
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("output lacks %q", want)
		}
	}
}

func TestUnknownFontFallsBack(t *testing.T) {
	d := New(WithContentFilter(writer.FilterNone))
	txt := layout.NewText("fallback")
	txt.Font = fonts.Key{Family: "NoSuchFont"}
	if err := d.Add(txt); err != nil {
		t.Fatalf("Add: %v", err)
	}
	out := finish(t, d)
	if !bytes.Contains(out, []byte("/BaseFont /Helvetica")) || !bytes.Contains(out, []byte("(fallback) Tj")) {
		t.Errorf("fallback font not used")
	}
}

func TestImportedImages(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "dot.png"))
	if err != nil {
		t.Fatal(err)
	}
	dot := image.NewGray(image.Rect(0, 0, 2, 2))
	dot.Pix[0] = 0xff
	if err := png.Encode(f, dot); err != nil {
		t.Fatal(err)
	}
	f.Close()

	d := New(WithImageDir(dir), WithContentFilter(writer.FilterNone))
	if err := d.AddMarkdown("![dot](dot.png)\n\n![dot again](dot.png)\n"); err != nil {
		t.Fatalf("AddMarkdown: %v", err)
	}
	out := finish(t, d)
	if n := bytes.Count(out, []byte("/Subtype /Image")); n != 1 {
		t.Errorf("image objects = %d, want 1", n)
	}
	if n := bytes.Count(out, []byte("/Im1 Do")); n != 2 {
		t.Errorf("image drawn %d times, want 2", n)
	}

	if _, err := ImageFromFile(filepath.Join(dir, "missing.png")); err == nil {
		t.Errorf("ImageFromFile on a missing file succeeded")
	}
}

type recordingTracer struct{ spans []string }

func (r *recordingTracer) StartSpan(ctx context.Context, name string) (context.Context, observability.Span) {
	r.spans = append(r.spans, name)
	return ctx, nopSpan{}
}

type nopSpan struct{}

func (nopSpan) SetTag(string, interface{}) {}
func (nopSpan) SetError(error)             {}
func (nopSpan) Finish()                    {}

type recordingLogger struct {
	observability.NopLogger
	warnings []string
}

func (l *recordingLogger) Warn(msg string, _ ...observability.Field) { l.warnings = append(l.warnings, msg) }
func (l *recordingLogger) With(...observability.Field) observability.Logger {
	return l
}

func TestTracingAndLogging(t *testing.T) {
	tr := &recordingTracer{}
	lg := &recordingLogger{}
	d := New(WithTracer(tr), WithLogger(lg))
	if err := d.Add(layout.NewText("traced")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := d.SetCurrentPage(7); err == nil {
		t.Fatalf("SetCurrentPage(7) succeeded")
	}
	finish(t, d)
	want := []string{observability.SpanLayoutFinish, observability.SpanRender, observability.SpanWrite}
	if diff := cmp.Diff(want, tr.spans); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
	if len(lg.warnings) == 0 || !strings.Contains(lg.warnings[0], "page") {
		t.Errorf("out of range page not logged: %v", lg.warnings)
	}
}

func TestUnsupportedImageDoesNotFailDocument(t *testing.T) {
	lg := &recordingLogger{}
	d := New(WithLogger(lg), WithContentFilter(writer.FilterNone))
	empty := layout.NewImage(&images.Image{Width: 10, Height: 10})
	if err := d.Add(layout.NewText("before"), empty, layout.NewText("after")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	out := finish(t, d)
	for _, want := range []string{"(before) Tj", "(after) Tj"} {
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("output lacks %q", want)
		}
	}
	if bytes.Contains(out, []byte("/Subtype /Image")) {
		t.Errorf("empty image was embedded")
	}
	var skipped bool
	for _, w := range lg.warnings {
		skipped = skipped || strings.Contains(w, "image")
	}
	if !skipped {
		t.Errorf("skipped image not logged: %v", lg.warnings)
	}
}

func TestFinishHonoursContext(t *testing.T) {
	d := New()
	if err := d.Add(layout.NewText("x")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.Finish(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Finish with cancelled context = %v", err)
	}
}
