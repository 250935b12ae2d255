package writer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/wudi/flowpdf/contentstream"
	"github.com/wudi/flowpdf/filters"
	"github.com/wudi/flowpdf/fonts"
	"github.com/wudi/flowpdf/images"
	"github.com/wudi/flowpdf/ir/raw"
	"github.com/wudi/flowpdf/layout"
)

func plainConfig() Config {
	cfg := DefaultConfig()
	cfg.ContentFilter = FilterNone
	cfg.Deterministic = true
	return cfg
}

// render lays out parts on a fresh flow and writes every page.
func render(t *testing.T, cfg Config, parts ...layout.Part) (*Body, []byte) {
	t.Helper()
	f := layout.New(nil)
	if err := f.Add(parts...); err != nil {
		t.Fatalf("Add: %v", err)
	}
	body, err := NewBody(cfg)
	if err != nil {
		t.Fatalf("NewBody: %v", err)
	}
	for _, p := range f.Pages() {
		if _, err := body.AddPage(p); err != nil {
			t.Fatalf("AddPage: %v", err)
		}
	}
	if err := body.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	var buf bytes.Buffer
	n, err := (&WriterBuilder{}).Build().Write(context.Background(), body, &buf)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Fatalf("Write reported %d bytes, wrote %d", n, buf.Len())
	}
	return body, buf.Bytes()
}

func object(t *testing.T, b *Body, ref raw.ObjectRef) raw.Object {
	t.Helper()
	objs := b.Objects()
	if ref.Num < 1 || ref.Num > len(objs) {
		t.Fatalf("object %d out of range", ref.Num)
	}
	return objs[ref.Num-1].Object
}

func dictRef(t *testing.T, d *raw.DictObj, key string) raw.ObjectRef {
	t.Helper()
	v, ok := d.KV[key].(raw.RefObj)
	if !ok {
		t.Fatalf("/%s is %T, want a reference", key, d.KV[key])
	}
	return v.Ref()
}

// pageStreams decodes the content stream of every page in order.
func pageStreams(t *testing.T, b *Body) [][]byte {
	t.Helper()
	out, err := b.PageContents(context.Background())
	if err != nil {
		t.Fatalf("PageContents: %v", err)
	}
	return out
}

func shown(t *testing.T, stream []byte) []string {
	t.Helper()
	s, err := contentstream.ShownText(stream)
	if err != nil {
		t.Fatalf("ShownText: %v", err)
	}
	return s
}

func TestHelloBatman(t *testing.T) {
	body, out := render(t, plainConfig(), layout.NewText("Hello, Batman!"))
	if body.PageCount() != 1 {
		t.Fatalf("pages = %d, want 1", body.PageCount())
	}
	for _, want := range []string{
		"%PDF-1.7\n",
		"/Type /Catalog",
		"/Type /Font",
		"/BaseFont /Helvetica",
		"/Encoding /WinAnsiEncoding",
		"/Type /FontDescriptor",
		"(Hello, Batman!) Tj",
		"/Producer (flowpdf)",
	} {
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("output lacks %q", want)
		}
	}
	if !bytes.HasSuffix(out, []byte("%%EOF\n")) {
		t.Errorf("output does not end with %%%%EOF")
	}
	// Helvetica 12pt at the default margins on A4.
	want := fmt.Sprintf("1 0 0 1 50 %s Tm", contentstream.Number(layout.A4Height-50-8.616))
	if !strings.Contains(string(pageStreams(t, body)[0]), want) {
		t.Errorf("content stream lacks %q:\n%s", want, pageStreams(t, body)[0])
	}
}

var xrefEntry = regexp.MustCompile(`^(\d{10}) (\d{5}) ([nf]) $`)

func TestXRefOffsets(t *testing.T) {
	_, out := render(t, plainConfig(), layout.NewText("one"), layout.NewImage(testImage(4, 4)))

	start := bytes.LastIndex(out, []byte("startxref\n"))
	if start < 0 {
		t.Fatal("no startxref")
	}
	rest := strings.Fields(string(out[start+len("startxref\n"):]))
	xrefAt, err := strconv.Atoi(rest[0])
	if err != nil {
		t.Fatalf("startxref value %q: %v", rest[0], err)
	}
	if !bytes.HasPrefix(out[xrefAt:], []byte("xref\n0 ")) {
		t.Fatalf("startxref %d does not point at the table", xrefAt)
	}
	lines := strings.Split(string(out[xrefAt:]), "\n")
	count, _ := strconv.Atoi(strings.Fields(lines[1])[1])
	if count < 5 {
		t.Fatalf("xref has %d entries", count)
	}
	if lines[2] != "0000000000 65535 f " {
		t.Errorf("free entry = %q", lines[2])
	}
	for num := 1; num < count; num++ {
		line := lines[2+num]
		m := xrefEntry.FindStringSubmatch(line)
		if m == nil || m[3] != "n" {
			t.Fatalf("entry %d = %q", num, line)
		}
		off, _ := strconv.Atoi(m[1])
		if prefix := fmt.Sprintf("%d 0 obj\n", num); !bytes.HasPrefix(out[off:], []byte(prefix)) {
			t.Errorf("entry %d offset %d points at %q", num, off, out[off:min(off+12, len(out))])
		}
	}
	if !bytes.Contains(out, []byte(fmt.Sprintf("/Size %d", count))) {
		t.Errorf("trailer /Size does not match %d entries", count)
	}
}

func testImage(w, h int) *images.Image {
	return &images.Image{
		Width: w, Height: h, ColorSpace: "DeviceGray", BitsPerComponent: 8,
		Data: bytes.Repeat([]byte{0x80}, w*h),
	}
}

func TestFontAndImageDeduplication(t *testing.T) {
	body, err := NewBody(plainConfig())
	if err != nil {
		t.Fatalf("NewBody: %v", err)
	}
	helv, err := fonts.Standard(fonts.Key{Family: "Helvetica"})
	if err != nil {
		t.Fatalf("Standard: %v", err)
	}
	key := fonts.Key{Family: "Helvetica"}
	first, err := body.AddFont(key, helv)
	if err != nil {
		t.Fatalf("AddFont: %v", err)
	}
	n := len(body.Objects())
	second, _ := body.AddFont(key, helv)
	if first != second || len(body.Objects()) != n {
		t.Errorf("font embedded twice: %v, %v (%d -> %d objects)", first, second, n, len(body.Objects()))
	}

	a, err := body.AddImage(testImage(2, 2))
	if err != nil {
		t.Fatalf("AddImage: %v", err)
	}
	n = len(body.Objects())
	b, _ := body.AddImage(testImage(2, 2))
	if a != b || len(body.Objects()) != n {
		t.Errorf("equal images embedded twice: %v, %v", a, b)
	}
	other := testImage(2, 2)
	other.Data[0] = 0
	if c, _ := body.AddImage(other); c == a {
		t.Errorf("different image shares reference %v", c)
	}

	// AddObject never deduplicates.
	x, _ := body.AddObject(raw.NumberInt(1))
	y, _ := body.AddObject(raw.NumberInt(1))
	if x == y {
		t.Errorf("AddObject returned %v twice", x)
	}
}

func TestFontsSharedAcrossPages(t *testing.T) {
	f := layout.New(nil, layout.WithPageSize(200, 200), layout.WithMargins(layout.UniformMargins(10)))
	if err := f.Add(layout.NewText(strings.Repeat("word ", 400))); err != nil {
		t.Fatalf("Add: %v", err)
	}
	body, _ := NewBody(plainConfig())
	for _, p := range f.Pages() {
		if _, err := body.AddPage(p); err != nil {
			t.Fatalf("AddPage: %v", err)
		}
	}
	if body.PageCount() < 2 {
		t.Fatalf("pages = %d, want overflow", body.PageCount())
	}
	var fontDicts int
	for _, o := range body.Objects() {
		if d, ok := o.Object.(*raw.DictObj); ok {
			if n, ok := d.KV["Type"].(raw.NameObj); ok && n.Value() == "Font" {
				fontDicts++
			}
		}
	}
	if fontDicts != 1 {
		t.Errorf("font dictionaries = %d, want 1", fontDicts)
	}
}

func TestImagePlacement(t *testing.T) {
	img := layout.NewImage(testImage(4, 4))
	img.Width, img.Height = 40, 20
	img.Position = layout.At(100, 300)
	body, _ := render(t, plainConfig(), img)
	content := string(pageStreams(t, body)[0])
	if !strings.Contains(content, "40 0 0 20 100 280 cm\n/Im1 Do") {
		t.Errorf("image placement missing:\n%s", content)
	}
}

func TestTableHeaderOnEveryPage(t *testing.T) {
	tbl := layout.NewTable(2)
	tbl.HeaderRows = 1
	tbl.AddRow(layout.TextCell("Item"), layout.TextCell("Qty"))
	for i := 0; i < 120; i++ {
		tbl.AddRow(layout.TextCell(fmt.Sprintf("row %d", i)), layout.TextCell(strconv.Itoa(i)))
	}
	body, _ := render(t, plainConfig(), tbl)
	streams := pageStreams(t, body)
	if len(streams) < 2 {
		t.Fatalf("pages = %d, want the table to span pages", len(streams))
	}
	var rows []string
	for i, s := range streams {
		text := shown(t, s)
		if len(text) < 2 || text[0] != "Item" || text[1] != "Qty" {
			t.Errorf("page %d starts with %q, want the header", i+1, text[:min(2, len(text))])
		}
		for _, v := range text {
			if strings.HasPrefix(v, "row ") {
				rows = append(rows, v)
			}
		}
		if !strings.Contains(string(s), " re\nS\n") {
			t.Errorf("page %d has no cell borders", i+1)
		}
	}
	if len(rows) != 120 || rows[0] != "row 0" || rows[119] != "row 119" {
		t.Errorf("body rows = %d, first %q", len(rows), rows[0])
	}
}

func TestFlateContent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Deterministic = true
	body, out := render(t, cfg, layout.NewText("Compressed hello"))
	if !bytes.Contains(out, []byte("/Filter /FlateDecode")) {
		t.Errorf("content stream not flate encoded")
	}
	if bytes.Contains(out, []byte("(Compressed hello) Tj")) {
		t.Errorf("plain text found in compressed output")
	}
	if diff := cmp.Diff([]string{"Compressed hello"}, shown(t, pageStreams(t, body)[0])); diff != "" {
		t.Errorf("decoded text mismatch (-want +got):\n%s", diff)
	}
}

func TestASCIIFilters(t *testing.T) {
	for _, tc := range []struct {
		filter ContentFilter
		name   string
	}{
		{FilterASCIIHex, filters.ASCIIHex},
		{FilterASCII85, filters.ASCII85},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := plainConfig()
			cfg.ContentFilter = tc.filter
			body, out := render(t, cfg, layout.NewText("abc"))
			if !bytes.Contains(out, []byte("/Filter /"+tc.name)) {
				t.Errorf("missing /Filter /%s", tc.name)
			}
			if diff := cmp.Diff([]string{"abc"}, shown(t, pageStreams(t, body)[0])); diff != "" {
				t.Errorf("decoded text mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeterministicOutput(t *testing.T) {
	parts := func() []layout.Part {
		return []layout.Part{layout.NewText("same bytes"), layout.NewImage(testImage(3, 3))}
	}
	_, a := render(t, plainConfig(), parts()...)
	_, b := render(t, plainConfig(), parts()...)
	if !bytes.Equal(a, b) {
		t.Errorf("deterministic output differs")
	}
	if bytes.Contains(a, []byte("/CreationDate")) {
		t.Errorf("deterministic output is time stamped")
	}

	_, c := render(t, plainConfig(), layout.NewText("other bytes"))
	id := regexp.MustCompile(`/ID \[<([0-9A-F]+)>`)
	if id.FindSubmatch(a) == nil || bytes.Equal(id.FindSubmatch(a)[1], id.FindSubmatch(c)[1]) {
		t.Errorf("file IDs do not follow content")
	}
}

func TestInfoDictionary(t *testing.T) {
	cfg := plainConfig()
	cfg.Info = Info{Title: "Report (draft)", Author: "Ops"}
	_, out := render(t, cfg, layout.NewText("x"))
	for _, want := range []string{`/Title (Report \(draft\))`, "/Author (Ops)", "/Info "} {
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("output lacks %q", want)
		}
	}
}

func TestRotation(t *testing.T) {
	for in, want := range map[int]int{0: 0, 90: 90, -90: 270, 450: 90, 100: 90} {
		if got := normalizeRotation(in); got != want {
			t.Errorf("normalizeRotation(%d) = %d, want %d", in, got, want)
		}
	}
	f := layout.New(nil)
	p, _ := f.AddNewPage(layout.A4Width, layout.A4Height)
	p.Rotation = 90
	body, _ := NewBody(plainConfig())
	ref, err := body.AddPage(p)
	if err != nil {
		t.Fatalf("AddPage: %v", err)
	}
	page := object(t, body, ref).(*raw.DictObj)
	if r, ok := page.KV["Rotate"].(raw.NumberObj); !ok || r.Int() != 90 {
		t.Errorf("/Rotate = %v", page.KV["Rotate"])
	}
}

type countingInterceptor struct {
	before, after int
	fail          int
}

func (c *countingInterceptor) BeforeWrite(_ context.Context, obj *IndirectObject) error {
	c.before++
	if obj.Ref.Num == c.fail {
		return errors.New("rejected")
	}
	return nil
}

func (c *countingInterceptor) AfterWrite(_ context.Context, obj *IndirectObject, n int64) error {
	c.after++
	if n <= 0 {
		return fmt.Errorf("object %d: %d bytes", obj.Ref.Num, n)
	}
	return nil
}

func TestInterceptors(t *testing.T) {
	body, _ := NewBody(plainConfig())
	if err := body.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	ic := &countingInterceptor{}
	w := (&WriterBuilder{}).WithInterceptor(ic).Build()
	if _, err := w.Write(context.Background(), body, &bytes.Buffer{}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n := len(body.Objects()); ic.before != n || ic.after != n {
		t.Errorf("interceptor saw %d/%d of %d objects", ic.before, ic.after, n)
	}

	failing := &countingInterceptor{fail: 2}
	if _, err := (&WriterBuilder{}).WithInterceptor(failing).Build().Write(context.Background(), body, &bytes.Buffer{}); err == nil {
		t.Errorf("interceptor error not returned")
	}
}

func TestBodyLifecycle(t *testing.T) {
	body, _ := NewBody(plainConfig())
	w := (&WriterBuilder{}).Build()
	if _, err := w.Write(context.Background(), body, &bytes.Buffer{}); !errors.Is(err, ErrBodyOpen) {
		t.Errorf("Write before Close: %v", err)
	}
	if err := body.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	n := len(body.Objects())
	if err := body.Close(); err != nil || len(body.Objects()) != n {
		t.Errorf("second Close: %v, objects %d -> %d", err, n, len(body.Objects()))
	}
	if _, err := body.AddObject(raw.NullObj{}); !errors.Is(err, ErrBodyClosed) {
		t.Errorf("AddObject after Close: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := w.Write(ctx, body, &bytes.Buffer{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Write with cancelled context: %v", err)
	}
}

type failingEncoder struct{}

func (failingEncoder) Name() string { return "FlateDecode" }
func (failingEncoder) Encode([]byte) ([]byte, error) { return nil, errors.New("encoder broke") }

func TestFailedFontLeavesNoEmptyObject(t *testing.T) {
	body, _ := NewBody(plainConfig())
	tt, err := fonts.LoadTrueType("Go", goregular.TTF)
	if err != nil {
		t.Fatalf("LoadTrueType: %v", err)
	}
	n := len(body.Objects())
	body.encoder = failingEncoder{}
	if _, err := body.AddFont(fonts.Key{Family: "Go"}, tt); err == nil {
		t.Fatalf("AddFont with a failing encoder succeeded")
	}
	if got := len(body.Objects()); got != n {
		t.Errorf("objects %d -> %d after a failed AddFont", n, got)
	}
	body.encoder = nil
	if _, err := body.AddFont(fonts.Key{Family: "Go"}, tt); err != nil {
		t.Fatalf("AddFont retry: %v", err)
	}
	if err := body.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	for _, obj := range body.Objects() {
		if obj.Object == nil {
			t.Errorf("object %d has no value", obj.Ref.Num)
		}
	}
	if _, err := (&WriterBuilder{}).Build().Write(context.Background(), body, &bytes.Buffer{}); err != nil {
		t.Errorf("Write: %v", err)
	}
}

func TestUnsupportedImageIsSkipped(t *testing.T) {
	empty := layout.NewImage(&images.Image{Width: 10, Height: 10})
	body, out := render(t, plainConfig(), layout.NewText("before"), empty, layout.NewText("after"))
	if bytes.Contains(out, []byte("/Subtype /Image")) {
		t.Errorf("empty image was embedded")
	}
	if diff := cmp.Diff([]string{"before", "after"}, shown(t, pageStreams(t, body)[0])); diff != "" {
		t.Errorf("shown text mismatch (-want +got):\n%s", diff)
	}
	if bytes.Contains(pageStreams(t, body)[0], []byte(" Do")) {
		t.Errorf("skipped image is still drawn")
	}
}

func TestCheckContents(t *testing.T) {
	for _, cfg := range []Config{plainConfig(), DefaultConfig()} {
		tbl := layout.NewTable(2)
		tbl.AddRow(layout.TextCell("a"), layout.TextCell("b"))
		body, _ := render(t, cfg, layout.NewText("text"), layout.NewImage(testImage(4, 4)), tbl)
		if err := body.CheckContents(context.Background()); err != nil {
			t.Errorf("filter %v: CheckContents: %v", cfg.ContentFilter, err)
		}
	}

	if err := checkNesting(context.Background(), []byte("q BT ET Q")); err != nil {
		t.Errorf("balanced stream: %v", err)
	}
	for _, s := range []string{"q q Q", "BT ET ET", "Q q"} {
		if err := checkNesting(context.Background(), []byte(s)); !errors.Is(err, ErrUnbalanced) {
			t.Errorf("checkNesting(%q) = %v, want ErrUnbalanced", s, err)
		}
	}
	if err := checkNesting(context.Background(), []byte("q 1 0 0 1 0 0")); err == nil {
		t.Errorf("dangling operands accepted")
	}
}

func TestSerializePrimitive(t *testing.T) {
	d := raw.Dict().
		SetName("A", raw.NameLiteral("a b#")).
		SetName("B", raw.NewArray(raw.NumberInt(1), raw.NumberFloat(0.5), raw.Bool(true), raw.NullObj{})).
		SetName("C", raw.Str([]byte("x(y)\\\xe9"))).
		SetName("D", raw.HexStr([]byte{0xab, 0x01})).
		SetName("E", raw.Ref(3, 0))
	want := `<</A /a#20b#23/B [1 0.5 true null]/C (x\(y\)\\\351)/D <AB01>/E 3 0 R>>`
	if got := string(serializePrimitive(d)); got != want {
		t.Errorf("serialized\n got %s\nwant %s", got, want)
	}
}
