package writer

import (
	"compress/flate"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"math"
	"sort"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/wudi/flowpdf/filters"
	"github.com/wudi/flowpdf/fonts"
	"github.com/wudi/flowpdf/images"
	"github.com/wudi/flowpdf/ir/raw"
	"github.com/wudi/flowpdf/observability"
)

// ErrBodyClosed is returned when objects are added after Close.
var ErrBodyClosed = errors.New("body closed")

const producer = "flowpdf"

// IndirectObject is a numbered object of the body.
type IndirectObject struct {
	Ref    raw.ObjectRef
	Object raw.Object
	// Offset is the byte position of "N 0 obj", set when written.
	Offset int64
}

// Body owns the numbered objects of one document. Numbers are allocated
// sequentially from the catalog, which is always object 1. Fonts and
// images are cached so each is embedded once.
type Body struct {
	cfg     Config
	logger  observability.Logger
	encoder filters.Encoder

	objects   []*IndirectObject
	catalog   raw.ObjectRef
	pages     raw.ObjectRef
	pagesDict *raw.DictObj
	kids      *raw.ArrayObj
	info      *raw.ObjectRef

	fontRefs  map[fonts.Key]raw.ObjectRef
	imageRefs map[[blake2b.Size256]byte]raw.ObjectRef

	// seed accumulates page content for the deterministic file ID.
	seed   hash.Hash
	closed bool
}

// NewBody starts a body holding the catalog and an empty page tree.
func NewBody(cfg Config) (*Body, error) {
	enc, err := pickEncoder(cfg)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = observability.NopLogger{}
	}
	b := &Body{
		cfg:       cfg,
		logger:    logger,
		encoder:   enc,
		fontRefs:  make(map[fonts.Key]raw.ObjectRef),
		imageRefs: make(map[[blake2b.Size256]byte]raw.ObjectRef),
		seed:      sha256.New(),
	}
	b.catalog = b.nextRef()
	b.pages = b.nextRef()
	b.kids = raw.NewArray()
	b.pagesDict = raw.Dict().
		SetName("Type", raw.NameLiteral("Pages")).
		SetName("Kids", b.kids).
		SetName("Count", raw.NumberInt(0))
	b.set(b.pages, b.pagesDict)
	b.set(b.catalog, raw.Dict().
		SetName("Type", raw.NameLiteral("Catalog")).
		SetName("Pages", raw.Ref(b.pages.Num, b.pages.Gen)))
	return b, nil
}

func pickEncoder(cfg Config) (filters.Encoder, error) {
	switch cfg.ContentFilter {
	case FilterNone:
		return nil, nil
	case FilterFlate:
		level := cfg.Compression
		if level == 0 {
			level = flate.DefaultCompression
		}
		return filters.NewFlateEncoder(level), nil
	case FilterASCIIHex:
		enc, _ := filters.NewRegistry().Encoder(filters.ASCIIHex)
		return enc, nil
	case FilterASCII85:
		enc, _ := filters.NewRegistry().Encoder(filters.ASCII85)
		return enc, nil
	}
	return nil, fmt.Errorf("unknown content filter %d", cfg.ContentFilter)
}

// nextRef allocates the next object number without an object.
func (b *Body) nextRef() raw.ObjectRef {
	ref := raw.ObjectRef{Num: len(b.objects) + 1}
	b.objects = append(b.objects, &IndirectObject{Ref: ref})
	return ref
}

func (b *Body) set(ref raw.ObjectRef, obj raw.Object) { b.objects[ref.Num-1].Object = obj }

// AddObject always allocates a new object number for obj.
func (b *Body) AddObject(obj raw.Object) (raw.ObjectRef, error) {
	if b.closed {
		return raw.ObjectRef{}, ErrBodyClosed
	}
	ref := b.nextRef()
	b.set(ref, obj)
	return ref, nil
}

// Objects returns the indirect objects in number order.
func (b *Body) Objects() []*IndirectObject { return b.objects }

// Root is the catalog.
func (b *Body) Root() raw.ObjectRef { return b.catalog }

// Info returns the document information dictionary, set by Close.
func (b *Body) Info() (raw.ObjectRef, bool) {
	if b.info == nil {
		return raw.ObjectRef{}, false
	}
	return *b.info, true
}

// PageCount is the number of pages added.
func (b *Body) PageCount() int { return b.kids.Len() }

// Closed reports whether Close was called.
func (b *Body) Closed() bool { return b.closed }

// encodeStream applies the configured content filter.
func (b *Body) encodeStream(dict *raw.DictObj, data []byte) (*raw.StreamObj, error) {
	if b.encoder == nil {
		return raw.NewStream(dict, data), nil
	}
	out, err := b.encoder.Encode(data)
	if err != nil {
		return nil, fmt.Errorf("encode stream: %w", err)
	}
	dict.SetName("Filter", raw.NameLiteral(b.encoder.Name()))
	return raw.NewStream(dict, out), nil
}

// AddFont embeds the font for key once: font dictionary, descriptor,
// program stream when the metrics carry one, and an encoding differences
// object when glyph names deviate from WinAnsiEncoding. Later calls with
// the same key return the first reference.
func (b *Body) AddFont(key fonts.Key, m fonts.Metrics) (raw.ObjectRef, error) {
	if ref, ok := b.fontRefs[key]; ok {
		return ref, nil
	}
	if b.closed {
		return raw.ObjectRef{}, ErrBodyClosed
	}
	if m == nil {
		return raw.ObjectRef{}, fmt.Errorf("font %s: no metrics", key)
	}
	fd, err := b.addFontDescriptor(m)
	if err != nil {
		return raw.ObjectRef{}, fmt.Errorf("font %s: %w", key, err)
	}
	fontDict := raw.Dict().
		SetName("Type", raw.NameLiteral("Font")).
		SetName("Subtype", raw.NameLiteral(m.Subtype())).
		SetName("BaseFont", raw.NameLiteral(m.Name()))

	first, last, widths := encodeWidths(m)
	fontDict.SetName("FirstChar", raw.NumberInt(int64(first)))
	fontDict.SetName("LastChar", raw.NumberInt(int64(last)))
	fontDict.SetName("Widths", widths)

	if d, ok := m.(fonts.Differencer); ok && len(d.Differences()) > 0 {
		encRef := b.nextRef()
		b.set(encRef, raw.Dict().
			SetName("Type", raw.NameLiteral("Encoding")).
			SetName("BaseEncoding", raw.NameLiteral("WinAnsiEncoding")).
			SetName("Differences", differencesArray(d.Differences())))
		fontDict.SetName("Encoding", raw.Ref(encRef.Num, encRef.Gen))
	} else {
		fontDict.SetName("Encoding", raw.NameLiteral("WinAnsiEncoding"))
	}
	fontDict.SetName("FontDescriptor", raw.Ref(fd.Num, fd.Gen))
	ref := b.nextRef()
	b.set(ref, fontDict)
	b.fontRefs[key] = ref
	b.logger.Debug("font embedded", observability.String("font", m.Name()), observability.Int("object", ref.Num))
	return ref, nil
}

// addFontDescriptor allocates object numbers only once the program stream
// is encoded, so a failure leaves no empty slots behind.
func (b *Body) addFontDescriptor(m fonts.Metrics) (raw.ObjectRef, error) {
	d := m.Descriptor()
	dict := raw.Dict().
		SetName("Type", raw.NameLiteral("FontDescriptor")).
		SetName("FontName", raw.NameLiteral(d.FontName)).
		SetName("Flags", raw.NumberInt(int64(d.Flags))).
		SetName("ItalicAngle", number(d.ItalicAngle)).
		SetName("Ascent", number(d.Ascent)).
		SetName("Descent", number(d.Descent)).
		SetName("CapHeight", number(d.CapHeight)).
		SetName("StemV", raw.NumberInt(int64(d.StemV))).
		SetName("FontBBox", raw.NewArray(number(d.BBox[0]), number(d.BBox[1]), number(d.BBox[2]), number(d.BBox[3])))
	if d.XHeight > 0 {
		dict.SetName("XHeight", number(d.XHeight))
	}
	if prog, ok := m.Program(); ok && len(prog.Data) > 0 {
		sd := raw.Dict()
		for k, v := range map[string]int{"Length1": prog.Length1, "Length2": prog.Length2, "Length3": prog.Length3} {
			if v > 0 {
				sd.SetName(k, raw.NumberInt(int64(v)))
			}
		}
		stream, err := b.encodeStream(sd, prog.Data)
		if err != nil {
			return raw.ObjectRef{}, err
		}
		progRef := b.nextRef()
		b.set(progRef, stream)
		dict.SetName(prog.Key, raw.Ref(progRef.Num, progRef.Gen))
	}
	ref := b.nextRef()
	b.set(ref, dict)
	return ref, nil
}

// encodeWidths lists the advance widths of WinAnsi codes 32 to 255.
func encodeWidths(m fonts.Metrics) (first, last int, arr *raw.ArrayObj) {
	first, last = 32, 255
	arr = raw.NewArray()
	for c := first; c <= last; c++ {
		w := 0
		if fonts.GlyphName(byte(c)) != "" {
			w = m.Width(fonts.WinAnsiRune(byte(c)))
		}
		arr.Append(raw.NumberInt(int64(w)))
	}
	return first, last, arr
}

// differencesArray groups consecutive codes into runs: [c1 /a /b c2 /x].
func differencesArray(diffs map[byte]string) *raw.ArrayObj {
	codes := make([]int, 0, len(diffs))
	for c := range diffs {
		codes = append(codes, int(c))
	}
	sort.Ints(codes)
	arr := raw.NewArray()
	prev := -2
	for _, c := range codes {
		if c != prev+1 {
			arr.Append(raw.NumberInt(int64(c)))
		}
		arr.Append(raw.NameLiteral(diffs[byte(c)]))
		prev = c
	}
	return arr
}

// AddImage embeds img once per distinct content. Data already carrying a
// filter is passed through; raw samples get the content filter. An alpha
// channel becomes a separate SMask image.
func (b *Body) AddImage(img *images.Image) (raw.ObjectRef, error) {
	if img == nil || img.Width <= 0 || img.Height <= 0 || len(img.Data) == 0 {
		return raw.ObjectRef{}, fmt.Errorf("%w: empty image", images.ErrUnsupported)
	}
	key := imageKey(img)
	if ref, ok := b.imageRefs[key]; ok {
		return ref, nil
	}
	if b.closed {
		return raw.ObjectRef{}, ErrBodyClosed
	}
	cs := img.ColorSpace
	if cs == "" {
		cs = "DeviceRGB"
	}
	bpc := img.BitsPerComponent
	if bpc == 0 {
		bpc = 8
	}
	dict := raw.Dict().
		SetName("Type", raw.NameLiteral("XObject")).
		SetName("Subtype", raw.NameLiteral("Image")).
		SetName("Width", raw.NumberInt(int64(img.Width))).
		SetName("Height", raw.NumberInt(int64(img.Height))).
		SetName("ColorSpace", raw.NameLiteral(cs)).
		SetName("BitsPerComponent", raw.NumberInt(int64(bpc)))
	if len(img.Decode) > 0 {
		arr := raw.NewArray()
		for _, v := range img.Decode {
			arr.Append(number(v))
		}
		dict.SetName("Decode", arr)
	}
	if img.SMask != nil {
		mask, err := b.AddImage(img.SMask)
		if err != nil {
			return raw.ObjectRef{}, fmt.Errorf("soft mask: %w", err)
		}
		dict.SetName("SMask", raw.Ref(mask.Num, mask.Gen))
	}

	var stream *raw.StreamObj
	if img.Filter != "" {
		dict.SetName("Filter", raw.NameLiteral(img.Filter))
		stream = raw.NewStream(dict, img.Data)
	} else {
		var err error
		if stream, err = b.encodeStream(dict, img.Data); err != nil {
			return raw.ObjectRef{}, err
		}
	}
	ref := b.nextRef()
	b.set(ref, stream)
	b.imageRefs[key] = ref
	b.logger.Debug("image embedded",
		observability.Int("object", ref.Num),
		observability.Int("width", img.Width),
		observability.Int("height", img.Height))
	return ref, nil
}

// imageKey hashes everything that ends up in the image XObject.
func imageKey(img *images.Image) [blake2b.Size256]byte {
	h, _ := blake2b.New256(nil)
	var buf [8]byte
	writeInt := func(v int) {
		binary.BigEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	writeString := func(s string) {
		writeInt(len(s))
		h.Write([]byte(s))
	}
	writeInt(img.Width)
	writeInt(img.Height)
	writeInt(img.BitsPerComponent)
	writeString(img.ColorSpace)
	writeString(img.Filter)
	writeInt(len(img.Decode))
	for _, v := range img.Decode {
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	writeInt(len(img.Data))
	h.Write(img.Data)
	if img.SMask != nil {
		mask := imageKey(img.SMask)
		h.Write(mask[:])
	}
	var key [blake2b.Size256]byte
	copy(key[:], h.Sum(nil))
	return key
}

// Close writes the information dictionary and seals the body. It is safe
// to call more than once.
func (b *Body) Close() error {
	if b.closed {
		return nil
	}
	info := b.cfg.Info
	if info.Producer == "" {
		info.Producer = producer
	}
	if info.CreationDate.IsZero() && !b.cfg.Deterministic {
		info.CreationDate = time.Now()
	}
	dict := raw.Dict()
	for k, v := range map[string]string{
		"Title":    info.Title,
		"Author":   info.Author,
		"Subject":  info.Subject,
		"Keywords": info.Keywords,
		"Creator":  info.Creator,
		"Producer": info.Producer,
	} {
		if v != "" {
			dict.SetName(k, raw.Str([]byte(v)))
		}
	}
	if !info.CreationDate.IsZero() {
		dict.SetName("CreationDate", raw.Str([]byte(pdfDate(info.CreationDate))))
	}
	ref, err := b.AddObject(dict)
	if err != nil {
		return err
	}
	b.info = &ref
	b.seed.Write(serializePrimitive(dict))
	b.closed = true
	return nil
}

func pdfDate(t time.Time) string {
	return "D:" + t.UTC().Format("20060102150405") + "Z"
}

func number(v float64) raw.NumberObj {
	if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return raw.NumberInt(int64(v))
	}
	return raw.NumberFloat(v)
}
