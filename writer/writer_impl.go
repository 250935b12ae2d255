package writer

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/wudi/flowpdf/ir/raw"
)

type impl struct {
	interceptors []Interceptor
}

// CrossReferenceTable is the single xref section of a written file.
type CrossReferenceTable struct {
	Entries []XRefEntry
}

// XRefEntry locates one object. Entry 0 is the head of the free list.
type XRefEntry struct {
	Offset     int64
	Generation int
	InUse      bool
}

// Trailer points readers at the catalog and the xref table.
type Trailer struct {
	Size      int
	Root      raw.ObjectRef
	Info      *raw.ObjectRef
	ID        [2][]byte
	StartXRef int64
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Write emits header, body objects in number order, the xref table and
// the trailer. Offsets are recorded while objects are written so the
// table always matches the bytes on disk.
func (w *impl) Write(ctx context.Context, body *Body, out io.Writer) (int64, error) {
	if body == nil {
		return 0, fmt.Errorf("nil body")
	}
	if !body.Closed() {
		return 0, ErrBodyOpen
	}
	cw := &countingWriter{w: out}
	if _, err := io.WriteString(cw, fmt.Sprintf("%%PDF-%s\n%%\xE2\xE3\xCF\xD3\n", pdfVersion(body.cfg))); err != nil {
		return cw.n, err
	}

	objects := body.Objects()
	table := CrossReferenceTable{Entries: make([]XRefEntry, 0, len(objects)+1)}
	table.Entries = append(table.Entries, XRefEntry{Generation: 65535})
	for _, obj := range objects {
		if err := ctx.Err(); err != nil {
			return cw.n, err
		}
		for _, ic := range w.interceptors {
			if err := ic.BeforeWrite(ctx, obj); err != nil {
				return cw.n, fmt.Errorf("object %d: %w", obj.Ref.Num, err)
			}
		}
		data, err := w.SerializeObject(obj)
		if err != nil {
			return cw.n, err
		}
		obj.Offset = cw.n
		if _, err := cw.Write(data); err != nil {
			return cw.n, err
		}
		table.Entries = append(table.Entries, XRefEntry{Offset: obj.Offset, Generation: obj.Ref.Gen, InUse: true})
		for _, ic := range w.interceptors {
			if err := ic.AfterWrite(ctx, obj, int64(len(data))); err != nil {
				return cw.n, fmt.Errorf("object %d: %w", obj.Ref.Num, err)
			}
		}
	}

	trailer := Trailer{Size: len(table.Entries), Root: body.Root(), StartXRef: cw.n}
	if info, ok := body.Info(); ok {
		trailer.Info = &info
	}
	id, err := fileID(body)
	if err != nil {
		return cw.n, err
	}
	trailer.ID = [2][]byte{id, id}

	if _, err := cw.Write(table.bytes()); err != nil {
		return cw.n, err
	}
	if _, err := cw.Write(trailer.bytes()); err != nil {
		return cw.n, err
	}
	body.logger.Debug("document written")
	return cw.n, nil
}

// SerializeObject renders one indirect object with its obj/endobj frame.
func (w *impl) SerializeObject(obj *IndirectObject) ([]byte, error) {
	if obj.Object == nil {
		return nil, fmt.Errorf("object %d has no value", obj.Ref.Num)
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, "%d %d obj\n", obj.Ref.Num, obj.Ref.Gen)
	writePrimitive(&b, obj.Object)
	b.WriteString("\nendobj\n")
	return b.Bytes(), nil
}

func (t CrossReferenceTable) bytes() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "xref\n0 %d\n", len(t.Entries))
	for _, e := range t.Entries {
		if !e.InUse {
			fmt.Fprintf(&b, "%010d %05d f \n", e.Offset, e.Generation)
			continue
		}
		fmt.Fprintf(&b, "%010d %05d n \n", e.Offset, e.Generation)
	}
	return b.Bytes()
}

func (t Trailer) bytes() []byte {
	d := raw.Dict().
		SetName("Size", raw.NumberInt(int64(t.Size))).
		SetName("Root", raw.Ref(t.Root.Num, t.Root.Gen)).
		SetName("ID", raw.NewArray(raw.HexStr(t.ID[0]), raw.HexStr(t.ID[1])))
	if t.Info != nil {
		d.SetName("Info", raw.Ref(t.Info.Num, t.Info.Gen))
	}
	var b bytes.Buffer
	b.WriteString("trailer\n")
	writePrimitive(&b, d)
	fmt.Fprintf(&b, "\nstartxref\n%d\n%%%%EOF\n", t.StartXRef)
	return b.Bytes()
}

// fileID hashes the rendered content in deterministic mode and is random
// otherwise.
func fileID(body *Body) ([]byte, error) {
	if body.cfg.Deterministic {
		sum := body.seed.Sum(nil)
		return sum[:16], nil
	}
	id := make([]byte, 16)
	if _, err := rand.Read(id); err != nil {
		return nil, fmt.Errorf("file id: %w", err)
	}
	return id, nil
}

func pdfVersion(cfg Config) PDFVersion {
	if cfg.Version == "" {
		return PDF17
	}
	return cfg.Version
}
