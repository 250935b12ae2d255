// Package xref reads the classic cross-reference table of a PDF file and
// checks that every in-use entry points at its object.
package xref

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/wudi/flowpdf/observability"
)

var ErrNoStartXRef = errors.New("startxref not found")

// Table holds object offsets for a classic xref table.
type Table interface {
	Lookup(objNum int) (offset int64, gen int, found bool)
	Objects() []int
	// Size is the /Size of the trailer, or the entry count when the
	// trailer was not readable.
	Size() int
	Type() string
}

// Resolver locates and parses xref information in a PDF.
type Resolver interface {
	Resolve(ctx context.Context, r io.ReaderAt) (Table, error)
}

type ResolverConfig struct {
	// Repair rebuilds the table by scanning for object headers when the
	// file has no usable startxref.
	Repair bool
	Logger observability.Logger
}

// NewResolver returns a classic-table resolver.
func NewResolver(cfg ResolverConfig) Resolver {
	if cfg.Logger == nil {
		cfg.Logger = observability.NopLogger{}
	}
	return &tableResolver{cfg: cfg}
}

type tableResolver struct{ cfg ResolverConfig }

func (t *tableResolver) Resolve(ctx context.Context, r io.ReaderAt) (Table, error) {
	data := readAll(r)
	tbl, err := parseTable(data)
	if err == nil {
		return tbl, nil
	}
	if !t.cfg.Repair {
		return nil, err
	}
	t.cfg.Logger.Warn("xref unreadable, scanning objects", observability.Error("error", err))
	return repair(ctx, data)
}

func parseTable(data []byte) (*table, error) {
	startxref := bytes.LastIndex(data, []byte("startxref"))
	if startxref < 0 {
		return nil, ErrNoStartXRef
	}
	rest := data[startxref+len("startxref"):]
	lines := bufio.NewScanner(bytes.NewReader(rest))
	var offset int64
	for lines.Scan() {
		text := strings.TrimSpace(lines.Text())
		if text == "" {
			continue
		}
		val, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse startxref: %w", err)
		}
		offset = val
		break
	}

	if offset <= 0 || offset >= int64(len(data)) {
		return nil, fmt.Errorf("xref offset out of range: %d", offset)
	}

	sc := bufio.NewScanner(bytes.NewReader(data[offset:]))
	if !sc.Scan() || strings.TrimSpace(sc.Text()) != "xref" {
		return nil, errors.New("xref keyword not found at offset")
	}

	t := &table{entries: make(map[int]entry)}
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "trailer") {
			t.size = trailerSize(data[offset:])
			break
		}
		parts := strings.Fields(line)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid xref subsection header: %q", line)
		}
		startObj, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("parse xref start: %w", err)
		}
		count, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("parse xref count: %w", err)
		}

		for i := 0; i < count; i++ {
			if !sc.Scan() {
				return nil, errors.New("unexpected end of xref section")
			}
			entryLine := strings.TrimSpace(sc.Text())
			fields := strings.Fields(entryLine)
			if len(fields) < 3 {
				return nil, fmt.Errorf("invalid xref entry: %q", entryLine)
			}
			off, err := strconv.ParseInt(fields[0], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parse xref offset: %w", err)
			}
			gen, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("parse xref gen: %w", err)
			}
			t.count++
			if len(fields[2]) == 0 || fields[2][0] != 'n' {
				continue // free entry
			}
			t.entries[startObj+i] = entry{offset: off, gen: gen}
		}
	}
	if t.size == 0 {
		t.size = t.count
	}
	return t, nil
}

// trailerSize reads /Size from the trailer following the table.
func trailerSize(section []byte) int {
	i := bytes.Index(section, []byte("/Size"))
	if i < 0 {
		return 0
	}
	rest := bytes.TrimLeft(section[i+len("/Size"):], " \r\n\t")
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	n, _ := strconv.Atoi(string(rest[:end]))
	return n
}

// Verify resolves the table of data and checks that each in-use entry
// points at "num gen obj" and that /Size covers every entry.
func Verify(ctx context.Context, data []byte) (Table, error) {
	tbl, err := NewResolver(ResolverConfig{}).Resolve(ctx, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	for _, num := range tbl.Objects() {
		off, gen, _ := tbl.Lookup(num)
		header := fmt.Sprintf("%d %d obj", num, gen)
		if off < 0 || off >= int64(len(data)) || !bytes.HasPrefix(data[off:], []byte(header)) {
			return tbl, fmt.Errorf("object %d: offset %d does not point at %q", num, off, header)
		}
		if num >= tbl.Size() {
			return tbl, fmt.Errorf("object %d outside /Size %d", num, tbl.Size())
		}
	}
	return tbl, nil
}

type entry struct {
	offset int64
	gen    int
}

type table struct {
	entries map[int]entry
	count   int
	size    int
	kind    string
}

func (t *table) Lookup(objNum int) (int64, int, bool) {
	e, ok := t.entries[objNum]
	if !ok {
		return 0, 0, false
	}
	return e.offset, e.gen, true
}

func (t *table) Objects() []int {
	out := make([]int, 0, len(t.entries))
	for k := range t.entries {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func (t *table) Size() int { return t.size }

func (t *table) Type() string {
	if t.kind == "" {
		return "table"
	}
	return t.kind
}

func readAll(r io.ReaderAt) []byte {
	var buf bytes.Buffer
	const chunk = int64(32 * 1024)
	for off := int64(0); ; off += chunk {
		tmp := make([]byte, chunk)
		n, err := r.ReadAt(tmp, off)
		if n > 0 {
			buf.Write(tmp[:n])
		}
		if err != nil {
			break
		}
		if int64(n) < chunk {
			break
		}
	}
	return buf.Bytes()
}
