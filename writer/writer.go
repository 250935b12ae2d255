// Package writer turns laid-out pages into PDF objects and serializes them
// as a single-revision file: header, body, cross-reference table and
// trailer.
package writer

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/wudi/flowpdf/observability"
)

// ErrBodyOpen is returned when a body is written before Close.
var ErrBodyOpen = errors.New("body not closed")

type PDFVersion string

const (
	PDF14 PDFVersion = "1.4"
	PDF17 PDFVersion = "1.7"
)

type ContentFilter int

const (
	FilterNone ContentFilter = iota
	FilterFlate
	FilterASCIIHex
	FilterASCII85
)

// Info holds the document information dictionary entries. Empty fields are
// omitted.
type Info struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string
	// CreationDate is written when set, or stamped with the current time
	// unless the output is deterministic.
	CreationDate time.Time
}

type Config struct {
	Version PDFVersion
	// Compression is the flate level; 0 uses the default level.
	Compression   int
	ContentFilter ContentFilter
	// Deterministic derives the file ID from the content and never stamps
	// the current time, so equal input gives equal bytes.
	Deterministic bool
	Info          Info
	Logger        observability.Logger
}

// DefaultConfig writes PDF 1.7 with flate-compressed streams.
func DefaultConfig() Config {
	return Config{Version: PDF17, ContentFilter: FilterFlate}
}

type Writer interface {
	// Write serializes a closed body to w and returns the bytes written.
	Write(ctx context.Context, body *Body, w io.Writer) (int64, error)
	SerializeObject(obj *IndirectObject) ([]byte, error)
}

// Interceptor observes each indirect object as it is written.
type Interceptor interface {
	BeforeWrite(ctx context.Context, obj *IndirectObject) error
	AfterWrite(ctx context.Context, obj *IndirectObject, bytesWritten int64) error
}

type WriterBuilder struct{ interceptors []Interceptor }

func (b *WriterBuilder) WithInterceptor(i Interceptor) *WriterBuilder {
	b.interceptors = append(b.interceptors, i)
	return b
}
func (b *WriterBuilder) Build() Writer { return &impl{interceptors: b.interceptors} }
