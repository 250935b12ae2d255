package filters

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"context"
	stdascii85 "encoding/ascii85"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/wudi/flowpdf/ir/raw"
)

// Names of the filters this package can produce and consume.
const (
	Flate    = "FlateDecode"
	ASCIIHex = "ASCIIHexDecode"
	ASCII85  = "ASCII85Decode"
	DCT      = "DCTDecode"
)

type Decoder interface {
	Name() string
	Decode(ctx context.Context, input []byte, params raw.Dictionary) ([]byte, error)
}

// Encoder is the write-side counterpart of Decoder.
type Encoder interface {
	Name() string
	Encode(input []byte) ([]byte, error)
}

type Pipeline struct {
	decoders []Decoder
	limits   Limits
}

// NewPipeline constructs a pipeline with provided decoders and limits.
func NewPipeline(decoders []Decoder, limits Limits) *Pipeline {
	return &Pipeline{decoders: decoders, limits: limits}
}

// DefaultPipeline decodes every filter this package writes.
func DefaultPipeline() *Pipeline {
	return NewPipeline([]Decoder{NewFlateDecoder(), NewASCIIHexDecoder(), NewASCII85Decoder()}, Limits{})
}

type Limits struct {
	MaxDecompressedSize int64
	MaxDecodeTime       time.Duration
}

func (p *Pipeline) findDecoder(name string) Decoder {
	for _, d := range p.decoders {
		if d.Name() == name {
			return d
		}
	}
	return nil
}

func (p *Pipeline) Decode(ctx context.Context, input []byte, filterNames []string, params []raw.Dictionary) ([]byte, error) {
	if p.limits.MaxDecodeTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.limits.MaxDecodeTime)
		defer cancel()
	}
	data := input
	for i, name := range filterNames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dec := p.findDecoder(name)
		if dec == nil {
			return nil, errors.New("unknown filter: " + name)
		}
		var param raw.Dictionary
		if i < len(params) {
			param = params[i]
		}
		out, err := dec.Decode(ctx, data, param)
		if err != nil {
			return nil, err
		}
		if p.limits.MaxDecompressedSize > 0 && int64(len(out)) > p.limits.MaxDecompressedSize {
			return nil, errors.New("decompressed size exceeds limit")
		}
		data = out
	}
	return data, nil
}

type Registry struct {
	decoders map[string]Decoder
	encoders map[string]Encoder
}

// NewRegistry returns a registry holding the built-in encoders and decoders.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(NewFlateDecoder())
	r.Register(NewASCIIHexDecoder())
	r.Register(NewASCII85Decoder())
	r.RegisterEncoder(NewFlateEncoder(flate.DefaultCompression))
	r.RegisterEncoder(asciiHexEncoder{})
	r.RegisterEncoder(ascii85Encoder{})
	return r
}

func (r *Registry) Register(d Decoder) {
	if r.decoders == nil {
		r.decoders = make(map[string]Decoder)
	}
	r.decoders[d.Name()] = d
}
func (r *Registry) Get(name string) (Decoder, bool) { d, ok := r.decoders[name]; return d, ok }

func (r *Registry) RegisterEncoder(e Encoder) {
	if r.encoders == nil {
		r.encoders = make(map[string]Encoder)
	}
	r.encoders[e.Name()] = e
}

func (r *Registry) Encoder(name string) (Encoder, bool) { e, ok := r.encoders[name]; return e, ok }

type flateDecoder struct{}

func (flateDecoder) Name() string { return Flate }
func NewFlateDecoder() Decoder    { return flateDecoder{} }

// FlateDecode data carries a zlib wrapper around the deflate stream.
func (flateDecoder) Decode(ctx context.Context, in []byte, params raw.Dictionary) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(in))
	if err != nil {
		return nil, fmt.Errorf("flate: %w", err)
	}
	defer r.Close()

	var out bytes.Buffer
	if _, err := io.Copy(&out, r); err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	return out.Bytes(), nil
}

type ascii85Decoder struct{}

func (ascii85Decoder) Name() string { return ASCII85 }
func (ascii85Decoder) Decode(ctx context.Context, in []byte, params raw.Dictionary) ([]byte, error) {
	trimmed := bytes.TrimSpace(in)
	trimmed = bytes.TrimPrefix(trimmed, []byte("<~"))
	trimmed = bytes.TrimSuffix(trimmed, []byte("~>"))
	out := make([]byte, len(trimmed)*4/5+4)
	n, _, err := stdascii85.Decode(out, trimmed, true)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}
func NewASCII85Decoder() Decoder { return ascii85Decoder{} }

type asciiHexDecoder struct{}

func (asciiHexDecoder) Name() string { return ASCIIHex }
func (asciiHexDecoder) Decode(ctx context.Context, in []byte, params raw.Dictionary) ([]byte, error) {
	trimmed := bytes.TrimSpace(in)
	if i := bytes.IndexByte(trimmed, '>'); i >= 0 {
		trimmed = trimmed[:i]
	}
	// if odd length, pad with 0 per spec
	if len(trimmed)%2 == 1 {
		trimmed = append(trimmed, '0')
	}
	result := make([]byte, hex.DecodedLen(len(trimmed)))
	n, err := hex.Decode(result, trimmed)
	if err != nil {
		return nil, err
	}
	return result[:n], nil
}
func NewASCIIHexDecoder() Decoder { return asciiHexDecoder{} }

type flateEncoder struct{ level int }

// NewFlateEncoder returns a zlib-framed deflate encoder at the given level.
func NewFlateEncoder(level int) Encoder { return flateEncoder{level: level} }

func (flateEncoder) Name() string { return Flate }
func (e flateEncoder) Encode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, e.level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type asciiHexEncoder struct{}

func (asciiHexEncoder) Name() string { return ASCIIHex }
func (asciiHexEncoder) Encode(data []byte) ([]byte, error) {
	dst := make([]byte, hex.EncodedLen(len(data)), hex.EncodedLen(len(data))+1)
	hex.Encode(dst, data)
	return append(dst, '>'), nil
}

type ascii85Encoder struct{}

func (ascii85Encoder) Name() string { return ASCII85 }
func (ascii85Encoder) Encode(data []byte) ([]byte, error) {
	dst := make([]byte, stdascii85.MaxEncodedLen(len(data)))
	n := stdascii85.Encode(dst, data)
	return append(dst[:n], []byte("~>")...), nil
}

// Compress deflates data for a FlateDecode stream.
func Compress(data []byte) ([]byte, error) {
	out, err := NewFlateEncoder(flate.DefaultCompression).Encode(data)
	if err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}
	return out, nil
}
