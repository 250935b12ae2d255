// Package images turns encoded image files into the pixel data and
// attributes an image XObject needs.
package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif" // Register decoders
	"image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupported is returned for data no registered decoder recognizes.
var ErrUnsupported = errors.New("unsupported image format")

// Image is a parsed image ready to be written as an XObject.
type Image struct {
	Width            int
	Height           int
	ColorSpace       string
	BitsPerComponent int
	// Filter is the filter Data is already encoded with, empty for raw samples.
	Filter string
	// Decode is the /Decode array, set for inverted CMYK JPEGs.
	Decode []float64
	Data   []byte
	// SMask holds the alpha channel, if the source has transparency.
	SMask *Image
	// Format is the name of the decoder that recognized the source.
	Format string
}

// Parser turns encoded bytes into an Image.
type Parser interface {
	Parse(data []byte) (*Image, error)
}

// Decoder is the default Parser. JPEG data is passed through as DCTDecode;
// every other registered format is decoded to raw samples.
type Decoder struct{}

var _ Parser = Decoder{}

// Parse is shorthand for Decoder{}.Parse.
func Parse(data []byte) (*Image, error) { return Decoder{}.Parse(data) }

// ParseFile reads and parses an image file.
func ParseFile(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func (Decoder) Parse(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", ErrUnsupported)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupported
		}
		return nil, fmt.Errorf("decode image config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("image has no pixels (%dx%d)", cfg.Width, cfg.Height)
	}
	if format == "jpeg" {
		return fromJPEG(data, cfg)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	out := FromImage(img)
	out.Format = format
	return out, nil
}

func fromJPEG(data []byte, cfg image.Config) (*Image, error) {
	img := &Image{
		Width:            cfg.Width,
		Height:           cfg.Height,
		BitsPerComponent: 8,
		Filter:           "DCTDecode",
		Data:             data,
		Format:           "jpeg",
	}
	switch cfg.ColorModel {
	case color.GrayModel:
		img.ColorSpace = "DeviceGray"
	case color.CMYKModel:
		// Adobe CMYK JPEGs store inverted samples.
		img.ColorSpace = "DeviceCMYK"
		img.Decode = []float64{1, 0, 1, 0, 1, 0, 1, 0}
	default:
		img.ColorSpace = "DeviceRGB"
	}
	// Reject truncated files now rather than at render time.
	if _, err := jpeg.Decode(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("decode jpeg: %w", err)
	}
	return img, nil
}

// FromImage converts a decoded image to raw 8-bit samples. Gray sources
// stay DeviceGray; everything else becomes DeviceRGB. Non-opaque pixels
// produce a DeviceGray soft mask.
func FromImage(src image.Image) *Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	// Convert to NRGBA (non-premultiplied alpha) to get raw color values
	nrgba := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(nrgba, nrgba.Bounds(), src, bounds.Min, draw.Src)

	gray := isGray(src.ColorModel())
	channels := 3
	colorSpace := "DeviceRGB"
	if gray {
		channels = 1
		colorSpace = "DeviceGray"
	}

	pixels := make([]byte, 0, w*h*channels)
	alpha := make([]byte, 0, w*h)
	hasAlpha := false
	for i := 0; i < w*h; i++ {
		px := nrgba.Pix[i*4 : i*4+4]
		if gray {
			pixels = append(pixels, px[0])
		} else {
			pixels = append(pixels, px[0], px[1], px[2])
		}
		alpha = append(alpha, px[3])
		if px[3] < 255 {
			hasAlpha = true
		}
	}

	img := &Image{
		Width:            w,
		Height:           h,
		ColorSpace:       colorSpace,
		BitsPerComponent: 8,
		Data:             pixels,
	}
	if hasAlpha {
		img.SMask = &Image{
			Width:            w,
			Height:           h,
			ColorSpace:       "DeviceGray",
			BitsPerComponent: 8,
			Data:             alpha,
		}
	}
	return img
}

func isGray(m color.Model) bool {
	return m == color.GrayModel || m == color.Gray16Model
}
