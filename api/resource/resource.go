// Package resource fetches and decodes remote images behind a shared cache.
package resource

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/ka2n/recview/api/record"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Resource is a decoded image.
type Resource struct {
	Image   image.Image
	Format  string
	Size    int
	Locator *record.Locator
}

// Bounds returns the image dimensions.
func (r *Resource) Bounds() image.Rectangle {
	if r == nil || r.Image == nil {
		return image.Rectangle{}
	}
	return r.Image.Bounds()
}

// Decoder turns raw bytes into a Resource. It reports false for data it
// cannot decode.
type Decoder interface {
	Decode(data []byte) (*Resource, bool)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(data []byte) (*Resource, bool)

func (f DecoderFunc) Decode(data []byte) (*Resource, bool) {
	return f(data)
}

// ImageDecoder decodes PNG, JPEG, GIF, BMP, TIFF and WebP.
type ImageDecoder struct{}

func (ImageDecoder) Decode(data []byte) (*Resource, bool) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	return &Resource{
		Image:  img,
		Format: format,
		Size:   len(data),
	}, true
}
