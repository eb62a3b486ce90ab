package images

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	_ "github.com/chai2010/webp"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// Decode decodes raw image bytes into an image.Image. JPEG, PNG and WebP are
// registered. Corrupt or truncated bytes surface as a decode error so the
// caller can report bad input instead of silently defaulting.
//
// Arguments:
//   - b: The raw image file bytes.
//
// Returns:
//   - image.Image: The decoded image.
//   - error: A decode error for empty, corrupt, or unsupported input.
func Decode(b []byte) (image.Image, error) {
	if len(b) == 0 {
		return nil, errors.New("empty image data")
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}
	return img, nil
}

// ResizeSquare resizes an image to size x size without preserving aspect
// ratio, matching the model input contract. Bilinear interpolation, same as
// the reference pipeline.
func ResizeSquare(img image.Image, size int) image.Image {
	return resize.Resize(uint(size), uint(size), img, resize.Bilinear)
}
