package inference

import (
	"image"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/cameraapp/go-vision/images"
	"github.com/cameraapp/go-vision/models/model"
)

// PrepareImageInput resizes an image to the spec's square input size and
// fills a batched NHWC tensor.
//
// For model.NormalizeZeroToOne the result is always float32 scaled to [0, 1].
// For model.NormalizeMatchEngine the element type follows inputType: uint8
// engines take raw 0-255 values, float engines get [0, 1] float32.
//
// Arguments:
//   - img: The decoded source image.
//   - spec: The model family's input contract.
//   - inputType: The engine's declared input element type.
//
// Returns:
//   - *tensor.Dense: A tensor of shape (1, H, W, 3).
//   - error: An error for a nil image.
func PrepareImageInput(img image.Image, spec model.InputSpec, inputType tensor.Dtype) (*tensor.Dense, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}

	resized := images.ResizeSquare(img, spec.Width)

	if spec.Norm == model.NormalizeMatchEngine && inputType == tensor.Uint8 {
		data := make([]uint8, spec.ElementCount())
		i := 0
		for y := 0; y < spec.Height; y++ {
			for x := 0; x < spec.Width; x++ {
				r, g, b, _ := resized.At(x, y).RGBA()
				data[i] = uint8(r >> 8)
				data[i+1] = uint8(g >> 8)
				data[i+2] = uint8(b >> 8)
				i += 3
			}
		}
		return tensor.New(tensor.WithShape(spec.Shape()...), tensor.WithBacking(data)), nil
	}

	data := make([]float32, spec.ElementCount())
	i := 0
	for y := 0; y < spec.Height; y++ {
		for x := 0; x < spec.Width; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			data[i] = float32(r>>8) / 255.0
			data[i+1] = float32(g>>8) / 255.0
			data[i+2] = float32(b>>8) / 255.0
			i += 3
		}
	}
	return tensor.New(tensor.WithShape(spec.Shape()...), tensor.WithBacking(data)), nil
}
