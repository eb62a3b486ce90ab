package inference

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"

	"github.com/cameraapp/go-vision/models/model"
)

func uniformImage(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

var smallSpec = model.InputSpec{Width: 2, Height: 2, Channels: 3, Norm: model.NormalizeZeroToOne}

func TestPrepareImageInputFloatScaling(t *testing.T) {
	img := uniformImage(6, 4, color.RGBA{R: 255, G: 0, B: 0, A: 255})

	in, err := PrepareImageInput(img, smallSpec, tensor.Float32)
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{1, 2, 2, 3}, in.Shape())
	assert.Equal(t, tensor.Float32, in.Dtype())

	data := in.Data().([]float32)
	require.Len(t, data, 12)
	for i := 0; i < len(data); i += 3 {
		assert.InDelta(t, 1.0, data[i], 1e-6, "red channel scaled to 1")
		assert.InDelta(t, 0.0, data[i+1], 1e-6)
		assert.InDelta(t, 0.0, data[i+2], 1e-6)
	}
}

func TestPrepareImageInputMatchEngineUint8(t *testing.T) {
	spec := model.InputSpec{Width: 2, Height: 2, Channels: 3, Norm: model.NormalizeMatchEngine}
	img := uniformImage(10, 10, color.RGBA{R: 0, G: 128, B: 255, A: 255})

	in, err := PrepareImageInput(img, spec, tensor.Uint8)
	require.NoError(t, err)

	assert.Equal(t, tensor.Uint8, in.Dtype(), "uint8 engine gets raw bytes")
	data := in.Data().([]uint8)
	require.Len(t, data, 12)
	for i := 0; i < len(data); i += 3 {
		assert.Equal(t, uint8(0), data[i])
		assert.Equal(t, uint8(128), data[i+1])
		assert.Equal(t, uint8(255), data[i+2])
	}
}

func TestPrepareImageInputMatchEngineFloat(t *testing.T) {
	spec := model.InputSpec{Width: 2, Height: 2, Channels: 3, Norm: model.NormalizeMatchEngine}
	img := uniformImage(10, 10, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	in, err := PrepareImageInput(img, spec, tensor.Float32)
	require.NoError(t, err)

	assert.Equal(t, tensor.Float32, in.Dtype(), "float engine gets scaled values")
	data := in.Data().([]float32)
	for _, v := range data {
		assert.InDelta(t, 1.0, v, 1e-6)
	}
}

func TestPrepareImageInputDetectionContract(t *testing.T) {
	spec := model.DetectionInputSpec()
	img := uniformImage(100, 60, color.Black)

	in, err := PrepareImageInput(img, spec, tensor.Float32)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 640, 640, 3}, in.Shape())
}

func TestPrepareImageInputNilImage(t *testing.T) {
	_, err := PrepareImageInput(nil, smallSpec, tensor.Float32)
	assert.Error(t, err)
}
