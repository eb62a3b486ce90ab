package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"

	"github.com/cameraapp/go-vision/inference"
	"github.com/cameraapp/go-vision/labels"
	"github.com/cameraapp/go-vision/models/yolov8"
)

// stubEngine returns a canned output tensor for every invocation.
type stubEngine struct {
	inShape tensor.Shape
	inType  tensor.Dtype
	out     *tensor.Dense
	calls   int
}

func (s *stubEngine) Invoke(_ *tensor.Dense) (*tensor.Dense, error) {
	s.calls++
	return s.out, nil
}

func (s *stubEngine) InputType() tensor.Dtype  { return s.inType }
func (s *stubEngine) InputShape() tensor.Shape { return s.inShape }
func (s *stubEngine) Close() error             { return nil }

// detectionOutput builds a raw detection tensor holding a single confident
// anchor: a centered box predicted as class 2.
func detectionOutput() *tensor.Dense {
	data := make([]float32, yolov8.NumClasses*yolov8.NumAnchors+4*yolov8.NumAnchors)
	data[0*yolov8.NumAnchors] = 320 // cx
	data[1*yolov8.NumAnchors] = 320 // cy
	data[2*yolov8.NumAnchors] = 160 // w
	data[3*yolov8.NumAnchors] = 160 // h
	data[(4+2)*yolov8.NumAnchors] = 0.9
	return tensor.New(
		tensor.WithShape(1, 4+yolov8.NumClasses, yolov8.NumAnchors),
		tensor.WithBacking(data),
	)
}

func classificationOutput() *tensor.Dense {
	return tensor.New(
		tensor.WithShape(1, 4),
		tensor.WithBacking([]float32{0.1, 0.7, 0.05, 0.15}),
	)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{R: 40, G: 80, B: 120, A: 255}}, image.Point{}, draw.Src)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestService() (*Service, *stubEngine, *stubEngine) {
	det := &stubEngine{
		inShape: tensor.Shape{1, 640, 640, 3},
		inType:  tensor.Float32,
		out:     detectionOutput(),
	}
	cls := &stubEngine{
		inShape: tensor.Shape{1, 224, 224, 3},
		inType:  tensor.Float32,
		out:     classificationOutput(),
	}
	svc := New(Options{
		Detection:      inference.NewSession(det),
		Classification: inference.NewSession(cls),
		COCOLabels:     labels.Table{"person", "bicycle", "car"},
		ImageNetLabels: labels.Table{"tench", "goldfish", "shark", "tiger"},
	})
	return svc, det, cls
}

func TestDetect(t *testing.T) {
	svc, det, _ := newTestService()

	res, err := svc.Detect(context.Background(), pngBytes(t, 64, 48))
	require.NoError(t, err)

	require.Len(t, res.Detections, 1)
	assert.Equal(t, "car", res.Detections[0].Label)
	assert.InDelta(t, 0.9, res.Detections[0].Confidence, 1e-6)
	assert.InDelta(t, 0.375, res.Detections[0].Box.X1, 1e-6)
	assert.InDelta(t, 0.625, res.Detections[0].Box.X2, 1e-6)
	assert.GreaterOrEqual(t, res.InferenceTimeMS, 0.0)
	assert.Equal(t, 1, det.calls)
}

func TestClassify(t *testing.T) {
	svc, _, cls := newTestService()

	res, err := svc.Classify(context.Background(), pngBytes(t, 32, 32))
	require.NoError(t, err)

	require.Len(t, res.Classifications, 3)
	assert.Equal(t, "goldfish", res.Classifications[0].Label)
	assert.InDelta(t, 0.7, res.Classifications[0].Confidence, 1e-6)
	assert.Equal(t, "tiger", res.Classifications[1].Label)
	assert.Equal(t, "tench", res.Classifications[2].Label)
	assert.Equal(t, 1, cls.calls)
}

func TestDetectBadImage(t *testing.T) {
	svc, det, _ := newTestService()

	_, err := svc.Detect(context.Background(), []byte("not an image"))
	assert.ErrorIs(t, err, ErrBadImage)
	assert.Equal(t, 0, det.calls, "undecodable input must not reach the engine")
}

func TestClassifyBadImage(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Classify(context.Background(), nil)
	assert.ErrorIs(t, err, ErrBadImage)
}

func TestDetectModelNotLoaded(t *testing.T) {
	svc := New(Options{
		Detection:      inference.NewSession(nil),
		Classification: inference.NewSession(nil),
	})

	_, err := svc.Detect(context.Background(), pngBytes(t, 16, 16))
	assert.ErrorIs(t, err, inference.ErrModelNotLoaded)

	_, err = svc.Classify(context.Background(), pngBytes(t, 16, 16))
	assert.ErrorIs(t, err, inference.ErrModelNotLoaded)
}

func TestModelsAvailable(t *testing.T) {
	svc, _, _ := newTestService()
	assert.Equal(t, []string{"yolov8n", "efficientnet_lite0"}, svc.ModelsAvailable())

	empty := New(Options{
		Detection:      inference.NewSession(nil),
		Classification: inference.NewSession(nil),
	})
	assert.Equal(t, []string{}, empty.ModelsAvailable())
}
