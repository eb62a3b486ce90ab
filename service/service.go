// Package service - Orchestration of the inference pipeline.
package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/cameraapp/go-vision/images"
	"github.com/cameraapp/go-vision/inference"
	"github.com/cameraapp/go-vision/labels"
	"github.com/cameraapp/go-vision/models/efficientnet"
	"github.com/cameraapp/go-vision/models/model"
	"github.com/cameraapp/go-vision/models/postprocess"
	"github.com/cameraapp/go-vision/models/yolov8"
)

// ErrBadImage marks request bytes that could not be decoded into an image.
// Callers surface it as a bad-input condition, distinct from engine failures.
var ErrBadImage = errors.New("bad input image")

// Options configures a Service.
type Options struct {
	// Detection is the serialized detection engine session.
	Detection *inference.Session
	// Classification is the serialized classification engine session.
	Classification *inference.Session
	// COCOLabels resolves detection class indices.
	COCOLabels labels.Table
	// ImageNetLabels resolves classification class indices.
	ImageNetLabels labels.Table
	// DetectionConfig holds the decoder thresholds.
	DetectionConfig yolov8.Config
	// TopK is the classification result count.
	TopK int
	// Logger receives per-request debug output. Nil means no logging.
	Logger *zap.Logger
}

// Service runs the full pipeline for one request: decode, preprocess,
// serialized invoke, postprocess. It holds only read-only state after
// construction and is safe for concurrent use.
type Service struct {
	detection      *inference.Session
	classification *inference.Session
	cocoLabels     labels.Table
	imagenetLabels labels.Table
	detCfg         yolov8.Config
	topK           int
	log            *zap.Logger
}

// New constructs a Service from its collaborators.
func New(opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	detCfg := opts.DetectionConfig
	if detCfg == (yolov8.Config{}) {
		detCfg = yolov8.DefaultConfig()
	}
	topK := opts.TopK
	if topK <= 0 {
		topK = efficientnet.DefaultTopK
	}
	return &Service{
		detection:      opts.Detection,
		classification: opts.Classification,
		cocoLabels:     opts.COCOLabels,
		imagenetLabels: opts.ImageNetLabels,
		detCfg:         detCfg,
		topK:           topK,
		log:            log,
	}
}

// DetectionResult is the outcome of one detection request.
type DetectionResult struct {
	Detections      []postprocess.Detection
	InferenceTimeMS float64
}

// ClassificationResult is the outcome of one classification request.
type ClassificationResult struct {
	Classifications []postprocess.Classification
	InferenceTimeMS float64
}

// Detect runs object detection over raw image bytes.
//
// Arguments:
//   - ctx: Request context, honored up to the engine invocation.
//   - imageBytes: Raw encoded image (JPEG, PNG or WebP).
//
// Returns:
//   - *DetectionResult: At most MaxDetections detections plus wall time.
//   - error: inference.ErrModelNotLoaded, ErrBadImage, or a pipeline error.
func (s *Service) Detect(ctx context.Context, imageBytes []byte) (*DetectionResult, error) {
	if !s.detection.Loaded() {
		return nil, inference.ErrModelNotLoaded
	}
	start := time.Now()

	img, err := images.Decode(imageBytes)
	if err != nil {
		return nil, errors.Wrap(ErrBadImage, err.Error())
	}
	origWidth := img.Bounds().Dx()
	origHeight := img.Bounds().Dy()

	in, err := inference.PrepareImageInput(img, model.DetectionInputSpec(), s.detection.InputType())
	if err != nil {
		return nil, err
	}
	out, err := s.detection.Invoke(ctx, in)
	if err != nil {
		return nil, err
	}

	detections, err := yolov8.DecodeDetections(out, origWidth, origHeight, s.detCfg, s.cocoLabels)
	if err != nil {
		return nil, err
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	s.log.Debug("detection complete",
		zap.Int("detections", len(detections)),
		zap.Float64("inference_time_ms", elapsed))

	return &DetectionResult{Detections: detections, InferenceTimeMS: elapsed}, nil
}

// Classify runs image classification over raw image bytes.
//
// Arguments:
//   - ctx: Request context, honored up to the engine invocation.
//   - imageBytes: Raw encoded image (JPEG, PNG or WebP).
//
// Returns:
//   - *ClassificationResult: At most TopK ranked labels plus wall time.
//   - error: inference.ErrModelNotLoaded, ErrBadImage, or a pipeline error.
func (s *Service) Classify(ctx context.Context, imageBytes []byte) (*ClassificationResult, error) {
	if !s.classification.Loaded() {
		return nil, inference.ErrModelNotLoaded
	}
	start := time.Now()

	img, err := images.Decode(imageBytes)
	if err != nil {
		return nil, errors.Wrap(ErrBadImage, err.Error())
	}

	in, err := inference.PrepareImageInput(img, model.ClassificationInputSpec(), s.classification.InputType())
	if err != nil {
		return nil, err
	}
	out, err := s.classification.Invoke(ctx, in)
	if err != nil {
		return nil, err
	}

	classifications, err := efficientnet.DecodeClassifications(out, s.topK, s.imagenetLabels)
	if err != nil {
		return nil, err
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	s.log.Debug("classification complete",
		zap.Int("classifications", len(classifications)),
		zap.Float64("inference_time_ms", elapsed))

	return &ClassificationResult{Classifications: classifications, InferenceTimeMS: elapsed}, nil
}

// DetectionLoaded reports whether the detection model is available.
func (s *Service) DetectionLoaded() bool { return s.detection.Loaded() }

// ClassificationLoaded reports whether the classification model is available.
func (s *Service) ClassificationLoaded() bool { return s.classification.Loaded() }

// ModelsAvailable lists the loaded model names for the config endpoint.
func (s *Service) ModelsAvailable() []string {
	available := []string{}
	if s.DetectionLoaded() {
		available = append(available, string(model.ModelNameYOLOv8n))
	}
	if s.ClassificationLoaded() {
		available = append(available, string(model.ModelNameEfficientNetLite0))
	}
	return available
}
