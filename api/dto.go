package api

import (
	"github.com/cameraapp/go-vision/models/postprocess"
	"github.com/cameraapp/go-vision/service"
)

// DetectionJSON is one detected object on the wire. The bounding box is four
// normalized corner coordinates [x1, y1, x2, y2] in [0, 1].
type DetectionJSON struct {
	Label      string     `json:"label"`
	Confidence float32    `json:"confidence"`
	BBox       [4]float32 `json:"bbox"`
}

// DetectionResponse is the detection endpoint payload.
type DetectionResponse struct {
	Success         bool            `json:"success"`
	Detections      []DetectionJSON `json:"detections"`
	InferenceTimeMS float64         `json:"inference_time_ms"`
}

// ClassificationResponse is the classification endpoint payload.
type ClassificationResponse struct {
	Success         bool                         `json:"success"`
	Classifications []postprocess.Classification `json:"classifications"`
	InferenceTimeMS float64                      `json:"inference_time_ms"`
}

// ConfigResponse is the remote app configuration payload.
type ConfigResponse struct {
	AppVersion                  string          `json:"app_version"`
	MinConfidenceDetection      float32         `json:"min_confidence_detection"`
	MinConfidenceClassification float32         `json:"min_confidence_classification"`
	ModelsAvailable             []string        `json:"models_available"`
	Features                    map[string]bool `json:"features"`
}

// ModelInfoResponse lists deployed model versions for OTA update checks.
type ModelInfoResponse struct {
	YOLOVersion         string `json:"yolo_version"`
	EfficientNetVersion string `json:"efficientnet_version"`
}

func newDetectionResponse(res *service.DetectionResult) DetectionResponse {
	detections := make([]DetectionJSON, 0, len(res.Detections))
	for _, d := range res.Detections {
		detections = append(detections, DetectionJSON{
			Label:      d.Label,
			Confidence: d.Confidence,
			BBox:       [4]float32{d.Box.X1, d.Box.Y1, d.Box.X2, d.Box.Y2},
		})
	}
	return DetectionResponse{
		Success:         true,
		Detections:      detections,
		InferenceTimeMS: res.InferenceTimeMS,
	}
}

func newClassificationResponse(res *service.ClassificationResult) ClassificationResponse {
	return ClassificationResponse{
		Success:         true,
		Classifications: res.Classifications,
		InferenceTimeMS: res.InferenceTimeMS,
	}
}
