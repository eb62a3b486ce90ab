// Package yolov8 - Decoding of YOLOv8 detection heads.
package yolov8

const (
	// InputSize is the square model input size boxes are normalized against.
	InputSize = 640
	// NumClasses is the number of class scores per anchor.
	NumClasses = 80
	// NumAnchors is the number of anchor candidates in one output tensor.
	NumAnchors = 8400
	// numAttrs is 4 box parameters plus NumClasses class scores.
	numAttrs = 4 + NumClasses
	// DefaultMaxDetections caps the post-suppression result length.
	DefaultMaxDetections = 10
)

// Config holds the thresholds of the detection decoder.
type Config struct {
	// ConfThreshold discards anchors whose best class score is below it.
	ConfThreshold float32 `json:"conf_threshold" yaml:"conf_threshold"`
	// IoUThreshold is the greedy suppression overlap threshold.
	IoUThreshold float32 `json:"iou_threshold" yaml:"iou_threshold"`
	// MaxDetections truncates the suppressed result list.
	MaxDetections int `json:"max_detections" yaml:"max_detections"`
}

// DefaultConfig returns the reference thresholds: confidence 0.25,
// IoU 0.45, at most 10 detections.
func DefaultConfig() Config {
	return Config{ConfThreshold: 0.25, IoUThreshold: 0.45, MaxDetections: DefaultMaxDetections}
}
