// Package postprocess - Postprocessing of raw model outputs.
package postprocess

import "github.com/cameraapp/go-vision/images"

// Detection represents a single detected object.
type Detection struct {
	// The resolved class label.
	Label string `json:"label"`
	// The confidence score in [0, 1].
	Confidence float32 `json:"confidence"`
	// The bounding box, corner format, normalized to [0, 1].
	Box images.Rect `json:"-"`
}

// Classification represents a single ranked classification result.
type Classification struct {
	// The resolved class label.
	Label string `json:"label"`
	// The confidence score in [0, 1].
	Confidence float32 `json:"confidence"`
}
