package yolov8

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/cameraapp/go-vision/images"
	"github.com/cameraapp/go-vision/labels"
	"github.com/cameraapp/go-vision/models/model"
	"github.com/cameraapp/go-vision/models/postprocess"
)

// DecodeDetections converts a raw YOLOv8 output tensor into thresholded,
// suppressed detections with normalized corner-format boxes.
//
// The tensor is attribute-major: the value of attribute a for anchor i sits
// at data[a*8400+i], the flattened form of the stored (84, 8400) layout. Per
// anchor the 80 class scores are arg-maxed (ties resolve to the lowest
// index), anchors below cfg.ConfThreshold are dropped, and the surviving
// center-format boxes are converted to corners, divided by the 640 model
// frame and clamped into [0, 1]. Greedy NMS then suppresses overlaps and the
// result is truncated to cfg.MaxDetections.
//
// origWidth and origHeight are accepted but never used to rescale: boxes are
// normalized by the fixed model input size, not the original image size. A
// non-square original therefore keeps the model-frame aspect ratio. The
// regression test pins this behavior.
//
// Arguments:
//   - out: Raw float32 output tensor, shape (84, 8400) or (1, 84, 8400).
//   - origWidth: Original image width, currently unused.
//   - origHeight: Original image height, currently unused.
//   - cfg: Decoder thresholds.
//   - names: Label table, out-of-range indices resolve to "class_<id>".
//
// Returns:
//   - At most cfg.MaxDetections detections, confidence non-increasing. No
//     anchor above threshold is an empty slice, not an error.
//   - error: A model.ErrContractViolation wrap when shape or dtype mismatch.
func DecodeDetections(
	out *tensor.Dense,
	origWidth, origHeight int,
	cfg Config,
	names labels.Table,
) ([]postprocess.Detection, error) {
	data, err := detectionData(out)
	if err != nil {
		return nil, err
	}
	_ = origWidth
	_ = origHeight
	if cfg.MaxDetections <= 0 {
		cfg.MaxDetections = DefaultMaxDetections
	}

	candidates := make([]postprocess.Detection, 0, 64)
	for i := 0; i < NumAnchors; i++ {
		classID := 0
		maxScore := data[4*NumAnchors+i]
		for c := 1; c < NumClasses; c++ {
			if score := data[(4+c)*NumAnchors+i]; score > maxScore {
				maxScore = score
				classID = c
			}
		}
		if maxScore < cfg.ConfThreshold {
			continue
		}

		cx := data[0*NumAnchors+i]
		cy := data[1*NumAnchors+i]
		w := data[2*NumAnchors+i]
		h := data[3*NumAnchors+i]

		// Center format to corner format, normalized by the model frame.
		x1 := max((cx-w/2)/InputSize, 0)
		y1 := max((cy-h/2)/InputSize, 0)
		x2 := min((cx+w/2)/InputSize, 1)
		y2 := min((cy+h/2)/InputSize, 1)

		candidates = append(candidates, postprocess.Detection{
			Label:      names.Name(classID),
			Confidence: maxScore,
			Box:        images.Rect{X1: x1, Y1: y1, X2: x2, Y2: y2},
		})
	}

	kept := postprocess.ApplyGreedyNMS(candidates, cfg.IoUThreshold)
	if len(kept) > cfg.MaxDetections {
		kept = kept[:cfg.MaxDetections]
	}
	return kept, nil
}

// detectionData validates the tensor against the detection head contract and
// returns the flat float32 backing slice.
func detectionData(out *tensor.Dense) ([]float32, error) {
	if out == nil {
		return nil, errors.Wrap(model.ErrContractViolation, "nil output tensor")
	}
	if out.Dtype() != tensor.Float32 {
		return nil, errors.Wrapf(model.ErrContractViolation,
			"detection output must be float32, got %v", out.Dtype())
	}

	shape := out.Shape()
	if len(shape) == 3 && shape[0] == 1 {
		shape = shape[1:]
	}
	if len(shape) != 2 || shape[0] != numAttrs || shape[1] != NumAnchors {
		return nil, errors.Wrapf(model.ErrContractViolation,
			"detection output must have shape (%d, %d), got %v", numAttrs, NumAnchors, out.Shape())
	}

	data, ok := out.Data().([]float32)
	if !ok || len(data) < numAttrs*NumAnchors {
		return nil, errors.Wrap(model.ErrContractViolation, "detection output backing data mismatch")
	}
	return data, nil
}
