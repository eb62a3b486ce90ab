package efficientnet

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/cameraapp/go-vision/labels"
	"github.com/cameraapp/go-vision/models/model"
	"github.com/cameraapp/go-vision/models/postprocess"
)

// DecodeClassifications converts a raw classification tensor into a ranked
// top-K label list.
//
// Quantized uint8 vectors are dequantized by dividing by 255. A score vector
// with any value above 1 or below 0 is treated as raw logits and pushed
// through a numerically stable softmax; otherwise the vector is assumed to
// already be a probability distribution and passes through unchanged. The
// range gate can misread a valid but unnormalized distribution as already
// normalized; the tests pin the chosen behavior instead of guessing a
// stronger heuristic.
//
// Ranking is a stable descending sort over indices, so equal scores resolve
// to the lower index first.
//
// Arguments:
//   - out: Raw output tensor of shape (N) or (1, N), dtype uint8 or float32.
//   - topK: Number of results to return; values <= 0 fall back to DefaultTopK.
//   - names: Label table, out-of-range indices resolve to "class_<id>".
//
// Returns:
//   - At most topK classifications, confidence non-increasing. An empty score
//     vector yields an empty list, not an error.
//   - error: A model.ErrContractViolation wrap when shape or dtype mismatch.
func DecodeClassifications(
	out *tensor.Dense,
	topK int,
	names labels.Table,
) ([]postprocess.Classification, error) {
	scores, err := scoreVector(out)
	if err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if len(scores) == 0 {
		return []postprocess.Classification{}, nil
	}

	if needsSoftmax(scores) {
		softmax(scores)
	}

	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	if topK > len(idx) {
		topK = len(idx)
	}
	result := make([]postprocess.Classification, 0, topK)
	for _, i := range idx[:topK] {
		result = append(result, postprocess.Classification{
			Label:      names.Name(i),
			Confidence: scores[i],
		})
	}
	return result, nil
}

// scoreVector validates the tensor against the classification head contract
// and returns a dequantized copy of the scores. The input tensor is borrowed
// and never mutated.
func scoreVector(out *tensor.Dense) ([]float32, error) {
	if out == nil {
		return nil, errors.Wrap(model.ErrContractViolation, "nil output tensor")
	}

	shape := out.Shape()
	if len(shape) == 2 && shape[0] == 1 {
		shape = shape[1:]
	}
	if len(shape) != 1 {
		return nil, errors.Wrapf(model.ErrContractViolation,
			"classification output must be a vector, got shape %v", out.Shape())
	}
	n := shape[0]

	switch out.Dtype() {
	case tensor.Float32:
		data, ok := out.Data().([]float32)
		if !ok || len(data) < n {
			return nil, errors.Wrap(model.ErrContractViolation, "classification backing data mismatch")
		}
		scores := make([]float32, n)
		copy(scores, data[:n])
		return scores, nil
	case tensor.Uint8:
		data, ok := out.Data().([]uint8)
		if !ok || len(data) < n {
			return nil, errors.Wrap(model.ErrContractViolation, "classification backing data mismatch")
		}
		scores := make([]float32, n)
		for i, v := range data[:n] {
			scores[i] = float32(v) / 255.0
		}
		return scores, nil
	default:
		return nil, errors.Wrapf(model.ErrContractViolation,
			"classification output must be uint8 or float32, got %v", out.Dtype())
	}
}

// needsSoftmax reports whether the vector looks like raw logits rather than a
// probability distribution.
func needsSoftmax(scores []float32) bool {
	for _, s := range scores {
		if s > 1.0 || s < 0 {
			return true
		}
	}
	return false
}

// softmax applies exp(x - max(x)) normalization in place.
func softmax(scores []float32) {
	maxScore := scores[0]
	for _, s := range scores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}

	var sum float32
	for i, s := range scores {
		e := math32.Exp(s - maxScore)
		scores[i] = e
		sum += e
	}
	for i := range scores {
		scores[i] /= sum
	}
}
