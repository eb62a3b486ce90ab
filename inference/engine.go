// Package inference - Inference engine boundary and sessions.
package inference

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// ErrModelNotLoaded is returned when an invocation reaches a session that has
// no engine attached. Callers surface it as service-unavailable.
var ErrModelNotLoaded = errors.New("model not loaded")

// Engine runs a loaded model: given an input tensor it produces an output
// tensor. Engine internals are a black box to the decoding pipeline.
//
// Invoke is NOT reentrant. Setting the input, running the graph and reading
// the output mutate shared interpreter state, so concurrent calls against one
// engine clobber each other's tensors. Session provides the serialization.
type Engine interface {
	// Invoke runs one inference pass.
	Invoke(input *tensor.Dense) (*tensor.Dense, error)
	// InputType is the engine's declared input element type.
	InputType() tensor.Dtype
	// InputShape is the engine's declared input shape.
	InputShape() tensor.Shape
	// Close releases the engine's resources.
	Close() error
}
