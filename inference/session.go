package inference

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/cameraapp/go-vision/models/model"
)

// Session is the single owner of one Engine instance. It is constructed once
// at startup and serializes every invocation with a mutex, making the
// set-input/run/read-output sequence safe under concurrent requests.
//
// A Session without an engine (model file missing at startup) stays usable:
// every Invoke fails with ErrModelNotLoaded and the caller degrades the
// feature instead of crashing.
type Session struct {
	mu     sync.Mutex
	engine Engine
}

// NewSession wraps an engine in a serialized session. A nil engine yields an
// unloaded session.
func NewSession(engine Engine) *Session {
	return &Session{engine: engine}
}

// Loaded reports whether an engine is attached.
func (s *Session) Loaded() bool {
	return s != nil && s.engine != nil
}

// InputType returns the engine's declared input element type. Unloaded
// sessions report float32, which callers never reach because Invoke refuses
// first.
func (s *Session) InputType() tensor.Dtype {
	if !s.Loaded() {
		return tensor.Float32
	}
	return s.engine.InputType()
}

// Invoke validates the input against the engine's declared contract and runs
// one serialized inference pass.
//
// Arguments:
//   - ctx: Checked for cancellation before the pass starts; the pass itself
//     is synchronous and bounded.
//   - input: The prepared input tensor.
//
// Returns:
//   - *tensor.Dense: The raw output tensor, owned by the caller.
//   - error: ErrModelNotLoaded, a contract violation, ctx.Err(), or an
//     engine failure.
func (s *Session) Invoke(ctx context.Context, input *tensor.Dense) (*tensor.Dense, error) {
	if !s.Loaded() {
		return nil, ErrModelNotLoaded
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if input == nil {
		return nil, errors.Wrap(model.ErrContractViolation, "nil input tensor")
	}
	if want := s.engine.InputType(); input.Dtype() != want {
		return nil, errors.Wrapf(model.ErrContractViolation,
			"engine expects %v input, got %v", want, input.Dtype())
	}
	if want := s.engine.InputShape(); !input.Shape().Eq(want) {
		return nil, errors.Wrapf(model.ErrContractViolation,
			"engine expects input shape %v, got %v", want, input.Shape())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Invoke(input)
}

// Close releases the attached engine.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return nil
	}
	err := s.engine.Close()
	s.engine = nil
	return err
}
