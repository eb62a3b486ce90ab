package inference

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"

	"github.com/cameraapp/go-vision/models/model"
)

// fakeEngine records invocations and flags concurrent entry, which a correct
// Session must prevent.
type fakeEngine struct {
	inShape tensor.Shape
	inType  tensor.Dtype
	out     *tensor.Dense

	inFlight atomic.Int32
	raced    atomic.Bool
	calls    atomic.Int32
	closed   bool
}

func (f *fakeEngine) Invoke(_ *tensor.Dense) (*tensor.Dense, error) {
	if f.inFlight.Add(1) > 1 {
		f.raced.Store(true)
	}
	time.Sleep(time.Millisecond)
	f.inFlight.Add(-1)
	f.calls.Add(1)
	return f.out, nil
}

func (f *fakeEngine) InputType() tensor.Dtype  { return f.inType }
func (f *fakeEngine) InputShape() tensor.Shape { return f.inShape }
func (f *fakeEngine) Close() error             { f.closed = true; return nil }

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		inShape: tensor.Shape{1, 2, 2, 3},
		inType:  tensor.Float32,
		out:     tensor.New(tensor.WithShape(4), tensor.WithBacking([]float32{0.1, 0.2, 0.3, 0.4})),
	}
}

func validInput() *tensor.Dense {
	return tensor.New(tensor.WithShape(1, 2, 2, 3), tensor.WithBacking(make([]float32, 12)))
}

func TestSessionRefusesWhenUnloaded(t *testing.T) {
	s := NewSession(nil)

	assert.False(t, s.Loaded())
	_, err := s.Invoke(context.Background(), validInput())
	assert.ErrorIs(t, err, ErrModelNotLoaded)
}

func TestSessionInvoke(t *testing.T) {
	engine := newFakeEngine()
	s := NewSession(engine)

	out, err := s.Invoke(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, engine.out, out)
}

func TestSessionValidatesInputContract(t *testing.T) {
	s := NewSession(newFakeEngine())

	wrongShape := tensor.New(tensor.WithShape(1, 3, 3, 3), tensor.WithBacking(make([]float32, 27)))
	_, err := s.Invoke(context.Background(), wrongShape)
	assert.ErrorIs(t, err, model.ErrContractViolation)

	wrongType := tensor.New(tensor.WithShape(1, 2, 2, 3), tensor.WithBacking(make([]uint8, 12)))
	_, err = s.Invoke(context.Background(), wrongType)
	assert.ErrorIs(t, err, model.ErrContractViolation)

	_, err = s.Invoke(context.Background(), nil)
	assert.ErrorIs(t, err, model.ErrContractViolation)
}

func TestSessionSerializesConcurrentInvocations(t *testing.T) {
	engine := newFakeEngine()
	s := NewSession(engine)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Invoke(context.Background(), validInput())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.False(t, engine.raced.Load(), "engine entered concurrently")
	assert.Equal(t, int32(8), engine.calls.Load())
}

func TestSessionHonorsContextCancellation(t *testing.T) {
	engine := newFakeEngine()
	s := NewSession(engine)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Invoke(ctx, validInput())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), engine.calls.Load(), "canceled request must not reach the engine")
}

func TestSessionClose(t *testing.T) {
	engine := newFakeEngine()
	s := NewSession(engine)

	require.NoError(t, s.Close())
	assert.True(t, engine.closed)
	assert.False(t, s.Loaded())

	_, err := s.Invoke(context.Background(), validInput())
	assert.ErrorIs(t, err, ErrModelNotLoaded)
}
