package inference

import (
	"sync"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
	"gorgonia.org/tensor"

	"github.com/cameraapp/go-vision/models/model"
)

// ONNXConfig describes one ONNX Runtime-backed engine.
type ONNXConfig struct {
	// ModelPath is the path to the .onnx model file.
	ModelPath string
	// InputName and OutputName are the graph tensor names.
	InputName  string
	OutputName string
	// InputShape and OutputShape are the fixed tensor shapes.
	InputShape  []int
	OutputShape []int
	// SharedLibPath optionally points at the onnxruntime shared library.
	SharedLibPath string
}

var ortInit sync.Once

// ONNXEngine is a float32 Engine backed by an onnxruntime session with
// preallocated input and output tensors. It satisfies Engine; serialization
// is the owning Session's job.
type ONNXEngine struct {
	session     *ort.AdvancedSession
	input       *ort.Tensor[float32]
	output      *ort.Tensor[float32]
	inputShape  tensor.Shape
	outputShape tensor.Shape
}

// NewONNXEngine loads an ONNX model and allocates its tensor bindings.
//
// Arguments:
//   - cfg: Model path, tensor names and shapes.
//
// Returns:
//   - *ONNXEngine: The loaded engine.
//   - error: An error if the runtime environment, tensors, or session fail.
func NewONNXEngine(cfg ONNXConfig) (*ONNXEngine, error) {
	var initErr error
	ortInit.Do(func() {
		if cfg.SharedLibPath != "" {
			ort.SetSharedLibraryPath(cfg.SharedLibPath)
		}
		if !ort.IsInitialized() {
			initErr = ort.InitializeEnvironment()
		}
	})
	if initErr != nil {
		return nil, errors.Wrap(initErr, "initialize onnxruntime environment")
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(toInt64(cfg.InputShape)...))
	if err != nil {
		return nil, errors.Wrap(err, "create input tensor")
	}
	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(toInt64(cfg.OutputShape)...))
	if err != nil {
		inputTensor.Destroy()
		return nil, errors.Wrap(err, "create output tensor")
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, errors.Wrap(err, "create session options")
	}
	defer options.Destroy()
	options.SetIntraOpNumThreads(4)
	options.SetInterOpNumThreads(2)
	options.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableExtended)

	session, err := ort.NewAdvancedSession(
		cfg.ModelPath,
		[]string{cfg.InputName},
		[]string{cfg.OutputName},
		[]ort.ArbitraryTensor{inputTensor},
		[]ort.ArbitraryTensor{outputTensor},
		options,
	)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, errors.Wrapf(err, "create session for %s", cfg.ModelPath)
	}

	return &ONNXEngine{
		session:     session,
		input:       inputTensor,
		output:      outputTensor,
		inputShape:  tensor.Shape(cfg.InputShape),
		outputShape: tensor.Shape(cfg.OutputShape),
	}, nil
}

// InputType reports float32; the ONNX bindings here are float-only.
func (e *ONNXEngine) InputType() tensor.Dtype { return tensor.Float32 }

// InputShape reports the declared input shape.
func (e *ONNXEngine) InputShape() tensor.Shape { return e.inputShape }

// Invoke copies the input into the bound tensor, runs the graph, and returns
// a fresh copy of the output so the binding can be reused by the next pass.
func (e *ONNXEngine) Invoke(input *tensor.Dense) (*tensor.Dense, error) {
	data, ok := input.Data().([]float32)
	if !ok {
		return nil, errors.Wrap(model.ErrContractViolation, "onnx engine takes float32 input")
	}
	dst := e.input.GetData()
	if len(data) != len(dst) {
		return nil, errors.Wrapf(model.ErrContractViolation,
			"input holds %d floats, binding holds %d", len(data), len(dst))
	}
	copy(dst, data)

	if err := e.session.Run(); err != nil {
		return nil, errors.Wrap(err, "run inference")
	}

	src := e.output.GetData()
	out := make([]float32, len(src))
	copy(out, src)
	return tensor.New(tensor.WithShape(e.outputShape...), tensor.WithBacking(out)), nil
}

// Close destroys the session and its tensor bindings.
func (e *ONNXEngine) Close() error {
	if e.input != nil {
		e.input.Destroy()
		e.input = nil
	}
	if e.output != nil {
		e.output.Destroy()
		e.output = nil
	}
	if e.session != nil {
		e.session.Destroy()
		e.session = nil
	}
	return nil
}

func toInt64(shape []int) []int64 {
	out := make([]int64, len(shape))
	for i, v := range shape {
		out[i] = int64(v)
	}
	return out
}
