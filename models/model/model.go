// Package model - Model families and their input tensor contracts.
package model

import "gorgonia.org/tensor"

// Family groups models by the task they serve.
type Family string

const (
	// FamilyDetection is the object detection family (YOLOv8-style heads).
	FamilyDetection Family = "detection"
	// FamilyClassification is the image classification family
	// (EfficientNet-style heads).
	FamilyClassification Family = "classification"
)

// Name is the unique identifier of a model.
type Name string

const (
	// ModelNameYOLOv8n is the name of the YOLOv8 nano detection model.
	ModelNameYOLOv8n Name = "yolov8n"
	// ModelNameEfficientNetLite0 is the name of the EfficientNet-Lite0
	// classification model.
	ModelNameEfficientNetLite0 Name = "efficientnet_lite0"
)

// Normalization defines how pixel values are scaled when building the input
// tensor.
type Normalization int

const (
	// NormalizeZeroToOne scales pixel values to [0, 1] as float32.
	NormalizeZeroToOne Normalization = iota
	// NormalizeMatchEngine defers to the engine's declared input type:
	// uint8 inputs take raw 0-255 values, float inputs are scaled to [0, 1].
	NormalizeMatchEngine
)

// InputSpec is the pure shape/type contract an inference engine expects for a
// model family. It carries no behavior beyond shape bookkeeping; resizing and
// tensor filling are the preprocessing layer's job.
type InputSpec struct {
	// Width and Height of the square model input.
	Width, Height int
	// Channels is 3 for RGB input.
	Channels int
	// Norm selects the pixel scaling rule.
	Norm Normalization
}

// Shape returns the batched NHWC input shape (1, H, W, C).
func (s InputSpec) Shape() tensor.Shape {
	return tensor.Shape{1, s.Height, s.Width, s.Channels}
}

// ElementCount returns the number of scalar elements in one input tensor.
func (s InputSpec) ElementCount() int {
	return s.Height * s.Width * s.Channels
}

// DetectionInputSpec returns the input contract of the detection family:
// 640x640 RGB scaled to [0, 1] as float32, shape (1, 640, 640, 3).
func DetectionInputSpec() InputSpec {
	return InputSpec{Width: 640, Height: 640, Channels: 3, Norm: NormalizeZeroToOne}
}

// ClassificationInputSpec returns the input contract of the classification
// family: 224x224 RGB, element type following the engine's declared input
// type.
func ClassificationInputSpec() InputSpec {
	return InputSpec{Width: 224, Height: 224, Channels: 3, Norm: NormalizeMatchEngine}
}
