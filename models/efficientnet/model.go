// Package efficientnet - Decoding of EfficientNet classification heads.
package efficientnet

const (
	// InputSize is the square model input size.
	InputSize = 224
	// DefaultTopK is the number of ranked results returned when the caller
	// does not ask for a specific count.
	DefaultTopK = 3
)
