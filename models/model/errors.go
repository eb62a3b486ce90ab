package model

import "github.com/pkg/errors"

// ErrContractViolation marks a raw tensor that does not match the declared
// shape or element type of the model boundary. Decoders fail fast with this
// error instead of reading out of bounds.
var ErrContractViolation = errors.New("tensor contract violation")
