package model

import "github.com/pkg/errors"

// Sentinel errors reported by the network. Callers match them with errors.Is;
// returned errors carry the offending values as context.
var (
	ErrShapeMismatch   = errors.New("feature vector width does not match input layer")
	ErrUnknownLabel    = errors.New("label is not part of the network's label set")
	ErrInvalidTopology = errors.New("invalid network topology")
)
