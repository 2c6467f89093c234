package engine

import "errors"

var (
	// ErrInvalidWeights indicates a malformed attribute weight table.
	// Weight validation failures are fatal at load time; nothing is scored.
	ErrInvalidWeights = errors.New("invalid attribute weights")

	// ErrInvalidThresholds indicates malformed classification thresholds.
	ErrInvalidThresholds = errors.New("invalid classification thresholds")
)
