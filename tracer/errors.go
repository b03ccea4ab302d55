package tracer

import "errors"

var (
	ErrNoTracers        = errors.New("tracer: no tracers attached")
	ErrInvalidFrameSize = errors.New("tracer: frame dimensions must be positive")
	ErrInvalidAxis      = errors.New("tracer: projection axis must be 0, 1 or 2")
	ErrEmptyScene       = errors.New("tracer: scene has an empty bound")
	ErrInvalidCamera    = errors.New("tracer: unknown camera type")
	ErrInvalidFOV       = errors.New("tracer: field of view must be in (0, 180) degrees")
	ErrInterrupted      = errors.New("tracer: interrupted while tracing")
)
