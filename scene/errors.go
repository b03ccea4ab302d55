package scene

import "errors"

var (
	ErrZeroDirection     = errors.New("scene: ray direction must be non-zero")
	ErrNilAggregate      = errors.New("scene: nil aggregate")
	ErrSingularTransform = errors.New("scene: primitive transform is not invertible")
)
