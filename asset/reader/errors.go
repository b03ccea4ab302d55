package reader

import "errors"

var (
	ErrUnsupportedFormat = errors.New("reader: unsupported scene file format")
	ErrEmptyScene        = errors.New("reader: scene contains no primitives")
)
