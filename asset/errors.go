package asset

import "errors"

var (
	ErrUnsupportedScheme = errors.New("resource: unsupported scheme")
	ErrFetchFailed       = errors.New("resource: could not fetch")
)
