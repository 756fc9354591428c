package source

import "errors"

var (
	ErrMissingColumn = errors.New("missing identifier column")
	ErrReadSource    = errors.New("read source failed")
)
