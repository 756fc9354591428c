package sqlstore

import "errors"

var (
	ErrUnsupportedDriver = errors.New("unsupported driver")
	ErrDuplicate         = errors.New("submission already stored")
)
