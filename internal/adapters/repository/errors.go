package repository

import "errors"

// Sentinel kinds for snapshot read errors.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidLimit  = errors.New("invalid leaderboard limit")
	ErrUnknownMetric = errors.New("unknown metric")
)
