package rubric

import "errors"

// Sentinel kinds for rubric errors.
var (
	ErrInvalidRubric = errors.New("invalid rubric")
	ErrUnknownSeason = errors.New("unknown season")
	ErrLoadRubric    = errors.New("load rubric failed")
)
