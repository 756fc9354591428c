package service

import (
	"errors"

	"github.com/okian/scoutcalc/internal/domain/model"
)

// Sentinel error kinds for this package.
var (
	ErrNoRubric       = errors.New("no rubric configured")
	ErrNoSource       = errors.New("no record source configured")
	ErrIngestDisabled = model.ErrIngestDisabled
	ErrInvalidRecord  = model.ErrInvalidRecord
	ErrRefresh        = errors.New("refresh failed")
)
