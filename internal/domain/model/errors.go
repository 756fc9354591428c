package model

import "errors"

// Ingest error kinds shared by the service and the transports in front of it.
var (
	ErrIngestDisabled = errors.New("ingest requires a record store")
	ErrInvalidRecord  = errors.New("invalid record")
)
