package services

import "errors"

// Sentinel errors the services return so handlers can map them onto HTTP
// status codes. Query and write failures stay wrapped pgx errors.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidOperation = errors.New("invalid operation")
)
