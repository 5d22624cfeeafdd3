package aeg

import "github.com/pkg/errors"

// Errors
var (
	ErrMalformedGraph  = errors.New("malformed graph")
	ErrInvalidPath     = errors.New("invalid path")
	ErrUnknownRule     = errors.New("unknown rule")
	ErrUnsound         = errors.New("rule application is not sound")
	ErrBadCatalogParam = errors.New("bad catalog param")
	ErrReadOnly        = errors.New("catalog is in read-only mode")
	ErrProofNotFound   = errors.New("proof not found")
	ErrBadEncoding     = errors.New("bad proof encoding")
)
