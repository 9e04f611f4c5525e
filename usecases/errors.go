package usecases

import "errors"

// Failure classes the HTTP layer maps onto status codes. Wrap these with
// fmt.Errorf("...: %w", Err...) to add detail.
var (
	ErrValidation = errors.New("validation failed")
	ErrAuth       = errors.New("invalid credentials")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
)
