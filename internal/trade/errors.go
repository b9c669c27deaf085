package trade

import "errors"

// Error taxonomy for trade operations. Handlers map these to HTTP status
// codes with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrSelfTrade         = errors.New("cannot trade with yourself")
)
