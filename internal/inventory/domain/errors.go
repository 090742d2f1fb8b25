package domain

import "errors"

var (
	// ErrDuplicateSKU is returned when a create collides with the per-owner
	// sku uniqueness constraint.
	ErrDuplicateSKU = errors.New("a product with this value already exists")

	// ErrWriteFailed is the generic failure surfaced when the store rejects
	// a mutation for any other reason. The underlying cause is logged, not
	// returned to the caller.
	ErrWriteFailed = errors.New("failed to write product")
)

// ValidationError carries per-field messages for rejected create input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation failed" }

// AsValidation unwraps err into a *ValidationError, if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
