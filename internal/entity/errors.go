package entity

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrEmailAlreadyExists = errors.New("email already registered")
)

// ProviderError is a non-2xx answer from an external provider. Message is the
// provider's own text.
type ProviderError struct {
	Provider string
	Status   int
	Message  string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// Rejected reports whether the provider refused the request itself rather than failing.
func (e *ProviderError) Rejected() bool {
	return e.Status >= 400 && e.Status < 500
}
