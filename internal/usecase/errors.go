package usecase

import (
	"errors"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
)

const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeDatabase        = "DATABASE_ERROR"
	CodeProvider        = "PROVIDER_ERROR"
	CodeNotConfigured   = "NOT_CONFIGURED"
)

// DomainError is a rejection the caller can act on; Message is shown as is.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError wraps a store or provider failure. Message carries the raw
// failure text.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func invalid(msg string) error {
	return &DomainError{Code: CodeValidation, Message: msg}
}

func unauthorized(msg string) error {
	return &DomainError{Code: CodeUnauthorized, Message: msg}
}

func notFound(msg string) error {
	return &DomainError{Code: CodeNotFound, Message: msg}
}

func unauthenticated() error {
	return &DomainError{Code: CodeUnauthenticated, Message: "Unauthorized"}
}

// storeError classifies a repository error.
func storeError(err error, what string) error {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return notFound(what + " not found")
	case errors.Is(err, entity.ErrEmailAlreadyExists):
		return &DomainError{Code: CodeConflict, Message: err.Error()}
	default:
		return &TechnicalError{Code: CodeDatabase, Message: err.Error(), Err: err}
	}
}

// providerError classifies an identity, email or storage provider error.
// Requests the provider rejected become domain errors carrying its message.
func providerError(err error) error {
	if IsDomainError(err) {
		return err
	}
	var pe *entity.ProviderError
	if errors.As(err, &pe) && pe.Rejected() {
		switch pe.Status {
		case 401, 403:
			return &DomainError{Code: CodeUnauthenticated, Message: pe.Message}
		case 404:
			return &DomainError{Code: CodeNotFound, Message: pe.Message}
		case 409:
			return &DomainError{Code: CodeConflict, Message: pe.Message}
		default:
			return &DomainError{Code: CodeValidation, Message: pe.Message}
		}
	}
	if errors.Is(err, entity.ErrEmailAlreadyExists) {
		return &DomainError{Code: CodeConflict, Message: err.Error()}
	}
	return &TechnicalError{Code: CodeProvider, Message: err.Error(), Err: err}
}

func isNotFound(err error) bool {
	return errors.Is(err, entity.ErrNotFound)
}
