package catalog

import (
	"errors"
	"fmt"
)

// Sentinel kinds for catalog failures. Each typed error below unwraps to
// its kind and to the underlying cause, so errors.Is works for both.
var (
	ErrLoadList    = errors.New("failed to load car listings")
	ErrNotFound    = errors.New("car not found")
	ErrLoadDetail  = errors.New("failed to load car details")
	ErrLoadOptions = errors.New("failed to load filter options")
)

// Sentinel errors for filter input.
var (
	ErrUnknownFilter      = errors.New("unknown filter")
	ErrInvalidFilterValue = errors.New("invalid filter value")
)

// LoadListError reports a failed listing request, whatever the cause.
type LoadListError struct {
	Cause error
}

func (e *LoadListError) Error() string {
	if e.Cause == nil {
		return ErrLoadList.Error()
	}
	return fmt.Sprintf("%s: %v", ErrLoadList, e.Cause)
}

func (e *LoadListError) Unwrap() []error { return unwrapPair(ErrLoadList, e.Cause) }

// NotFoundError reports that the detail endpoint answered 404.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: id=%d", ErrNotFound, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// LoadDetailError reports any other failed detail request.
type LoadDetailError struct {
	ID    int
	Cause error
}

func (e *LoadDetailError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: id=%d", ErrLoadDetail, e.ID)
	}
	return fmt.Sprintf("%s: id=%d: %v", ErrLoadDetail, e.ID, e.Cause)
}

func (e *LoadDetailError) Unwrap() []error { return unwrapPair(ErrLoadDetail, e.Cause) }

// LoadOptionsError reports a failed filter options request.
type LoadOptionsError struct {
	Cause error
}

func (e *LoadOptionsError) Error() string {
	if e.Cause == nil {
		return ErrLoadOptions.Error()
	}
	return fmt.Sprintf("%s: %v", ErrLoadOptions, e.Cause)
}

func (e *LoadOptionsError) Unwrap() []error { return unwrapPair(ErrLoadOptions, e.Cause) }

func unwrapPair(kind, cause error) []error {
	if cause == nil {
		return []error{kind}
	}
	return []error{kind, cause}
}

// Message maps an error to the text shown to the user.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "Car not found"
	case errors.Is(err, ErrLoadDetail):
		return "Failed to load car details"
	case errors.Is(err, ErrLoadOptions):
		return "Failed to load filter options"
	case errors.Is(err, ErrLoadList):
		return "Failed to load car listings"
	}
	return "Something went wrong"
}

// ValidationError wraps a sentinel with the offending field and value.
type ValidationError struct {
	Field   string
	Value   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s (value=%q)", e.Wrapped, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

// NewValidationError creates a ValidationError.
func NewValidationError(field, value string, wrapped error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Wrapped: wrapped}
}
