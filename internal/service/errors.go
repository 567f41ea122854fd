package service

import (
	"errors"
	"fmt"
)

// Error categories surfaced to transports. Concrete failures wrap one of these.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrInvalidInput  = errors.New("invalid input")
	ErrModelFailure  = errors.New("model failure")
)

// ErrModelNotFound means the legacy artifact has not been trained yet.
var ErrModelNotFound = fmt.Errorf("%w: model artifact missing", ErrConfiguration)

// DetailedError carries the message shown to clients while still matching its
// category (and cause) with errors.Is.
type DetailedError struct {
	Kind   error
	Detail string
	Cause  error
}

func NewDetailedError(kind error, detail string, cause error) error {
	return &DetailedError{Kind: kind, Detail: detail, Cause: cause}
}

func (e *DetailedError) Error() string {
	return e.Detail
}

func (e *DetailedError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}
