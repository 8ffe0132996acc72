package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInputTooLarge     = errors.New("input too large")
	ErrUnavailable       = errors.New("service unavailable")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrInvalidMode       = errors.New("invalid mode")
	ErrEmptyGeneration   = errors.New("generator returned empty summary")
)

// InputTooLargeError reports a sentence count above the configured cap.
type InputTooLargeError struct {
	Count int
	Limit int
}

func (e *InputTooLargeError) Error() string {
	return fmt.Sprintf("input too large: %d sentences exceeds limit of %d", e.Count, e.Limit)
}

func (e *InputTooLargeError) Is(target error) bool { return target == ErrInputTooLarge }

// UnavailableError is returned by a generator that failed to initialize.
type UnavailableError struct {
	Generator string
	Cause     error
}

func (e *UnavailableError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("generator %q unavailable", e.Generator)
	}
	return fmt.Sprintf("generator %q unavailable: %v", e.Generator, e.Cause)
}

func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

func (e *UnavailableError) Unwrap() error { return e.Cause }

// InvalidModeError reports an unknown summary mode.
type InvalidModeError struct {
	Mode string
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid mode %q (want tldr, short or extended)", e.Mode)
}

func (e *InvalidModeError) Is(target error) bool { return target == ErrInvalidMode }
