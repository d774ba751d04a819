// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

import "errors"

// Unexpected represents an unexpected error in the application.
type Unexpected struct {
	base
}

// Error returns the error message for Unexpected.
func (u Unexpected) Error() string {
	return u.error()
}

// Unwrap exposes the wrapped cause, if any.
func (u Unexpected) Unwrap() error {
	return u.err
}

// NewUnexpected creates a new Unexpected error with the provided message.
func NewUnexpected(message string, err ...error) Unexpected {
	return Unexpected{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// ServiceUnavailable represents a failure to reach the search engine or another
// backing service.
type ServiceUnavailable struct {
	base
}

// Error returns the error message for ServiceUnavailable.
func (su ServiceUnavailable) Error() string {
	return su.error()
}

// Unwrap exposes the wrapped cause, if any.
func (su ServiceUnavailable) Unwrap() error {
	return su.err
}

// NewServiceUnavailable creates a new ServiceUnavailable error with the provided message.
func NewServiceUnavailable(message string, err ...error) ServiceUnavailable {
	return ServiceUnavailable{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// IsValidation reports whether any error in err's chain is a Validation error.
func IsValidation(err error) bool {
	var v Validation
	return errors.As(err, &v)
}

// IsNotFound reports whether any error in err's chain is a NotFound error.
func IsNotFound(err error) bool {
	var n NotFound
	return errors.As(err, &n)
}

// IsUnexpected reports whether any error in err's chain is an Unexpected error.
func IsUnexpected(err error) bool {
	var u Unexpected
	return errors.As(err, &u)
}

// IsServiceUnavailable reports whether any error in err's chain is a ServiceUnavailable error.
func IsServiceUnavailable(err error) bool {
	var su ServiceUnavailable
	return errors.As(err, &su)
}
