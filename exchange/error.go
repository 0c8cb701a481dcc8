// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package exchange

import (
	"errors"
)

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrNilParameter     = errors.New("nil parameter")
	ErrInvalidCACert    = errors.New("invalid CA certificate")

	// ErrBackend is matched (via errors.Is) by every *BackendError.
	ErrBackend = errors.New("backend error")
)

// BackendError is returned when an exchange with the backend fails, either
// at the transport level or because the backend's response envelope doesn't
// carry a session.
type BackendError struct {
	// StatusCode is the http status of the response, or zero when no
	// response was received.
	StatusCode int

	// Reason is the backend's message when it provided one, otherwise a
	// description of the failure.  It's suitable for showing to the user.
	Reason string

	// Err is the underlying transport or decoding error, if any.
	Err error
}

func (e *BackendError) Error() string {
	return e.Reason
}

// Unwrap returns the underlying error, if any.
func (e *BackendError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrBackend.
func (e *BackendError) Is(target error) bool {
	return target == ErrBackend
}
