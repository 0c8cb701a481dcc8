// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package token

import "errors"

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrNilParameter     = errors.New("nil parameter")

	// ErrFormat is returned when a token is not a well formed
	// header.payload.signature credential.
	ErrFormat = errors.New("invalid token format")

	// ErrParse is returned when a single segment can't be decoded.
	ErrParse = errors.New("unable to decode segment")

	ErrIDGeneratorFailed = errors.New("id generation failed")
)
