// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package callback

import "errors"

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrNilParameter     = errors.New("nil parameter")
	ErrNotFound         = errors.New("not found")
	ErrMalformedRelay   = errors.New("malformed relayed response")
	ErrInvalidState     = errors.New("response state is invalid")

	// ErrProviderError means the provider answered with an error code.
	ErrProviderError = errors.New("provider returned an error")

	// ErrMissingCredential means the response held neither an authorization
	// code nor an id_token.
	ErrMissingCredential = errors.New("missing authorization code and id_token")

	// ErrCodeOnlyUnsupported means only an authorization code was received,
	// which would need a server side token exchange.
	ErrCodeOnlyUnsupported = errors.New("authorization code without id_token is not supported")
)
