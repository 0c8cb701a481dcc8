// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package token

import (
	"encoding/json"
	"fmt"
)

// IDToken is an oidc id_token
type IDToken string

// RedactedIDToken is the redacted string or json for an oidc id_token
const RedactedIDToken = "[REDACTED: id_token]"

// String will redact the token
func (t IDToken) String() string {
	return RedactedIDToken
}

// MarshalJSON will redact the token
func (t IDToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(RedactedIDToken)
}

// Claims retrieves the IDToken claims without verifying the token.
func (t IDToken) Claims(claims interface{}) error {
	const op = "IDToken.Claims"
	if len(t) == 0 {
		return fmt.Errorf("%s: id_token is empty: %w", op, ErrInvalidParameter)
	}
	if claims == nil {
		return fmt.Errorf("%s: claims interface is nil: %w", op, ErrNilParameter)
	}
	c, err := Parse(string(t))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return c.Claims(claims)
}

// Prefix returns at most the first n characters of the token followed by
// "...".  It's only meant for debug logging.
func (t IDToken) Prefix(n int) string {
	if n < 0 {
		n = 0
	}
	if len(t) <= n {
		return string(t) + "..."
	}
	return string(t[:n]) + "..."
}
