// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package provider

import "fmt"

// Vocabulary maps the error codes a provider may return in an authentication
// error response to user facing messages.
type Vocabulary struct {
	// DisplayName names the provider in user facing messages.
	DisplayName string

	// Messages is keyed by error code.
	Messages map[string]string

	// UnknownFormat formats the message for a code missing from Messages.  It
	// must contain a single %s verb, which receives the code.
	UnknownFormat string
}

// Message returns the user facing message for code.  Unrecognized codes
// always get a message embedding the raw code.
func (v Vocabulary) Message(code string) string {
	if m, ok := v.Messages[code]; ok {
		return m
	}
	f := v.UnknownFormat
	if f == "" {
		f = "Sign in failed: %s"
	}
	return fmt.Sprintf(f, code)
}

// Error codes from https://www.rfc-editor.org/rfc/rfc6749#section-4.1.2.1
const (
	InvalidRequest          = "invalid_request"
	InvalidClient           = "invalid_client"
	InvalidGrant            = "invalid_grant"
	UnauthorizedClient      = "unauthorized_client"
	UnsupportedResponseType = "unsupported_response_type"
	InvalidScope            = "invalid_scope"
	ServerError             = "server_error"
	TemporarilyUnavailable  = "temporarily_unavailable"
	AccessDenied            = "access_denied"
)

// AppleVocabulary is the vocabulary of Sign in with Apple.
var AppleVocabulary = Vocabulary{
	DisplayName: "Apple",
	Messages: map[string]string{
		InvalidRequest:          "Invalid request to Apple",
		InvalidClient:           "Invalid client configuration",
		InvalidGrant:            "Invalid authorization grant",
		UnauthorizedClient:      "Unauthorized client",
		UnsupportedResponseType: "Unsupported response type",
		InvalidScope:            "Invalid scope requested",
		ServerError:             "Apple server error",
		TemporarilyUnavailable:  "Apple service temporarily unavailable",
		AccessDenied:            "Access denied by user",
	},
	UnknownFormat: "Apple Sign In failed: %s",
}

// NewOAuthVocabulary returns the standard OAuth 2.0 vocabulary for the named
// provider.
func NewOAuthVocabulary(displayName string) Vocabulary {
	return Vocabulary{
		DisplayName: displayName,
		Messages: map[string]string{
			InvalidRequest:          fmt.Sprintf("Invalid request to %s", displayName),
			InvalidClient:           "Invalid client configuration",
			InvalidGrant:            "Invalid authorization grant",
			UnauthorizedClient:      "Unauthorized client",
			UnsupportedResponseType: "Unsupported response type",
			InvalidScope:            "Invalid scope requested",
			ServerError:             fmt.Sprintf("%s server error", displayName),
			TemporarilyUnavailable:  fmt.Sprintf("%s service temporarily unavailable", displayName),
			AccessDenied:            "Access denied by user",
		},
		UnknownFormat: displayName + " sign in failed: %s",
	}
}
