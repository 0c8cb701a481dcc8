// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package callback

import (
	"fmt"

	"github.com/hashicorp/signin/provider"
	"github.com/hashicorp/signin/token"
)

// Kind of an Outcome.
type Kind int

const (
	UnknownKind Kind = iota

	// ProviderError means the provider returned an error code.
	ProviderError

	// MissingCredential means neither a code nor an id_token was received.
	MissingCredential

	// CodeOnlyUnsupported means only an authorization code was received.
	CodeOnlyUnsupported

	// TokenReady means an id_token is ready to be exchanged.
	TokenReady
)

func (k Kind) String() string {
	switch k {
	case ProviderError:
		return "provider_error"
	case MissingCredential:
		return "missing_credential"
	case CodeOnlyUnsupported:
		return "code_only_unsupported"
	case TokenReady:
		return "token_ready"
	default:
		return "unknown"
	}
}

// Outcome is the classification of a located response.
type Outcome struct {
	Kind Kind

	// ErrorCode is the provider's error code (ProviderError only).
	ErrorCode string

	// Message is a user facing description.  It's empty for TokenReady.
	Message string

	// IDToken is set for TokenReady only.
	IDToken token.IDToken

	// State is the response state, whatever the kind.
	State string
}

// Classify turns the fields of a located response into exactly one Outcome.
// The rules apply in order: an error code wins, then a response without a
// code or an id_token is missing its credential, then a code alone is
// unsupported, and finally an id_token is ready.  An id_token wins over the
// absence of a code.
func Classify(f Fields, v provider.Vocabulary) Outcome {
	name := v.DisplayName
	if name == "" {
		name = "the provider"
	}
	switch {
	case f.Error != "":
		return Outcome{
			Kind:      ProviderError,
			ErrorCode: f.Error,
			Message:   v.Message(f.Error),
			State:     f.State,
		}
	case f.Code == "" && f.IDToken == "":
		return Outcome{
			Kind:    MissingCredential,
			Message: fmt.Sprintf("No authorization code or ID token received from %s. Please try again.", name),
			State:   f.State,
		}
	case f.IDToken == "":
		return Outcome{
			Kind:    CodeOnlyUnsupported,
			Message: fmt.Sprintf("ID Token not received from %s. Only authorization code was provided, which requires server-side token exchange.", name),
			State:   f.State,
		}
	default:
		return Outcome{
			Kind:    TokenReady,
			IDToken: token.IDToken(f.IDToken),
			State:   f.State,
		}
	}
}

// Err returns an error for outcomes other than TokenReady, wrapping
// ErrProviderError, ErrMissingCredential or ErrCodeOnlyUnsupported.  It
// returns nil for TokenReady.
func (o Outcome) Err() error {
	const op = "callback.(Outcome).Err"
	switch o.Kind {
	case TokenReady:
		return nil
	case ProviderError:
		return fmt.Errorf("%s: %s (%s): %w", op, o.Message, o.ErrorCode, ErrProviderError)
	case MissingCredential:
		return fmt.Errorf("%s: %s: %w", op, o.Message, ErrMissingCredential)
	case CodeOnlyUnsupported:
		return fmt.Errorf("%s: %s: %w", op, o.Message, ErrCodeOnlyUnsupported)
	default:
		return fmt.Errorf("%s: unknown outcome: %w", op, ErrInvalidParameter)
	}
}
