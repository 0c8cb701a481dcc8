// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package callback

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hashicorp/signin/exchange"
	"github.com/hashicorp/signin/provider"
	"github.com/hashicorp/signin/session"
	"github.com/hashicorp/signin/token"
)

// Exchanger trades an id_token for a backend session.  *exchange.Client
// satisfies it.
type Exchanger interface {
	Exchange(ctx context.Context, idToken token.IDToken, d exchange.DeviceContext) (*exchange.SessionResult, error)
}

// Apple creates a Sign in with Apple callback handler.  It locates the
// response in the request URL or the relay, classifies it and exchanges a
// ready id_token with the backend for the device d.  relay is optional and
// only needed for the form_post response mode (see FormPostRelay).  User
// agents never send the URL fragment to a server, so the fragment response
// mode only reaches this handler when the browser forwards the fragment into
// the request URL; otherwise use Locate directly, as the callback command of
// the cli example does.
//
// The SuccessResponseFunc is used to create a response when callback is
// successful. The ErrorResponseFunc is to create a response when the callback
// fails.  Supported options: WithLogger, WithVocabulary, WithSessionStore.
func Apple(ex Exchanger, relay RelayReader, d exchange.DeviceContext, sFn SuccessResponseFunc, eFn ErrorResponseFunc, opt ...Option) (http.HandlerFunc, error) {
	const op = "callback.Apple"
	switch {
	case ex == nil:
		return nil, fmt.Errorf("%s: exchanger is nil: %w", op, ErrNilParameter)
	case sFn == nil:
		return nil, fmt.Errorf("%s: success response func is nil: %w", op, ErrNilParameter)
	case eFn == nil:
		return nil, fmt.Errorf("%s: error response func is nil: %w", op, ErrNilParameter)
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	opts := getOpts(opt...)
	vocabulary := provider.AppleVocabulary
	if opts.withVocabulary != nil {
		vocabulary = *opts.withVocabulary
	}
	logger := opts.withLogger

	return func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		r, err := NewRedirect(req.URL, relay)
		if err != nil {
			eFn("", nil, fmt.Errorf("%s: %w", op, err), w, req)
			return
		}
		f := r.Locate(ctx, WithLogger(logger))
		o := Classify(f, vocabulary)
		switch o.Kind {
		case TokenReady:
		case ProviderError:
			logger.Warn("provider returned an error", "error", o.ErrorCode)
			reqErr := &AuthenErrorResponse{
				Error:       o.ErrorCode,
				Description: o.Message,
				Uri:         req.FormValue("error_uri"),
			}
			eFn(o.State, reqErr, nil, w, req)
			return
		default:
			logger.Warn("unusable authentication response", "outcome", o.Kind, "carrier", f.Carrier)
			eFn(o.State, nil, fmt.Errorf("%s: %w", op, o.Err()), w, req)
			return
		}

		s, err := ex.Exchange(ctx, o.IDToken, d)
		if err != nil {
			eFn(o.State, nil, fmt.Errorf("%s: unable to exchange id_token: %w", op, err), w, req)
			return
		}
		if opts.withStore != nil {
			if err := session.Persist(ctx, opts.withStore, s); err != nil {
				eFn(o.State, nil, fmt.Errorf("%s: %w", op, err), w, req)
				return
			}
		}
		sFn(o.State, s, w, req)
	}, nil
}
