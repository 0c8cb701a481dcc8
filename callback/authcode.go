// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package callback

import (
	"fmt"
	"net/http"

	"github.com/hashicorp/signin/provider"
)

// AuthCode creates an authorization code callback handler for providers,
// such as Kakao and Naver, whose code is handed over as is.  The code isn't
// exchanged.
//
// The CodeResponseFunc is used to create a response when a code is received.
// The ErrorResponseFunc is to create a response when the callback fails.
// Supported options: WithLogger, WithState.
func AuthCode(p *provider.Provider, cFn CodeResponseFunc, eFn ErrorResponseFunc, opt ...Option) (http.HandlerFunc, error) {
	const op = "callback.AuthCode"
	switch {
	case p == nil:
		return nil, fmt.Errorf("%s: provider is nil: %w", op, ErrNilParameter)
	case cFn == nil:
		return nil, fmt.Errorf("%s: code response func is nil: %w", op, ErrNilParameter)
	case eFn == nil:
		return nil, fmt.Errorf("%s: error response func is nil: %w", op, ErrNilParameter)
	}
	opts := getOpts(opt...)
	logger := opts.withLogger.Named(string(p.Name()))

	return func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		reqState := q.Get(StateParam)

		if e := q.Get(ErrorParam); e != "" {
			desc := q.Get("error_description")
			if desc == "" {
				desc = p.Vocabulary().Message(e)
			}
			logger.Warn("provider returned an error", "error", e)
			reqErr := &AuthenErrorResponse{
				Error:       e,
				Description: desc,
				Uri:         q.Get("error_uri"),
			}
			eFn(reqState, reqErr, nil, w, req)
			return
		}

		if opts.withState != "" && reqState != opts.withState {
			responseErr := fmt.Errorf("%s: request state (%s) and response state (%s) are not equal: %w", op, opts.withState, reqState, ErrInvalidState)
			eFn(reqState, nil, responseErr, w, req)
			return
		}

		code := q.Get(CodeParam)
		if code == "" {
			responseErr := fmt.Errorf("%s: no authorization code received from %s: %w", op, p.DisplayName(), ErrMissingCredential)
			eFn(reqState, nil, responseErr, w, req)
			return
		}
		cFn(reqState, code, w, req)
	}, nil
}
