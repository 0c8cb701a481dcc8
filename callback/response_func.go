// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package callback

import (
	"net/http"

	"github.com/hashicorp/signin/exchange"
)

// SuccessResponseFunc is used by the Apple callback to create a http response
// when the id_token was exchanged for a session.
//
// The function state parameter will contain the state returned with the
// authentication response.  The session is the backend's answer.  The
// function should use the http.ResponseWriter to send back whatever content
// (headers, html, JSON, etc) it wishes to the client that originated the
// flow.
type SuccessResponseFunc func(state string, s *exchange.SessionResult, w http.ResponseWriter, req *http.Request)

// CodeResponseFunc is used by the AuthCode callback to create a http response
// when an authorization code was received.
type CodeResponseFunc func(state, code string, w http.ResponseWriter, req *http.Request)

// ErrorResponseFunc is used by callbacks to create a http response when the
// callback fails.
//
// The function receives the state returned as part of the authentication
// response.  It also gets parameters for the provider's error response
// and/or the callback error raised while processing the request.  When the
// provider returned an error, respErr.Description is the user facing message.
type ErrorResponseFunc func(state string, respErr *AuthenErrorResponse, e error, w http.ResponseWriter, req *http.Request)

// AuthenErrorResponse represents Oauth2 error responses.  See:
// https://www.rfc-editor.org/rfc/rfc6749#section-4.1.2.1
type AuthenErrorResponse struct {
	Error       string
	Description string
	Uri         string
}
