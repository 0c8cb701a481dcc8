// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package callback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/hashicorp/signin/exchange"
	"github.com/hashicorp/signin/provider"
	"github.com/hashicorp/signin/session"
	"github.com/hashicorp/signin/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDevice() exchange.DeviceContext {
	return exchange.DeviceContext{
		DeviceID:    "web-browser",
		Platform:    exchange.IOS,
		PackageName: "com.photocard.master",
	}
}

func TestApple(t *testing.T) {
	t.Parallel()
	tb := exchange.StartTestBackend(t)
	c, err := exchange.NewClient(tb.Config())
	require.NoError(t, err)

	tests := []struct {
		name      string
		ex        Exchanger
		d         exchange.DeviceContext
		sFn       SuccessResponseFunc
		eFn       ErrorResponseFunc
		wantIsErr error
	}{
		{"valid", c, testDevice(), testSuccessFn, testFailFn, nil},
		{"nil-exchanger", nil, testDevice(), testSuccessFn, testFailFn, ErrNilParameter},
		{"nil-sFn", c, testDevice(), nil, testFailFn, ErrNilParameter},
		{"nil-eFn", c, testDevice(), testSuccessFn, nil, ErrNilParameter},
		{"bad-device", c, exchange.DeviceContext{DeviceID: "d", Platform: "BLACKBERRY", PackageName: "p"}, testSuccessFn, testFailFn, exchange.ErrInvalidParameter},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert, require := assert.New(t), require.New(t)
			got, err := Apple(tt.ex, nil, tt.d, tt.sFn, tt.eFn)
			if tt.wantIsErr != nil {
				require.Error(err)
				assert.ErrorIs(err, tt.wantIsErr)
				return
			}
			require.NoError(err)
			assert.NotNil(got)
		})
	}
}

func Test_AppleResponses(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mock, err := token.NewMock(token.WithSubject("alice"))
	require.NoError(t, err)

	tests := []struct {
		name                string
		query               url.Values
		relay               *Snapshot
		backendStatus       int
		backendBody         interface{}
		store               session.Store
		wantStatusCode      int
		wantSession         *exchange.SessionResult
		wantRespError       string
		wantRespDescription string
		wantExchanged       bool
	}{
		{
			name:           "query-id-token",
			query:          url.Values{"id_token": {mock}, "code": {"c1"}, "state": {"st"}},
			wantStatusCode: http.StatusOK,
			wantSession:    &exchange.DefaultTestSession,
			wantExchanged:  true,
		},
		{
			name:           "relayed-form-post",
			relay:          &Snapshot{IDToken: mock, Code: "c1", State: "st"},
			store:          session.NewMemoryStore(),
			wantStatusCode: http.StatusOK,
			wantSession:    &exchange.DefaultTestSession,
			wantExchanged:  true,
		},
		{
			name:                "access-denied",
			query:               url.Values{"error": {"access_denied"}, "state": {"st"}},
			wantStatusCode:      http.StatusUnauthorized,
			wantRespError:       "access_denied",
			wantRespDescription: "Access denied by user",
		},
		{
			name:                "relayed-unknown-error",
			relay:               &Snapshot{Error: "user_cancelled_authorize"},
			wantStatusCode:      http.StatusUnauthorized,
			wantRespError:       "user_cancelled_authorize",
			wantRespDescription: "Apple Sign In failed: user_cancelled_authorize",
		},
		{
			name:                "code-only",
			query:               url.Values{"code": {"abc123"}},
			wantStatusCode:      http.StatusInternalServerError,
			wantRespError:       "internal-callback-error",
			wantRespDescription: "ID Token not received from Apple",
		},
		{
			name:                "nothing",
			query:               url.Values{"state": {"st"}},
			wantStatusCode:      http.StatusInternalServerError,
			wantRespError:       "internal-callback-error",
			wantRespDescription: "No authorization code or ID token received from Apple. Please try again.",
		},
		{
			name:                "backend-error",
			query:               url.Values{"id_token": {mock}},
			backendStatus:       http.StatusInternalServerError,
			backendBody:         map[string]interface{}{"status": 500, "message": "boom"},
			wantStatusCode:      http.StatusInternalServerError,
			wantRespError:       "internal-callback-error",
			wantRespDescription: "boom",
			wantExchanged:       true,
		},
		{
			name:                "backend-unexpected-structure",
			query:               url.Values{"id_token": {mock}},
			backendStatus:       http.StatusOK,
			backendBody:         map[string]interface{}{"status": 200},
			wantStatusCode:      http.StatusInternalServerError,
			wantRespError:       "internal-callback-error",
			wantRespDescription: exchange.ReasonUnexpectedResponse,
			wantExchanged:       true,
		},
		{
			name:                "persist-failure",
			query:               url.Values{"id_token": {mock}},
			store:               testFailingStore{},
			wantStatusCode:      http.StatusInternalServerError,
			wantRespError:       "internal-callback-error",
			wantRespDescription: "unable to store",
			wantExchanged:       true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert, require := assert.New(t), require.New(t)
			tb := exchange.StartTestBackend(t)
			if tt.backendStatus != 0 {
				tb.SetResponse(tt.backendStatus, tt.backendBody)
			}
			c, err := exchange.NewClient(tb.Config())
			require.NoError(err)

			var opts []Option
			if tt.store != nil {
				opts = append(opts, WithSessionStore(tt.store))
			}
			h, err := Apple(c, &SingleRelayReader{Snapshot: tt.relay}, testDevice(), testSuccessFn, testFailFn, opts...)
			require.NoError(err)

			target := "/apple/callback"
			if len(tt.query) > 0 {
				target += "?" + tt.query.Encode()
			}
			w := httptest.NewRecorder()
			h(w, httptest.NewRequest(http.MethodGet, target, nil))

			assert.Equal(tt.wantStatusCode, w.Code)
			if tt.wantExchanged {
				require.Len(tb.Requests(), 1)
				assert.Equal(mock, tb.Requests()[0].Body["idToken"])
			} else {
				assert.Empty(tb.Requests())
			}

			if tt.wantSession != nil {
				var got exchange.SessionResult
				require.NoError(json.Unmarshal(w.Body.Bytes(), &got))
				assert.Equal(*tt.wantSession, got)
				if tt.store != nil {
					persisted, err := session.Load(ctx, tt.store)
					require.NoError(err)
					assert.Equal(tt.wantSession, persisted)
				}
				return
			}
			var errResp AuthenErrorResponse
			require.NoError(json.Unmarshal(w.Body.Bytes(), &errResp))
			assert.Equal(tt.wantRespError, errResp.Error)
			assert.Contains(errResp.Description, tt.wantRespDescription)
		})
	}
}

func TestApple_vocabulary(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	tb := exchange.StartTestBackend(t)
	c, err := exchange.NewClient(tb.Config())
	require.NoError(err)

	v := provider.NewOAuthVocabulary("Apple (staging)")
	h, err := Apple(c, nil, testDevice(), testSuccessFn, testFailFn, WithVocabulary(v))
	require.NoError(err)

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/apple/callback?error=KOE101", nil))
	var errResp AuthenErrorResponse
	require.NoError(json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal("Apple (staging) sign in failed: KOE101", errResp.Description)
}

func TestApple_forwardedFragment(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	tb := exchange.StartTestBackend(t)
	c, err := exchange.NewClient(tb.Config())
	require.NoError(err)
	mock, err := token.NewMock()
	require.NoError(err)

	h, err := Apple(c, nil, testDevice(), testSuccessFn, testFailFn)
	require.NoError(err)

	// without the fragment the handler sees nothing
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/apple/callback", nil))
	assert.Equal(http.StatusInternalServerError, w.Code)
	assert.Empty(tb.Requests())

	req := httptest.NewRequest(http.MethodGet, "/apple/callback", nil)
	req.URL.RawFragment = url.Values{"id_token": {mock}, "state": {"st"}}.Encode()
	req.URL.Fragment, err = url.PathUnescape(req.URL.RawFragment)
	require.NoError(err)
	w = httptest.NewRecorder()
	h(w, req)
	assert.Equal(http.StatusOK, w.Code)
	require.Len(tb.Requests(), 1)
	assert.Equal(mock, tb.Requests()[0].Body["idToken"])
}
