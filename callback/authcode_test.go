// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package callback

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hashicorp/signin/config"
	"github.com/hashicorp/signin/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProvider(t *testing.T, n provider.Name) *provider.Provider {
	t.Helper()
	c := config.Default()
	c.Kakao.ClientID = "kakao-client"
	c.Naver.ClientID = "naver-client"
	c.Apple.ClientID = "com.example.web"
	p, err := provider.New(n, c)
	require.NoError(t, err)
	return p
}

func TestAuthCode(t *testing.T) {
	t.Parallel()
	p := testProvider(t, provider.Kakao)
	tests := []struct {
		name      string
		p         *provider.Provider
		cFn       CodeResponseFunc
		eFn       ErrorResponseFunc
		wantIsErr error
	}{
		{"valid", p, testCodeFn, testFailFn, nil},
		{"nil-p", nil, testCodeFn, testFailFn, ErrNilParameter},
		{"nil-cFn", p, nil, testFailFn, ErrNilParameter},
		{"nil-eFn", p, testCodeFn, nil, ErrNilParameter},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert, require := assert.New(t), require.New(t)
			got, err := AuthCode(tt.p, tt.cFn, tt.eFn)
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

func Test_AuthCodeResponses(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name                string
		n                   provider.Name
		opts                []Option
		target              string
		wantStatusCode      int
		wantBody            string
		wantRespError       string
		wantRespDescription string
	}{
		{
			name:           "kakao-code",
			n:              provider.Kakao,
			target:         "/kakao/callback?code=kakao-code-1",
			wantStatusCode: http.StatusOK,
			wantBody:       "kakao-code-1",
		},
		{
			name:           "naver-code-and-state",
			n:              provider.Naver,
			opts:           []Option{WithState(config.DefaultOAuthState)},
			target:         "/callback?code=naver-code-1&state=RANDOM_STATE",
			wantStatusCode: http.StatusOK,
			wantBody:       "naver-code-1",
		},
		{
			name:                "naver-state-mismatch",
			n:                   provider.Naver,
			opts:                []Option{WithState(config.DefaultOAuthState)},
			target:              "/callback?code=naver-code-1&state=forged",
			wantStatusCode:      http.StatusInternalServerError,
			wantRespError:       "internal-callback-error",
			wantRespDescription: ErrInvalidState.Error(),
		},
		{
			name:                "naver-state-mismatch-without-code",
			n:                   provider.Naver,
			opts:                []Option{WithState(config.DefaultOAuthState)},
			target:              "/callback?state=forged",
			wantStatusCode:      http.StatusInternalServerError,
			wantRespError:       "internal-callback-error",
			wantRespDescription: ErrInvalidState.Error(),
		},
		{
			name:                "kakao-error",
			n:                   provider.Kakao,
			target:              "/kakao/callback?error=access_denied&error_description=User+denied+access",
			wantStatusCode:      http.StatusUnauthorized,
			wantRespError:       "access_denied",
			wantRespDescription: "User denied access",
		},
		{
			name:                "naver-error-vocabulary",
			n:                   provider.Naver,
			target:              "/callback?error=server_error",
			wantStatusCode:      http.StatusUnauthorized,
			wantRespError:       "server_error",
			wantRespDescription: "Naver server error",
		},
		{
			name:                "no-code",
			n:                   provider.Kakao,
			target:              "/kakao/callback",
			wantStatusCode:      http.StatusInternalServerError,
			wantRespError:       "internal-callback-error",
			wantRespDescription: "no authorization code received from Kakao",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert, require := assert.New(t), require.New(t)
			h, err := AuthCode(testProvider(t, tt.n), testCodeFn, testFailFn, tt.opts...)
			require.NoError(err)

			w := httptest.NewRecorder()
			h(w, httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(tt.wantStatusCode, w.Code)
			if tt.wantBody != "" {
				assert.Equal(tt.wantBody, w.Body.String())
				return
			}
			var errResp AuthenErrorResponse
			require.NoError(json.Unmarshal(w.Body.Bytes(), &errResp))
			assert.Equal(tt.wantRespError, errResp.Error)
			assert.Contains(errResp.Description, tt.wantRespDescription)
		})
	}
}
