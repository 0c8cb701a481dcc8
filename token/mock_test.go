// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package token

import (
	"regexp"
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMock(t *testing.T) {
	t.Parallel()
	now := time.Unix(1700000000, 0)

	tests := []struct {
		name             string
		opts             []Option
		wantAud          string
		wantSub          string
		wantEmail        string
		wantPrivateEmail bool
	}{
		{
			name:      "defaults",
			wantAud:   DefaultMockClientID,
			wantSub:   DefaultMockSubject,
			wantEmail: DefaultMockEmail,
		},
		{
			name: "all-overrides",
			opts: []Option{
				WithClientID("com.example.web"),
				WithSubject("user123.abc.def"),
				WithEmail("john@example.com"),
				WithPrivateEmail(true),
			},
			wantAud:          "com.example.web",
			wantSub:          "user123.abc.def",
			wantEmail:        "john@example.com",
			wantPrivateEmail: true,
		},
		{
			name:      "empty-overrides-keep-defaults",
			opts:      []Option{WithClientID(""), WithSubject(""), WithEmail("")},
			wantAud:   DefaultMockClientID,
			wantSub:   DefaultMockSubject,
			wantEmail: DefaultMockEmail,
		},
		{
			name:      "nil-option",
			opts:      []Option{nil, WithEmail("bob@example.com")},
			wantAud:   DefaultMockClientID,
			wantSub:   DefaultMockSubject,
			wantEmail: "bob@example.com",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert, require := assert.New(t), require.New(t)
			tok, err := NewMock(append(tt.opts, WithNow(now))...)
			require.NoError(err)
			require.True(IsStructurallyValid(tok))

			c, err := Parse(tok)
			require.NoError(err)
			assert.Equal(MockHeader, c.Header)
			assert.Equal(MockSignature, c.Signature)
			assert.Equal(tt.wantAud, c.Payload["aud"])
			assert.Equal(tt.wantSub, c.Payload["sub"])
			assert.Equal(tt.wantEmail, c.Payload["email"])

			var claims MockClaims
			require.NoError(c.Claims(&claims))
			assert.Equal(AppleIssuer, claims.Issuer)
			assert.Equal([]string{tt.wantAud}, []string(claims.Audience))
			assert.Equal(now.Unix(), claims.IssuedAt.Time().Unix())
			assert.Equal(now.Add(time.Hour).Unix(), claims.Expiry.Time().Unix())
			assert.True(claims.EmailVerified)
			assert.Equal(tt.wantPrivateEmail, claims.IsPrivateEmail)
			assert.Equal(RealUserStatusLikelyReal, claims.RealUserStatus)
			assert.True(claims.NonceSupported)
			assert.Equal("hash_value_123", claims.CHash)
			assert.Equal("access_token_hash", claims.AtHash)
		})
	}
}

func TestNewMock_defaultClock(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	before := time.Now().Unix()
	tok, err := NewMock()
	require.NoError(err)
	after := time.Now().Unix()

	var claims MockClaims
	require.NoError(IDToken(tok).Claims(&claims))
	iat := claims.IssuedAt.Time().Unix()
	assert.GreaterOrEqual(iat, before)
	assert.LessOrEqual(iat, after)
	assert.Equal(iat+3600, claims.Expiry.Time().Unix())
}

// a standard jwt parser must accept the mock as a (unverified) JWT
func TestNewMock_standardParser(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	tok, err := NewMock(WithSubject("alice"))
	require.NoError(err)

	parsed, _, err := gojwt.NewParser().ParseUnverified(tok, gojwt.MapClaims{})
	require.NoError(err)
	assert.Equal("RS256", parsed.Header["alg"])
	assert.Equal(MockKeyID, parsed.Header["kid"])
	sub, err := parsed.Claims.GetSubject()
	require.NoError(err)
	assert.Equal("alice", sub)
	iss, err := parsed.Claims.GetIssuer()
	require.NoError(err)
	assert.Equal(AppleIssuer, iss)
}

func TestNewMockAuthCode(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	re := regexp.MustCompile(`^[0-9a-z]{6}\.[0-9a-z]{6}\.[0-9a-z]{6}$`)
	seen := map[string]struct{}{}
	for i := 0; i < 10; i++ {
		code, err := NewMockAuthCode()
		require.NoError(err)
		assert.Regexp(re, code)
		assert.Len(strings.Split(code, "."), 3)
		seen[code] = struct{}{}
	}
	assert.Greater(len(seen), 1)
}
