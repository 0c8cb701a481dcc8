// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package token

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-uuid"
	"gopkg.in/square/go-jose.v2/jwt"
)

const (
	// AppleIssuer is the "iss" of every Sign in with Apple id_token.
	AppleIssuer = "https://appleid.apple.com"

	DefaultMockClientID = "ac.dnd-14th-1"
	DefaultMockSubject  = "001234.567890.abcdef"
	DefaultMockEmail    = "user@example.com"

	// MockKeyID mimics the format of Apple's signing key ids.
	MockKeyID = "AIDOPK1"

	// MockTTL is the lifetime of a mock token.
	MockTTL = time.Hour

	// RealUserStatusLikelyReal is Apple's "likely real" user status.
	RealUserStatusLikelyReal = 2

	mockSignaturePlaceholder = "SflKxwRJSMeKKF2QT4fwpMeJf36POk6yJV_adQssw5c.rFWwbAJlHf8Kq0WPlgTxg5Bwcxz2Z1jVkAz9G9p5c"
)

// MockSignature is the constant signature segment of every mock token. It is
// not a signature of anything.
var MockSignature = EncodeSegment([]byte(mockSignaturePlaceholder))

// MockHeader is the header of every mock token.
var MockHeader = Header{
	Alg: "RS256",
	Kid: MockKeyID,
	Typ: "JWT",
}

// MockClaims are the claims of a Sign in with Apple id_token.
type MockClaims struct {
	jwt.Claims
	Email          string `json:"email"`
	EmailVerified  bool   `json:"email_verified"`
	IsPrivateEmail bool   `json:"is_private_email"`
	RealUserStatus int    `json:"real_user_status"`
	NonceSupported bool   `json:"nonce_supported"`
	CHash          string `json:"c_hash"`
	AtHash         string `json:"at_hash"`
}

// NewMock mints a mock Sign in with Apple id_token.  Supported options:
// WithClientID, WithSubject, WithEmail, WithPrivateEmail, WithNow.
//
// The token expires MockTTL after it was issued.  It carries MockSignature,
// so any backend verifying signatures against Apple's keys will reject it.
func NewMock(opt ...Option) (string, error) {
	const op = "token.NewMock"
	opts := getMockOpts(opt...)
	now := opts.withNow
	if now.IsZero() {
		now = time.Now()
	}
	claims := MockClaims{
		Claims: jwt.Claims{
			Issuer:   AppleIssuer,
			Audience: jwt.Audience{opts.withClientID},
			Subject:  opts.withSubject,
			IssuedAt: jwt.NewNumericDate(now),
			Expiry:   jwt.NewNumericDate(now.Add(MockTTL)),
		},
		Email:          opts.withEmail,
		EmailVerified:  true,
		IsPrivateEmail: opts.withIsPrivateEmail,
		RealUserStatus: RealUserStatusLikelyReal,
		NonceSupported: true,
		CHash:          "hash_value_123",
		AtHash:         "access_token_hash",
	}
	tok, err := Encode(MockHeader, claims, MockSignature)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return tok, nil
}

const authCodeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewMockAuthCode returns a mock authorization code shaped like Apple's:
// three dot separated parts of six lowercase base36 characters.
func NewMockAuthCode() (string, error) {
	const op = "token.NewMockAuthCode"
	const partLen = 6
	b, err := uuid.GenerateRandomBytes(3 * partLen)
	if err != nil {
		return "", fmt.Errorf("%s: unable to generate random bytes: %s: %w", op, err, ErrIDGeneratorFailed)
	}
	parts := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		var sb strings.Builder
		for _, c := range b[i*partLen : (i+1)*partLen] {
			sb.WriteByte(authCodeAlphabet[int(c)%len(authCodeAlphabet)])
		}
		parts = append(parts, sb.String())
	}
	return strings.Join(parts, "."), nil
}
