// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package token

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Header is the JOSE header of a credential.
type Header struct {
	Alg string `json:"alg"`
	Kid string `json:"kid,omitempty"`
	Typ string `json:"typ,omitempty"`
}

// Credential is a parsed, unverified header.payload.signature credential.
type Credential struct {
	// Header is decoded on a best effort basis. A header segment which isn't
	// a JSON object leaves it empty.
	Header Header

	// Payload holds the decoded claims.
	Payload map[string]interface{}

	// Signature is the raw signature segment.  It is never decoded.
	Signature string

	rawPayload []byte
}

// EncodeSegment encodes seg using the unpadded base64url alphabet, so the
// result never contains '+', '/' or '='.
func EncodeSegment(seg []byte) string {
	return new(jwt.Token).EncodeSegment(seg)
}

// DecodeSegment decodes an unpadded base64url segment.
func DecodeSegment(seg string) ([]byte, error) {
	const op = "token.DecodeSegment"
	b, err := jwt.NewParser().DecodeSegment(seg)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, err, ErrParse)
	}
	return b, nil
}

// Encode assembles a credential from the header, the claims (marshaled as
// JSON) and an already encoded signature segment.
func Encode(h Header, claims interface{}, signature string) (string, error) {
	const op = "token.Encode"
	if claims == nil {
		return "", fmt.Errorf("%s: claims are nil: %w", op, ErrNilParameter)
	}
	if signature == "" {
		return "", fmt.Errorf("%s: signature segment is empty: %w", op, ErrInvalidParameter)
	}
	hdr, err := json.Marshal(h)
	if err != nil {
		return "", fmt.Errorf("%s: unable to marshal header: %w", op, err)
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("%s: unable to marshal claims: %w", op, err)
	}
	return strings.Join([]string{EncodeSegment(hdr), EncodeSegment(payload), signature}, "."), nil
}

// Parse splits the credential into its three segments and decodes the
// payload.  It fails with ErrFormat unless there are exactly three non-empty
// segments and the payload decodes to a JSON object.  Nothing is verified.
func Parse(tok string) (*Credential, error) {
	const op = "token.Parse"
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%s: expected 3 segments and got %d: %w", op, len(parts), ErrFormat)
	}
	for i, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("%s: segment %d is empty: %w", op, i, ErrFormat)
		}
	}
	raw, err := DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%s: payload: %w: %s", op, ErrFormat, err)
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%s: payload is not a JSON object: %s: %w", op, err, ErrFormat)
	}
	if payload == nil {
		return nil, fmt.Errorf("%s: payload is null: %w", op, ErrFormat)
	}
	c := &Credential{
		Payload:    payload,
		Signature:  parts[2],
		rawPayload: raw,
	}
	if hdr, err := DecodeSegment(parts[0]); err == nil {
		_ = json.Unmarshal(hdr, &c.Header)
	}
	return c, nil
}

// IsStructurallyValid reports whether Parse would succeed.  It never fails
// and is meant for diagnostics and tests.
func IsStructurallyValid(tok string) bool {
	_, err := Parse(tok)
	return err == nil
}

// Claims unmarshals the payload into claims.
func (c *Credential) Claims(claims interface{}) error {
	const op = "Credential.Claims"
	if claims == nil {
		return fmt.Errorf("%s: claims interface is nil: %w", op, ErrNilParameter)
	}
	if err := json.Unmarshal(c.rawPayload, claims); err != nil {
		return fmt.Errorf("%s: unable to unmarshal claims: %w", op, err)
	}
	return nil
}
