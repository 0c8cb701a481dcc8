// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package exchange

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Envelope is the backend's response wrapper.  Only Status == 200 with a
// non-nil Data is a successful exchange.
type Envelope struct {
	Status  int            `json:"status"`
	Message string         `json:"message"`
	Data    *SessionResult `json:"data"`
}

// Success reports whether the envelope carries a session.
func (e *Envelope) Success() bool {
	return e != nil && e.Status == 200 && e.Data != nil
}

// SessionResult is the session issued by the backend.
type SessionResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`

	// IsNewUser is decoded from a JSON boolean, the strings "true" and
	// "false", or the numbers 1 and 0.
	IsNewUser bool `json:"isNewUser"`
}

// UnmarshalJSON decodes a session, tolerating a textual isNewUser and a
// numeric userId.
func (s *SessionResult) UnmarshalJSON(b []byte) error {
	const op = "SessionResult.UnmarshalJSON"
	var raw struct {
		AccessToken  string          `json:"accessToken"`
		RefreshToken string          `json:"refreshToken"`
		UserID       json.RawMessage `json:"userId"`
		IsNewUser    json.RawMessage `json:"isNewUser"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	userID, err := scalarString(raw.UserID)
	if err != nil {
		return fmt.Errorf("%s: userId: %w", op, err)
	}
	isNew, err := looseBool(raw.IsNewUser)
	if err != nil {
		return fmt.Errorf("%s: isNewUser: %w", op, err)
	}
	*s = SessionResult{
		AccessToken:  raw.AccessToken,
		RefreshToken: raw.RefreshToken,
		UserID:       userID,
		IsNewUser:    isNew,
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func scalarString(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("expected a string or number: %w", ErrInvalidParameter)
	}
	return n.String(), nil
}

func looseBool(raw json.RawMessage) (bool, error) {
	if isNull(raw) {
		return false, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		switch n.String() {
		case "0":
			return false, nil
		case "1":
			return true, nil
		}
		return false, fmt.Errorf("expected a boolean and got %s: %w", n, ErrInvalidParameter)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false, fmt.Errorf("expected a boolean: %w", ErrInvalidParameter)
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected a boolean and got %q: %w", s, ErrInvalidParameter)
	}
	return b, nil
}
