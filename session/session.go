// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package session

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hashicorp/signin/exchange"
)

// Keys of the persisted session fields.
const (
	AccessTokenKey  = "accessToken"
	RefreshTokenKey = "refreshToken"
	UserIDKey       = "userId"
	IsNewUserKey    = "isNewUser"

	// RelayKey is the slot holding a form_post response relayed to the
	// callback.
	RelayKey = "appleAuthData"
)

var sessionKeys = []string{AccessTokenKey, RefreshTokenKey, UserIDKey, IsNewUserKey}

// Persist writes the session to the store.  IsNewUser is stored as the text
// "true" or "false".
func Persist(ctx context.Context, s Store, r *exchange.SessionResult) error {
	const op = "session.Persist"
	if s == nil {
		return fmt.Errorf("%s: store is nil: %w", op, ErrNilParameter)
	}
	if r == nil {
		return fmt.Errorf("%s: session is nil: %w", op, ErrNilParameter)
	}
	kv := [][2]string{
		{AccessTokenKey, r.AccessToken},
		{RefreshTokenKey, r.RefreshToken},
		{UserIDKey, r.UserID},
		{IsNewUserKey, strconv.FormatBool(r.IsNewUser)},
	}
	for _, e := range kv {
		if err := s.Set(ctx, e[0], e[1]); err != nil {
			return fmt.Errorf("%s: unable to store %s: %w", op, e[0], err)
		}
	}
	return nil
}

// Load reads a session previously written by Persist.  It returns ErrNotFound
// when no access token is stored.
func Load(ctx context.Context, s Store) (*exchange.SessionResult, error) {
	const op = "session.Load"
	if s == nil {
		return nil, fmt.Errorf("%s: store is nil: %w", op, ErrNilParameter)
	}
	values := make(map[string]string, len(sessionKeys))
	for _, k := range sessionKeys {
		v, _, err := s.Get(ctx, k)
		if err != nil {
			return nil, fmt.Errorf("%s: unable to read %s: %w", op, k, err)
		}
		values[k] = v
	}
	if values[AccessTokenKey] == "" {
		return nil, fmt.Errorf("%s: no session stored: %w", op, ErrNotFound)
	}
	r := &exchange.SessionResult{
		AccessToken:  values[AccessTokenKey],
		RefreshToken: values[RefreshTokenKey],
		UserID:       values[UserIDKey],
	}
	if v := values[IsNewUserKey]; v != "" {
		isNew, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s: stored %s %q is not a boolean: %w", op, IsNewUserKey, v, ErrInvalidParameter)
		}
		r.IsNewUser = isNew
	}
	return r, nil
}

// Clear removes every persisted session field.
func Clear(ctx context.Context, s Store) error {
	const op = "session.Clear"
	if s == nil {
		return fmt.Errorf("%s: store is nil: %w", op, ErrNilParameter)
	}
	for _, k := range sessionKeys {
		if err := s.Delete(ctx, k); err != nil {
			return fmt.Errorf("%s: unable to delete %s: %w", op, k, err)
		}
	}
	return nil
}
