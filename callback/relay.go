// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hashicorp/signin/session"
)

// Snapshot is a form_post response as relayed to the callback.  It's stored
// as JSON under session.RelayKey.
type Snapshot struct {
	Code    string `json:"code,omitempty"`
	State   string `json:"state,omitempty"`
	User    string `json:"user,omitempty"`
	IDToken string `json:"id_token,omitempty"`
	Error   string `json:"error,omitempty"`
}

// UnmarshalJSON decodes a relayed response of any shape.  String values are
// kept as is and other JSON values, such as a parsed user object, as their
// compact JSON text.
func (s *Snapshot) UnmarshalJSON(b []byte) error {
	const op = "Snapshot.UnmarshalJSON"
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	*s = Snapshot{
		Code:    relayValue(raw[CodeParam]),
		State:   relayValue(raw[StateParam]),
		User:    relayValue(raw[UserParam]),
		IDToken: relayValue(raw[IDTokenParam]),
		Error:   relayValue(raw[ErrorParam]),
	}
	return nil
}

func relayValue(v json.RawMessage) string {
	if len(v) == 0 || string(v) == "null" {
		return ""
	}
	var str string
	if err := json.Unmarshal(v, &str); err == nil {
		return str
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return string(v)
	}
	return buf.String()
}

func (s *Snapshot) fields() Fields {
	return Fields{
		Code:    s.Code,
		State:   s.State,
		User:    s.User,
		IDToken: s.IDToken,
		Error:   s.Error,
		Carrier: RelayedSession,
	}
}

// RelayReader defines an interface for reading a relayed form_post response.
//
// Implementations must be concurrently safe, since the reader will likely be
// used within a concurrent http.Handler
type RelayReader interface {
	// Read the relayed response.  It returns an error wrapping ErrNotFound
	// when nothing was relayed.
	Read(ctx context.Context) (*Snapshot, error)
}

// StoreRelay relays responses through a session.Store under
// session.RelayKey.  It's concurrently safe when its Store is.
type StoreRelay struct {
	Store session.Store
}

// Read the relayed response.  It satisfies the RelayReader interface.
func (r *StoreRelay) Read(ctx context.Context) (*Snapshot, error) {
	const op = "StoreRelay.Read"
	if r == nil || r.Store == nil {
		return nil, fmt.Errorf("%s: store is nil: %w", op, ErrNilParameter)
	}
	raw, ok, err := r.Store.Get(ctx, session.RelayKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok || raw == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var s Snapshot
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, err, ErrMalformedRelay)
	}
	return &s, nil
}

// Write replaces the relayed response.
func (r *StoreRelay) Write(ctx context.Context, s Snapshot) error {
	const op = "StoreRelay.Write"
	if r == nil || r.Store == nil {
		return fmt.Errorf("%s: store is nil: %w", op, ErrNilParameter)
	}
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := r.Store.Set(ctx, session.RelayKey, string(b)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Clear removes the relayed response.
func (r *StoreRelay) Clear(ctx context.Context) error {
	const op = "StoreRelay.Clear"
	if r == nil || r.Store == nil {
		return fmt.Errorf("%s: store is nil: %w", op, ErrNilParameter)
	}
	if err := r.Store.Delete(ctx, session.RelayKey); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SingleRelayReader implements the RelayReader interface for a single
// response.  It is concurrently safe.
type SingleRelayReader struct {
	Snapshot *Snapshot
}

// Read returns a copy of the single response, or an error wrapping
// ErrNotFound when it's nil.  It satisfies the RelayReader interface.
func (r *SingleRelayReader) Read(_ context.Context) (*Snapshot, error) {
	const op = "SingleRelayReader.Read"
	if r.Snapshot == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	s := *r.Snapshot
	return &s, nil
}

// FormPostRelay creates a handler which accepts a response_mode=form_post
// response, writes it to the store under session.RelayKey and redirects the
// user agent (303 See Other) to redirectTo, where the callback picks the
// response up from the relay.  Supported options: WithLogger.
func FormPostRelay(store session.Store, redirectTo string, opt ...Option) (http.HandlerFunc, error) {
	const op = "callback.FormPostRelay"
	switch {
	case store == nil:
		return nil, fmt.Errorf("%s: store is nil: %w", op, ErrNilParameter)
	case redirectTo == "":
		return nil, fmt.Errorf("%s: redirect location is empty: %w", op, ErrInvalidParameter)
	}
	opts := getOpts(opt...)
	relay := &StoreRelay{Store: store}
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if err := req.ParseForm(); err != nil {
			opts.withLogger.Debug("unable to parse form_post response", "error", err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		s := Snapshot{
			Code:    req.PostForm.Get(CodeParam),
			State:   req.PostForm.Get(StateParam),
			User:    req.PostForm.Get(UserParam),
			IDToken: req.PostForm.Get(IDTokenParam),
			Error:   req.PostForm.Get(ErrorParam),
		}
		if err := relay.Write(req.Context(), s); err != nil {
			opts.withLogger.Error("unable to relay form_post response", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		opts.withLogger.Debug("relayed form_post response", "redirect", redirectTo)
		http.Redirect(w, req, redirectTo, http.StatusSeeOther)
	}, nil
}
