// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package callback

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Carrier names where an authentication response was found.
type Carrier string

const (
	// NoCarrier means no carrier held a response.
	NoCarrier Carrier = ""

	// Fragment is the redirect URL's fragment (response_mode=fragment).
	Fragment Carrier = "fragment"

	// Query is the redirect URL's query string (response_mode=query).
	Query Carrier = "query"

	// RelayedSession is a form_post response relayed through a session
	// store (see FormPostRelay).
	RelayedSession Carrier = "relayed_session"
)

// Redirect response parameters.
const (
	CodeParam    = "code"
	StateParam   = "state"
	UserParam    = "user"
	IDTokenParam = "id_token"
	ErrorParam   = "error"
)

// Fields are the artifacts of one authentication response.  All of them come
// from the single carrier recorded in Carrier.
type Fields struct {
	Code    string
	State   string
	User    string
	IDToken string
	Error   string
	Carrier Carrier
}

// hasResponse reports whether the fields hold a code, an id_token or an
// error.  State and user alone don't make a response.
func (f Fields) hasResponse() bool {
	return f.Code != "" || f.IDToken != "" || f.Error != ""
}

// Redirect holds the carriers of a single redirect.
type Redirect struct {
	Query    url.Values
	Fragment url.Values
	Relay    RelayReader
}

// NewRedirect splits the redirect URL u into its query and fragment
// carriers.  relay is optional.
func NewRedirect(u *url.URL, relay RelayReader) (Redirect, error) {
	const op = "callback.NewRedirect"
	if u == nil {
		return Redirect{}, fmt.Errorf("%s: redirect URL is nil: %w", op, ErrNilParameter)
	}
	q, _ := url.ParseQuery(u.RawQuery)
	return Redirect{
		Query:    q,
		Fragment: ParseFragment(u.EscapedFragment()),
		Relay:    relay,
	}, nil
}

// ParseFragment parses a URL fragment as form encoded parameters.  A leading
// "#" is ignored, as are malformed pairs.
func ParseFragment(fragment string) url.Values {
	v, _ := url.ParseQuery(strings.TrimPrefix(fragment, "#"))
	return v
}

// carrierFunc reads a single carrier.  It returns false when the carrier
// holds no response.
type carrierFunc func(ctx context.Context, r Redirect, l hclog.Logger) (Fields, bool)

// carriers in priority order.
var carriers = []carrierFunc{
	fromFragment,
	fromQuery,
	fromRelay,
}

// Locate returns the response held by the first carrier, in the order
// Fragment, Query, RelayedSession, which has a code, an id_token or an
// error.  Carriers are never merged.  When no carrier has a response, the
// returned Fields are empty with a NoCarrier carrier.  Locate never fails: a
// relay which can't be read or parsed counts as empty.  Supported options:
// WithLogger.
func Locate(ctx context.Context, query, fragment url.Values, relay RelayReader, opt ...Option) Fields {
	return Redirect{Query: query, Fragment: fragment, Relay: relay}.Locate(ctx, opt...)
}

// Locate is the method form of the package level Locate.
func (r Redirect) Locate(ctx context.Context, opt ...Option) Fields {
	opts := getOpts(opt...)
	for _, c := range carriers {
		if f, ok := c(ctx, r, opts.withLogger); ok {
			opts.withLogger.Debug("located authentication response",
				"carrier", f.Carrier,
				"has_code", f.Code != "",
				"has_id_token", f.IDToken != "",
				"error", f.Error,
			)
			return f
		}
	}
	opts.withLogger.Debug("no authentication response located")
	return Fields{}
}

func fromFragment(_ context.Context, r Redirect, _ hclog.Logger) (Fields, bool) {
	return fieldsFrom(r.Fragment, Fragment)
}

func fromQuery(_ context.Context, r Redirect, _ hclog.Logger) (Fields, bool) {
	return fieldsFrom(r.Query, Query)
}

func fromRelay(ctx context.Context, r Redirect, l hclog.Logger) (Fields, bool) {
	if r.Relay == nil {
		return Fields{}, false
	}
	s, err := r.Relay.Read(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		return Fields{}, false
	case err != nil:
		l.Debug("ignoring unreadable relayed response", "error", err)
		return Fields{}, false
	case s == nil:
		return Fields{}, false
	}
	f := s.fields()
	return f, f.hasResponse()
}

func fieldsFrom(v url.Values, c Carrier) (Fields, bool) {
	if v == nil {
		return Fields{}, false
	}
	f := Fields{
		Code:    v.Get(CodeParam),
		State:   v.Get(StateParam),
		User:    v.Get(UserParam),
		IDToken: v.Get(IDTokenParam),
		Error:   v.Get(ErrorParam),
		Carrier: c,
	}
	return f, f.hasResponse()
}
