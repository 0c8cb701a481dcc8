// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package callback

import (
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/signin/provider"
	"github.com/hashicorp/signin/session"
)

// Option defines a common functional options type which can be used in a
// variadic parameter pattern.
type Option func(interface{})

// ApplyOpts takes a pointer to the options struct as a set of default options
// and applies the slice of opts as overrides.
func ApplyOpts(opts interface{}, opt ...Option) {
	for _, o := range opt {
		if o == nil { // ignore any nil Options
			continue
		}
		o(opts)
	}
}

// options is the set of available options for this package
type options struct {
	withLogger     hclog.Logger
	withVocabulary *provider.Vocabulary
	withStore      session.Store
	withState      string
}

func getDefaults() options {
	return options{
		withLogger: hclog.NewNullLogger(),
	}
}

func getOpts(opt ...Option) options {
	opts := getDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithLogger provides an optional logger.  Token values are never logged.
func WithLogger(l hclog.Logger) Option {
	return func(o interface{}) {
		if o, ok := o.(*options); ok && l != nil {
			o.withLogger = l
		}
	}
}

// WithVocabulary provides an optional error vocabulary for the Apple handler.
// The default is provider.AppleVocabulary.
func WithVocabulary(v provider.Vocabulary) Option {
	return func(o interface{}) {
		if o, ok := o.(*options); ok {
			o.withVocabulary = &v
		}
	}
}

// WithSessionStore provides an optional store into which the Apple handler
// persists a successfully exchanged session.
func WithSessionStore(s session.Store) Option {
	return func(o interface{}) {
		if o, ok := o.(*options); ok {
			o.withStore = s
		}
	}
}

// WithState provides the state an AuthCode response must carry.  When it's
// not set, the response state isn't checked.
func WithState(state string) Option {
	return func(o interface{}) {
		if o, ok := o.(*options); ok {
			o.withState = state
		}
	}
}
