// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package token

import "time"

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

// mockOptions is the set of available options for NewMock
type mockOptions struct {
	withClientID       string
	withSubject        string
	withEmail          string
	withIsPrivateEmail bool
	withNow            time.Time
}

func mockDefaults() mockOptions {
	return mockOptions{
		withClientID: DefaultMockClientID,
		withSubject:  DefaultMockSubject,
		withEmail:    DefaultMockEmail,
	}
}

func getMockOpts(opt ...Option) mockOptions {
	opts := mockDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithClientID provides an optional audience ("aud") for a mock token.  An
// empty id leaves the default in place.
func WithClientID(id string) Option {
	return func(o interface{}) {
		if o, ok := o.(*mockOptions); ok && id != "" {
			o.withClientID = id
		}
	}
}

// WithSubject provides an optional subject ("sub") for a mock token.  An
// empty subject leaves the default in place.
func WithSubject(sub string) Option {
	return func(o interface{}) {
		if o, ok := o.(*mockOptions); ok && sub != "" {
			o.withSubject = sub
		}
	}
}

// WithEmail provides an optional email for a mock token.  An empty email
// leaves the default in place.
func WithEmail(email string) Option {
	return func(o interface{}) {
		if o, ok := o.(*mockOptions); ok && email != "" {
			o.withEmail = email
		}
	}
}

// WithPrivateEmail sets the "is_private_email" claim of a mock token.
func WithPrivateEmail(private bool) Option {
	return func(o interface{}) {
		if o, ok := o.(*mockOptions); ok {
			o.withIsPrivateEmail = private
		}
	}
}

// WithNow provides an optional issued at time for a mock token.
func WithNow(now time.Time) Option {
	return func(o interface{}) {
		if o, ok := o.(*mockOptions); ok {
			o.withNow = now
		}
	}
}
