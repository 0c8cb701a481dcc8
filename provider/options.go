// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package provider

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

// providerOptions is the set of available options for provider constructors
type providerOptions struct {
	withScopes       []string
	withResponseMode ResponseMode
	withVocabulary   *Vocabulary
}

func providerDefaults() providerOptions {
	return providerOptions{
		withResponseMode: FormPost,
	}
}

func getProviderOpts(opt ...Option) providerOptions {
	opts := providerDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// authURLOptions is the set of available options for AuthURL
type authURLOptions struct {
	withNonce string
}

func authURLDefaults() authURLOptions {
	return authURLOptions{}
}

func getAuthURLOpts(opt ...Option) authURLOptions {
	opts := authURLDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithScopes provides an optional list of scopes to request.  For Apple the
// scopes are only sent with the form_post response mode.
func WithScopes(scopes ...string) Option {
	return func(o interface{}) {
		if o, ok := o.(*providerOptions); ok {
			o.withScopes = scopes
		}
	}
}

// WithResponseMode provides an optional response mode for Apple.  The
// default is FormPost.
func WithResponseMode(m ResponseMode) Option {
	return func(o interface{}) {
		if o, ok := o.(*providerOptions); ok {
			o.withResponseMode = m
		}
	}
}

// WithVocabulary replaces the provider's error vocabulary.
func WithVocabulary(v Vocabulary) Option {
	return func(o interface{}) {
		if o, ok := o.(*providerOptions); ok {
			o.withVocabulary = &v
		}
	}
}

// WithNonce provides an optional nonce for AuthURL.  Only Apple sends it.
func WithNonce(nonce string) Option {
	return func(o interface{}) {
		if o, ok := o.(*authURLOptions); ok {
			o.withNonce = nonce
		}
	}
}
