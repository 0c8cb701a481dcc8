// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"fmt"
	"net/url"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/hashicorp/go-uuid"
	"github.com/hashicorp/signin/config"
	"golang.org/x/oauth2"
)

// Name identifies an identity provider.
type Name string

const (
	Apple Name = "apple"
	Kakao Name = "kakao"
	Naver Name = "naver"
)

// ResponseMode is how Apple delivers its authentication response.
type ResponseMode string

const (
	// FormPost delivers the response as a POST to the redirect URI. It's the
	// only mode Apple allows when scopes are requested.
	FormPost ResponseMode = "form_post"

	// Fragment delivers the response in the redirect URI's fragment.
	Fragment ResponseMode = "fragment"

	// Query delivers the response in the redirect URI's query string.  Apple
	// only supports it for response_type=code.
	Query ResponseMode = "query"
)

// Endpoints of the supported providers.
var (
	AppleEndpoint = oauth2.Endpoint{
		AuthURL:  "https://appleid.apple.com/auth/authorize",
		TokenURL: "https://appleid.apple.com/auth/token",
	}
	KakaoEndpoint = oauth2.Endpoint{
		AuthURL:  "https://kauth.kakao.com/oauth/authorize",
		TokenURL: "https://kauth.kakao.com/oauth/token",
	}
	NaverEndpoint = oauth2.Endpoint{
		AuthURL:  "https://nid.naver.com/oauth2.0/authorize",
		TokenURL: "https://nid.naver.com/oauth2.0/token",
	}
)

// Provider builds login URLs for one identity provider and knows how to
// describe its errors.
type Provider struct {
	name         Name
	displayName  string
	oauth2Config oauth2.Config
	vocabulary   Vocabulary
	responseMode ResponseMode
	responseType string
}

// NewApple creates the Sign in with Apple provider.  Apple returns both a
// code and an id_token.  Supported options: WithResponseMode, WithScopes,
// WithVocabulary.  Unless WithScopes is used, the form_post mode requests
// the "name" and "email" scopes.
func NewApple(c config.ProviderConfig, opt ...Option) (*Provider, error) {
	const op = "provider.NewApple"
	opts := getProviderOpts(opt...)
	switch opts.withResponseMode {
	case FormPost:
		if opts.withScopes == nil {
			opts.withScopes = []string{"name", "email"}
		}
	case Fragment, Query:
		// Apple rejects scopes outside of form_post
		opts.withScopes = nil
	default:
		return nil, fmt.Errorf("%s: unsupported response mode %q: %w", op, opts.withResponseMode, ErrInvalidParameter)
	}
	p, err := newProvider(op, Apple, "Apple", AppleEndpoint, c, opts, AppleVocabulary)
	if err != nil {
		return nil, err
	}
	p.responseMode = opts.withResponseMode
	p.responseType = "code id_token"
	if p.responseMode == Query {
		p.responseType = "code"
	}
	return p, nil
}

// NewKakao creates the Kakao provider (authorization code only).  Supported
// options: WithScopes, WithVocabulary.
func NewKakao(c config.ProviderConfig, opt ...Option) (*Provider, error) {
	const op = "provider.NewKakao"
	opts := getProviderOpts(opt...)
	return newProvider(op, Kakao, "Kakao", KakaoEndpoint, c, opts, NewOAuthVocabulary("Kakao"))
}

// NewNaver creates the Naver provider (authorization code only).  Supported
// options: WithScopes, WithVocabulary.
func NewNaver(c config.ProviderConfig, opt ...Option) (*Provider, error) {
	const op = "provider.NewNaver"
	opts := getProviderOpts(opt...)
	return newProvider(op, Naver, "Naver", NaverEndpoint, c, opts, NewOAuthVocabulary("Naver"))
}

// New creates the named provider from its section of the config.
func New(n Name, c *config.Config, opt ...Option) (*Provider, error) {
	const op = "provider.New"
	if c == nil {
		return nil, fmt.Errorf("%s: config is nil: %w", op, ErrNilParameter)
	}
	var p *Provider
	var err error
	switch n {
	case Apple:
		p, err = NewApple(c.Apple, opt...)
	case Kakao:
		p, err = NewKakao(c.Kakao, opt...)
	case Naver:
		p, err = NewNaver(c.Naver, opt...)
	default:
		return nil, fmt.Errorf("%s: unknown provider %q: %w", op, n, ErrInvalidParameter)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func newProvider(op string, n Name, displayName string, e oauth2.Endpoint, c config.ProviderConfig, opts providerOptions, v Vocabulary) (*Provider, error) {
	if c.ClientID == "" {
		return nil, fmt.Errorf("%s: client id is empty: %w", op, ErrInvalidParameter)
	}
	if c.RedirectURI == "" {
		return nil, fmt.Errorf("%s: redirect URI is empty: %w", op, ErrInvalidParameter)
	}
	u, err := url.Parse(c.RedirectURI)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%s: redirect URI %q is not an http(s) URL: %w", op, c.RedirectURI, ErrInvalidParameter)
	}
	if opts.withVocabulary != nil {
		v = *opts.withVocabulary
	}
	return &Provider{
		name:        n,
		displayName: displayName,
		oauth2Config: oauth2.Config{
			ClientID:    c.ClientID,
			RedirectURL: c.RedirectURI,
			Endpoint:    e,
			Scopes:      opts.withScopes,
		},
		vocabulary:   v,
		responseType: "code",
	}, nil
}

// Name returns the provider's name.
func (p *Provider) Name() Name { return p.name }

// DisplayName returns the provider's name for use in user facing messages.
func (p *Provider) DisplayName() string { return p.displayName }

// RedirectURI returns the provider's configured redirect URI.
func (p *Provider) RedirectURI() string { return p.oauth2Config.RedirectURL }

// Vocabulary returns the provider's error vocabulary.
func (p *Provider) Vocabulary() Vocabulary { return p.vocabulary }

// ResponseMode returns Apple's response mode, or "" for other providers.
func (p *Provider) ResponseMode() ResponseMode { return p.responseMode }

// AuthURL returns the URL which starts a login with the provider.  An empty
// state is replaced by a random one.  Supported options: WithNonce.
func (p *Provider) AuthURL(state string, opt ...Option) (string, error) {
	const op = "Provider.AuthURL"
	if p == nil {
		return "", fmt.Errorf("%s: provider is nil: %w", op, ErrNilParameter)
	}
	opts := getAuthURLOpts(opt...)
	if state == "" {
		var err error
		state, err = NewState()
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
	}
	var authOpts []oauth2.AuthCodeOption
	if p.responseType != "code" {
		authOpts = append(authOpts, oauth2.SetAuthURLParam("response_type", p.responseType))
	}
	if p.responseMode != "" {
		authOpts = append(authOpts, oauth2.SetAuthURLParam("response_mode", string(p.responseMode)))
	}
	if opts.withNonce != "" && p.name == Apple {
		authOpts = append(authOpts, oidc.Nonce(opts.withNonce))
	}
	return p.oauth2Config.AuthCodeURL(state, authOpts...), nil
}

// NewState generates a random state suitable for an authorization request.
func NewState() (string, error) {
	const op = "provider.NewState"
	id, err := uuid.GenerateUUID()
	if err != nil {
		return "", fmt.Errorf("%s: unable to generate state: %s: %w", op, err, ErrIDGeneratorFailed)
	}
	return "st_" + id, nil
}
