// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/go-multierror"
)

const (
	// DefaultBackendURL is used when SIGNIN_BACKEND_API_URL is not set.
	DefaultBackendURL = "http://localhost:8080"

	// DefaultOAuthState is the state sent with Naver authorization requests
	// when no other state is provided.
	DefaultOAuthState = "RANDOM_STATE"

	// DefaultHTTPTimeout bounds a single backend exchange.
	DefaultHTTPTimeout = 30 * time.Second
)

// Config is the configuration record for sign-in.  It is built once at
// startup (see Load or Default) and handed to each component's constructor;
// no component reads the environment on its own.
type Config struct {
	// BackendURL is the base URL of the session issuing backend.
	BackendURL string

	// BackendCA is an optional PEM encoded CA cert used when talking to the
	// backend over TLS.
	BackendCA string

	// HTTPTimeout is the timeout for a single backend request.
	HTTPTimeout time.Duration

	Naver ProviderConfig
	Kakao ProviderConfig
	Apple ProviderConfig

	// OAuthState is the opaque state parameter used for providers that
	// require one.  An empty value means a random state is generated per
	// login.
	OAuthState string

	// Device identifies the calling surface to the backend.
	Device Device

	// Debug enables logging of redacted token prefixes.
	Debug bool
}

// ProviderConfig holds the relying party settings for one identity provider.
type ProviderConfig struct {
	ClientID    string
	RedirectURI string
}

// Device is the raw device context sent along with every exchange.
type Device struct {
	ID          string
	Platform    string
	PackageName string
}

type rawEnv struct {
	BackendURL       string        `env:"SIGNIN_BACKEND_API_URL" envDefault:"http://localhost:8080"`
	BackendCA        string        `env:"SIGNIN_BACKEND_CA_PEM"`
	HTTPTimeout      time.Duration `env:"SIGNIN_HTTP_TIMEOUT" envDefault:"30s"`
	NaverClientID    string        `env:"SIGNIN_NAVER_CLIENT_ID"`
	NaverRedirectURI string        `env:"SIGNIN_NAVER_REDIRECT_URI" envDefault:"https://localhost.com/callback"`
	KakaoClientID    string        `env:"SIGNIN_KAKAO_CLIENT_ID"`
	KakaoRedirectURI string        `env:"SIGNIN_KAKAO_REDIRECT_URI" envDefault:"https://localhost.com/kakao/callback"`
	AppleClientID    string        `env:"SIGNIN_APPLE_CLIENT_ID"`
	AppleRedirectURI string        `env:"SIGNIN_APPLE_REDIRECT_URI" envDefault:"https://localhost.com/apple/callback"`
	OAuthState       string        `env:"SIGNIN_OAUTH_STATE" envDefault:"RANDOM_STATE"`
	DeviceID         string        `env:"SIGNIN_DEVICE_ID" envDefault:"web-browser"`
	Platform         string        `env:"SIGNIN_PLATFORM" envDefault:"IOS"`
	PackageName      string        `env:"SIGNIN_PACKAGE_NAME" envDefault:"com.photocard.master"`
	Debug            bool          `env:"SIGNIN_DEBUG" envDefault:"false"`
}

// Default returns the configuration used when no environment variables are
// set.
func Default() *Config {
	return &Config{
		BackendURL:  DefaultBackendURL,
		HTTPTimeout: DefaultHTTPTimeout,
		Naver:       ProviderConfig{RedirectURI: "https://localhost.com/callback"},
		Kakao:       ProviderConfig{RedirectURI: "https://localhost.com/kakao/callback"},
		Apple:       ProviderConfig{RedirectURI: "https://localhost.com/apple/callback"},
		OAuthState:  DefaultOAuthState,
		Device: Device{
			ID:          "web-browser",
			Platform:    "IOS",
			PackageName: "com.photocard.master",
		},
	}
}

// Load reads the configuration from the process environment and validates
// it.
func Load() (*Config, error) {
	const op = "config.Load"
	var raw rawEnv
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("%s: parse env: %w", op, err)
	}
	return fromRaw(op, raw)
}

// LoadFrom reads the configuration from the provided environment instead of
// the process environment.
func LoadFrom(environment map[string]string) (*Config, error) {
	const op = "config.LoadFrom"
	if environment == nil {
		environment = map[string]string{}
	}
	var raw rawEnv
	if err := env.ParseWithOptions(&raw, env.Options{Environment: environment}); err != nil {
		return nil, fmt.Errorf("%s: parse env: %w", op, err)
	}
	return fromRaw(op, raw)
}

func fromRaw(op string, raw rawEnv) (*Config, error) {
	c := &Config{
		BackendURL:  raw.BackendURL,
		BackendCA:   raw.BackendCA,
		HTTPTimeout: raw.HTTPTimeout,
		Naver:       ProviderConfig{ClientID: raw.NaverClientID, RedirectURI: raw.NaverRedirectURI},
		Kakao:       ProviderConfig{ClientID: raw.KakaoClientID, RedirectURI: raw.KakaoRedirectURI},
		Apple:       ProviderConfig{ClientID: raw.AppleClientID, RedirectURI: raw.AppleRedirectURI},
		OAuthState:  raw.OAuthState,
		Device: Device{
			ID:          raw.DeviceID,
			Platform:    raw.Platform,
			PackageName: raw.PackageName,
		},
		Debug: raw.Debug,
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: invalid config: %w", op, err)
	}
	return c, nil
}

// Validate the configuration.  All problems found are reported together.
// Provider client ids are not required here; a provider without a client id
// simply can't build a login URL.
func (c *Config) Validate() error {
	const op = "config.(Config).Validate"
	if c == nil {
		return fmt.Errorf("%s: config is nil: %w", op, ErrNilParameter)
	}
	var retErr *multierror.Error
	switch {
	case c.BackendURL == "":
		retErr = multierror.Append(retErr, fmt.Errorf("backend URL is empty: %w", ErrInvalidParameter))
	default:
		u, err := url.Parse(c.BackendURL)
		switch {
		case err != nil:
			retErr = multierror.Append(retErr, fmt.Errorf("backend URL %q is invalid: %s: %w", c.BackendURL, err, ErrInvalidParameter))
		case u.Scheme != "http" && u.Scheme != "https":
			retErr = multierror.Append(retErr, fmt.Errorf("backend URL %q scheme is not http or https: %w", c.BackendURL, ErrInvalidParameter))
		case u.Host == "":
			retErr = multierror.Append(retErr, fmt.Errorf("backend URL %q has no host: %w", c.BackendURL, ErrInvalidParameter))
		}
	}
	if c.HTTPTimeout <= 0 {
		retErr = multierror.Append(retErr, fmt.Errorf("http timeout must be greater than zero: %w", ErrInvalidParameter))
	}
	if c.Device.ID == "" {
		retErr = multierror.Append(retErr, fmt.Errorf("device id is empty: %w", ErrInvalidParameter))
	}
	if c.Device.Platform == "" {
		retErr = multierror.Append(retErr, fmt.Errorf("platform is empty: %w", ErrInvalidParameter))
	}
	if c.Device.PackageName == "" {
		retErr = multierror.Append(retErr, fmt.Errorf("package name is empty: %w", ErrInvalidParameter))
	}
	if err := retErr.ErrorOrNil(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
