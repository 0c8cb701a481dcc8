// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/signin/config"
	"github.com/hashicorp/signin/token"
)

const (
	// ApplePath is the backend endpoint which exchanges an Apple id_token for
	// a session.
	ApplePath = "/open-api/v1/auth/apple"

	// ReasonUnexpectedResponse is the BackendError reason used when a
	// successful http response doesn't carry a session.
	ReasonUnexpectedResponse = "Unexpected response structure"

	// debugPrefixLen is how much of an id_token is logged in debug mode
	debugPrefixLen = 20

	maxResponseBytes = 1 << 20
)

// Client exchanges provider id_tokens for backend sessions.  It never stores
// the session and never retries: a failed exchange is reported once.
type Client struct {
	endpoint string
	client   *http.Client
	logger   hclog.Logger
	debug    bool
}

// exchangeRequest is the only request shape the backend accepts.
type exchangeRequest struct {
	DeviceID    string `json:"deviceId"`
	Platform    string `json:"platform"`
	PackageName string `json:"packageName"`
	IDToken     string `json:"idToken"`
}

// NewClient creates a Client for the backend in c.  Supported options:
// WithLogger, WithHTTPClient.
func NewClient(c *config.Config, opt ...Option) (*Client, error) {
	const op = "exchange.NewClient"
	if c == nil {
		return nil, fmt.Errorf("%s: config is nil: %w", op, ErrNilParameter)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: invalid config: %w", op, err)
	}
	opts := getClientOpts(opt...)

	httpClient := opts.withHTTPClient
	if httpClient == nil {
		var err error
		httpClient, err = NewHTTPClient(c.BackendCA, c.HTTPTimeout)
		if err != nil {
			return nil, fmt.Errorf("%s: unable to create http client: %w", op, err)
		}
	}
	logger := opts.withLogger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Client{
		endpoint: strings.TrimRight(c.BackendURL, "/") + ApplePath,
		client:   httpClient,
		logger:   logger.Named("exchange"),
		debug:    c.Debug,
	}, nil
}

// Exchange sends the id_token and device context to the backend and returns
// the session it issued.  The session is returned exactly as the backend
// sent it.
//
// Any failure talking to the backend, or a response without a session, is
// returned as a *BackendError.  Cancelling ctx abandons the request.
func (c *Client) Exchange(ctx context.Context, idToken token.IDToken, d DeviceContext) (*SessionResult, error) {
	const op = "exchange.(Client).Exchange"
	if idToken == "" {
		return nil, fmt.Errorf("%s: id_token is empty: %w", op, ErrInvalidParameter)
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	body, err := json.Marshal(exchangeRequest{
		DeviceID:    d.DeviceID,
		Platform:    string(d.Platform),
		PackageName: d.PackageName,
		IDToken:     string(idToken),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: unable to marshal request: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: unable to create request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.debug {
		c.logger.Debug("sending id_token to backend",
			"endpoint", c.endpoint,
			"device_id", d.DeviceID,
			"platform", d.Platform,
			"package_name", d.PackageName,
			"id_token", idToken.Prefix(debugPrefixLen))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &BackendError{Reason: fmt.Sprintf("unable to reach backend: %s", err), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &BackendError{StatusCode: resp.StatusCode, Reason: fmt.Sprintf("unable to read backend response: %s", err), Err: err}
	}
	var env Envelope
	decodeErr := json.Unmarshal(raw, &env)
	c.logger.Debug("backend response", "status_code", resp.StatusCode, "envelope_status", env.Status)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// the message is taken even when data doesn't decode
		var head struct {
			Message string `json:"message"`
		}
		reason := transportStatus(resp)
		if err := json.Unmarshal(raw, &head); err == nil && head.Message != "" {
			reason = head.Message
		}
		return nil, &BackendError{StatusCode: resp.StatusCode, Reason: reason, Err: decodeErr}
	}
	if decodeErr != nil {
		return nil, &BackendError{StatusCode: resp.StatusCode, Reason: ReasonUnexpectedResponse, Err: decodeErr}
	}
	if !env.Success() {
		reason := env.Message
		if reason == "" {
			reason = ReasonUnexpectedResponse
		}
		return nil, &BackendError{StatusCode: resp.StatusCode, Reason: reason}
	}
	return env.Data, nil
}

func transportStatus(resp *http.Response) string {
	if resp.Status != "" {
		return resp.Status
	}
	return fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}
