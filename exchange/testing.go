// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package exchange

import (
	"bytes"
	"encoding/json"
	"encoding/pem"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/signin/config"
	"github.com/stretchr/testify/require"
)

// TestBackend is a local https server which plays the part of the session
// issuing backend.  It records every exchange request and answers with a
// configurable status code and body.
type TestBackend struct {
	httpServer *httptest.Server
	caCert     string

	mu         sync.Mutex
	statusCode int
	body       []byte
	requests   []TestRequest

	t *testing.T
}

// TestRequest is an exchange request received by a TestBackend.
type TestRequest struct {
	Method      string
	Path        string
	ContentType string
	Body        map[string]interface{}
}

// DefaultTestSession is the session a TestBackend issues until told
// otherwise.
var DefaultTestSession = SessionResult{
	AccessToken:  "test-access-token",
	RefreshToken: "test-refresh-token",
	UserID:       "test-user-id",
	IsNewUser:    true,
}

// StartTestBackend creates a disposable TestBackend which is stopped when the
// test completes.
func StartTestBackend(t *testing.T) *TestBackend {
	t.Helper()
	require := require.New(t)

	b := &TestBackend{t: t}
	b.SetSession(DefaultTestSession)

	b.httpServer = httptest.NewUnstartedServer(b)
	b.httpServer.Config.ErrorLog = log.New(ioutil.Discard, "", 0)
	b.httpServer.StartTLS()
	t.Cleanup(b.httpServer.Close)

	var buf bytes.Buffer
	err := pem.Encode(&buf, &pem.Block{Type: "CERTIFICATE", Bytes: b.httpServer.Certificate().Raw})
	require.NoError(err)
	b.caCert = buf.String()
	return b
}

// Stop stops the running TestBackend.
func (b *TestBackend) Stop() {
	b.httpServer.Close()
}

// Addr returns the base URL of the TestBackend.
func (b *TestBackend) Addr() string {
	return b.httpServer.URL
}

// CACert returns the PEM encoded CA cert of the TestBackend.
func (b *TestBackend) CACert() string {
	return b.caCert
}

// HTTPClient returns an http client which trusts the TestBackend.
func (b *TestBackend) HTTPClient() *http.Client {
	return b.httpServer.Client()
}

// Config returns a valid config pointed at the TestBackend.
func (b *TestBackend) Config() *config.Config {
	c := config.Default()
	c.BackendURL = b.Addr()
	c.BackendCA = b.CACert()
	c.HTTPTimeout = 10 * time.Second
	return c
}

// SetResponse configures the status code and body of every following
// response.  A []byte or string body is sent as is; anything else is marshaled
// as JSON.
func (b *TestBackend) SetResponse(statusCode int, body interface{}) {
	b.t.Helper()
	var raw []byte
	switch v := body.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		var err error
		raw, err = json.Marshal(v)
		require.NoError(b.t, err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.statusCode = statusCode
	b.body = raw
}

// SetSession configures a successful envelope carrying s.
func (b *TestBackend) SetSession(s SessionResult) {
	b.t.Helper()
	b.SetResponse(http.StatusOK, Envelope{
		Status:  http.StatusOK,
		Message: "Apple Sign In successful!",
		Data:    &s,
	})
}

// Requests returns the exchange requests received so far.
func (b *TestBackend) Requests() []TestRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := make([]TestRequest, len(b.requests))
	copy(cp, b.requests)
	return cp
}

// ServeHTTP implements the test backend.
func (b *TestBackend) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if req.URL.Path != ApplePath {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(Envelope{Status: http.StatusNotFound, Message: "not found"})
		return
	}
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		_ = json.NewEncoder(w).Encode(Envelope{Status: http.StatusMethodNotAllowed, Message: "method not allowed"})
		return
	}
	var body map[string]interface{}
	_ = json.NewDecoder(req.Body).Decode(&body)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, TestRequest{
		Method:      req.Method,
		Path:        req.URL.Path,
		ContentType: req.Header.Get("Content-Type"),
		Body:        body,
	})
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(b.body)
}
