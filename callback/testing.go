// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package callback

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hashicorp/signin/exchange"
)

// testSuccessFn is a test SuccessResponseFunc which echoes the session as
// JSON.
func testSuccessFn(state string, s *exchange.SessionResult, w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(s)
}

// testCodeFn is a test CodeResponseFunc
func testCodeFn(state, code string, w http.ResponseWriter, req *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(code))
}

// testFailFn is a test ErrorResponseFunc
func testFailFn(state string, r *AuthenErrorResponse, e error, w http.ResponseWriter, req *http.Request) {
	if e != nil {
		w.WriteHeader(http.StatusInternalServerError)
		j, _ := json.Marshal(&AuthenErrorResponse{
			Error:       "internal-callback-error",
			Description: e.Error(),
		})
		_, _ = w.Write(j)
		return
	}
	if r != nil {
		w.WriteHeader(http.StatusUnauthorized)
		j, _ := json.Marshal(r)
		_, _ = w.Write(j)
		return
	}
	w.WriteHeader(http.StatusInternalServerError)
	j, _ := json.Marshal(&AuthenErrorResponse{
		Error: "unknown-callback-error",
	})
	_, _ = w.Write(j)
}

// testFailingRelay is a RelayReader which always fails.
type testFailingRelay struct{}

func (testFailingRelay) Read(context.Context) (*Snapshot, error) {
	return nil, errors.New("relay is unavailable")
}

// testFailingStore is a session store which fails every call.
type testFailingStore struct{}

func (testFailingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("store is unavailable")
}

func (testFailingStore) Set(context.Context, string, string) error {
	return errors.New("store is unavailable")
}

func (testFailingStore) Delete(context.Context, string) error {
	return errors.New("store is unavailable")
}
