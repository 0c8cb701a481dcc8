// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package exchange

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionResult_UnmarshalJSON(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		in      string
		want    SessionResult
		wantErr bool
	}{
		{
			name: "bool-true",
			in:   `{"accessToken":"a","refreshToken":"b","userId":"u1","isNewUser":true}`,
			want: SessionResult{AccessToken: "a", RefreshToken: "b", UserID: "u1", IsNewUser: true},
		},
		{
			name: "text-true",
			in:   `{"userId":"u1","isNewUser":"true"}`,
			want: SessionResult{UserID: "u1", IsNewUser: true},
		},
		{
			name: "text-false",
			in:   `{"isNewUser":"false"}`,
			want: SessionResult{},
		},
		{
			name: "null-and-missing",
			in:   `{"userId":null}`,
			want: SessionResult{},
		},
		{
			name: "numeric-user-id",
			in:   `{"userId":1234567890123}`,
			want: SessionResult{UserID: "1234567890123"},
		},
		{
			name: "numeric-new-user",
			in:   `{"userId":"u1","isNewUser":1}`,
			want: SessionResult{UserID: "u1", IsNewUser: true},
		},
		{
			name: "numeric-existing-user",
			in:   `{"isNewUser":0}`,
			want: SessionResult{},
		},
		{name: "other-number-new-user", in: `{"isNewUser":2}`, wantErr: true},
		{name: "bad-new-user", in: `{"isNewUser":"yes please"}`, wantErr: true},
		{name: "object-new-user", in: `{"isNewUser":{}}`, wantErr: true},
		{name: "object-user-id", in: `{"userId":{}}`, wantErr: true},
		{name: "not-an-object", in: `[]`, wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert, require := assert.New(t), require.New(t)
			var got SessionResult
			err := json.Unmarshal([]byte(tt.in), &got)
			if tt.wantErr {
				require.Error(err)
				return
			}
			require.NoError(err)
			assert.Equal(tt.want, got)
		})
	}
}

func TestEnvelope_Success(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		e    *Envelope
		want bool
	}{
		{"nil", nil, false},
		{"ok", &Envelope{Status: 200, Data: &SessionResult{}}, true},
		{"no-data", &Envelope{Status: 200}, false},
		{"wrong-status", &Envelope{Status: 201, Data: &SessionResult{}}, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.e.Success())
		})
	}
}
