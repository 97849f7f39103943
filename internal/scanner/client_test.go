package scanner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientLoginInstallsToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "bob", body["username"])
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"token": "issued-token",
				"user":  map[string]any{"id": 3, "username": "bob", "role": "user"},
			})
		case "/api/scans":
			gotAuth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 9, "asset_id": 4})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})

	result, err := client.Login(context.Background(), "bob", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "issued-token", result.Token)
	assert.Equal(t, "bob", result.User.Username)

	res, err := client.SubmitScan(context.Background(), ScanRequest{AssetTag: "A100"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), res.ID)
	assert.Equal(t, int64(4), res.AssetID)
	assert.Equal(t, "Bearer issued-token", gotAuth, "login must install the token for later requests")
}

func TestClientSubmitScanErrors(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"unknown tag", http.StatusNotFound, ErrAssetNotFound},
		{"expired token", http.StatusUnauthorized, ErrUnauthenticated},
		{"server failure", http.StatusInternalServerError, ErrScanFailed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			client := NewClient(ClientConfig{BaseURL: server.URL, Token: "t"})
			_, err := client.SubmitScan(context.Background(), ScanRequest{AssetTag: "A100"})
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	t.Run("unreachable server", func(t *testing.T) {
		client := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:0"})
		_, err := client.SubmitScan(context.Background(), ScanRequest{AssetTag: "A100"})
		assert.ErrorIs(t, err, ErrScanFailed)
	})
}

func TestClientReconfigure(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "Bearer second", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 1, "asset_id": 1})
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: "http://old.invalid", Token: "first"})

	// Swapping base URL and token is one atomic replacement.
	client.Configure(ClientConfig{BaseURL: server.URL, Token: "first"})
	client.SetToken("second")

	_, err := client.SubmitScan(context.Background(), ScanRequest{AssetTag: "A100"})
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
}
