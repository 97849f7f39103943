package scanner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
)

// Client-visible submission outcomes.
var (
	// ErrAssetNotFound: the tag resolves to nothing; no scan was recorded.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrUnauthenticated: the credential is missing, expired or rejected.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrScanFailed: transport or server failure; not retried automatically.
	ErrScanFailed = errors.New("scan submission failed")
)

// ClientConfig is everything a request needs. Reconfiguration builds a new
// one and swaps it in whole.
type ClientConfig struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// clientState is the immutable snapshot requests read.
type clientState struct {
	baseURL string
	token   string
	http    *http.Client
}

// Client talks to the asset tracker API. The backing configuration is held
// behind an atomic pointer: Configure replaces it in one step, so an
// API-base-URL or token switch never leaves a request observing a half
// rebuilt client.
type Client struct {
	state atomic.Pointer[clientState]
}

// NewClient creates a Client from the given configuration.
func NewClient(cfg ClientConfig) *Client {
	c := &Client{}
	c.Configure(cfg)
	return c
}

// Configure atomically replaces the client's base URL, credential and HTTP
// transport. In-flight requests finish against the snapshot they started
// with.
func (c *Client) Configure(cfg ClientConfig) {
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c.state.Store(&clientState{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    httpClient,
	})
}

// SetToken swaps only the credential, keeping the rest of the snapshot.
func (c *Client) SetToken(token string) {
	st := c.state.Load()
	c.state.Store(&clientState{baseURL: st.baseURL, token: token, http: st.http})
}

// ScanRequest is the SubmitScan input.
type ScanRequest struct {
	AssetTag   string `json:"asset_tag"`
	ScanType   string `json:"scan_type,omitempty"`
	LocationID *int64 `json:"location_id,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// ScanResult is the SubmitScan output.
type ScanResult struct {
	ID      int64 `json:"id"`
	AssetID int64 `json:"asset_id"`
}

// LoginResult mirrors the server's login response.
type LoginResult struct {
	Token string `json:"token"`
	User  struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	} `json:"user"`
}

// Login authenticates and installs the returned token on the client.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	var out LoginResult
	if err := c.post(ctx, "/api/auth/login", body, http.StatusOK, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// SubmitScan appends one audit event for the tag.
func (c *Client) SubmitScan(ctx context.Context, req ScanRequest) (*ScanResult, error) {
	var out ScanResult
	if err := c.post(ctx, "/api/scans", req, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body any, wantStatus int, out any) error {
	st := c.state.Load()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScanFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, st.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScanFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if st.token != "" {
		req.Header.Set("Authorization", "Bearer "+st.token)
	}

	resp, err := st.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScanFailed, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case wantStatus:
		return json.NewDecoder(resp.Body).Decode(out)
	case http.StatusNotFound:
		return ErrAssetNotFound
	case http.StatusUnauthorized:
		return ErrUnauthenticated
	default:
		return fmt.Errorf("%w: unexpected status %d", ErrScanFailed, resp.StatusCode)
	}
}
