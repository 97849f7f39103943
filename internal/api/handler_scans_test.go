package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitScan(t *testing.T) {
	api := newTestAPI(t)
	admin := api.adminToken(t)
	bob := api.userToken(t, "bob")

	api.createAsset(t, admin, map[string]any{"asset_tag": "A100", "name": "Dell Latitude"})

	t.Run("requires authentication", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/scans", "", map[string]any{"asset_tag": "A100"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing asset_tag", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/scans", bob, map[string]any{"notes": "no tag"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown tag records nothing", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/scans", bob, map[string]any{"asset_tag": "Z999"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "asset not found", decode(t, w)["error"])

		w = api.do(t, http.MethodGet, "/api/scans/recent", bob, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
	})

	t.Run("known tag appends a scan", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/scans", bob, map[string]any{
			"asset_tag": "A100", "notes": "spotted in the hallway",
		})
		require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

		body := decode(t, w)
		assert.NotZero(t, body["id"])
		assert.NotZero(t, body["asset_id"])
	})

	// No server-side dedup: every request is its own audit event.
	t.Run("identical submissions are distinct events", func(t *testing.T) {
		ids := map[float64]bool{}
		for i := 0; i < 3; i++ {
			w := api.do(t, http.MethodPost, "/api/scans", bob, map[string]any{"asset_tag": "A100"})
			require.Equal(t, http.StatusCreated, w.Code)
			ids[decode(t, w)["id"].(float64)] = true
		}
		assert.Len(t, ids, 3)
	})

	t.Run("recent feed is enriched and newest first", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/scans/recent", bob, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var rows []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
		require.NotEmpty(t, rows)
		assert.Equal(t, "A100", rows[0]["asset_tag"])
		assert.Equal(t, "bob", rows[0]["username"])

		first := rows[0]["id"].(float64)
		last := rows[len(rows)-1]["id"].(float64)
		assert.Greater(t, first, last)
	})

	t.Run("scan is attributed to the submitting identity", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/scans", admin, map[string]any{"asset_tag": "A100"})
		require.Equal(t, http.StatusCreated, w.Code)

		w = api.do(t, http.MethodGet, "/api/scans/recent", admin, nil)
		var rows []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
		assert.Equal(t, "admin", rows[0]["username"])
	})
}

func TestScanFeedWebsocket(t *testing.T) {
	api := newTestAPI(t)
	admin := api.adminToken(t)
	bob := api.userToken(t, "bob")
	api.createAsset(t, admin, map[string]any{"asset_tag": "A100", "name": "Dell Latitude"})

	server := httptest.NewServer(api.router)
	defer server.Close()
	wsBase := "ws" + strings.TrimPrefix(server.URL, "http")

	t.Run("rejects a missing token", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(wsBase+"/ws/scans", nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("streams accepted scans", func(t *testing.T) {
		conn, _, err := websocket.DefaultDialer.Dial(wsBase+"/ws/scans?token="+bob, nil)
		require.NoError(t, err)
		defer conn.Close()

		require.Eventually(t, func() bool { return api.hub.Count() == 1 }, time.Second, 5*time.Millisecond)

		w := api.do(t, http.MethodPost, "/api/scans", bob, map[string]any{"asset_tag": "A100"})
		require.Equal(t, http.StatusCreated, w.Code)

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var event map[string]any
		require.NoError(t, conn.ReadJSON(&event))
		assert.Equal(t, "A100", event["asset_tag"])
		assert.Equal(t, "bob", event["username"])
		assert.NotZero(t, event["scan_id"])
	})
}

func TestHealthEndpoint(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}
