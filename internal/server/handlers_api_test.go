package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestHandleNotify_DeliversToSubscribedConnections(t *testing.T) {
	ts, _ := newTestServer(t, testConfig())

	receiver := dialWS(t, ts)
	receiver.subscribe(t, "42")

	other := dialWS(t, ts)
	other.subscribe(t, "7")

	resp, body := postJSON(t, ts.URL+"/api/notifications",
		`{"userId":"42","notification":{"type":"approval","title":"Approved","message":"Your leave was approved","link":"/leaves/15"}}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["delivered"])

	got := receiver.readNotification(t)
	assert.Equal(t, "approval", got["type"])
	assert.Equal(t, "Approved", got["title"])
	assert.Equal(t, "/leaves/15", got["link"])
}

func TestHandleNotify_NoSubscribersReturnsZero(t *testing.T) {
	ts, _ := newTestServer(t, testConfig())

	resp, body := postJSON(t, ts.URL+"/api/notifications",
		`{"userId":"42","notification":{"type":"approval","title":"Approved","message":"Your leave was approved"}}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["delivered"])
}

func TestHandleNotify_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"userId":`},
		{"missing userId", `{"notification":{"type":"approval","title":"t","message":"m"}}`},
		{"missing category", `{"userId":"42","notification":{"title":"t","message":"m"}}`},
		{"missing title", `{"userId":"42","notification":{"type":"approval","message":"m"}}`},
		{"missing message", `{"userId":"42","notification":{"type":"approval","title":"t"}}`},
	}

	ts, _ := newTestServer(t, testConfig())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := postJSON(t, ts.URL+"/api/notifications", tt.body)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			errBody, ok := body["error"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "validation", errBody["type"])
		})
	}
}

func TestHandleAnnounce_ReachesAllConnections(t *testing.T) {
	ts, _ := newTestServer(t, testConfig())

	subscribed := dialWS(t, ts)
	subscribed.subscribe(t, "42")

	unsubscribed := dialWS(t, ts)

	resp, body := postJSON(t, ts.URL+"/api/announcements",
		`{"notification":{"type":"announcement","title":"Maintenance","message":"Back at noon"}}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["delivered"])

	for _, client := range []*wsClient{subscribed, unsubscribed} {
		got := client.readNotification(t)
		assert.Equal(t, "Maintenance", got["title"])
	}
}

func TestHandleAnnounce_Validation(t *testing.T) {
	ts, _ := newTestServer(t, testConfig())

	resp, body := postJSON(t, ts.URL+"/api/announcements",
		`{"notification":{"type":"announcement","title":"no message"}}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "validation", errBody["type"])
}
