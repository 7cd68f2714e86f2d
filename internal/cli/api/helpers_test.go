package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestServer поднимает httptest-сервер c API, смонтированным под /rest.
func newTestServer(t *testing.T, mux *http.ServeMux) (*httptest.Server, *Client) {
	t.Helper()
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, New(ts.URL+"/rest", WithSession("sess-1"))
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode: %v", err)
	}
}

func requireSession(t *testing.T, r *http.Request) {
	t.Helper()
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value != "sess-1" {
		t.Errorf("%s %s: session cookie missing", r.Method, r.URL.Path)
	}
}
