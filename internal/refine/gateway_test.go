package refine

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newToolGateway answers the first request with a gitDiff tool call and the
// second with text, failing the test if the diff was not fed back.
func newToolGateway(t *testing.T) *httptest.Server {
	t.Helper()

	step := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		step++
		w.Header().Set("Content-Type", "application/json")
		if step == 1 {
			_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"","tool_calls":[{"id":"call_1","type":"function","function":{"name":"gitDiff","arguments":"{}"}}]},"finish_reason":"tool_calls"}]}`))
			return
		}

		last := req.Messages[len(req.Messages)-1]
		if last.Role != "tool" || !strings.Contains(last.Content, "diff --git") {
			t.Errorf("expected diff tool result, got %+v", last)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Update main entry point"},"finish_reason":"stop"}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}
