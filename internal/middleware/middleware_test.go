package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/plantdoc/PlantRAG/internal/api"
)

func TestWrap_RateLimitedRequestGetsOneErrorBody(t *testing.T) {
	handlerCalls := 0
	wrapped := Wrap(func(w http.ResponseWriter, r *http.Request) {
		handlerCalls++
		w.WriteHeader(http.StatusOK)
	})

	var limited *httptest.ResponseRecorder
	sent := 0
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.9.8.7:4321"
		rec := httptest.NewRecorder()
		wrapped(rec, req)
		sent++
		if rec.Code == http.StatusTooManyRequests {
			limited = rec
			break
		}
	}
	if limited == nil {
		t.Fatal("expected the limiter to reject at least one of 10 immediate requests")
	}
	if handlerCalls != sent-1 {
		t.Errorf("handler ran %d times for %d requests, the rejected one must not reach it", handlerCalls, sent)
	}

	body := limited.Body.Bytes()
	//a single JSON document; a duplicated error body would not parse as one value
	if !json.Valid(body) {
		t.Fatalf("rejected request body is not a single JSON document: %s", body)
	}
	var resp api.ErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error == "" {
		t.Error("expected an error message in the body")
	}
}
