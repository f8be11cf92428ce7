package httputil

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, 201, map[string]int{"count": 4})

	if w.Code != 201 {
		t.Errorf("status = %d, want 201", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body map[string]int
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body["count"] != 4 {
		t.Errorf("count = %d, want 4", body["count"])
	}
}

func TestWriteJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSONError(w, 400, "invalid timeframe")

	if w.Code != 400 {
		t.Errorf("status = %d, want 400", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body["error"] != "invalid timeframe" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestDecodeJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/upload/data", strings.NewReader(`{"type":"speed"}`))
	var dst struct {
		Type string `json:"type"`
	}
	if err := DecodeJSON(req, &dst); err != nil {
		t.Fatalf("DecodeJSON failed: %v", err)
	}
	if dst.Type != "speed" {
		t.Errorf("Type = %q", dst.Type)
	}
}

func TestDecodeJSONRejectsTrailingData(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"a":1} {"b":2}`))
	var dst map[string]int
	if err := DecodeJSON(req, &dst); err == nil {
		t.Error("expected error for trailing data")
	}
}

func TestStatusHelpers(t *testing.T) {
	tests := []struct {
		name string
		call func(w *httptest.ResponseRecorder)
		want int
	}{
		{"method not allowed", func(w *httptest.ResponseRecorder) { MethodNotAllowed(w) }, 405},
		{"bad request", func(w *httptest.ResponseRecorder) { BadRequest(w, "nope") }, 400},
		{"internal error", func(w *httptest.ResponseRecorder) { InternalServerError(w, "boom") }, 500},
		{"not found", func(w *httptest.ResponseRecorder) { NotFound(w, "gone") }, 404},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.call(w)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
