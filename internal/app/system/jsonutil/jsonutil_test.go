package jsonutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSON(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		data       any
		wantStatus int
		wantBody   string
	}{
		{
			name:       "200 OK with data",
			status:     http.StatusOK,
			data:       map[string]int{"selectedRange": 30},
			wantStatus: http.StatusOK,
			wantBody:   `{"selectedRange":30}`,
		},
		{
			name:       "nil data",
			status:     http.StatusOK,
			data:       nil,
			wantStatus: http.StatusOK,
			wantBody:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			JSON(rec, tt.status, tt.data)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
			if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
				t.Errorf("Cache-Control = %q, want no-store", cc)
			}
			body := strings.TrimSpace(rec.Body.String())
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name       string
		write      func(http.ResponseWriter)
		wantStatus int
		wantError  string
	}{
		{"bad request", func(w http.ResponseWriter) { BadRequest(w, "range must be a number") }, http.StatusBadRequest, "range must be a number"},
		{"not found", func(w http.ResponseWriter) { NotFound(w, "no such thing") }, http.StatusNotFound, "no such thing"},
		{"internal", func(w http.ResponseWriter) { InternalError(w, "internal error") }, http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body ErrorBody
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error != tt.wantError {
				t.Errorf("error = %q, want %q", body.Error, tt.wantError)
			}
		})
	}
}

func TestErrorWithDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorWithDetails(rec, http.StatusBadRequest, "range_not_supported", "not offered", map[string]int{"selectedRange": 45})

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["kind"] != "range_not_supported" {
		t.Errorf("kind = %v", body["kind"])
	}
	details, ok := body["details"].(map[string]any)
	if !ok || details["selectedRange"] != float64(45) {
		t.Errorf("details = %v", body["details"])
	}
}
