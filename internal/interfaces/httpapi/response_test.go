package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/pokeworks/pokedex-backend/internal/usecase"
)

func TestWriteJSON_SetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected application/json, got %q", got)
	}
}

func TestWriteError_ValidationEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: sort is invalid", usecase.ErrInvalidInput))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}

	var body errorEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if body.Error != "Validation Error" {
		t.Fatalf("expected Validation Error title, got %q", body.Error)
	}
	if body.ErrorMessage == "" {
		t.Fatalf("expected non-empty error_message")
	}
}

func TestMapError_StatusTable(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantTitle  string
	}{
		{"invalid input", usecase.ErrInvalidInput, http.StatusUnprocessableEntity, "Validation Error"},
		{"not found", usecase.ErrNotFound, http.StatusNotFound, "Not Found"},
		{"conflict", usecase.ErrAlreadyExists, http.StatusConflict, "Conflict"},
		{"unauthorized", usecase.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
		{"dependency down", usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "Service Unavailable"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tc := range cases {
		mapped := mapError(tc.err)
		if mapped.HTTPStatus != tc.wantStatus {
			t.Fatalf("%s: expected status %d, got %d", tc.name, tc.wantStatus, mapped.HTTPStatus)
		}
		if mapped.Title != tc.wantTitle {
			t.Fatalf("%s: expected title %q, got %q", tc.name, tc.wantTitle, mapped.Title)
		}
	}
}

func TestWriteError_UnauthorizedNeverEchoesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: token mismatch for header abc123", usecase.ErrUnauthorized))

	var body errorEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if body.ErrorMessage != "Invalid or missing authorization token" {
		t.Fatalf("expected fixed auth message, got %q", body.ErrorMessage)
	}
}
