package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestRequestLogger_LogsStatus(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/test-db?id=1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := RequestLogger(zerolog.New(&buf))
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if entry["status"] != float64(http.StatusNoContent) || entry["query"] != "id=1" {
		t.Fatalf("unexpected log entry: %+v", entry)
	}
}

func TestRequestLogger_HandlesErrorBeforeLogging(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := RequestLogger(zerolog.New(&buf))
	handler := mw(func(c echo.Context) error {
		return errors.New("boom")
	})

	if err := handler(c); err != nil {
		t.Fatalf("error must be consumed by the middleware, got %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if entry["level"] != "error" {
		t.Fatalf("expected error level for 5xx, got %+v", entry)
	}
}
