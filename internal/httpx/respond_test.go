package httpx

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/backend"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandleError(t *testing.T) {
	t.Run("cleared session redirects home", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/purchase-records", nil)

		HandleError(rec, req, backend.ErrUnauthorized, discardLogger())

		if rec.Code != http.StatusSeeOther {
			t.Errorf("expected status 303, got %d", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/" {
			t.Errorf("expected redirect to /, got %q", loc)
		}
	})

	t.Run("wrapped unauthorized still redirects", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/checkout", nil)

		HandleError(rec, req, errors.Join(errors.New("fetch purchases"), backend.ErrUnauthorized), discardLogger())

		if rec.Code != http.StatusSeeOther {
			t.Errorf("expected status 303, got %d", rec.Code)
		}
	})

	t.Run("backend API errors pass through with their message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/admin/product-types/3", nil)

		HandleError(rec, req, &backend.APIError{Status: http.StatusConflict, Message: "type is referenced"}, discardLogger())

		if rec.Code != http.StatusConflict {
			t.Errorf("expected status 409, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "type is referenced") {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("everything else is a 502", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/catalog", nil)

		HandleError(rec, req, errors.New("connection refused"), discardLogger())

		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected status 502, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "service unavailable") {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})
}
