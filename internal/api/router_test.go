package api

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ukaji3/namedeps-go/internal/api/handler"
	"github.com/ukaji3/namedeps-go/pkg/namedeps"
)

func TestRouter(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	r := NewRouter(logger, handler.NewAnalyzeHandler(logger, namedeps.DefaultOptions(), 0))

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/api/v1/analyze", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/v1/analyze", http.StatusBadRequest},
		{http.MethodGet, "/missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.status {
			t.Errorf("%s %s: expected %d, got %d", tt.method, tt.path, tt.status, rec.Code)
		}
	}
}
