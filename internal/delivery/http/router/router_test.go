package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/user/psp-report-service/internal/delivery/http/handler"
	"github.com/user/psp-report-service/internal/entity"
	"github.com/user/psp-report-service/internal/usecase"
	"github.com/user/psp-report-service/pkg/metrics"
)

func TestMain(m *testing.M) {
	metrics.Init()
	os.Exit(m.Run())
}

type stubExtractor struct{}

func (stubExtractor) Extract(context.Context, entity.Period) (*usecase.ExtractResult, error) {
	return nil, usecase.ErrNoLinks
}

func (stubExtractor) Options() usecase.FilterOptions {
	return usecase.FilterOptions{FinancialYears: []string{"2024-25"}, Months: entity.Months}
}

func TestRoutes(t *testing.T) {
	r := New(handler.NewHandler(stubExtractor{}))

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodPost, "/extract", "financial_year=2024-25&month=April", http.StatusNotFound},
		{http.MethodGet, "/api/health", "", http.StatusOK},
		{http.MethodGet, "/api/options", "", http.StatusOK},
		{http.MethodPost, "/api/extract", `{"financial_year":"2024-25","month":"April"}`, http.StatusNotFound},
		{http.MethodGet, "/api/extract", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/download/unknown-run", "", http.StatusNotFound},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.path == "/extract" {
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestMetricsExposeRoutePatterns(t *testing.T) {
	r := New(handler.NewHandler(stubExtractor{}))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/options", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/api/options",status="200"}`)
}
