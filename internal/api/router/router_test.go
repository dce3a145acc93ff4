package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxline-ai/sales-triage/internal/extraction"
	"github.com/voxline-ai/sales-triage/internal/qualification"
	"github.com/voxline-ai/sales-triage/internal/triage"
	"github.com/voxline-ai/sales-triage/internal/validator"
)

type emptyExtractor struct{}

func (emptyExtractor) Extract(_ context.Context, _ string, _ extraction.CallerInfo, _ qualification.Intent) (extraction.Bundle, error) {
	return extraction.Bundle{Intent: qualification.IntentClassification{PrimaryIntent: qualification.IntentOther}}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	svc := triage.NewService(emptyExtractor{}, nil, nil, nil, nil, nil, nil)
	handler := triage.NewHandler(svc, validator.New(nil), nil, nil)
	return New(&Config{
		TriageHandler:  handler,
		MetricsHandler: promhttp.Handler(),
	})
}

func TestRouterRoutes(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"decide", http.MethodPost, "/v1/triage/decide", `{"conversation_id":"c1","conversation_context":"hi"}`, http.StatusOK},
		{"route", http.MethodPost, "/v1/triage/route", `{"stage":"SQL"}`, http.StatusOK},
		{"validate", http.MethodPost, "/v1/responses/validate", `{"response":"Thanks for calling."}`, http.StatusOK},
		{"unknown", http.MethodGet, "/v1/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRouterHealthBody(t *testing.T) {
	r := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
