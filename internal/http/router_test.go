package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	httpH "github.com/yungbote/bexps-backend/internal/http/handlers"
	"github.com/yungbote/bexps-backend/internal/observability"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
)

func serve(r *gin.Engine, method, path string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRouterServesHealthAndMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	r := NewRouter(RouterConfig{
		Log:           logger.Nop(),
		Metrics:       metrics,
		CORSOrigins:   []string{"http://localhost:3000"},
		HealthHandler: httpH.NewHealthHandler(),
	})

	rec := serve(r, http.MethodGet, "/healthcheck", map[string]string{"Origin": "http://localhost:3000"})
	if rec.Code != http.StatusOK {
		t.Fatalf("healthcheck: status=%d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("cors header: got=%q", got)
	}
	if rec.Header().Get("X-Trace-Id") == "" {
		t.Fatalf("missing X-Trace-Id")
	}

	rec = serve(r, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: status=%d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `bexps_api_requests_total{method="GET",route="/healthcheck",status="200"} 1`) {
		t.Fatalf("metrics body missing request counter:\n%s", rec.Body.String())
	}
}

func TestRouterSkipsNilHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterConfig{})
	for _, p := range []string{"/healthcheck", "/metrics", "/api/buildings"} {
		if rec := serve(r, http.MethodGet, p, nil); rec.Code != http.StatusNotFound {
			t.Fatalf("%s: want 404 got %d", p, rec.Code)
		}
	}
}
