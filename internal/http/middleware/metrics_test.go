package middleware

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/users/:id", func(c *gin.Context) { c.String(http.StatusOK, "hello") })

	base := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/users/:id", "200"))
	base404 := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/nope", "404"))

	serve(r, http.MethodGet, "/users/1", nil)
	serve(r, http.MethodGet, "/users/2", nil)
	serve(r, http.MethodGet, "/nope", nil)

	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/users/:id", "200")); got != base+2 {
		t.Fatalf("route counter = %v, want %v", got, base+2)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/nope", "404")); got != base404+1 {
		t.Fatalf("fallback counter = %v, want %v", got, base404+1)
	}
	if got := testutil.ToFloat64(httpInflight); got != 0 {
		t.Fatalf("inflight = %v", got)
	}
}
