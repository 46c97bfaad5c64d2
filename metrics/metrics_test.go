package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_CountsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New("test", prometheus.NewRegistry())

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/menus/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/menus/"+id, nil))
	}

	got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/menus/:id", "200"))
	if got != 2 {
		t.Errorf("requests = %v, want 2", got)
	}
}

func TestObservePairAndLLM(t *testing.T) {
	m := New("test", prometheus.NewRegistry())
	m.ObservePair("item_description", true)
	m.ObservePair("item_description", false)
	m.ObservePair("item_description", false)
	m.TrackLLMCall("translate")(errors.New("boom"))

	if got := testutil.ToFloat64(m.TranslationPairs.WithLabelValues("item_description", "error")); got != 2 {
		t.Errorf("failed pairs = %v, want 2", got)
	}
	if got := testutil.CollectAndCount(m.LLMCallDuration); got != 1 {
		t.Errorf("llm series = %d, want 1", got)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New("menu", prometheus.NewRegistry())
	m.ObserveJob("COMPLETED")

	r := gin.New()
	r.GET("/metrics", m.Handler())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `menu_translation_jobs_total{status="COMPLETED"} 1`) {
		t.Errorf("missing job counter in output:\n%s", w.Body.String())
	}
}
