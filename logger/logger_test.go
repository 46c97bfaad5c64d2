package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMiddleware_LogsRequestWithID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(RequestIDKey, "req-1"); c.Next() })
	r.Use(Middleware(zap.New(core)))
	r.GET("/ping", func(c *gin.Context) {
		FromGin(c).Info("inside")
		FromContext(c.Request.Context()).Info("inside ctx")
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("got %d log entries, want 3", len(entries))
	}
	for _, e := range entries {
		if e.ContextMap()["request_id"] != "req-1" {
			t.Errorf("entry %q missing request id: %v", e.Message, e.ContextMap())
		}
	}
	if got := entries[2].ContextMap()["status"]; got != int64(http.StatusNoContent) {
		t.Errorf("status field = %v", got)
	}
}

func TestMiddleware_ServerErrorsLoggedAtErrorLevel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)

	r := gin.New()
	r.Use(Middleware(zap.New(core)))
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	if n := logs.FilterMessage("HTTP request failed").Len(); n != 1 {
		t.Errorf("failed entries = %d, want 1", n)
	}
}

func TestFromContext_FallsBackToGlobal(t *testing.T) {
	nop := zap.NewNop()
	Set(nop)
	if FromContext(context.Background()) != nop {
		t.Error("expected global logger")
	}
}
