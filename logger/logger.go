package logger

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	RequestIDKey = "X-Request-ID"
	ginLoggerKey = "logger"
)

type ctxKey struct{}

var log *zap.Logger

// Init builds the global logger. Production uses JSON output, everything
// else the colored development encoder.
func Init(env, level string) *zap.Logger {
	var logConfig zap.Config
	if env == "production" {
		logConfig = zap.NewProductionConfig()
		logConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		logConfig = zap.NewDevelopmentConfig()
		logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	logConfig.Level.SetLevel(lvl)

	l, err := logConfig.Build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	log = l
	zap.ReplaceGlobals(l)
	l.Info("logger initialized", zap.String("level", lvl.String()))
	return l
}

// Get returns the global logger, falling back to a production logger when
// Init was never called.
func Get() *zap.Logger {
	if log == nil {
		l, err := zap.NewProduction()
		if err != nil {
			panic("failed to create fallback logger: " + err.Error())
		}
		log = l
	}
	return log
}

// Set replaces the global logger. Tests use it with zap.NewNop or zaptest observers.
func Set(l *zap.Logger) {
	log = l
}

// Middleware logs every request and stores a request-scoped logger in both
// the gin context and the request context.
func Middleware(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetString(RequestIDKey)
		if requestID == "" {
			requestID = c.GetHeader(RequestIDKey)
		}
		reqLogger := base.With(zap.String("request_id", requestID))
		c.Set(ginLoggerKey, reqLogger)
		c.Request = c.Request.WithContext(WithContext(c.Request.Context(), reqLogger))

		c.Next()

		fields := []zapcore.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case c.Writer.Status() >= 500:
			reqLogger.Error("HTTP request failed", fields...)
		case c.Writer.Status() >= 400:
			reqLogger.Warn("HTTP request rejected", fields...)
		default:
			reqLogger.Info("HTTP request completed", fields...)
		}
	}
}

// FromGin retrieves the request logger from the gin context.
func FromGin(c *gin.Context) *zap.Logger {
	if l, ok := c.Get(ginLoggerKey); ok {
		if zl, ok := l.(*zap.Logger); ok {
			return zl
		}
	}
	requestID := c.GetString(RequestIDKey)
	if requestID == "" {
		requestID = "unknown"
	}
	return Get().With(zap.String("request_id", requestID))
}

func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored in ctx or the global one.
func FromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
			return l
		}
	}
	return Get()
}
