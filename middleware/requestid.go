package middleware

import (
	"digital-menu-api/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(logger.RequestIDKey)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Request.Header.Set(logger.RequestIDKey, requestID)
		c.Header(logger.RequestIDKey, requestID)
		c.Set(logger.RequestIDKey, requestID)
		c.Next()
	}
}
