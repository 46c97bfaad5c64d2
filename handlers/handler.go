package handlers

import (
	"errors"
	"net/http"

	"digital-menu-api/autocomplete"
	"digital-menu-api/imagegen"
	"digital-menu-api/logger"
	"digital-menu-api/metrics"
	"digital-menu-api/middleware"
	"digital-menu-api/repository"
	"digital-menu-api/storage"
	"digital-menu-api/translation"
	"digital-menu-api/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler carries the dependencies of every route.
type Handler struct {
	Repos        *repository.Repositories
	Auth         *middleware.Auth
	Translator   *translation.Service
	Collector    *translation.Collector
	Jobs         *translation.JobRunner
	AutoComplete *autocomplete.Service
	Images       *imagegen.Generator
	Storage      *storage.Local
	Metrics      *metrics.Metrics
	// MaxInFlight is the default concurrency of translation jobs.
	MaxInFlight int
}

// bindJSON binds the body and answers 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if fields := validation.Messages(err); fields != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "fields": fields})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// repoError answers a repository failure. what names the entity in 404 and
// 409 messages.
func repoError(c *gin.Context, err error, what string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
	case errors.Is(err, repository.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": what + " already exists"})
	default:
		_ = c.Error(err)
		logger.FromGin(c).Error("database operation failed", zap.String("entity", what), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
