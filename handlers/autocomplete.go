package handlers

import (
	"errors"
	"net/http"

	"digital-menu-api/autocomplete"
	"digital-menu-api/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AutoCompleteItem asks the model for description, ingredients, allergens and
// calories of a dish by name
func (h *Handler) AutoCompleteItem(c *gin.Context) {
	var req autocomplete.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	res, err := h.AutoComplete.Complete(c.Request.Context(), req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, res)
	case errors.Is(err, autocomplete.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.FromGin(c).Warn("auto-complete failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Auto-complete not available"})
	}
}
