package handlers

import (
	"net/http"

	"digital-menu-api/middleware"
	"digital-menu-api/models"
	"digital-menu-api/presets"

	"github.com/gin-gonic/gin"
)

// ── Menu Management ─────────────────────────────────────────────────────────

type CreateMenuRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`

	// RestaurantType seeds the menu with the section presets of that venue type.
	RestaurantType models.RestaurantType `json:"restaurant_type" binding:"omitempty,restauranttype"`

	// PresetSections limits seeding to the named presets.
	PresetSections []string `json:"preset_sections"`
}

// CreateMenu creates a menu, optionally seeded with section presets
func (h *Handler) CreateMenu(c *gin.Context) {
	var req CreateMenuRequest
	if !bindJSON(c, &req) {
		return
	}
	menu := models.Menu{
		OwnerID:     middleware.GetUserID(c),
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	var seeds []presets.SectionPreset
	if req.RestaurantType != "" {
		seeds = presets.For(req.RestaurantType)
		if len(req.PresetSections) > 0 {
			seeds = presets.Select(req.RestaurantType, req.PresetSections)
		}
	}
	if err := h.Repos.Menus.Create(c.Request.Context(), &menu, presets.Sections("", seeds)); err != nil {
		repoError(c, err, "Menu")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu created", "menu": menu})
}

func (h *Handler) ListMyMenus(c *gin.Context) {
	menus, err := h.Repos.Menus.ListByOwner(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		repoError(c, err, "Menu")
		return
	}
	c.JSON(http.StatusOK, gin.H{"menus": menus, "count": len(menus)})
}

// GetMenu returns the menu tree. With ?lang= every text field is resolved for
// that language, falling back to the Italian base text.
func (h *Handler) GetMenu(c *gin.Context) {
	lang := models.LanguageCode(c.Query("lang"))
	if lang != "" && lang != models.DefaultLanguage && !models.IsTargetLanguage(string(lang)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported language code"})
		return
	}
	menu, err := h.Repos.Menus.GetTree(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), true)
	if err != nil {
		repoError(c, err, "Menu")
		return
	}
	if lang == "" {
		c.JSON(http.StatusOK, gin.H{"menu": menu})
		return
	}
	c.JSON(http.StatusOK, gin.H{"menu": localizeMenu(menu, lang)})
}

type UpdateMenuRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

func (h *Handler) UpdateMenu(c *gin.Context) {
	menu, err := h.Repos.Menus.GetOwned(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		repoError(c, err, "Menu")
		return
	}
	var req UpdateMenuRequest
	if !bindJSON(c, &req) {
		return
	}
	fields := map[string]interface{}{"name": req.Name, "description": req.Description, "is_active": req.IsActive}
	if err := h.Repos.Menus.Update(c.Request.Context(), menu, fields); err != nil {
		repoError(c, err, "Menu")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu updated", "menu": menu})
}

// DeleteMenu removes the menu with all sections, items and translations
func (h *Handler) DeleteMenu(c *gin.Context) {
	menu, err := h.Repos.Menus.GetOwned(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		repoError(c, err, "Menu")
		return
	}
	if err := h.Repos.Menus.Delete(c.Request.Context(), menu.ID); err != nil {
		repoError(c, err, "Menu")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu deleted"})
}

type DuplicateRequest struct {
	Name string `json:"name" binding:"max=200"`
}

// DuplicateMenu copies the menu and its sections
func (h *Handler) DuplicateMenu(c *gin.Context) {
	var req DuplicateRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	ownerID := middleware.GetUserID(c)
	src, err := h.Repos.Menus.GetOwned(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		repoError(c, err, "Menu")
		return
	}
	name := req.Name
	if name == "" {
		name = src.Name + " (copia)"
	}
	dup, err := h.Repos.Menus.Duplicate(c.Request.Context(), ownerID, src.ID, name)
	if err != nil {
		repoError(c, err, "Menu")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu duplicated", "menu": dup})
}
