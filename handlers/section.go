package handlers

import (
	"net/http"

	"digital-menu-api/middleware"
	"digital-menu-api/models"

	"github.com/gin-gonic/gin"
)

type SectionRequest struct {
	Name         string `json:"name" binding:"required,max=200"`
	Description  string `json:"description"`
	Icon         string `json:"icon" binding:"max=20"`
	DisplayOrder int    `json:"display_order" binding:"gte=0"`
	IsVisible    *bool  `json:"is_visible"`
}

// CreateSection appends a section to one of the caller's menus
func (h *Handler) CreateSection(c *gin.Context) {
	menu, err := h.Repos.Menus.GetOwned(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		repoError(c, err, "Menu")
		return
	}
	var req SectionRequest
	if !bindJSON(c, &req) {
		return
	}
	s := models.MenuSection{
		MenuID:       menu.ID,
		Name:         req.Name,
		Description:  req.Description,
		Icon:         req.Icon,
		DisplayOrder: req.DisplayOrder,
		IsVisible:    req.IsVisible == nil || *req.IsVisible,
	}
	if err := h.Repos.Sections.Create(c.Request.Context(), &s); err != nil {
		repoError(c, err, "Section")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Section created", "section": s})
}

func (h *Handler) ownedSection(c *gin.Context) (*models.MenuSection, bool) {
	s, err := h.Repos.Sections.GetOwned(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		repoError(c, err, "Section")
		return nil, false
	}
	return s, true
}

func (h *Handler) UpdateSection(c *gin.Context) {
	s, ok := h.ownedSection(c)
	if !ok {
		return
	}
	var req SectionRequest
	if !bindJSON(c, &req) {
		return
	}
	fields := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"icon":        req.Icon,
		"is_visible":  req.IsVisible == nil || *req.IsVisible,
	}
	if req.DisplayOrder > 0 {
		fields["display_order"] = req.DisplayOrder
	}
	if err := h.Repos.Sections.Update(c.Request.Context(), s, fields); err != nil {
		repoError(c, err, "Section")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Section updated", "section": s})
}

// DeleteSection removes the section with its items and translations
func (h *Handler) DeleteSection(c *gin.Context) {
	s, ok := h.ownedSection(c)
	if !ok {
		return
	}
	if err := h.Repos.Sections.Delete(c.Request.Context(), s.ID); err != nil {
		repoError(c, err, "Section")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Section deleted"})
}

func (h *Handler) ListMenuSections(c *gin.Context) {
	menu, err := h.Repos.Menus.GetOwned(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		repoError(c, err, "Menu")
		return
	}
	sections, err := h.Repos.Sections.ListByMenu(c.Request.Context(), menu.ID)
	if err != nil {
		repoError(c, err, "Section")
		return
	}
	c.JSON(http.StatusOK, gin.H{"sections": sections, "count": len(sections)})
}

type ReorderRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// ReorderSections sets display order 1..n following the given ids
func (h *Handler) ReorderSections(c *gin.Context) {
	menu, err := h.Repos.Menus.GetOwned(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		repoError(c, err, "Menu")
		return
	}
	var req ReorderRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Repos.Sections.Reorder(c.Request.Context(), menu.ID, req.IDs); err != nil {
		repoError(c, err, "Section")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sections reordered"})
}

type FieldTranslationRequest struct {
	LanguageCode models.LanguageCode      `json:"language_code" binding:"required,langcode"`
	FieldName    models.TranslatableField `json:"field_name" binding:"required,oneof=name description"`
	FieldValue   string                   `json:"field_value" binding:"required"`
}

func (h *Handler) ListSectionTranslations(c *gin.Context) {
	s, ok := h.ownedSection(c)
	if !ok {
		return
	}
	rows, err := h.Repos.Translations.ListSection(c.Request.Context(), s.ID)
	if err != nil {
		repoError(c, err, "Translation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"translations": rows})
}

// UpsertSectionTranslation writes a manual translation of a section field
func (h *Handler) UpsertSectionTranslation(c *gin.Context) {
	s, ok := h.ownedSection(c)
	if !ok {
		return
	}
	var req FieldTranslationRequest
	if !bindJSON(c, &req) {
		return
	}
	t := models.SectionTranslation{
		SectionID:    s.ID,
		LanguageCode: req.LanguageCode,
		FieldName:    req.FieldName,
		FieldValue:   req.FieldValue,
	}
	if err := h.Repos.Translations.UpsertSection(c.Request.Context(), &t); err != nil {
		repoError(c, err, "Translation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"translation": t})
}

func (h *Handler) DeleteSectionTranslation(c *gin.Context) {
	s, ok := h.ownedSection(c)
	if !ok {
		return
	}
	err := h.Repos.Translations.DeleteSection(c.Request.Context(), s.ID,
		models.LanguageCode(c.Param("lang")), models.TranslatableField(c.Param("field")))
	if err != nil {
		repoError(c, err, "Translation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Translation deleted"})
}
