package handlers

import (
	"net/http"

	"digital-menu-api/middleware"
	"digital-menu-api/models"
	"digital-menu-api/storage"

	"github.com/gin-gonic/gin"
)

// ── Restaurant Management ────────────────────────────────────────────────────

type RestaurantRequest struct {
	Name        string                `json:"name" binding:"required,max=200"`
	Type        models.RestaurantType `json:"type" binding:"required,restauranttype"`
	Description string                `json:"description"`
	About       string                `json:"about"`
	Phone       string                `json:"phone" binding:"max=40"`
	Email       string                `json:"email" binding:"omitempty,email"`
	Street      string                `json:"street"`
	City        string                `json:"city"`
	PostalCode  string                `json:"postal_code" binding:"max=20"`
	Country     string                `json:"country"`
}

func (r RestaurantRequest) columns() map[string]interface{} {
	return map[string]interface{}{
		"name":        r.Name,
		"type":        r.Type,
		"description": r.Description,
		"about":       r.About,
		"phone":       r.Phone,
		"email":       r.Email,
		"street":      r.Street,
		"city":        r.City,
		"postal_code": r.PostalCode,
		"country":     r.Country,
	}
}

// CreateRestaurant registers a venue for the logged-in owner
func (h *Handler) CreateRestaurant(c *gin.Context) {
	var req RestaurantRequest
	if !bindJSON(c, &req) {
		return
	}
	rest := models.Restaurant{
		OwnerID:     middleware.GetUserID(c),
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		About:       req.About,
		Phone:       req.Phone,
		Email:       req.Email,
		Street:      req.Street,
		City:        req.City,
		PostalCode:  req.PostalCode,
		Country:     req.Country,
	}
	if err := h.Repos.Restaurants.Create(c.Request.Context(), &rest); err != nil {
		repoError(c, err, "Restaurant")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Restaurant created", "restaurant": rest})
}

// ListMyRestaurants returns every venue of the caller
func (h *Handler) ListMyRestaurants(c *gin.Context) {
	list, err := h.Repos.Restaurants.ListByOwner(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		repoError(c, err, "Restaurant")
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurants": list, "count": len(list)})
}

func (h *Handler) ownedRestaurant(c *gin.Context) (*models.Restaurant, bool) {
	rest, err := h.Repos.Restaurants.GetOwned(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		repoError(c, err, "Restaurant")
		return nil, false
	}
	return rest, true
}

// GetRestaurant returns one venue with translations and socials
func (h *Handler) GetRestaurant(c *gin.Context) {
	rest, ok := h.ownedRestaurant(c)
	if !ok {
		return
	}
	lang := models.LanguageCode(c.Query("lang"))
	if lang != "" && lang != models.DefaultLanguage && !models.IsTargetLanguage(string(lang)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported language code"})
		return
	}
	resp := gin.H{"restaurant": rest}
	if lang != "" {
		resp["localized"] = gin.H{
			"description": models.Localize(rest.Description, models.FieldDescription, rest.Translations, lang),
			"about":       models.Localize(rest.About, models.FieldAbout, rest.Translations, lang),
		}
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateRestaurant replaces the editable restaurant details
func (h *Handler) UpdateRestaurant(c *gin.Context) {
	rest, ok := h.ownedRestaurant(c)
	if !ok {
		return
	}
	var req RestaurantRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Repos.Restaurants.Update(c.Request.Context(), rest, req.columns()); err != nil {
		repoError(c, err, "Restaurant")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant updated", "restaurant": rest})
}

// DeleteRestaurant removes a venue and its menu links. Menus are kept.
func (h *Handler) DeleteRestaurant(c *gin.Context) {
	rest, ok := h.ownedRestaurant(c)
	if !ok {
		return
	}
	if err := h.Repos.Restaurants.Delete(c.Request.Context(), rest.ID); err != nil {
		repoError(c, err, "Restaurant")
		return
	}
	h.deleteObject(c, storage.BucketRestaurantImages, rest.ImageURL)
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant deleted"})
}

type RestaurantTranslationRequest struct {
	LanguageCode models.LanguageCode      `json:"language_code" binding:"required,langcode"`
	FieldName    models.TranslatableField `json:"field_name" binding:"required,oneof=description about"`
	FieldValue   string                   `json:"field_value" binding:"required"`
}

// UpsertRestaurantTranslation stores one translated field of a venue
func (h *Handler) UpsertRestaurantTranslation(c *gin.Context) {
	rest, ok := h.ownedRestaurant(c)
	if !ok {
		return
	}
	var req RestaurantTranslationRequest
	if !bindJSON(c, &req) {
		return
	}
	t := models.RestaurantTranslation{
		RestaurantID: rest.ID,
		LanguageCode: req.LanguageCode,
		FieldName:    req.FieldName,
		FieldValue:   req.FieldValue,
	}
	if err := h.Repos.Translations.UpsertRestaurant(c.Request.Context(), &t); err != nil {
		repoError(c, err, "Translation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"translation": t})
}

func (h *Handler) DeleteRestaurantTranslation(c *gin.Context) {
	rest, ok := h.ownedRestaurant(c)
	if !ok {
		return
	}
	err := h.Repos.Translations.DeleteRestaurant(c.Request.Context(), rest.ID,
		models.LanguageCode(c.Param("lang")), models.TranslatableField(c.Param("field")))
	if err != nil {
		repoError(c, err, "Translation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Translation deleted"})
}

type SocialRequest struct {
	Platform string `json:"platform" binding:"required,max=40"`
	Handle   string `json:"handle" binding:"required,max=200"`
}

// UpsertSocial sets the handle of one social platform
func (h *Handler) UpsertSocial(c *gin.Context) {
	rest, ok := h.ownedRestaurant(c)
	if !ok {
		return
	}
	var req SocialRequest
	if !bindJSON(c, &req) {
		return
	}
	s := models.RestaurantSocial{RestaurantID: rest.ID, Platform: req.Platform, Handle: req.Handle}
	if err := h.Repos.Restaurants.UpsertSocial(c.Request.Context(), &s); err != nil {
		repoError(c, err, "Social")
		return
	}
	c.JSON(http.StatusOK, gin.H{"social": s})
}

func (h *Handler) DeleteSocial(c *gin.Context) {
	rest, ok := h.ownedRestaurant(c)
	if !ok {
		return
	}
	if err := h.Repos.Restaurants.DeleteSocial(c.Request.Context(), rest.ID, c.Param("platform")); err != nil {
		repoError(c, err, "Social")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Social deleted"})
}

// ── Menu links ──────────────────────────────────────────────────────────────

// ListRestaurantMenus returns the attached menus, primary first
func (h *Handler) ListRestaurantMenus(c *gin.Context) {
	rest, ok := h.ownedRestaurant(c)
	if !ok {
		return
	}
	links, err := h.Repos.Restaurants.Menus(c.Request.Context(), rest.ID)
	if err != nil {
		repoError(c, err, "Menu")
		return
	}
	c.JSON(http.StatusOK, gin.H{"menus": links})
}

type AttachMenuRequest struct {
	MenuID       string `json:"menu_id" binding:"required"`
	IsPrimary    bool   `json:"is_primary"`
	DisplayOrder int    `json:"display_order" binding:"gte=0"`
}

// AttachMenu links one of the caller's menus to the venue. A primary link
// replaces the previous primary menu.
func (h *Handler) AttachMenu(c *gin.Context) {
	rest, ok := h.ownedRestaurant(c)
	if !ok {
		return
	}
	var req AttachMenuRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, err := h.Repos.Menus.GetOwned(c.Request.Context(), middleware.GetUserID(c), req.MenuID); err != nil {
		repoError(c, err, "Menu")
		return
	}
	link := models.RestaurantMenu{
		RestaurantID: rest.ID,
		MenuID:       req.MenuID,
		IsPrimary:    req.IsPrimary,
		DisplayOrder: req.DisplayOrder,
	}
	if err := h.Repos.Menus.Attach(c.Request.Context(), &link); err != nil {
		repoError(c, err, "Menu link")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu attached", "link": link})
}

// SetPrimaryMenu makes an attached menu the only primary one
func (h *Handler) SetPrimaryMenu(c *gin.Context) {
	rest, ok := h.ownedRestaurant(c)
	if !ok {
		return
	}
	if err := h.Repos.Menus.SetPrimary(c.Request.Context(), rest.ID, c.Param("menuId")); err != nil {
		repoError(c, err, "Menu link")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Primary menu updated"})
}

func (h *Handler) DetachMenu(c *gin.Context) {
	rest, ok := h.ownedRestaurant(c)
	if !ok {
		return
	}
	if err := h.Repos.Menus.Detach(c.Request.Context(), rest.ID, c.Param("menuId")); err != nil {
		repoError(c, err, "Menu link")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu detached"})
}
