package handlers

import (
	"net/http"

	"digital-menu-api/middleware"
	"digital-menu-api/models"
	"digital-menu-api/storage"

	"github.com/gin-gonic/gin"
)

// ── Menu Items ──────────────────────────────────────────────────────────────

type ItemRequest struct {
	ItemType        models.ItemType `json:"item_type" binding:"required,itemtype"`
	Name            string          `json:"name" binding:"required,max=200"`
	Description     string          `json:"description"`
	Price           *float64        `json:"price" binding:"omitempty,gte=0"`
	Currency        string          `json:"currency" binding:"omitempty,len=3"`
	ImageURL        string          `json:"image_url" binding:"omitempty,url"`
	DisplayOrder    int             `json:"display_order" binding:"gte=0"`
	IsAvailable     *bool           `json:"is_available"`
	IsFeatured      bool            `json:"is_featured"`
	PreparationTime *int            `json:"preparation_time" binding:"omitempty,gte=0"`
	Calories        *int            `json:"calories" binding:"omitempty,gte=0"`
	Weight          *float64        `json:"weight" binding:"omitempty,gte=0"`

	AlcoholContent *float64 `json:"alcohol_content" binding:"omitempty,gte=0,lte=100"`
	ServingFormat  string   `json:"serving_format" binding:"omitempty,servingformat"`
	VolumeML       *int     `json:"volume_ml" binding:"omitempty,gt=0"`

	WineType            string   `json:"wine_type" binding:"omitempty,winetype"`
	WineCharacteristics []string `json:"wine_characteristics" binding:"omitempty,dive,winechar"`
	GrapeVariety        string   `json:"grape_variety"`
	WineRegion          string   `json:"wine_region"`
	WineProducer        string   `json:"wine_producer"`
	Vintage             *int     `json:"vintage" binding:"omitempty,gte=1800,lte=2100"`

	BeerStyle string `json:"beer_style" binding:"omitempty,beerstyle"`
	Brewery   string `json:"brewery"`
	IBU       *int   `json:"ibu" binding:"omitempty,gte=0,lte=150"`

	Ingredients []IngredientRequest     `json:"ingredients" binding:"omitempty,dive"`
	Allergens   []models.AllergenCode   `json:"allergens" binding:"omitempty,dive,allergen"`
	DietaryTags []models.DietaryTagCode `json:"dietary_tags" binding:"omitempty,dive,dietarytag"`
}

type IngredientRequest struct {
	Name         string `json:"name" binding:"required,max=200"`
	DisplayOrder int    `json:"display_order" binding:"gte=0"`
	IsMain       bool   `json:"is_main"`
}

// checkTypeFields rejects fields that do not belong to the item type.
func (r *ItemRequest) checkTypeFields() string {
	wine := r.WineType != "" || len(r.WineCharacteristics) > 0 || r.GrapeVariety != "" ||
		r.WineRegion != "" || r.WineProducer != "" || r.Vintage != nil
	if wine && r.ItemType != models.ItemWine {
		return "Wine fields are only allowed for wine items"
	}
	beer := r.BeerStyle != "" || r.Brewery != "" || r.IBU != nil
	if beer && r.ItemType != models.ItemBeer {
		return "Beer fields are only allowed for beer items"
	}
	alcohol := r.AlcoholContent != nil || r.ServingFormat != "" || r.VolumeML != nil
	if alcohol && !r.ItemType.IsAlcoholic() {
		return "Alcohol fields are only allowed for drinks"
	}
	return ""
}

func (r *ItemRequest) currency() string {
	if r.Currency == "" {
		return "EUR"
	}
	return r.Currency
}

func (r *ItemRequest) columns() map[string]interface{} {
	return map[string]interface{}{
		"item_type":            r.ItemType,
		"name":                 r.Name,
		"description":          r.Description,
		"price":                r.Price,
		"currency":             r.currency(),
		"image_url":            r.ImageURL,
		"is_available":         r.IsAvailable == nil || *r.IsAvailable,
		"is_featured":          r.IsFeatured,
		"preparation_time":     r.PreparationTime,
		"calories":             r.Calories,
		"weight":               r.Weight,
		"alcohol_content":      r.AlcoholContent,
		"serving_format":       r.ServingFormat,
		"volume_ml":            r.VolumeML,
		"wine_type":            r.WineType,
		"wine_characteristics": models.StringList(r.WineCharacteristics),
		"grape_variety":        r.GrapeVariety,
		"wine_region":          r.WineRegion,
		"wine_producer":        r.WineProducer,
		"vintage":              r.Vintage,
		"beer_style":           r.BeerStyle,
		"brewery":              r.Brewery,
		"ibu":                  r.IBU,
	}
}

func bindItem(c *gin.Context) (*ItemRequest, bool) {
	var req ItemRequest
	if !bindJSON(c, &req) {
		return nil, false
	}
	if msg := req.checkTypeFields(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return nil, false
	}
	return &req, true
}

// CreateItem adds an item with its ingredients, allergens and tags to a section
func (h *Handler) CreateItem(c *gin.Context) {
	section, ok := h.ownedSection(c)
	if !ok {
		return
	}
	req, ok := bindItem(c)
	if !ok {
		return
	}
	item := models.MenuItem{
		SectionID:           section.ID,
		ItemType:            req.ItemType,
		Name:                req.Name,
		Description:         req.Description,
		Price:               req.Price,
		Currency:            req.currency(),
		ImageURL:            req.ImageURL,
		DisplayOrder:        req.DisplayOrder,
		IsAvailable:         req.IsAvailable == nil || *req.IsAvailable,
		IsFeatured:          req.IsFeatured,
		PreparationTime:     req.PreparationTime,
		Calories:            req.Calories,
		Weight:              req.Weight,
		AlcoholContent:      req.AlcoholContent,
		ServingFormat:       req.ServingFormat,
		VolumeML:            req.VolumeML,
		WineType:            req.WineType,
		WineCharacteristics: models.StringList(req.WineCharacteristics),
		GrapeVariety:        req.GrapeVariety,
		WineRegion:          req.WineRegion,
		WineProducer:        req.WineProducer,
		Vintage:             req.Vintage,
		BeerStyle:           req.BeerStyle,
		Brewery:             req.Brewery,
		IBU:                 req.IBU,
	}
	for i, ing := range req.Ingredients {
		order := ing.DisplayOrder
		if order == 0 {
			order = i + 1
		}
		item.Ingredients = append(item.Ingredients, models.Ingredient{Name: ing.Name, DisplayOrder: order, IsMain: ing.IsMain})
	}
	for _, code := range req.Allergens {
		item.Allergens = append(item.Allergens, models.ItemAllergen{Code: code})
	}
	for _, code := range req.DietaryTags {
		item.DietaryTags = append(item.DietaryTags, models.ItemDietaryTag{Code: code})
	}

	if err := h.Repos.Items.Create(c.Request.Context(), &item); err != nil {
		repoError(c, err, "Item")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Item created", "item": item})
}

func (h *Handler) ListSectionItems(c *gin.Context) {
	section, ok := h.ownedSection(c)
	if !ok {
		return
	}
	items, err := h.Repos.Items.ListBySection(c.Request.Context(), section.ID)
	if err != nil {
		repoError(c, err, "Item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func (h *Handler) ownedItem(c *gin.Context) (*models.MenuItem, bool) {
	item, err := h.Repos.Items.GetOwned(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		repoError(c, err, "Item")
		return nil, false
	}
	return item, true
}

func (h *Handler) GetItem(c *gin.Context) {
	item, ok := h.ownedItem(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// UpdateItem replaces the scalar fields of an item. Relations have their own routes.
func (h *Handler) UpdateItem(c *gin.Context) {
	item, ok := h.ownedItem(c)
	if !ok {
		return
	}
	req, ok := bindItem(c)
	if !ok {
		return
	}
	fields := req.columns()
	if req.DisplayOrder > 0 {
		fields["display_order"] = req.DisplayOrder
	}
	if err := h.Repos.Items.Update(c.Request.Context(), item, fields); err != nil {
		repoError(c, err, "Item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item updated", "item": item})
}

func (h *Handler) DeleteItem(c *gin.Context) {
	item, ok := h.ownedItem(c)
	if !ok {
		return
	}
	if err := h.Repos.Items.Delete(c.Request.Context(), item.ID); err != nil {
		repoError(c, err, "Item")
		return
	}
	h.deleteObject(c, storage.BucketItemImages, item.ImageURL)
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}

type DuplicateItemRequest struct {
	Name string `json:"name" binding:"max=200"`
}

func (h *Handler) DuplicateItem(c *gin.Context) {
	item, ok := h.ownedItem(c)
	if !ok {
		return
	}
	var req DuplicateItemRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	if req.Name == "" {
		req.Name = item.Name + " (copia)"
	}
	dup, err := h.Repos.Items.Duplicate(c.Request.Context(), item, req.Name)
	if err != nil {
		repoError(c, err, "Item")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Item duplicated", "item": dup})
}

// ToggleAvailability flips is_available
func (h *Handler) ToggleAvailability(c *gin.Context) {
	item, ok := h.ownedItem(c)
	if !ok {
		return
	}
	next := !item.IsAvailable
	if err := h.Repos.Items.Update(c.Request.Context(), item, map[string]interface{}{"is_available": next}); err != nil {
		repoError(c, err, "Item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Availability updated", "is_available": next})
}

func (h *Handler) ReorderItems(c *gin.Context) {
	section, ok := h.ownedSection(c)
	if !ok {
		return
	}
	var req ReorderRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Repos.Items.Reorder(c.Request.Context(), section.ID, req.IDs); err != nil {
		repoError(c, err, "Item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Items reordered"})
}

// ── Item Relations ──────────────────────────────────────────────────────────

func (h *Handler) AddIngredient(c *gin.Context) {
	item, ok := h.ownedItem(c)
	if !ok {
		return
	}
	var req IngredientRequest
	if !bindJSON(c, &req) {
		return
	}
	ing := models.Ingredient{ItemID: item.ID, Name: req.Name, DisplayOrder: req.DisplayOrder, IsMain: req.IsMain}
	if err := h.Repos.Items.AddIngredient(c.Request.Context(), &ing); err != nil {
		repoError(c, err, "Ingredient")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ingredient": ing})
}

func (h *Handler) DeleteIngredient(c *gin.Context) {
	item, ok := h.ownedItem(c)
	if !ok {
		return
	}
	if err := h.Repos.Items.DeleteIngredient(c.Request.Context(), item.ID, c.Param("ingredientId")); err != nil {
		repoError(c, err, "Ingredient")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ingredient deleted"})
}

type AllergenRequest struct {
	Code models.AllergenCode `json:"allergen_code" binding:"required,allergen"`
}

func (h *Handler) AddAllergen(c *gin.Context) {
	item, ok := h.ownedItem(c)
	if !ok {
		return
	}
	var req AllergenRequest
	if !bindJSON(c, &req) {
		return
	}
	a := models.ItemAllergen{ItemID: item.ID, Code: req.Code}
	if err := h.Repos.Items.AddAllergen(c.Request.Context(), &a); err != nil {
		repoError(c, err, "Allergen")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"allergen": a})
}

func (h *Handler) RemoveAllergen(c *gin.Context) {
	item, ok := h.ownedItem(c)
	if !ok {
		return
	}
	code := c.Param("code")
	if !models.IsAllergenCode(code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown allergen code"})
		return
	}
	if err := h.Repos.Items.RemoveAllergen(c.Request.Context(), item.ID, models.AllergenCode(code)); err != nil {
		repoError(c, err, "Allergen")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Allergen removed"})
}

type DietaryTagRequest struct {
	Code models.DietaryTagCode `json:"tag_code" binding:"required,dietarytag"`
}

func (h *Handler) AddDietaryTag(c *gin.Context) {
	item, ok := h.ownedItem(c)
	if !ok {
		return
	}
	var req DietaryTagRequest
	if !bindJSON(c, &req) {
		return
	}
	t := models.ItemDietaryTag{ItemID: item.ID, Code: req.Code}
	if err := h.Repos.Items.AddDietaryTag(c.Request.Context(), &t); err != nil {
		repoError(c, err, "Dietary tag")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"dietary_tag": t})
}

func (h *Handler) RemoveDietaryTag(c *gin.Context) {
	item, ok := h.ownedItem(c)
	if !ok {
		return
	}
	code := c.Param("code")
	if !models.IsDietaryTagCode(code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown dietary tag"})
		return
	}
	if err := h.Repos.Items.RemoveDietaryTag(c.Request.Context(), item.ID, models.DietaryTagCode(code)); err != nil {
		repoError(c, err, "Dietary tag")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dietary tag removed"})
}

// ── Item Translations ───────────────────────────────────────────────────────

func (h *Handler) ListItemTranslations(c *gin.Context) {
	item, ok := h.ownedItem(c)
	if !ok {
		return
	}
	rows, err := h.Repos.Translations.ListItem(c.Request.Context(), item.ID)
	if err != nil {
		repoError(c, err, "Translation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"translations": rows})
}

func (h *Handler) UpsertItemTranslation(c *gin.Context) {
	item, ok := h.ownedItem(c)
	if !ok {
		return
	}
	var req FieldTranslationRequest
	if !bindJSON(c, &req) {
		return
	}
	t := models.ItemTranslation{
		ItemID:       item.ID,
		LanguageCode: req.LanguageCode,
		FieldName:    req.FieldName,
		FieldValue:   req.FieldValue,
	}
	if err := h.Repos.Translations.UpsertItem(c.Request.Context(), &t); err != nil {
		repoError(c, err, "Translation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"translation": t})
}

func (h *Handler) DeleteItemTranslation(c *gin.Context) {
	item, ok := h.ownedItem(c)
	if !ok {
		return
	}
	err := h.Repos.Translations.DeleteItem(c.Request.Context(), item.ID,
		models.LanguageCode(c.Param("lang")), models.TranslatableField(c.Param("field")))
	if err != nil {
		repoError(c, err, "Translation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Translation deleted"})
}
