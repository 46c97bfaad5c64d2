package repository

import (
	"context"

	"digital-menu-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Owner identifies the menu and user a translatable entity belongs to.
type Owner struct {
	MenuID  string
	OwnerID string
}

type TranslationRepository struct{ DB *gorm.DB }

func NewTranslationRepository(db *gorm.DB) *TranslationRepository {
	return &TranslationRepository{DB: db}
}

// upsertRow inserts row or, on a key conflict, updates the listed columns.
func upsertRow(tx *gorm.DB, row interface{}, keys, updates []string) error {
	cols := make([]clause.Column, len(keys))
	for i, k := range keys {
		cols[i] = clause.Column{Name: k}
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   cols,
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(row).Error
}

func (r *TranslationRepository) UpsertRestaurant(ctx context.Context, t *models.RestaurantTranslation) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertRow(tx, t, []string{"restaurant_id", "language_code", "field_name"}, []string{"field_value", "updated_at"}); err != nil {
			return err
		}
		var saved models.RestaurantTranslation
		if err := tx.Where("restaurant_id = ? AND language_code = ? AND field_name = ?", t.RestaurantID, t.LanguageCode, t.FieldName).
			First(&saved).Error; err != nil {
			return err
		}
		*t = saved
		return nil
	})
}

func (r *TranslationRepository) UpsertSection(ctx context.Context, t *models.SectionTranslation) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertRow(tx, t, []string{"section_id", "language_code", "field_name"}, []string{"field_value", "updated_at"}); err != nil {
			return err
		}
		var saved models.SectionTranslation
		if err := tx.Where("section_id = ? AND language_code = ? AND field_name = ?", t.SectionID, t.LanguageCode, t.FieldName).
			First(&saved).Error; err != nil {
			return err
		}
		*t = saved
		return nil
	})
}

func (r *TranslationRepository) UpsertItem(ctx context.Context, t *models.ItemTranslation) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertRow(tx, t, []string{"item_id", "language_code", "field_name"}, []string{"field_value", "updated_at"}); err != nil {
			return err
		}
		var saved models.ItemTranslation
		if err := tx.Where("item_id = ? AND language_code = ? AND field_name = ?", t.ItemID, t.LanguageCode, t.FieldName).
			First(&saved).Error; err != nil {
			return err
		}
		*t = saved
		return nil
	})
}

func (r *TranslationRepository) UpsertIngredient(ctx context.Context, t *models.IngredientTranslation) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertRow(tx, t, []string{"ingredient_id", "language_code"}, []string{"name", "updated_at"}); err != nil {
			return err
		}
		var saved models.IngredientTranslation
		if err := tx.Where("ingredient_id = ? AND language_code = ?", t.IngredientID, t.LanguageCode).First(&saved).Error; err != nil {
			return err
		}
		*t = saved
		return nil
	})
}

func (r *TranslationRepository) UpsertAllergen(ctx context.Context, t *models.AllergenTranslation) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertRow(tx, t, []string{"allergen_id", "language_code"}, []string{"display_name", "updated_at"}); err != nil {
			return err
		}
		var saved models.AllergenTranslation
		if err := tx.Where("allergen_id = ? AND language_code = ?", t.AllergenID, t.LanguageCode).First(&saved).Error; err != nil {
			return err
		}
		*t = saved
		return nil
	})
}

func deleteWhere(ctx context.Context, db *gorm.DB, model interface{}, query string, args ...interface{}) error {
	res := db.WithContext(ctx).Where(query, args...).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TranslationRepository) DeleteRestaurant(ctx context.Context, restaurantID string, lang models.LanguageCode, field models.TranslatableField) error {
	return deleteWhere(ctx, r.DB, &models.RestaurantTranslation{},
		"restaurant_id = ? AND language_code = ? AND field_name = ?", restaurantID, lang, field)
}

func (r *TranslationRepository) DeleteSection(ctx context.Context, sectionID string, lang models.LanguageCode, field models.TranslatableField) error {
	return deleteWhere(ctx, r.DB, &models.SectionTranslation{},
		"section_id = ? AND language_code = ? AND field_name = ?", sectionID, lang, field)
}

func (r *TranslationRepository) DeleteItem(ctx context.Context, itemID string, lang models.LanguageCode, field models.TranslatableField) error {
	return deleteWhere(ctx, r.DB, &models.ItemTranslation{},
		"item_id = ? AND language_code = ? AND field_name = ?", itemID, lang, field)
}

func (r *TranslationRepository) ListSection(ctx context.Context, sectionID string) ([]models.SectionTranslation, error) {
	var out []models.SectionTranslation
	err := r.DB.WithContext(ctx).Where("section_id = ?", sectionID).Order("language_code, field_name").Find(&out).Error
	return out, err
}

func (r *TranslationRepository) ListItem(ctx context.Context, itemID string) ([]models.ItemTranslation, error) {
	var out []models.ItemTranslation
	err := r.DB.WithContext(ctx).Where("item_id = ?", itemID).Order("language_code, field_name").Find(&out).Error
	return out, err
}

func (r *TranslationRepository) owner(ctx context.Context, query string, id string) (Owner, error) {
	var o struct {
		MenuID  string
		OwnerID string
	}
	res := r.DB.WithContext(ctx).Raw(query, id).Scan(&o)
	if res.Error != nil {
		return Owner{}, res.Error
	}
	if res.RowsAffected == 0 || o.MenuID == "" {
		return Owner{}, ErrNotFound
	}
	return Owner{MenuID: o.MenuID, OwnerID: o.OwnerID}, nil
}

const (
	sectionOwnerSQL = `SELECT menus.id AS menu_id, menus.owner_id AS owner_id
  FROM menu_sections
  JOIN menus ON menus.id = menu_sections.menu_id
 WHERE menu_sections.id = ?`
	itemOwnerSQL = `SELECT menus.id AS menu_id, menus.owner_id AS owner_id
  FROM menu_items
  JOIN menu_sections ON menu_sections.id = menu_items.section_id
  JOIN menus ON menus.id = menu_sections.menu_id
 WHERE menu_items.id = ?`
	ingredientOwnerSQL = `SELECT menus.id AS menu_id, menus.owner_id AS owner_id
  FROM ingredients
  JOIN menu_items ON menu_items.id = ingredients.item_id
  JOIN menu_sections ON menu_sections.id = menu_items.section_id
  JOIN menus ON menus.id = menu_sections.menu_id
 WHERE ingredients.id = ?`
	allergenOwnerSQL = `SELECT menus.id AS menu_id, menus.owner_id AS owner_id
  FROM item_allergens
  JOIN menu_items ON menu_items.id = item_allergens.item_id
  JOIN menu_sections ON menu_sections.id = menu_items.section_id
  JOIN menus ON menus.id = menu_sections.menu_id
 WHERE item_allergens.id = ?`
)

func (r *TranslationRepository) SectionOwner(ctx context.Context, sectionID string) (Owner, error) {
	return r.owner(ctx, sectionOwnerSQL, sectionID)
}

func (r *TranslationRepository) ItemOwner(ctx context.Context, itemID string) (Owner, error) {
	return r.owner(ctx, itemOwnerSQL, itemID)
}

func (r *TranslationRepository) IngredientOwner(ctx context.Context, ingredientID string) (Owner, error) {
	return r.owner(ctx, ingredientOwnerSQL, ingredientID)
}

func (r *TranslationRepository) AllergenOwner(ctx context.Context, allergenID string) (Owner, error) {
	return r.owner(ctx, allergenOwnerSQL, allergenID)
}
