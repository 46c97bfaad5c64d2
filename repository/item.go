package repository

import (
	"context"

	"digital-menu-api/models"

	"gorm.io/gorm"
)

type ItemRepository struct{ DB *gorm.DB }

func NewItemRepository(db *gorm.DB) *ItemRepository { return &ItemRepository{DB: db} }

const itemOwnerJoin = "JOIN menu_sections ON menu_sections.id = menu_items.section_id JOIN menus ON menus.id = menu_sections.menu_id"

// Create inserts the item with its ingredients, allergens and dietary tags.
func (r *ItemRepository) Create(ctx context.Context, item *models.MenuItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if item.DisplayOrder == 0 {
			var max *int
			if err := tx.Model(&models.MenuItem{}).Where("section_id = ?", item.SectionID).
				Select("MAX(display_order)").Scan(&max).Error; err != nil {
				return err
			}
			item.DisplayOrder = 1
			if max != nil {
				item.DisplayOrder = *max + 1
			}
		}
		return translate(tx.Omit("Translations").Create(item).Error)
	})
}

func (r *ItemRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Ingredients", byDisplayOrder).
		Preload("Ingredients.Translations").
		Preload("Allergens", byCreation).
		Preload("Allergens.Translations").
		Preload("DietaryTags").
		Preload("Translations")
}

// GetOwned loads an item with relations if its menu belongs to ownerID.
func (r *ItemRepository) GetOwned(ctx context.Context, ownerID, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.withRelations(r.DB.WithContext(ctx)).
		Joins(itemOwnerJoin).
		Where("menu_items.id = ? AND menus.owner_id = ?", id, ownerID).
		First(&item).Error
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// LoadRelations returns the ingredients and allergens of one item in display order.
func (r *ItemRepository) LoadRelations(ctx context.Context, itemID string) ([]models.Ingredient, []models.ItemAllergen, error) {
	var ingredients []models.Ingredient
	if err := byDisplayOrder(r.DB.WithContext(ctx).Where("item_id = ?", itemID)).Find(&ingredients).Error; err != nil {
		return nil, nil, err
	}
	var allergens []models.ItemAllergen
	if err := byCreation(r.DB.WithContext(ctx).Where("item_id = ?", itemID)).Find(&allergens).Error; err != nil {
		return nil, nil, err
	}
	return ingredients, allergens, nil
}

func (r *ItemRepository) ListBySection(ctx context.Context, sectionID string) ([]models.MenuItem, error) {
	var out []models.MenuItem
	err := r.withRelations(byDisplayOrder(r.DB.WithContext(ctx).Where("section_id = ?", sectionID))).Find(&out).Error
	return out, err
}

func (r *ItemRepository) Update(ctx context.Context, item *models.MenuItem, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return translate(r.DB.WithContext(ctx).Model(item).Updates(fields).Error)
}

func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.MenuItem{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return deleteItemsTx(tx, []string{id})
	})
}

// Duplicate copies an item with its ingredients, allergens and dietary tags
// into the same section, right after the last item. Translations are not copied.
func (r *ItemRepository) Duplicate(ctx context.Context, src *models.MenuItem, newName string) (*models.MenuItem, error) {
	dup := *src
	dup.Base = models.Base{}
	dup.Name = newName
	dup.DisplayOrder = 0
	dup.Translations = nil
	dup.Ingredients = make([]models.Ingredient, len(src.Ingredients))
	for i, ing := range src.Ingredients {
		dup.Ingredients[i] = models.Ingredient{Name: ing.Name, DisplayOrder: ing.DisplayOrder, IsMain: ing.IsMain}
	}
	dup.Allergens = make([]models.ItemAllergen, len(src.Allergens))
	for i, a := range src.Allergens {
		dup.Allergens[i] = models.ItemAllergen{Code: a.Code}
	}
	dup.DietaryTags = make([]models.ItemDietaryTag, len(src.DietaryTags))
	for i, t := range src.DietaryTags {
		dup.DietaryTags[i] = models.ItemDietaryTag{Code: t.Code}
	}
	if err := r.Create(ctx, &dup); err != nil {
		return nil, err
	}
	return &dup, nil
}

// Reorder assigns display orders 1..n following ids within sectionID.
func (r *ItemRepository) Reorder(ctx context.Context, sectionID string, ids []string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			res := tx.Model(&models.MenuItem{}).Where("id = ? AND section_id = ?", id, sectionID).Update("display_order", i+1)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrNotFound
			}
		}
		return nil
	})
}

func (r *ItemRepository) AddIngredient(ctx context.Context, ing *models.Ingredient) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if ing.DisplayOrder == 0 {
			var n int64
			if err := tx.Model(&models.Ingredient{}).Where("item_id = ?", ing.ItemID).Count(&n).Error; err != nil {
				return err
			}
			ing.DisplayOrder = int(n) + 1
		}
		return tx.Omit("Translations").Create(ing).Error
	})
}

func (r *ItemRepository) DeleteIngredient(ctx context.Context, itemID, ingredientID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND item_id = ?", ingredientID, itemID).Delete(&models.Ingredient{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("ingredient_id = ?", ingredientID).Delete(&models.IngredientTranslation{}).Error
	})
}

// AddAllergen links an allergen code to the item. Linking twice is ErrDuplicate.
func (r *ItemRepository) AddAllergen(ctx context.Context, a *models.ItemAllergen) error {
	return translate(r.DB.WithContext(ctx).Omit("Translations").Create(a).Error)
}

func (r *ItemRepository) RemoveAllergen(ctx context.Context, itemID string, code models.AllergenCode) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a models.ItemAllergen
		if err := tx.Where("item_id = ? AND code = ?", itemID, code).First(&a).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("allergen_id = ?", a.ID).Delete(&models.AllergenTranslation{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", a.ID).Delete(&models.ItemAllergen{}).Error
	})
}

func (r *ItemRepository) AddDietaryTag(ctx context.Context, t *models.ItemDietaryTag) error {
	return translate(r.DB.WithContext(ctx).Create(t).Error)
}

func (r *ItemRepository) RemoveDietaryTag(ctx context.Context, itemID string, code models.DietaryTagCode) error {
	return deleteWhere(ctx, r.DB, &models.ItemDietaryTag{}, "item_id = ? AND code = ?", itemID, code)
}
