package repository

import (
	"context"

	"digital-menu-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MenuRepository struct{ DB *gorm.DB }

func NewMenuRepository(db *gorm.DB) *MenuRepository { return &MenuRepository{DB: db} }

// Create inserts the menu and, in the same transaction, its initial sections.
func (r *MenuRepository) Create(ctx context.Context, menu *models.Menu, sections []models.MenuSection) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Sections").Create(menu).Error; err != nil {
			return err
		}
		if len(sections) == 0 {
			return nil
		}
		for i := range sections {
			sections[i].MenuID = menu.ID
		}
		if err := tx.Create(&sections).Error; err != nil {
			return err
		}
		menu.Sections = sections
		return nil
	})
}

func (r *MenuRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Menu, error) {
	var out []models.Menu
	err := r.DB.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *MenuRepository) GetOwned(ctx context.Context, ownerID, id string) (*models.Menu, error) {
	var m models.Menu
	if err := r.DB.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func byDisplayOrder(db *gorm.DB) *gorm.DB { return db.Order("display_order ASC, created_at ASC, id ASC") }

// byCreation orders by insertion time; rows created in one statement can share
// a timestamp, so id breaks ties.
func byCreation(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }

// GetTree loads a menu with ordered sections, their items and the text
// translations of both. withRelations also loads ingredients, allergens and
// dietary tags with their translations.
func (r *MenuRepository) GetTree(ctx context.Context, ownerID, id string, withRelations bool) (*models.Menu, error) {
	q := r.DB.WithContext(ctx).
		Preload("Sections", byDisplayOrder).
		Preload("Sections.Translations").
		Preload("Sections.Items", byDisplayOrder).
		Preload("Sections.Items.Translations")
	if withRelations {
		q = q.
			Preload("Sections.Items.Ingredients", byDisplayOrder).
			Preload("Sections.Items.Ingredients.Translations").
			Preload("Sections.Items.Allergens", byCreation).
			Preload("Sections.Items.Allergens.Translations").
			Preload("Sections.Items.DietaryTags")
	}
	var m models.Menu
	if err := q.Where("id = ? AND owner_id = ?", id, ownerID).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *MenuRepository) Update(ctx context.Context, menu *models.Menu, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return translate(r.DB.WithContext(ctx).Model(menu).Updates(fields).Error)
}

// Delete removes the menu and everything under it in one transaction:
// sections, items, item relations, every translation row, restaurant links
// and translation job records.
func (r *MenuRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sectionIDs []string
		if err := tx.Model(&models.MenuSection{}).Where("menu_id = ?", id).Pluck("id", &sectionIDs).Error; err != nil {
			return err
		}
		if err := deleteSectionsTx(tx, sectionIDs); err != nil {
			return err
		}
		if err := tx.Where("menu_id = ?", id).Delete(&models.RestaurantMenu{}).Error; err != nil {
			return err
		}
		var jobIDs []string
		if err := tx.Model(&models.TranslationJob{}).Where("menu_id = ?", id).Pluck("id", &jobIDs).Error; err != nil {
			return err
		}
		if len(jobIDs) > 0 {
			if err := tx.Where("job_id IN ?", jobIDs).Delete(&models.JobStatusHistory{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", jobIDs).Delete(&models.TranslationJob{}).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(&models.Menu{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Duplicate copies the menu and its sections under newName. Items and
// translations are not copied.
func (r *MenuRepository) Duplicate(ctx context.Context, ownerID, id, newName string) (*models.Menu, error) {
	var copyMenu *models.Menu
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var orig models.Menu
		if err := tx.Preload("Sections", byDisplayOrder).Where("id = ? AND owner_id = ?", id, ownerID).First(&orig).Error; err != nil {
			return translate(err)
		}
		m := models.Menu{OwnerID: ownerID, Name: newName, Description: orig.Description, IsActive: orig.IsActive}
		if err := tx.Omit("Sections").Create(&m).Error; err != nil {
			return err
		}
		if len(orig.Sections) > 0 {
			sections := make([]models.MenuSection, len(orig.Sections))
			for i, s := range orig.Sections {
				sections[i] = models.MenuSection{
					MenuID:       m.ID,
					Name:         s.Name,
					Description:  s.Description,
					Icon:         s.Icon,
					DisplayOrder: s.DisplayOrder,
					IsVisible:    s.IsVisible,
				}
			}
			if err := tx.Create(&sections).Error; err != nil {
				return err
			}
			m.Sections = sections
		}
		copyMenu = &m
		return nil
	})
	return copyMenu, err
}

// Attach links a menu to a restaurant. A primary link clears the primary
// flag of every other link of the restaurant in the same transaction.
func (r *MenuRepository) Attach(ctx context.Context, link *models.RestaurantMenu) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if link.IsPrimary {
			if err := lockRestaurantTx(tx, link.RestaurantID); err != nil {
				return err
			}
			if err := clearPrimaryTx(tx, link.RestaurantID); err != nil {
				return err
			}
		}
		return translate(tx.Omit("Menu").Create(link).Error)
	})
}

// SetPrimary makes menuID the only primary menu of restaurantID.
func (r *MenuRepository) SetPrimary(ctx context.Context, restaurantID, menuID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRestaurantTx(tx, restaurantID); err != nil {
			return err
		}
		if err := clearPrimaryTx(tx, restaurantID); err != nil {
			return err
		}
		res := tx.Model(&models.RestaurantMenu{}).
			Where("restaurant_id = ? AND menu_id = ?", restaurantID, menuID).
			Update("is_primary", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// lockRestaurantTx serialises primary menu changes of one restaurant. The
// unique index on primary links backs it on drivers without row locks.
func lockRestaurantTx(tx *gorm.DB, restaurantID string) error {
	var rest models.Restaurant
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", restaurantID).
		First(&rest).Error
	return translate(err)
}

func clearPrimaryTx(tx *gorm.DB, restaurantID string) error {
	return tx.Model(&models.RestaurantMenu{}).
		Where("restaurant_id = ? AND is_primary = ?", restaurantID, true).
		Update("is_primary", false).Error
}

func (r *MenuRepository) Detach(ctx context.Context, restaurantID, menuID string) error {
	return deleteWhere(ctx, r.DB, &models.RestaurantMenu{}, "restaurant_id = ? AND menu_id = ?", restaurantID, menuID)
}
