package repository

import (
	"context"

	"digital-menu-api/models"

	"gorm.io/gorm"
)

type SectionRepository struct{ DB *gorm.DB }

func NewSectionRepository(db *gorm.DB) *SectionRepository { return &SectionRepository{DB: db} }

// Create appends the section after the last one of its menu when no
// display order is given.
func (r *SectionRepository) Create(ctx context.Context, s *models.MenuSection) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.DisplayOrder == 0 {
			var max *int
			if err := tx.Model(&models.MenuSection{}).Where("menu_id = ?", s.MenuID).
				Select("MAX(display_order)").Scan(&max).Error; err != nil {
				return err
			}
			if max != nil {
				s.DisplayOrder = *max + 1
			} else {
				s.DisplayOrder = 1
			}
		}
		return tx.Omit("Items", "Translations").Create(s).Error
	})
}

// GetOwned loads a section whose menu belongs to ownerID.
func (r *SectionRepository) GetOwned(ctx context.Context, ownerID, id string) (*models.MenuSection, error) {
	var s models.MenuSection
	err := r.DB.WithContext(ctx).
		Joins("JOIN menus ON menus.id = menu_sections.menu_id").
		Where("menu_sections.id = ? AND menus.owner_id = ?", id, ownerID).
		Preload("Translations").
		First(&s).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *SectionRepository) ListByMenu(ctx context.Context, menuID string) ([]models.MenuSection, error) {
	var out []models.MenuSection
	err := byDisplayOrder(r.DB.WithContext(ctx).Where("menu_id = ?", menuID)).Find(&out).Error
	return out, err
}

func (r *SectionRepository) Update(ctx context.Context, s *models.MenuSection, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return translate(r.DB.WithContext(ctx).Model(s).Updates(fields).Error)
}

func (r *SectionRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.MenuSection{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return deleteSectionsTx(tx, []string{id})
	})
}

// Reorder assigns display orders 1..n following ids. Every id must belong to menuID.
func (r *SectionRepository) Reorder(ctx context.Context, menuID string, ids []string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			res := tx.Model(&models.MenuSection{}).Where("id = ? AND menu_id = ?", id, menuID).Update("display_order", i+1)
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
