package repository

import (
	"context"

	"digital-menu-api/models"

	"gorm.io/gorm"
)

type RestaurantRepository struct{ DB *gorm.DB }

func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{DB: db}
}

func (r *RestaurantRepository) Create(ctx context.Context, rest *models.Restaurant) error {
	return translate(r.DB.WithContext(ctx).Create(rest).Error)
}

func (r *RestaurantRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Restaurant, error) {
	var out []models.Restaurant
	err := r.DB.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at ASC, id ASC").Find(&out).Error
	return out, err
}

func (r *RestaurantRepository) ListAll(ctx context.Context) ([]models.Restaurant, error) {
	var out []models.Restaurant
	err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

// GetOwned loads a restaurant of ownerID with translations and socials.
func (r *RestaurantRepository) GetOwned(ctx context.Context, ownerID, id string) (*models.Restaurant, error) {
	var rest models.Restaurant
	err := r.DB.WithContext(ctx).
		Preload("Translations", func(db *gorm.DB) *gorm.DB { return db.Order("language_code, field_name") }).
		Preload("Socials", func(db *gorm.DB) *gorm.DB { return db.Order("platform") }).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&rest).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rest, nil
}

// Update applies column updates to rest.
func (r *RestaurantRepository) Update(ctx context.Context, rest *models.Restaurant, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return translate(r.DB.WithContext(ctx).Model(rest).Updates(fields).Error)
}

// Delete removes the restaurant with its translations, socials and menu links.
// Menus themselves are owned by the user and survive.
func (r *RestaurantRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("restaurant_id = ?", id).Delete(&models.RestaurantTranslation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("restaurant_id = ?", id).Delete(&models.RestaurantSocial{}).Error; err != nil {
			return err
		}
		if err := tx.Where("restaurant_id = ?", id).Delete(&models.RestaurantMenu{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Restaurant{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *RestaurantRepository) UpsertSocial(ctx context.Context, s *models.RestaurantSocial) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertRow(tx, s, []string{"restaurant_id", "platform"}, []string{"handle", "updated_at"}); err != nil {
			return err
		}
		var saved models.RestaurantSocial
		if err := tx.Where("restaurant_id = ? AND platform = ?", s.RestaurantID, s.Platform).First(&saved).Error; err != nil {
			return err
		}
		*s = saved
		return nil
	})
}

func (r *RestaurantRepository) DeleteSocial(ctx context.Context, restaurantID, platform string) error {
	res := r.DB.WithContext(ctx).
		Where("restaurant_id = ? AND platform = ?", restaurantID, platform).
		Delete(&models.RestaurantSocial{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Menus lists the menus attached to a restaurant, primary first.
func (r *RestaurantRepository) Menus(ctx context.Context, restaurantID string) ([]models.RestaurantMenu, error) {
	var out []models.RestaurantMenu
	err := r.DB.WithContext(ctx).
		Preload("Menu").
		Where("restaurant_id = ?", restaurantID).
		Order("is_primary DESC, display_order ASC").
		Find(&out).Error
	return out, err
}
