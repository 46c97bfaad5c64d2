package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the string UUID primary key and timestamps shared by every table.
type Base struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// All lists every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Restaurant{},
		&RestaurantTranslation{},
		&RestaurantSocial{},
		&Menu{},
		&RestaurantMenu{},
		&MenuSection{},
		&SectionTranslation{},
		&MenuItem{},
		&ItemTranslation{},
		&Ingredient{},
		&IngredientTranslation{},
		&ItemAllergen{},
		&AllergenTranslation{},
		&ItemDietaryTag{},
		&TranslationJob{},
		&JobStatusHistory{},
	}
}
