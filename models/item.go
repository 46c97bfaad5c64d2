package models

type MenuItem struct {
	Base
	SectionID       string   `json:"section_id" gorm:"index;not null"`
	ItemType        ItemType `json:"item_type" gorm:"not null"`
	Name            string   `json:"name" gorm:"not null"`
	Description     string   `json:"description"`
	Price           *float64 `json:"price,omitempty"`
	Currency        string   `json:"currency" gorm:"not null"`
	ImageURL        string   `json:"image_url"`
	DisplayOrder    int      `json:"display_order"`
	IsAvailable     bool     `json:"is_available"`
	IsFeatured      bool     `json:"is_featured"`
	PreparationTime *int     `json:"preparation_time,omitempty"`
	Calories        *int     `json:"calories,omitempty"`
	Weight          *float64 `json:"weight,omitempty"`

	// alcoholic drinks
	AlcoholContent *float64 `json:"alcohol_content,omitempty"`
	ServingFormat  string   `json:"serving_format,omitempty"`
	VolumeML       *int     `json:"volume_ml,omitempty"`

	// wine
	WineType            string     `json:"wine_type,omitempty"`
	WineCharacteristics StringList `json:"wine_characteristics,omitempty"`
	GrapeVariety        string     `json:"grape_variety,omitempty"`
	WineRegion          string     `json:"wine_region,omitempty"`
	WineProducer        string     `json:"wine_producer,omitempty"`
	Vintage             *int       `json:"vintage,omitempty"`

	// beer
	BeerStyle string `json:"beer_style,omitempty"`
	Brewery   string `json:"brewery,omitempty"`
	IBU       *int   `json:"ibu,omitempty"`

	Ingredients  []Ingredient      `json:"ingredients,omitempty" gorm:"foreignKey:ItemID"`
	Allergens    []ItemAllergen    `json:"allergens,omitempty" gorm:"foreignKey:ItemID"`
	DietaryTags  []ItemDietaryTag  `json:"dietary_tags,omitempty" gorm:"foreignKey:ItemID"`
	Translations []ItemTranslation `json:"translations,omitempty" gorm:"foreignKey:ItemID"`
}

type Ingredient struct {
	Base
	ItemID       string                  `json:"item_id" gorm:"index;not null"`
	Name         string                  `json:"name" gorm:"not null"`
	DisplayOrder int                     `json:"display_order"`
	IsMain       bool                    `json:"is_main"`
	Translations []IngredientTranslation `json:"translations,omitempty" gorm:"foreignKey:IngredientID"`
}

type ItemAllergen struct {
	Base
	ItemID       string                `json:"item_id" gorm:"uniqueIndex:idx_item_allergen;not null"`
	Code         AllergenCode          `json:"allergen_code" gorm:"uniqueIndex:idx_item_allergen;not null"`
	Translations []AllergenTranslation `json:"translations,omitempty" gorm:"foreignKey:AllergenID"`
}

type ItemDietaryTag struct {
	Base
	ItemID string         `json:"item_id" gorm:"uniqueIndex:idx_item_tag;not null"`
	Code   DietaryTagCode `json:"tag_code" gorm:"uniqueIndex:idx_item_tag;not null"`
}
