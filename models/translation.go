package models

// TranslatableField names a text column that has per-language rows.
type TranslatableField string

const (
	FieldName        TranslatableField = "name"
	FieldDescription TranslatableField = "description"
	FieldAbout       TranslatableField = "about"
	FieldDisplayName TranslatableField = "display_name"
)

// FieldTranslation is implemented by every translation row so localized views
// can be resolved without knowing the owning table.
type FieldTranslation interface {
	Lang() LanguageCode
	Field() TranslatableField
	Text() string
}

type RestaurantTranslation struct {
	Base
	RestaurantID string            `json:"restaurant_id" gorm:"uniqueIndex:idx_restaurant_translation;not null"`
	LanguageCode LanguageCode      `json:"language_code" gorm:"uniqueIndex:idx_restaurant_translation;not null"`
	FieldName    TranslatableField `json:"field_name" gorm:"uniqueIndex:idx_restaurant_translation;not null"`
	FieldValue   string            `json:"field_value" gorm:"not null"`
}

type SectionTranslation struct {
	Base
	SectionID    string            `json:"section_id" gorm:"uniqueIndex:idx_section_translation;not null"`
	LanguageCode LanguageCode      `json:"language_code" gorm:"uniqueIndex:idx_section_translation;not null"`
	FieldName    TranslatableField `json:"field_name" gorm:"uniqueIndex:idx_section_translation;not null"`
	FieldValue   string            `json:"field_value" gorm:"not null"`
}

type ItemTranslation struct {
	Base
	ItemID       string            `json:"item_id" gorm:"uniqueIndex:idx_item_translation;not null"`
	LanguageCode LanguageCode      `json:"language_code" gorm:"uniqueIndex:idx_item_translation;not null"`
	FieldName    TranslatableField `json:"field_name" gorm:"uniqueIndex:idx_item_translation;not null"`
	FieldValue   string            `json:"field_value" gorm:"not null"`
}

type IngredientTranslation struct {
	Base
	IngredientID string       `json:"ingredient_id" gorm:"uniqueIndex:idx_ingredient_translation;not null"`
	LanguageCode LanguageCode `json:"language_code" gorm:"uniqueIndex:idx_ingredient_translation;not null"`
	Name         string       `json:"name" gorm:"not null"`
}

type AllergenTranslation struct {
	Base
	AllergenID   string       `json:"allergen_id" gorm:"uniqueIndex:idx_allergen_translation;not null"`
	LanguageCode LanguageCode `json:"language_code" gorm:"uniqueIndex:idx_allergen_translation;not null"`
	DisplayName  string       `json:"display_name" gorm:"not null"`
}

func (t RestaurantTranslation) Lang() LanguageCode       { return t.LanguageCode }
func (t RestaurantTranslation) Field() TranslatableField { return t.FieldName }
func (t RestaurantTranslation) Text() string             { return t.FieldValue }

func (t SectionTranslation) Lang() LanguageCode       { return t.LanguageCode }
func (t SectionTranslation) Field() TranslatableField { return t.FieldName }
func (t SectionTranslation) Text() string             { return t.FieldValue }

func (t ItemTranslation) Lang() LanguageCode       { return t.LanguageCode }
func (t ItemTranslation) Field() TranslatableField { return t.FieldName }
func (t ItemTranslation) Text() string             { return t.FieldValue }

func (t IngredientTranslation) Lang() LanguageCode       { return t.LanguageCode }
func (t IngredientTranslation) Field() TranslatableField { return FieldName }
func (t IngredientTranslation) Text() string             { return t.Name }

func (t AllergenTranslation) Lang() LanguageCode       { return t.LanguageCode }
func (t AllergenTranslation) Field() TranslatableField { return FieldDisplayName }
func (t AllergenTranslation) Text() string             { return t.DisplayName }
