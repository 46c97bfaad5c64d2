package handlers

import (
	"digital-menu-api/labels"
	"digital-menu-api/models"
)

// Localized views resolve every translatable field for one language.

type LocalizedText struct {
	ID   string           `json:"id"`
	Text models.Localized `json:"text"`
}

type LocalizedAllergen struct {
	ID    string              `json:"id"`
	Code  models.AllergenCode `json:"allergen_code"`
	Label models.Localized    `json:"label"`
}

type DietaryTagView struct {
	Code  models.DietaryTagCode `json:"tag_code"`
	Label string                `json:"label"`
}

type LocalizedItem struct {
	ID          string              `json:"id"`
	ItemType    models.ItemType     `json:"item_type"`
	Name        models.Localized    `json:"name"`
	Description models.Localized    `json:"description"`
	Price       *float64            `json:"price,omitempty"`
	Currency    string              `json:"currency"`
	ImageURL    string              `json:"image_url,omitempty"`
	IsAvailable bool                `json:"is_available"`
	IsFeatured  bool                `json:"is_featured"`
	Ingredients []LocalizedText     `json:"ingredients"`
	Allergens   []LocalizedAllergen `json:"allergens"`
	DietaryTags []DietaryTagView    `json:"dietary_tags"`
}

type LocalizedSection struct {
	ID          string           `json:"id"`
	Name        models.Localized `json:"name"`
	Description models.Localized `json:"description"`
	Icon        string           `json:"icon,omitempty"`
	IsVisible   bool             `json:"is_visible"`
	Items       []LocalizedItem  `json:"items"`
}

type LocalizedMenu struct {
	ID          string              `json:"id"`
	Language    models.LanguageCode `json:"language"`
	Name        models.Localized    `json:"name"`
	Description models.Localized    `json:"description"`
	Sections    []LocalizedSection  `json:"sections"`
}

// untranslated resolves a field that has no translation storage.
func untranslated(base string, lang models.LanguageCode) models.Localized {
	l := models.Default(base)
	l.Fallback = lang != "" && lang != models.DefaultLanguage
	return l
}

func localizeItem(it *models.MenuItem, lang models.LanguageCode) LocalizedItem {
	out := LocalizedItem{
		ID:          it.ID,
		ItemType:    it.ItemType,
		Name:        models.Localize(it.Name, models.FieldName, it.Translations, lang),
		Description: models.Localize(it.Description, models.FieldDescription, it.Translations, lang),
		Price:       it.Price,
		Currency:    it.Currency,
		ImageURL:    it.ImageURL,
		IsAvailable: it.IsAvailable,
		IsFeatured:  it.IsFeatured,
		Ingredients: make([]LocalizedText, 0, len(it.Ingredients)),
		Allergens:   make([]LocalizedAllergen, 0, len(it.Allergens)),
		DietaryTags: make([]DietaryTagView, 0, len(it.DietaryTags)),
	}
	for _, ing := range it.Ingredients {
		out.Ingredients = append(out.Ingredients, LocalizedText{
			ID:   ing.ID,
			Text: models.Localize(ing.Name, models.FieldName, ing.Translations, lang),
		})
	}
	for _, a := range it.Allergens {
		base := labels.AllergenLabel(a.Code, models.DefaultLanguage)
		out.Allergens = append(out.Allergens, LocalizedAllergen{
			ID:    a.ID,
			Code:  a.Code,
			Label: models.Localize(base, models.FieldDisplayName, a.Translations, lang),
		})
	}
	for _, t := range it.DietaryTags {
		out.DietaryTags = append(out.DietaryTags, DietaryTagView{Code: t.Code, Label: labels.DietaryTagLabel(t.Code, lang)})
	}
	return out
}

func localizeMenu(m *models.Menu, lang models.LanguageCode) LocalizedMenu {
	out := LocalizedMenu{
		ID:          m.ID,
		Language:    lang,
		Name:        untranslated(m.Name, lang),
		Description: untranslated(m.Description, lang),
		Sections:    make([]LocalizedSection, 0, len(m.Sections)),
	}
	for _, s := range m.Sections {
		ls := LocalizedSection{
			ID:          s.ID,
			Name:        models.Localize(s.Name, models.FieldName, s.Translations, lang),
			Description: models.Localize(s.Description, models.FieldDescription, s.Translations, lang),
			Icon:        s.Icon,
			IsVisible:   s.IsVisible,
			Items:       make([]LocalizedItem, 0, len(s.Items)),
		}
		for i := range s.Items {
			ls.Items = append(ls.Items, localizeItem(&s.Items[i], lang))
		}
		out.Sections = append(out.Sections, ls)
	}
	return out
}
