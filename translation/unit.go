// Package translation collects the translatable text of a menu, lets callers
// choose which units and languages to translate, and dispatches the
// resulting (unit, language) pairs to a translation endpoint.
package translation

import "strings"

// Kind is the category of a translatable unit. It decides which table and
// field receive the translated text.
type Kind string

const (
	KindMenuName           Kind = "menu_name"
	KindMenuDescription    Kind = "menu_description"
	KindSectionName        Kind = "section_name"
	KindSectionDescription Kind = "section_description"
	KindItemName           Kind = "item_name"
	KindItemDescription    Kind = "item_description"
	KindIngredient         Kind = "ingredient"
	KindAllergen           Kind = "allergen"
)

// Kinds lists every content kind in collection order.
var Kinds = []Kind{
	KindMenuName, KindMenuDescription,
	KindSectionName, KindSectionDescription,
	KindItemName, KindItemDescription,
	KindIngredient, KindAllergen,
}

func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// IsName reports whether the kind holds a display name. Names are left out of
// the default selection.
func (k Kind) IsName() bool { return strings.HasSuffix(string(k), "_name") }

// Persisted reports whether translations of this kind have a storage table.
func (k Kind) Persisted() bool { return k != KindMenuName && k != KindMenuDescription }

// Unit is one piece of Italian source text plus what is needed to translate
// and store it on its own.
type Unit struct {
	ID         string `json:"id"`
	Kind       Kind   `json:"type"`
	Text       string `json:"content"`
	EntityID   string `json:"entityId"`
	Breadcrumb string `json:"parentLabel,omitempty"`
}

var idPrefix = map[Kind]string{
	KindMenuName:           "menu-name",
	KindMenuDescription:    "menu-desc",
	KindSectionName:        "section-name",
	KindSectionDescription: "section-desc",
	KindItemName:           "item-name",
	KindItemDescription:    "item-desc",
	KindIngredient:         "ingredient",
	KindAllergen:           "allergen",
}

func unitID(k Kind, entityID string) string { return idPrefix[k] + "-" + entityID }
