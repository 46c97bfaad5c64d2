package labels

import (
	"testing"

	"digital-menu-api/models"
)

func TestAllergenLabel(t *testing.T) {
	tests := []struct {
		code models.AllergenCode
		lang models.LanguageCode
		want string
	}{
		{models.AllergenTreeNuts, "it", "Frutta a guscio"},
		{models.AllergenTreeNuts, "en", "Tree nuts"},
		{models.AllergenSulphites, "en", "Sulphites"},
		{models.AllergenGluten, "fr", "Glutine"},
		{"unknown", "en", "unknown"},
	}
	for _, tt := range tests {
		if got := AllergenLabel(tt.code, tt.lang); got != tt.want {
			t.Errorf("AllergenLabel(%s, %s) = %q, want %q", tt.code, tt.lang, got, tt.want)
		}
	}
}

func TestDietaryTagLabel(t *testing.T) {
	if got := DietaryTagLabel("senza_glutine", "en"); got != "Gluten-free" {
		t.Errorf("got %q", got)
	}
	if got := DietaryTagLabel("crudo", "it"); got != "Crudo" {
		t.Errorf("got %q", got)
	}
}

func TestVocabulariesAreFullyLabelled(t *testing.T) {
	for _, e := range Allergens() {
		if e.LabelIT == e.Code || e.LabelEN == e.Code {
			t.Errorf("allergen %s has no label", e.Code)
		}
	}
	if len(Allergens()) != 14 {
		t.Errorf("allergens = %d, want 14", len(Allergens()))
	}
	for _, e := range DietaryTags() {
		if e.LabelIT == "" || e.LabelEN == "" {
			t.Errorf("tag %s has no label", e.Code)
		}
	}
	if len(DietaryTags()) != 9 {
		t.Errorf("tags = %d, want 9", len(DietaryTags()))
	}
}
