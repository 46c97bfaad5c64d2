package translation

import (
	"errors"
	"testing"

	"digital-menu-api/models"
)

func sampleUnits() []Unit {
	return []Unit{
		{ID: "menu-name-m", Kind: KindMenuName},
		{ID: "menu-desc-m", Kind: KindMenuDescription},
		{ID: "section-name-s", Kind: KindSectionName},
		{ID: "item-name-i", Kind: KindItemName},
		{ID: "item-desc-i", Kind: KindItemDescription},
		{ID: "ingredient-g", Kind: KindIngredient},
		{ID: "allergen-a", Kind: KindAllergen},
	}
}

func TestNewSelection_Defaults(t *testing.T) {
	s := NewSelection(sampleUnits())
	for _, u := range sampleUnits() {
		if s.IsSelected(u.ID) == u.Kind.IsName() {
			t.Errorf("%s selected = %v", u.ID, s.IsSelected(u.ID))
		}
	}
	if langs := s.Languages(); len(langs) != 1 || langs[0] != "en" {
		t.Errorf("languages = %v", langs)
	}
	if s.SelectedCount() != 4 || s.TotalCount() != 7 || s.PairCount() != 4 {
		t.Errorf("counts = %d/%d/%d", s.SelectedCount(), s.TotalCount(), s.PairCount())
	}
}

func TestNewSelection_CallerLanguages(t *testing.T) {
	s := NewSelection(sampleUnits(), "de", "xx", "it", "fr", "de")
	langs := s.Languages()
	if len(langs) != 2 || langs[0] != "de" || langs[1] != "fr" {
		t.Errorf("languages = %v", langs)
	}
}

func TestSelection_Toggles(t *testing.T) {
	s := NewSelection(sampleUnits())

	if !s.ToggleUnit("item-name-i") || s.ToggleUnit("item-name-i") {
		t.Error("ToggleUnit should flip the flag")
	}
	if s.ToggleUnit("missing") {
		t.Error("unknown unit toggled")
	}

	if err := s.ToggleLanguage("ja"); err != nil {
		t.Fatal(err)
	}
	if err := s.ToggleLanguage("en"); err != nil {
		t.Fatal(err)
	}
	if langs := s.Languages(); len(langs) != 1 || langs[0] != "ja" {
		t.Errorf("languages = %v", langs)
	}
	if err := s.ToggleLanguage("it"); !errors.Is(err, ErrUnsupportedLanguage) {
		t.Errorf("err = %v", err)
	}

	s.ToggleKind(KindItemDescription)
	if s.IsSelected("item-desc-i") {
		t.Error("ToggleKind on a fully selected kind should deselect")
	}
	s.ToggleKind(KindItemDescription)
	if !s.IsSelected("item-desc-i") {
		t.Error("ToggleKind should reselect")
	}
}

func TestSelection_BulkLeavesLanguages(t *testing.T) {
	s := NewSelection(sampleUnits(), "en", "fr")
	s.SelectAll()
	if s.SelectedCount() != 7 || s.PairCount() != 14 {
		t.Errorf("after SelectAll: %d, %d", s.SelectedCount(), s.PairCount())
	}
	s.DeselectAll()
	if s.SelectedCount() != 0 || s.PairCount() != 0 || len(s.Languages()) != 2 {
		t.Errorf("after DeselectAll: %d, %d, %v", s.SelectedCount(), s.PairCount(), s.Languages())
	}
}

func TestSelection_SelectOnly(t *testing.T) {
	s := NewSelection(sampleUnits())
	if err := s.SelectOnly([]string{"item-desc-i", "nope"}); err == nil {
		t.Fatal("expected error for unknown unit")
	}
	if s.SelectedCount() != 4 {
		t.Error("failed SelectOnly changed the selection")
	}
	if err := s.SelectOnly([]string{"allergen-a", "menu-name-m"}); err != nil {
		t.Fatal(err)
	}
	got := s.SelectedUnits()
	if len(got) != 2 || got[0].ID != "menu-name-m" || got[1].ID != "allergen-a" {
		t.Errorf("selected = %v", ids(got))
	}
}

func TestSelection_Plan(t *testing.T) {
	p := NewSelection(sampleUnits(), models.LanguageCode("es")).Plan()
	if len(p.Units) != 7 || p.Units[0].Selected || !p.Units[1].Selected {
		t.Errorf("plan units = %+v", p.Units)
	}
	if p.PairCount != 4 || p.Languages[0] != "es" {
		t.Errorf("plan = %+v", p)
	}
}
