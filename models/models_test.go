package models

import "testing"

func TestLocalize(t *testing.T) {
	rows := []ItemTranslation{
		{LanguageCode: "en", FieldName: FieldName, FieldValue: "Grilled bread"},
		{LanguageCode: "en", FieldName: FieldDescription, FieldValue: ""},
		{LanguageCode: "it", FieldName: FieldName, FieldValue: "should never win"},
	}

	tests := []struct {
		name  string
		field TranslatableField
		want  LanguageCode
		exp   Localized
	}{
		{"default language ignores rows", FieldName, "it", Localized{Value: "Bruschetta", Language: "it"}},
		{"empty language is default", FieldName, "", Localized{Value: "Bruschetta", Language: "it"}},
		{"translated row", FieldName, "en", Localized{Value: "Grilled bread", Language: "en"}},
		{"empty row falls back", FieldDescription, "en", Localized{Value: "Bruschetta", Language: "it", Fallback: true}},
		{"missing language falls back", FieldName, "fr", Localized{Value: "Bruschetta", Language: "it", Fallback: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Localize("Bruschetta", tt.field, rows, tt.want)
			if got != tt.exp {
				t.Errorf("Localize() = %+v, want %+v", got, tt.exp)
			}
		})
	}
}

func TestLocalize_AllergenDisplayName(t *testing.T) {
	rows := []AllergenTranslation{{LanguageCode: "de", DisplayName: "Gluten"}}
	got := Localize("Glutine", FieldDisplayName, rows, "de")
	if got.Value != "Gluten" || got.IsDefault() {
		t.Errorf("got %+v", got)
	}
}

func TestStringList_ValueScan(t *testing.T) {
	v, err := StringList(nil).Value()
	if err != nil || v != "[]" {
		t.Fatalf("nil Value() = %v, %v", v, err)
	}
	v, _ = StringList{"dry", "still"}.Value()

	var l StringList
	if err := l.Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(l) != 2 || l[1] != "still" {
		t.Errorf("l = %v", l)
	}
	if err := l.Scan([]byte(`["a"]`)); err != nil || len(l) != 1 {
		t.Errorf("bytes Scan = %v, %v", l, err)
	}
	if err := l.Scan(nil); err != nil || l != nil {
		t.Errorf("nil Scan = %v, %v", l, err)
	}
	if err := l.Scan(42); err == nil {
		t.Error("expected error for int source")
	}
}

func TestVocabulary(t *testing.T) {
	if !IsTargetLanguage("ja") || IsTargetLanguage("it") {
		t.Error("target language allow-list is wrong")
	}
	if len(AllergenCodes) != 14 {
		t.Errorf("allergens = %d", len(AllergenCodes))
	}
	if !IsAllergenCode("sedano") || IsAllergenCode("celery") {
		t.Error("IsAllergenCode")
	}
	if ItemFood.IsAlcoholic() || !ItemWine.IsAlcoholic() {
		t.Error("IsAlcoholic")
	}
}
