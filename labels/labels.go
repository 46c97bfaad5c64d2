// Package labels resolves display labels for the closed allergen and
// dietary-tag vocabularies. Catalogues are gettext files embedded in the
// binary; Italian is the source language and English the only other
// catalogue, every other language falls back to Italian.
package labels

import (
	"embed"
	"sync"

	"digital-menu-api/models"

	"github.com/leonelquinteros/gotext"
)

//go:embed all:locales
var locales embed.FS

const domain = "labels"

const (
	ctxAllergen   = "allergen"
	ctxDietaryTag = "dietary_tag"
)

var (
	once     sync.Once
	catalogs map[models.LanguageCode]*gotext.Locale
)

func load() {
	catalogs = make(map[models.LanguageCode]*gotext.Locale, 2)
	for _, lang := range []models.LanguageCode{models.DefaultLanguage, "en"} {
		l := gotext.NewLocaleFSWithPath(string(lang), locales, "locales")
		l.AddDomain(domain)
		catalogs[lang] = l
	}
}

func catalog(lang models.LanguageCode) *gotext.Locale {
	once.Do(load)
	if l, ok := catalogs[lang]; ok {
		return l
	}
	return catalogs[models.DefaultLanguage]
}

// AllergenLabel returns the display label of code. Unknown codes come back unchanged.
func AllergenLabel(code models.AllergenCode, lang models.LanguageCode) string {
	return catalog(lang).GetDC(domain, string(code), ctxAllergen)
}

func DietaryTagLabel(code models.DietaryTagCode, lang models.LanguageCode) string {
	return catalog(lang).GetDC(domain, string(code), ctxDietaryTag)
}

// Entry pairs a vocabulary code with its Italian and English labels.
type Entry struct {
	Code    string `json:"code"`
	LabelIT string `json:"label_it"`
	LabelEN string `json:"label_en"`
}

func Allergens() []Entry {
	out := make([]Entry, 0, len(models.AllergenCodes))
	for _, c := range models.AllergenCodes {
		out = append(out, Entry{
			Code:    string(c),
			LabelIT: AllergenLabel(c, models.DefaultLanguage),
			LabelEN: AllergenLabel(c, "en"),
		})
	}
	return out
}

func DietaryTags() []Entry {
	out := make([]Entry, 0, len(models.DietaryTagCodes))
	for _, c := range models.DietaryTagCodes {
		out = append(out, Entry{
			Code:    string(c),
			LabelIT: DietaryTagLabel(c, models.DefaultLanguage),
			LabelEN: DietaryTagLabel(c, "en"),
		})
	}
	return out
}
