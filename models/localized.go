package models

// Localized is the resolved value of a translatable field. It is either the
// Default variant (the base column, in Italian) or a Translated variant for a
// target language. Fallback is set when a target language was requested but
// no row exists for it.
type Localized struct {
	Value    string       `json:"value"`
	Language LanguageCode `json:"language"`
	Fallback bool         `json:"fallback,omitempty"`
}

func Default(value string) Localized {
	return Localized{Value: value, Language: DefaultLanguage}
}

func Translated(lang LanguageCode, value string) Localized {
	return Localized{Value: value, Language: lang}
}

func (l Localized) IsDefault() bool { return l.Language == DefaultLanguage }

// Localize resolves field for the wanted language. The default language never
// consults rows.
func Localize[T FieldTranslation](base string, field TranslatableField, rows []T, want LanguageCode) Localized {
	if want == "" || want == DefaultLanguage {
		return Default(base)
	}
	for _, r := range rows {
		if r.Lang() == want && r.Field() == field && r.Text() != "" {
			return Translated(want, r.Text())
		}
	}
	l := Default(base)
	l.Fallback = true
	return l
}
