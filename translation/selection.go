package translation

import (
	"errors"
	"fmt"

	"digital-menu-api/models"
)

var ErrUnsupportedLanguage = errors.New("unsupported language")

// Selection tracks which collected units and which target languages a batch
// will cover. All methods are pure state changes.
type Selection struct {
	units     []Unit
	selected  map[string]bool
	languages []models.LanguageCode
}

// NewSelection applies the default policy: name kinds start unselected and
// every other kind selected. Without languages the first target language is
// selected. Unsupported or repeated languages are ignored.
func NewSelection(units []Unit, languages ...models.LanguageCode) *Selection {
	s := &Selection{units: units, selected: make(map[string]bool, len(units))}
	for _, u := range units {
		s.selected[u.ID] = !u.Kind.IsName()
	}
	for _, l := range languages {
		if models.IsTargetLanguage(string(l)) && !s.hasLanguage(l) {
			s.languages = append(s.languages, l)
		}
	}
	if len(languages) == 0 {
		s.languages = []models.LanguageCode{models.TargetLanguages[0].Code}
	}
	return s
}

func (s *Selection) hasLanguage(code models.LanguageCode) bool {
	for _, l := range s.languages {
		if l == code {
			return true
		}
	}
	return false
}

// ToggleUnit flips one unit and reports its new state. Unknown ids are a no-op.
func (s *Selection) ToggleUnit(id string) bool {
	cur, ok := s.selected[id]
	if !ok {
		return false
	}
	s.selected[id] = !cur
	return !cur
}

// ToggleLanguage adds or removes a target language. A newly selected language
// goes to the end of the order.
func (s *Selection) ToggleLanguage(code models.LanguageCode) error {
	if !models.IsTargetLanguage(string(code)) {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	for i, l := range s.languages {
		if l == code {
			s.languages = append(s.languages[:i:i], s.languages[i+1:]...)
			return nil
		}
	}
	s.languages = append(s.languages, code)
	return nil
}

// ToggleKind selects every unit of the kind, or deselects them all when they
// were already all selected.
func (s *Selection) ToggleKind(kind Kind) {
	all := true
	for _, u := range s.units {
		if u.Kind == kind && !s.selected[u.ID] {
			all = false
			break
		}
	}
	s.SetKind(kind, !all)
}

func (s *Selection) SetKind(kind Kind, on bool) {
	for _, u := range s.units {
		if u.Kind == kind {
			s.selected[u.ID] = on
		}
	}
}

func (s *Selection) SelectAll()   { s.setAll(true) }
func (s *Selection) DeselectAll() { s.setAll(false) }

func (s *Selection) setAll(on bool) {
	for id := range s.selected {
		s.selected[id] = on
	}
}

// SelectOnly leaves exactly the given units selected. Unknown ids are an error
// and leave the selection unchanged.
func (s *Selection) SelectOnly(ids []string) error {
	for _, id := range ids {
		if _, ok := s.selected[id]; !ok {
			return fmt.Errorf("unknown unit %q", id)
		}
	}
	s.setAll(false)
	for _, id := range ids {
		s.selected[id] = true
	}
	return nil
}

func (s *Selection) IsSelected(id string) bool { return s.selected[id] }

func (s *Selection) SelectedCount() int {
	n := 0
	for _, u := range s.units {
		if s.selected[u.ID] {
			n++
		}
	}
	return n
}

func (s *Selection) TotalCount() int { return len(s.units) }

// PairCount is the number of requests a dispatch would issue.
func (s *Selection) PairCount() int { return s.SelectedCount() * len(s.languages) }

// SelectedUnits returns the selected units in collected order.
func (s *Selection) SelectedUnits() []Unit {
	var out []Unit
	for _, u := range s.units {
		if s.selected[u.ID] {
			out = append(out, u)
		}
	}
	return out
}

// Languages returns the selected languages in selection order.
func (s *Selection) Languages() []models.LanguageCode {
	return append([]models.LanguageCode(nil), s.languages...)
}

func (s *Selection) Units() []Unit { return s.units }

// PlanUnit is a unit with its selection state, as shown to clients.
type PlanUnit struct {
	Unit
	Selected bool `json:"selected"`
}

type Plan struct {
	Units         []PlanUnit            `json:"units"`
	Languages     []models.LanguageCode `json:"languages"`
	SelectedCount int                   `json:"selectedCount"`
	TotalCount    int                   `json:"totalCount"`
	PairCount     int                   `json:"pairCount"`
}

func (s *Selection) Plan() Plan {
	units := make([]PlanUnit, len(s.units))
	for i, u := range s.units {
		units[i] = PlanUnit{Unit: u, Selected: s.selected[u.ID]}
	}
	return Plan{
		Units:         units,
		Languages:     s.Languages(),
		SelectedCount: s.SelectedCount(),
		TotalCount:    s.TotalCount(),
		PairCount:     s.PairCount(),
	}
}
