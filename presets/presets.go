// Package presets provides the default menu sections for each venue type.
package presets

import (
	_ "embed"
	"fmt"
	"sync"

	"digital-menu-api/models"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

type SectionPreset struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Icon        string `yaml:"icon,omitempty" json:"icon,omitempty"`
}

var (
	once    sync.Once
	loaded  map[models.RestaurantType][]SectionPreset
	loadErr error
)

// Parse decodes a presets document and rejects unknown venue types.
func Parse(data []byte) (map[models.RestaurantType][]SectionPreset, error) {
	var raw map[string][]SectionPreset
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	out := make(map[models.RestaurantType][]SectionPreset, len(raw))
	for k, v := range raw {
		if !models.IsRestaurantType(k) {
			return nil, fmt.Errorf("parse presets: unknown restaurant type %q", k)
		}
		out[models.RestaurantType(k)] = v
	}
	return out, nil
}

func all() map[models.RestaurantType][]SectionPreset {
	once.Do(func() {
		loaded, loadErr = Parse(presetsYAML)
	})
	if loadErr != nil {
		panic(loadErr)
	}
	return loaded
}

// For returns the presets of a venue type in display order, or nil.
func For(t models.RestaurantType) []SectionPreset {
	return all()[t]
}

func Has(t models.RestaurantType) bool {
	return len(For(t)) > 0
}

// Select keeps only the presets whose names are listed, preserving preset order.
func Select(t models.RestaurantType, names []string) []SectionPreset {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []SectionPreset
	for _, p := range For(t) {
		if want[p.Name] {
			out = append(out, p)
		}
	}
	return out
}

// Sections builds visible sections for menuID from presets. Display order
// starts at 1.
func Sections(menuID string, presets []SectionPreset) []models.MenuSection {
	out := make([]models.MenuSection, 0, len(presets))
	for i, p := range presets {
		out = append(out, models.MenuSection{
			MenuID:       menuID,
			Name:         p.Name,
			Description:  p.Description,
			Icon:         p.Icon,
			DisplayOrder: i + 1,
			IsVisible:    true,
		})
	}
	return out
}
