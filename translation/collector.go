package translation

import (
	"context"
	"strings"

	"digital-menu-api/labels"
	"digital-menu-api/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ItemRelationsLoader loads the ingredients and allergens of one item.
type ItemRelationsLoader interface {
	LoadRelations(ctx context.Context, itemID string) ([]models.Ingredient, []models.ItemAllergen, error)
}

type Collector struct {
	relations ItemRelationsLoader
	workers   int
	log       *zap.Logger
}

// NewCollector builds a collector that runs at most workers relation loads at
// once. A nil loader disables ingredient and allergen units.
func NewCollector(relations ItemRelationsLoader, workers int, log *zap.Logger) *Collector {
	if workers <= 0 {
		workers = 4
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{relations: relations, workers: workers, log: log}
}

type relations struct {
	ingredients []models.Ingredient
	allergens   []models.ItemAllergen
	ok          bool
}

// Collect walks the menu in display order and returns every unit with
// non-blank text: menu name and description, then for each section its name
// and description followed by each item's name, description, ingredients and
// allergens. A failed relation load drops that item's ingredient and allergen
// units and is logged.
func (c *Collector) Collect(ctx context.Context, menu *models.Menu, sections []models.MenuSection, sectionItems map[string][]models.MenuItem) []Unit {
	var items []models.MenuItem
	for _, s := range sections {
		items = append(items, sectionItems[s.ID]...)
	}
	rels := c.loadRelations(ctx, items)

	var units []Unit
	add := func(k Kind, text, entityID, breadcrumb string) {
		if strings.TrimSpace(text) == "" {
			return
		}
		units = append(units, Unit{ID: unitID(k, entityID), Kind: k, Text: text, EntityID: entityID, Breadcrumb: breadcrumb})
	}

	add(KindMenuName, menu.Name, menu.ID, "")
	add(KindMenuDescription, menu.Description, menu.ID, "")

	idx := 0
	for _, s := range sections {
		add(KindSectionName, s.Name, s.ID, s.Name)
		add(KindSectionDescription, s.Description, s.ID, s.Name)
		for _, it := range sectionItems[s.ID] {
			crumb := s.Name + " → " + it.Name
			add(KindItemName, it.Name, it.ID, crumb)
			add(KindItemDescription, it.Description, it.ID, crumb)
			r := rels[idx]
			idx++
			if !r.ok {
				continue
			}
			for _, ing := range r.ingredients {
				add(KindIngredient, ing.Name, ing.ID, crumb)
			}
			for _, a := range r.allergens {
				add(KindAllergen, labels.AllergenLabel(a.Code, models.DefaultLanguage), a.ID, crumb)
			}
		}
	}
	return units
}

// CollectTree is Collect over a menu whose Sections and their Items are
// already loaded.
func (c *Collector) CollectTree(ctx context.Context, menu *models.Menu) []Unit {
	sectionItems := make(map[string][]models.MenuItem, len(menu.Sections))
	for _, s := range menu.Sections {
		sectionItems[s.ID] = s.Items
	}
	return c.Collect(ctx, menu, menu.Sections, sectionItems)
}

// loadRelations fetches relations for every item through a bounded worker
// group. Results are stored by item index so the caller keeps display order.
func (c *Collector) loadRelations(ctx context.Context, items []models.MenuItem) []relations {
	out := make([]relations, len(items))
	if c.relations == nil || len(items) == 0 {
		return out
	}
	var g errgroup.Group
	g.SetLimit(c.workers)
	for i, it := range items {
		g.Go(func() error {
			ings, allergens, err := c.relations.LoadRelations(ctx, it.ID)
			if err != nil {
				c.log.Warn("loading item relations failed, skipping ingredients and allergens",
					zap.String("item_id", it.ID), zap.String("item", it.Name), zap.Error(err))
				return nil
			}
			out[i] = relations{ingredients: ings, allergens: allergens, ok: true}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
