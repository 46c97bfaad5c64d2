package repository

import (
	"digital-menu-api/models"

	"gorm.io/gorm"
)

// deleteItemsTx removes items with every dependent row: relation
// translations, relations, item translations.
func deleteItemsTx(tx *gorm.DB, itemIDs []string) error {
	if len(itemIDs) == 0 {
		return nil
	}
	var ingredientIDs, allergenIDs []string
	if err := tx.Model(&models.Ingredient{}).Where("item_id IN ?", itemIDs).Pluck("id", &ingredientIDs).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.ItemAllergen{}).Where("item_id IN ?", itemIDs).Pluck("id", &allergenIDs).Error; err != nil {
		return err
	}
	if len(ingredientIDs) > 0 {
		if err := tx.Where("ingredient_id IN ?", ingredientIDs).Delete(&models.IngredientTranslation{}).Error; err != nil {
			return err
		}
	}
	if len(allergenIDs) > 0 {
		if err := tx.Where("allergen_id IN ?", allergenIDs).Delete(&models.AllergenTranslation{}).Error; err != nil {
			return err
		}
	}
	for _, m := range []interface{}{&models.Ingredient{}, &models.ItemAllergen{}, &models.ItemDietaryTag{}, &models.ItemTranslation{}} {
		if err := tx.Where("item_id IN ?", itemIDs).Delete(m).Error; err != nil {
			return err
		}
	}
	return tx.Where("id IN ?", itemIDs).Delete(&models.MenuItem{}).Error
}

// deleteSectionsTx removes sections, their translations and their items.
func deleteSectionsTx(tx *gorm.DB, sectionIDs []string) error {
	if len(sectionIDs) == 0 {
		return nil
	}
	var itemIDs []string
	if err := tx.Model(&models.MenuItem{}).Where("section_id IN ?", sectionIDs).Pluck("id", &itemIDs).Error; err != nil {
		return err
	}
	if err := deleteItemsTx(tx, itemIDs); err != nil {
		return err
	}
	if err := tx.Where("section_id IN ?", sectionIDs).Delete(&models.SectionTranslation{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", sectionIDs).Delete(&models.MenuSection{}).Error
}
