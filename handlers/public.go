package handlers

import (
	"net/http"

	"digital-menu-api/imagegen"
	"digital-menu-api/labels"
	"digital-menu-api/models"
	"digital-menu-api/presets"
	"digital-menu-api/statemachine"

	"github.com/gin-gonic/gin"
)

// GetVocabularies returns every closed vocabulary the API accepts (public)
func GetVocabularies(c *gin.Context) {
	restaurantTypes := make([]gin.H, 0, len(models.RestaurantTypes))
	for _, t := range models.RestaurantTypes {
		restaurantTypes = append(restaurantTypes, gin.H{"code": t, "presets": presets.For(t)})
	}
	c.JSON(http.StatusOK, gin.H{
		"default_language":     models.DefaultLanguage,
		"languages":            models.TargetLanguages,
		"allergens":            labels.Allergens(),
		"dietary_tags":         labels.DietaryTags(),
		"item_types":           models.ItemTypes,
		"restaurant_types":     restaurantTypes,
		"serving_formats":      models.ServingFormats,
		"wine_types":           models.WineTypes,
		"wine_characteristics": models.WineCharacteristics,
		"beer_styles":          models.BeerStyles,
		"social_platforms":     models.SocialPlatforms,
		"image_styles":         imagegen.Styles(),
	})
}

// GetStateMachineInfo returns the translation job lifecycle for informational purposes
func GetStateMachineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   statemachine.GetAllTransitions(),
		"terminal_states": []models.JobStatus{models.JobCompleted, models.JobPartial, models.JobCanceled},
		"description":     "Translation Job Lifecycle State Machine",
	})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
