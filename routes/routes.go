package routes

import (
	"digital-menu-api/handlers"
	"digital-menu-api/logger"
	"digital-menu-api/middleware"
	"digital-menu-api/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the engine with the shared middleware chain and every route.
func NewRouter(h *handlers.Handler, log *zap.Logger, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), logger.Middleware(log), middleware.CORS(corsOrigins))
	if h.Metrics != nil {
		r.Use(h.Metrics.Middleware())
	}
	SetupRoutes(r, h)
	return r
}

func SetupRoutes(r *gin.Engine, h *handlers.Handler) {
	r.GET("/health", handlers.Health)
	if h.Metrics != nil {
		r.GET("/metrics", h.Metrics.Handler())
	}
	if h.Storage != nil {
		r.Static("/storage", h.Storage.Root())
	}

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/register", h.Register)
		public.POST("/auth/login", h.Login)

		public.GET("/vocabularies", handlers.GetVocabularies)
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(h.Auth.Required())
	{
		auth.GET("/profile", h.GetProfile)

		// Restaurants
		auth.POST("/restaurants", h.CreateRestaurant)
		auth.GET("/restaurants", h.ListMyRestaurants)
		auth.GET("/restaurants/:id", h.GetRestaurant)
		auth.PUT("/restaurants/:id", h.UpdateRestaurant)
		auth.DELETE("/restaurants/:id", h.DeleteRestaurant)
		auth.POST("/restaurants/:id/image", h.UploadRestaurantImage)
		auth.PUT("/restaurants/:id/translations", h.UpsertRestaurantTranslation)
		auth.DELETE("/restaurants/:id/translations/:lang/:field", h.DeleteRestaurantTranslation)
		auth.PUT("/restaurants/:id/socials", h.UpsertSocial)
		auth.DELETE("/restaurants/:id/socials/:platform", h.DeleteSocial)
		auth.GET("/restaurants/:id/menus", h.ListRestaurantMenus)
		auth.POST("/restaurants/:id/menus", h.AttachMenu)
		auth.PUT("/restaurants/:id/menus/:menuId/primary", h.SetPrimaryMenu)
		auth.DELETE("/restaurants/:id/menus/:menuId", h.DetachMenu)

		// Menus
		auth.POST("/menus", h.CreateMenu)
		auth.GET("/menus", h.ListMyMenus)
		auth.GET("/menus/:id", h.GetMenu)
		auth.PUT("/menus/:id", h.UpdateMenu)
		auth.DELETE("/menus/:id", h.DeleteMenu)
		auth.POST("/menus/:id/duplicate", h.DuplicateMenu)
		auth.GET("/menus/:id/sections", h.ListMenuSections)
		auth.POST("/menus/:id/sections", h.CreateSection)
		auth.PUT("/menus/:id/sections/order", h.ReorderSections)
		auth.GET("/menus/:id/translation-plan", h.TranslationPlan)
		auth.POST("/menus/:id/translation-jobs", h.StartTranslationJob)

		// Sections
		auth.PUT("/sections/:id", h.UpdateSection)
		auth.DELETE("/sections/:id", h.DeleteSection)
		auth.GET("/sections/:id/items", h.ListSectionItems)
		auth.POST("/sections/:id/items", h.CreateItem)
		auth.PUT("/sections/:id/items/order", h.ReorderItems)
		auth.GET("/sections/:id/translations", h.ListSectionTranslations)
		auth.PUT("/sections/:id/translations", h.UpsertSectionTranslation)
		auth.DELETE("/sections/:id/translations/:lang/:field", h.DeleteSectionTranslation)

		// Items
		auth.POST("/items/autocomplete", h.AutoCompleteItem)
		auth.GET("/items/:id", h.GetItem)
		auth.PUT("/items/:id", h.UpdateItem)
		auth.DELETE("/items/:id", h.DeleteItem)
		auth.POST("/items/:id/duplicate", h.DuplicateItem)
		auth.PATCH("/items/:id/availability", h.ToggleAvailability)
		auth.POST("/items/:id/image", h.UploadItemImage)
		auth.POST("/items/:id/ingredients", h.AddIngredient)
		auth.DELETE("/items/:id/ingredients/:ingredientId", h.DeleteIngredient)
		auth.POST("/items/:id/allergens", h.AddAllergen)
		auth.DELETE("/items/:id/allergens/:code", h.RemoveAllergen)
		auth.POST("/items/:id/dietary-tags", h.AddDietaryTag)
		auth.DELETE("/items/:id/dietary-tags/:code", h.RemoveDietaryTag)
		auth.GET("/items/:id/translations", h.ListItemTranslations)
		auth.PUT("/items/:id/translations", h.UpsertItemTranslation)
		auth.DELETE("/items/:id/translations/:lang/:field", h.DeleteItemTranslation)

		// Translation and images
		auth.POST("/translation/batch", h.TranslateBatch)
		auth.POST("/translation/store", h.TranslateText)
		auth.GET("/translation-jobs", h.ListTranslationJobs)
		auth.GET("/translation-jobs/:id", h.GetTranslationJob)
		auth.POST("/translation-jobs/:id/cancel", h.CancelTranslationJob)
		auth.POST("/images/generate", h.GenerateImage)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(h.Auth.Required(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/users", h.AdminGetAllUsers)
		admin.GET("/restaurants", h.AdminGetAllRestaurants)
		admin.GET("/translation-jobs", h.AdminGetAllJobs)
	}
}
