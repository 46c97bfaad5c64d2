package models

type Menu struct {
	Base
	OwnerID     string        `json:"owner_id" gorm:"index;not null"`
	Name        string        `json:"name" gorm:"not null"`
	Description string        `json:"description"`
	IsActive    bool          `json:"is_active"`
	Sections    []MenuSection `json:"sections,omitempty" gorm:"foreignKey:MenuID"`
}

// RestaurantMenu attaches a menu to a restaurant. At most one row per
// restaurant carries IsPrimary.
type RestaurantMenu struct {
	Base
	RestaurantID string `json:"restaurant_id" gorm:"uniqueIndex:idx_restaurant_menu;not null"`
	MenuID       string `json:"menu_id" gorm:"uniqueIndex:idx_restaurant_menu;not null"`
	IsPrimary    bool   `json:"is_primary"`
	DisplayOrder int    `json:"display_order"`
	Menu         *Menu  `json:"menu,omitempty" gorm:"foreignKey:MenuID"`
}

type MenuSection struct {
	Base
	MenuID       string               `json:"menu_id" gorm:"index;not null"`
	Name         string               `json:"name" gorm:"not null"`
	Description  string               `json:"description"`
	Icon         string               `json:"icon"`
	DisplayOrder int                  `json:"display_order"`
	IsVisible    bool                 `json:"is_visible"`
	Items        []MenuItem           `json:"items,omitempty" gorm:"foreignKey:SectionID"`
	Translations []SectionTranslation `json:"translations,omitempty" gorm:"foreignKey:SectionID"`
}
