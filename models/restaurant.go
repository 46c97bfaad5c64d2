package models

type Restaurant struct {
	Base
	OwnerID      string                  `json:"owner_id" gorm:"index;not null"`
	Name         string                  `json:"name" gorm:"not null"`
	Type         RestaurantType          `json:"type" gorm:"not null"`
	Description  string                  `json:"description"`
	About        string                  `json:"about"`
	ImageURL     string                  `json:"image_url"`
	Phone        string                  `json:"phone"`
	Email        string                  `json:"email"`
	Street       string                  `json:"street"`
	City         string                  `json:"city"`
	PostalCode   string                  `json:"postal_code"`
	Country      string                  `json:"country"`
	Translations []RestaurantTranslation `json:"translations,omitempty" gorm:"foreignKey:RestaurantID"`
	Socials      []RestaurantSocial      `json:"socials,omitempty" gorm:"foreignKey:RestaurantID"`
}

// RestaurantSocial is a handle on a social platform. Platform is free text so
// custom networks can be stored next to the well-known ones.
type RestaurantSocial struct {
	Base
	RestaurantID string `json:"restaurant_id" gorm:"uniqueIndex:idx_restaurant_social;not null"`
	Platform     string `json:"platform" gorm:"uniqueIndex:idx_restaurant_social;not null"`
	Handle       string `json:"handle" gorm:"not null"`
}
