// Package validation registers the closed vocabularies as validator tags so
// request structs can reject unknown codes during binding.
package validation

import (
	"digital-menu-api/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var tags = map[string]func(string) bool{
	"langcode":       models.IsTargetLanguage,
	"allergen":       models.IsAllergenCode,
	"dietarytag":     models.IsDietaryTagCode,
	"itemtype":       models.IsItemType,
	"restauranttype": models.IsRestaurantType,
	"servingformat":  models.IsServingFormat,
	"winetype":       models.IsWineType,
	"winechar":       models.IsWineCharacteristic,
	"beerstyle":      models.IsBeerStyle,
}

// Register adds the vocabulary tags to v.
func Register(v *validator.Validate) error {
	for tag, fn := range tags {
		check := fn
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return check(fl.Field().String())
		}); err != nil {
			return err
		}
	}
	return nil
}

// RegisterGin installs the tags on gin's default validator.
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return Register(v)
}

// Messages turns binding errors into a flat field -> message map.
func Messages(err error) map[string]string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "langcode":
		return "unsupported language code"
	case "allergen":
		return "unknown allergen code"
	case "dietarytag":
		return "unknown dietary tag"
	case "itemtype":
		return "unknown item type"
	case "restauranttype":
		return "unknown restaurant type"
	case "servingformat", "winetype", "winechar", "beerstyle":
		return "value not allowed"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return "is invalid"
}
