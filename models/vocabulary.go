package models

// LanguageCode is an ISO 639-1 code. Italian is the source language of every
// base column and is never stored as a translation row.
type LanguageCode string

const DefaultLanguage LanguageCode = "it"

type Language struct {
	Code        LanguageCode `json:"code"`
	Name        string       `json:"name"`
	ItalianName string       `json:"italian_name"`
}

// TargetLanguages is the fixed allow-list of translation targets, in display order.
var TargetLanguages = []Language{
	{Code: "en", Name: "English", ItalianName: "inglese"},
	{Code: "fr", Name: "Français", ItalianName: "francese"},
	{Code: "de", Name: "Deutsch", ItalianName: "tedesco"},
	{Code: "es", Name: "Español", ItalianName: "spagnolo"},
	{Code: "pt", Name: "Português", ItalianName: "portoghese"},
	{Code: "zh", Name: "中文", ItalianName: "cinese"},
	{Code: "ja", Name: "日本語", ItalianName: "giapponese"},
	{Code: "ar", Name: "العربية", ItalianName: "arabo"},
	{Code: "ru", Name: "Русский", ItalianName: "russo"},
}

// IsTargetLanguage reports whether code is an allowed translation target.
func IsTargetLanguage(code string) bool {
	_, ok := LookupLanguage(code)
	return ok
}

func LookupLanguage(code string) (Language, bool) {
	for _, l := range TargetLanguages {
		if string(l.Code) == code {
			return l, true
		}
	}
	return Language{}, false
}

// AllergenCode is one of the 14 EU regulated allergens.
type AllergenCode string

const (
	AllergenGluten      AllergenCode = "glutine"
	AllergenLactose     AllergenCode = "lattosio"
	AllergenEggs        AllergenCode = "uova"
	AllergenFish        AllergenCode = "pesce"
	AllergenCrustaceans AllergenCode = "crostacei"
	AllergenTreeNuts    AllergenCode = "frutta_a_guscio"
	AllergenPeanuts     AllergenCode = "arachidi"
	AllergenSoy         AllergenCode = "soia"
	AllergenCelery      AllergenCode = "sedano"
	AllergenMustard     AllergenCode = "senape"
	AllergenSesame      AllergenCode = "sesamo"
	AllergenSulphites   AllergenCode = "solfiti"
	AllergenLupin       AllergenCode = "lupini"
	AllergenMolluscs    AllergenCode = "molluschi"
)

var AllergenCodes = []AllergenCode{
	AllergenGluten, AllergenLactose, AllergenEggs, AllergenFish, AllergenCrustaceans,
	AllergenTreeNuts, AllergenPeanuts, AllergenSoy, AllergenCelery, AllergenMustard,
	AllergenSesame, AllergenSulphites, AllergenLupin, AllergenMolluscs,
}

type DietaryTagCode string

var DietaryTagCodes = []DietaryTagCode{
	"vegetariano", "vegano", "senza_glutine", "senza_lattosio", "biologico",
	"piccante", "crudo", "halal", "kosher",
}

type ItemType string

const (
	ItemFood     ItemType = "food"
	ItemDrink    ItemType = "drink"
	ItemWine     ItemType = "wine"
	ItemBeer     ItemType = "beer"
	ItemCocktail ItemType = "cocktail"
	ItemDessert  ItemType = "dessert"
	ItemOther    ItemType = "other"
)

var ItemTypes = []ItemType{ItemFood, ItemDrink, ItemWine, ItemBeer, ItemCocktail, ItemDessert, ItemOther}

// IsAlcoholic reports whether the type carries alcohol content and serving format.
func (t ItemType) IsAlcoholic() bool {
	switch t {
	case ItemWine, ItemBeer, ItemCocktail, ItemDrink:
		return true
	}
	return false
}

type RestaurantType string

var RestaurantTypes = []RestaurantType{
	"ristorante", "pizzeria", "pizzeria_ristorante", "trattoria", "osteria", "pub", "bar",
	"caffe", "enoteca", "bistrot", "tavola_calda", "rosticceria", "pasticceria", "gelateria",
}

var ServingFormats = []string{"glass", "bottle", "draft", "can"}

var WineTypes = []string{"red", "white", "rose", "sparkling", "champagne", "dessert_wine", "fortified"}

var WineCharacteristics = []string{"dry", "semi_dry", "sweet", "semi_sweet", "still", "sparkling", "frizzante"}

var BeerStyles = []string{"lager", "ale", "ipa", "stout", "pilsner", "wheat", "sour", "porter", "amber", "other"}

var SocialPlatforms = []string{
	"instagram", "facebook", "twitter", "tiktok", "youtube", "linkedin",
	"pinterest", "whatsapp", "telegram", "tripadvisor", "google_business",
}

func IsAllergenCode(s string) bool { return contains(AllergenCodes, AllergenCode(s)) }
func IsDietaryTagCode(s string) bool { return contains(DietaryTagCodes, DietaryTagCode(s)) }
func IsItemType(s string) bool { return contains(ItemTypes, ItemType(s)) }
func IsRestaurantType(s string) bool { return contains(RestaurantTypes, RestaurantType(s)) }
func IsServingFormat(s string) bool { return contains(ServingFormats, s) }
func IsWineType(s string) bool { return contains(WineTypes, s) }
func IsWineCharacteristic(s string) bool { return contains(WineCharacteristics, s) }
func IsBeerStyle(s string) bool { return contains(BeerStyles, s) }

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
