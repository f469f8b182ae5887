package model

import "strings"

// Category is the partner business type. It selects the backend resource,
// the photo slots and which sections a profile can save.
type Category string

const (
	CategoryAccommodation Category = "accommodation"
	CategoryFood          Category = "food"
	CategoryLaundry       Category = "laundry"
	CategoryWater         Category = "water"
	CategoryRepair        Category = "repair"
	CategoryStore         Category = "store"
)

// Categories lists every supported category in display order.
var Categories = []Category{
	CategoryAccommodation,
	CategoryFood,
	CategoryLaundry,
	CategoryWater,
	CategoryRepair,
	CategoryStore,
}

// categoryAliases maps loose service-type tokens seen in signup payloads
// and remote documents to canonical categories.
var categoryAliases = map[string]Category{
	"accommodation": CategoryAccommodation,
	"pg":            CategoryAccommodation,
	"hostel":        CategoryAccommodation,
	"property":      CategoryAccommodation,
	"food":          CategoryFood,
	"food_delivery": CategoryFood,
	"restaurant":    CategoryFood,
	"tiffin":        CategoryFood,
	"laundry":       CategoryLaundry,
	"water":         CategoryWater,
	"water_supply":  CategoryWater,
	"repair":        CategoryRepair,
	"repairs":       CategoryRepair,
	"services":      CategoryRepair,
	"store":         CategoryStore,
	"local_store":   CategoryStore,
	"grocery":       CategoryStore,
}

// ParseCategory converts a loose token to a Category.
// Returns false for unknown tokens.
func ParseCategory(raw string) (Category, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	c, ok := categoryAliases[key]
	return c, ok
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// UsesProperties reports whether the category is served by the
// properties resource (array responses) rather than the stores resource.
func (c Category) UsesProperties() bool {
	return c == CategoryAccommodation
}

// AmenityTaxonomy is the fixed set of amenity categories and their known labels.
// Every key is always present in a normalized AmenitySet.
var AmenityTaxonomy = map[string][]string{
	"furniture": {"Bed", "Mattress", "Wardrobe", "Study Table", "Chair", "Sofa"},
	"bathroom":  {"Attached Bathroom", "Geyser", "Western Toilet", "Indian Toilet"},
	"kitchen":   {"Refrigerator", "Microwave", "Induction", "Gas Stove", "RO Water"},
	"utilities": {"WiFi", "Power Backup", "Washing Machine", "Air Conditioner", "Housekeeping"},
	"safety":    {"CCTV", "Security Guard", "Fire Extinguisher", "Biometric Entry"},
	"common":    {"Parking", "Lift", "Gym", "Common TV", "Dining Area"},
}

// AmenityCategories returns the taxonomy keys in a stable order.
func AmenityCategories() []string {
	return []string{"furniture", "bathroom", "kitchen", "utilities", "safety", "common"}
}

// PhotoSlots returns the fixed photo slot names for a category.
func PhotoSlots(c Category) []string {
	if c == CategoryAccommodation {
		return []string{"room", "bathroom", "kitchen", "exterior", "common"}
	}
	return []string{"storefront", "interior", "catalog"}
}

// RoomTypeVocabulary is the display vocabulary for accommodation room types.
var RoomTypeVocabulary = []string{"Single Sharing", "Double Sharing", "Triple Sharing"}
