package taxonomy

import (
	"strings"

	"github.com/tripscout/tripscout/internal/models"
)

// Activity is the coarse bucket a subcategory maps to, used for iconography
// and as a hint to the scoring backend.
type Activity string

const (
	ActivityNature        Activity = "nature"
	ActivityCafe          Activity = "cafe"
	ActivityRestaurant    Activity = "restaurant"
	ActivityEntertainment Activity = "entertainment"
)

// Label is a bilingual display label.
type Label struct {
	En string
	Fa string
}

// Text returns the label for a language, falling back to English.
func (l Label) Text(lang models.Language) string {
	if lang == models.LangFarsi && l.Fa != "" {
		return l.Fa
	}
	return l.En
}

// Subcategory is a leaf taxonomy node.
type Subcategory struct {
	ID      string
	Label   Label
	Primary Activity
}

// Category groups subcategories under one tab.
type Category struct {
	ID    string
	Label Label
	Items []Subcategory
}

// DefaultCategoryID is the tab active at boot.
const DefaultCategoryID = "food_drink"

// DefaultSubcategories is the boot-time selection.
var DefaultSubcategories = []string{"restaurant", "fast_food", "cafe"}

// Tree is the static activity hierarchy. Pure lookup, no state.
var Tree = []Category{
	{
		ID:    "food_drink",
		Label: Label{En: "Food & Drink", Fa: "غذا و نوشیدنی"},
		Items: []Subcategory{
			{ID: "restaurant", Label: Label{En: "Restaurant", Fa: "رستوران"}, Primary: ActivityRestaurant},
			{ID: "fast_food", Label: Label{En: "Fast Food", Fa: "فست فود"}, Primary: ActivityRestaurant},
			{ID: "cafe", Label: Label{En: "Cafe", Fa: "کافه"}, Primary: ActivityCafe},
			{ID: "juice", Label: Label{En: "Juice", Fa: "آبمیوه"}, Primary: ActivityCafe},
			{ID: "ice_cream", Label: Label{En: "Ice Cream", Fa: "بستنی"}, Primary: ActivityCafe},
		},
	},
	{
		ID:    "fun",
		Label: Label{En: "Fun & Entertainment", Fa: "تفریح و سرگرمی"},
		Items: []Subcategory{
			{ID: "park", Label: Label{En: "Park", Fa: "پارک"}, Primary: ActivityNature},
			{ID: "attraction", Label: Label{En: "Attraction", Fa: "مکان دیدنی"}, Primary: ActivityNature},
			{ID: "nature_tourism", Label: Label{En: "Nature Tourism", Fa: "طبیعت گردی"}, Primary: ActivityNature},
			{ID: "historical", Label: Label{En: "Historical", Fa: "مکان تاریخی"}, Primary: ActivityNature},
			{ID: "cinema", Label: Label{En: "Cinema", Fa: "سینما"}, Primary: ActivityEntertainment},
			{ID: "amusement_park", Label: Label{En: "Amusement Park", Fa: "شهربازی"}, Primary: ActivityEntertainment},
			{ID: "theatre", Label: Label{En: "Theatre", Fa: "تئاتر"}, Primary: ActivityEntertainment},
			{ID: "museum", Label: Label{En: "Museum", Fa: "موزه"}, Primary: ActivityEntertainment},
			{ID: "pool", Label: Label{En: "Pool", Fa: "استخر"}, Primary: ActivityEntertainment},
		},
	},
	{
		ID:    "travel",
		Label: Label{En: "Travel", Fa: "سفر"},
		Items: []Subcategory{
			{ID: "hotel", Label: Label{En: "Hotel", Fa: "هتل"}, Primary: ActivityEntertainment},
			{ID: "eco_lodge", Label: Label{En: "Eco Lodge", Fa: "اقامتگاه بومگردی"}, Primary: ActivityNature},
			{ID: "hostel", Label: Label{En: "Hostel", Fa: "اقامتگاه"}, Primary: ActivityEntertainment},
		},
	},
	{
		ID:    "shopping",
		Label: Label{En: "Market & Mall", Fa: "بازار و مرکز خرید"},
		Items: []Subcategory{
			{ID: "market", Label: Label{En: "Market", Fa: "بازار"}, Primary: ActivityEntertainment},
			{ID: "shopping_mall", Label: Label{En: "Shopping Mall", Fa: "مرکز خرید"}, Primary: ActivityEntertainment},
		},
	},
}

var (
	leafIndex     map[string]Subcategory
	leafCategory  map[string]string
	categoryIndex map[string]Category
)

func init() {
	leafIndex = make(map[string]Subcategory)
	leafCategory = make(map[string]string)
	categoryIndex = make(map[string]Category)
	for _, cat := range Tree {
		categoryIndex[cat.ID] = cat
		for _, item := range cat.Items {
			leafIndex[item.ID] = item
			leafCategory[item.ID] = cat.ID
		}
	}
}

// AllLeafIDs returns every leaf subcategory id in tree order.
func AllLeafIDs() []string {
	var out []string
	for _, cat := range Tree {
		for _, item := range cat.Items {
			out = append(out, item.ID)
		}
	}
	return out
}

// CategoryLeafIDs returns the leaf ids of one category, or nil for an
// unknown category id.
func CategoryLeafIDs(categoryID string) []string {
	cat, ok := categoryIndex[categoryID]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(cat.Items))
	for _, item := range cat.Items {
		out = append(out, item.ID)
	}
	return out
}

// IsLeaf reports whether id names a known subcategory.
func IsLeaf(id string) bool {
	_, ok := leafIndex[canonical(id)]
	return ok
}

// CategoryOf returns the owning category id of a leaf, or "" for unknown
// leaves.
func CategoryOf(leafID string) string {
	return leafCategory[canonical(leafID)]
}

// Normalize lowercases, trims, deduplicates and filters a candidate list to
// known leaf ids, preserving first-occurrence order. The result may be empty;
// repair is the caller's (preference store's) job.
func Normalize(list []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, raw := range list {
		id := canonical(raw)
		if id == "" || seen[id] {
			continue
		}
		if _, ok := leafIndex[id]; !ok {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// PrimaryActivity maps a subcategory id (or an activity name) onto the
// coarse activity bucket. Unknown values map to nature.
func PrimaryActivity(id string) Activity {
	c := canonical(id)
	switch Activity(c) {
	case ActivityNature, ActivityCafe, ActivityRestaurant, ActivityEntertainment:
		return Activity(c)
	}
	if leaf, ok := leafIndex[c]; ok {
		return leaf.Primary
	}
	return ActivityNature
}

// LeafLabel returns the localized label of a leaf, or the id itself for
// unknown leaves.
func LeafLabel(id string, lang models.Language) string {
	if leaf, ok := leafIndex[canonical(id)]; ok {
		return leaf.Label.Text(lang)
	}
	return canonical(id)
}

func canonical(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
