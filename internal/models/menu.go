package models

import (
	"sort"
	"strings"
	"time"
)

// BucketKey identifies one display section of the menu. It doubles as the
// collection name in the per-category storage layout.
type BucketKey string

const (
	BucketSnacks       BucketKey = "snacks"
	BucketEmpanadas    BucketKey = "empanadas"
	BucketPizzas       BucketKey = "pizzas"
	BucketSandwiches   BucketKey = "sandwiches"
	BucketBeers        BucketKey = "beers"
	BucketWines        BucketKey = "wines"
	BucketNonAlcoholic BucketKey = "non_alcoholic"
	BucketCocktails    BucketKey = "cocktails"
	BucketMerch        BucketKey = "merch"

	// BucketFallback catches records whose category label is unrecognized.
	// Legacy data still renders somewhere instead of disappearing.
	BucketFallback BucketKey = "menuItems"
)

const (
	CategoryParaPicar = "Para Picar"
	CategoryEmpanadas = "Empanadas"
	CategoryPizzas    = "Pizzas"
	CategorySandwich  = "Sandwich"
	CategoryCervezas  = "Cervezas"
	CategoryVinos     = "Vinos"
	CategoryBebidas   = "Bebidas S/ Alcohol"
	CategoryTragos    = "Tragos"
	CategoryMerch     = "Merch"
)

// MenuCategories lists every category label in menu order.
var MenuCategories = []string{
	CategoryParaPicar,
	CategoryEmpanadas,
	CategoryPizzas,
	CategorySandwich,
	CategoryCervezas,
	CategoryVinos,
	CategoryBebidas,
	CategoryTragos,
	CategoryMerch,
}

var bucketByCategory = map[string]BucketKey{
	CategoryParaPicar: BucketSnacks,
	CategoryEmpanadas: BucketEmpanadas,
	CategoryPizzas:    BucketPizzas,
	CategorySandwich:  BucketSandwiches,
	CategoryCervezas:  BucketBeers,
	CategoryVinos:     BucketWines,
	CategoryBebidas:   BucketNonAlcoholic,
	CategoryTragos:    BucketCocktails,
	CategoryMerch:     BucketMerch,
}

// MenuBuckets lists every real bucket key in menu order (fallback excluded).
var MenuBuckets = []BucketKey{
	BucketSnacks,
	BucketEmpanadas,
	BucketPizzas,
	BucketSandwiches,
	BucketBeers,
	BucketWines,
	BucketNonAlcoholic,
	BucketCocktails,
	BucketMerch,
}

// BucketForCategory maps a category label to its bucket key. Unknown labels
// fall back to BucketFallback; this never fails.
func BucketForCategory(category string) BucketKey {
	if b, ok := bucketByCategory[category]; ok {
		return b
	}
	return BucketFallback
}

// KnownCategory reports whether the label is part of the menu enumeration.
func KnownCategory(category string) bool {
	_, ok := bucketByCategory[category]
	return ok
}

// DefaultOrder sorts unordered records to the end of their bucket.
const DefaultOrder = 999

// PlaceholderIDPrefix marks synthetic client-side identifiers for records
// that were never persisted. Reorder batches skip them.
const PlaceholderIDPrefix = "fallback-"

// MenuItem is one menu entry. Category-specific fields (ibu/abv for beers,
// wine pricing) are flat on the record; legacy documents may carry them on
// mismatched categories and that is tolerated at read time.
type MenuItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       Price     `json:"price,omitempty"`
	Category    string    `json:"category"`
	Vegetarian  bool      `json:"vegetarian,omitempty"`
	Available   bool      `json:"available"`
	Hidden      bool      `json:"hidden"`
	Order       int       `json:"order"`
	IBU         string    `json:"ibu,omitempty"`
	ABV         string    `json:"abv,omitempty"`
	WineType    string    `json:"wineType,omitempty"`
	Varietal    string    `json:"varietal,omitempty"`
	GlassPrice  Price     `json:"glassPrice,omitempty"`
	BottlePrice Price     `json:"bottlePrice,omitempty"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// Bucket returns the display bucket derived from the item's category.
func (m MenuItem) Bucket() BucketKey {
	return BucketForCategory(m.Category)
}

// IsPlaceholder reports whether the item only exists client-side.
func (m MenuItem) IsPlaceholder() bool {
	return strings.HasPrefix(m.ID, PlaceholderIDPrefix)
}

// BeerDetails is the typed view of a "detailed" beer entry.
type BeerDetails struct {
	IBU string `json:"ibu"`
	ABV string `json:"abv"`
}

// Beer returns the beer attributes when both are present. Entries missing
// either are the cans sub-list.
func (m MenuItem) Beer() (BeerDetails, bool) {
	if m.IBU == "" || m.ABV == "" {
		return BeerDetails{}, false
	}
	return BeerDetails{IBU: m.IBU, ABV: m.ABV}, true
}

// WineDetails is the typed view of a wine entry.
type WineDetails struct {
	WineType    string `json:"wineType"`
	Varietal    string `json:"varietal"`
	GlassPrice  Price  `json:"glassPrice"`
	BottlePrice Price  `json:"bottlePrice"`
}

func (m MenuItem) Wine() (WineDetails, bool) {
	if m.WineType == "" {
		return WineDetails{}, false
	}
	return WineDetails{
		WineType:    m.WineType,
		Varietal:    m.Varietal,
		GlassPrice:  m.GlassPrice,
		BottlePrice: m.BottlePrice,
	}, true
}

// SplitBeerList separates draft beers (ibu+abv present) from cans.
func SplitBeerList(items []MenuItem) (detailed, cans []MenuItem) {
	for _, it := range items {
		if _, ok := it.Beer(); ok {
			detailed = append(detailed, it)
		} else {
			cans = append(cans, it)
		}
	}
	return detailed, cans
}

// DisplayPrices returns a copy with every price field in its canonical
// display form, so legacy numeric documents never reach a client raw.
// Rendering is idempotent; applying it to an already-rendered item is safe.
func (m MenuItem) DisplayPrices() MenuItem {
	m.Price = Price(m.Price.Display())
	m.GlassPrice = Price(m.GlassPrice.Display())
	m.BottlePrice = Price(m.BottlePrice.Display())
	return m
}

// SortItems orders a bucket for display: order ascending, ties broken by
// case-insensitive name.
func SortItems(items []MenuItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Order != items[j].Order {
			return items[i].Order < items[j].Order
		}
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
}

// ItemFromDocument decodes a raw store document into a MenuItem. Missing
// booleans take their defaults (available=true, hidden=false) and a missing
// order sorts last.
func ItemFromDocument(id string, doc map[string]interface{}) MenuItem {
	return MenuItem{
		ID:          id,
		Name:        docString(doc, "name"),
		Description: docString(doc, "description"),
		Price:       PriceFromValue(doc["price"]),
		Category:    docString(doc, "category"),
		Vegetarian:  docBool(doc, "vegetarian", false),
		Available:   docBool(doc, "available", true),
		Hidden:      docBool(doc, "hidden", false),
		Order:       docInt(doc, "order", DefaultOrder),
		IBU:         docString(doc, "ibu"),
		ABV:         docString(doc, "abv"),
		WineType:    docString(doc, "wineType"),
		Varietal:    docString(doc, "varietal"),
		GlassPrice:  PriceFromValue(doc["glassPrice"]),
		BottlePrice: PriceFromValue(doc["bottlePrice"]),
		Image:       docString(doc, "image"),
		CreatedAt:   docTime(doc, "createdAt"),
		UpdatedAt:   docTime(doc, "updatedAt"),
	}
}

// Document encodes the item for storage. The id is kept out of the document
// body; stores key records by id themselves.
func (m MenuItem) Document() map[string]interface{} {
	doc := map[string]interface{}{
		"name":       m.Name,
		"category":   m.Category,
		"vegetarian": m.Vegetarian,
		"available":  m.Available,
		"hidden":     m.Hidden,
		"order":      m.Order,
	}
	putIfSet(doc, "description", m.Description)
	putIfSet(doc, "price", string(m.Price))
	putIfSet(doc, "ibu", m.IBU)
	putIfSet(doc, "abv", m.ABV)
	putIfSet(doc, "wineType", m.WineType)
	putIfSet(doc, "varietal", m.Varietal)
	putIfSet(doc, "glassPrice", string(m.GlassPrice))
	putIfSet(doc, "bottlePrice", string(m.BottlePrice))
	putIfSet(doc, "image", m.Image)
	if !m.CreatedAt.IsZero() {
		doc["createdAt"] = m.CreatedAt
	}
	if !m.UpdatedAt.IsZero() {
		doc["updatedAt"] = m.UpdatedAt
	}
	return doc
}

func putIfSet(doc map[string]interface{}, key, val string) {
	if val != "" {
		doc[key] = val
	}
}

func docString(doc map[string]interface{}, key string) string {
	if s, ok := doc[key].(string); ok {
		return s
	}
	return ""
}

func docBool(doc map[string]interface{}, key string, def bool) bool {
	if b, ok := doc[key].(bool); ok {
		return b
	}
	return def
}

func docInt(doc map[string]interface{}, key string, def int) int {
	switch n := doc[key].(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return def
	}
}

// docTime accepts native time values and the RFC 3339 strings they become
// after a trip through JSON persistence.
func docTime(doc map[string]interface{}, key string) time.Time {
	switch t := doc[key].(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
