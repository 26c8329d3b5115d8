package models

// CreateItemRequest is the admin payload for a new menu item.
type CreateItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       Price  `json:"price"`
	Category    string `json:"category"`
	Vegetarian  bool   `json:"vegetarian"`
	Available   *bool  `json:"available"`
	Hidden      bool   `json:"hidden"`
	Order       *int   `json:"order"`
	IBU         string `json:"ibu"`
	ABV         string `json:"abv"`
	WineType    string `json:"wineType"`
	Varietal    string `json:"varietal"`
	GlassPrice  Price  `json:"glassPrice"`
	BottlePrice Price  `json:"bottlePrice"`
	Image       string `json:"image"`
}

// Validate checks the request field by field. Wine pricing lives in
// glassPrice/bottlePrice, so the flat price is not required for Vinos.
func (r *CreateItemRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if r.Category == "" {
		errors["category"] = "Category is required"
	} else if !KnownCategory(r.Category) {
		errors["category"] = "Unknown category"
	}

	if r.Category != CategoryVinos && r.Price.IsZero() {
		errors["price"] = "Price is required"
	}

	switch r.Category {
	case CategoryCervezas:
		if r.IBU == "" {
			errors["ibu"] = "IBU is required for beers"
		}
		if r.ABV == "" {
			errors["abv"] = "ABV is required for beers"
		}
	case CategoryVinos:
		if r.WineType == "" {
			errors["wineType"] = "Wine type is required"
		}
		if r.Varietal == "" {
			errors["varietal"] = "Varietal is required for wines"
		}
		if r.GlassPrice.IsZero() {
			errors["glassPrice"] = "Glass price is required for wines"
		}
		if r.BottlePrice.IsZero() {
			errors["bottlePrice"] = "Bottle price is required for wines"
		}
	case CategoryPizzas:
		if r.Description == "" {
			errors["description"] = "Ingredient listing is required for pizzas"
		}
	case CategoryTragos:
		if r.Description == "" {
			errors["description"] = "Recipe listing is required for cocktails"
		}
	}

	return errors
}

// Item builds the MenuItem described by the request. Timestamps and id are
// left for the service and store to assign.
func (r *CreateItemRequest) Item() MenuItem {
	available := true
	if r.Available != nil {
		available = *r.Available
	}
	order := DefaultOrder
	if r.Order != nil {
		order = *r.Order
	}
	return MenuItem{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		Vegetarian:  r.Vegetarian,
		Available:   available,
		Hidden:      r.Hidden,
		Order:       order,
		IBU:         r.IBU,
		ABV:         r.ABV,
		WineType:    r.WineType,
		Varietal:    r.Varietal,
		GlassPrice:  r.GlassPrice,
		BottlePrice: r.BottlePrice,
		Image:       r.Image,
	}
}

// ItemPatch is a partial update; nil fields are left untouched. Patches do
// not re-run creation validation so a single toggle never has to re-supply
// the rest of the record.
type ItemPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *Price  `json:"price"`
	Category    *string `json:"category"`
	Vegetarian  *bool   `json:"vegetarian"`
	Available   *bool   `json:"available"`
	Hidden      *bool   `json:"hidden"`
	Order       *int    `json:"order"`
	IBU         *string `json:"ibu"`
	ABV         *string `json:"abv"`
	WineType    *string `json:"wineType"`
	Varietal    *string `json:"varietal"`
	GlassPrice  *Price  `json:"glassPrice"`
	BottlePrice *Price  `json:"bottlePrice"`
	Image       *string `json:"image"`
}

// Document flattens the set fields into a store patch.
func (p *ItemPatch) Document() map[string]interface{} {
	doc := make(map[string]interface{})
	patchString(doc, "name", p.Name)
	patchString(doc, "description", p.Description)
	patchPrice(doc, "price", p.Price)
	patchString(doc, "category", p.Category)
	patchBool(doc, "vegetarian", p.Vegetarian)
	patchBool(doc, "available", p.Available)
	patchBool(doc, "hidden", p.Hidden)
	if p.Order != nil {
		doc["order"] = *p.Order
	}
	patchString(doc, "ibu", p.IBU)
	patchString(doc, "abv", p.ABV)
	patchString(doc, "wineType", p.WineType)
	patchString(doc, "varietal", p.Varietal)
	patchPrice(doc, "glassPrice", p.GlassPrice)
	patchPrice(doc, "bottlePrice", p.BottlePrice)
	patchString(doc, "image", p.Image)
	return doc
}

// IsEmpty reports whether the patch would change nothing.
func (p *ItemPatch) IsEmpty() bool {
	return len(p.Document()) == 0
}

func patchString(doc map[string]interface{}, key string, v *string) {
	if v != nil {
		doc[key] = *v
	}
}

func patchBool(doc map[string]interface{}, key string, v *bool) {
	if v != nil {
		doc[key] = *v
	}
}

func patchPrice(doc map[string]interface{}, key string, v *Price) {
	if v != nil {
		doc[key] = string(*v)
	}
}

// OrderUpdate is one entry of a bulk reorder batch.
type OrderUpdate struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// ReorderResult reports how a bulk reorder went: placeholder entries are
// skipped before the batch is built, everything else lands atomically.
type ReorderResult struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}
