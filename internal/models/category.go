package models

import "time"

// Category is a menu section header with its own display order. Categories
// live in their own bucket so the admin can reorder whole sections.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Order     int       `json:"order"`
	Icon      string    `json:"icon,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

type CreateCategoryRequest struct {
	Name  string `json:"name"`
	Order *int   `json:"order"`
	Icon  string `json:"icon"`
}

func (r *CreateCategoryRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Category name is required"
	}
	if r.Order != nil && *r.Order < 0 {
		errors["order"] = "Order cannot be negative"
	}

	return errors
}

// CategoryFromDocument decodes a raw store document.
func CategoryFromDocument(id string, doc map[string]interface{}) Category {
	return Category{
		ID:        id,
		Name:      docString(doc, "name"),
		Order:     docInt(doc, "order", DefaultOrder),
		Icon:      docString(doc, "icon"),
		UpdatedAt: docTime(doc, "updatedAt"),
	}
}

func (c Category) Document() map[string]interface{} {
	doc := map[string]interface{}{
		"name":  c.Name,
		"order": c.Order,
	}
	putIfSet(doc, "icon", c.Icon)
	if !c.UpdatedAt.IsZero() {
		doc["updatedAt"] = c.UpdatedAt
	}
	return doc
}
