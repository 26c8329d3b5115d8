package models

import "time"

// Settings is the single site-wide display settings document.
type Settings struct {
	ShowSoldOutOverlay bool      `json:"showSoldOutOverlay"`
	ThemeColor         string    `json:"themeColor,omitempty"`
	UpdatedAt          time.Time `json:"updatedAt,omitempty"`
}

// DefaultSettings applies when no settings document has been saved yet.
func DefaultSettings() Settings {
	return Settings{ShowSoldOutOverlay: true}
}

type UpdateSettingsRequest struct {
	ShowSoldOutOverlay *bool   `json:"showSoldOutOverlay"`
	ThemeColor         *string `json:"themeColor"`
}

func (r *UpdateSettingsRequest) Document() map[string]interface{} {
	doc := make(map[string]interface{})
	patchBool(doc, "showSoldOutOverlay", r.ShowSoldOutOverlay)
	patchString(doc, "themeColor", r.ThemeColor)
	return doc
}

func (s Settings) Document() map[string]interface{} {
	doc := map[string]interface{}{
		"showSoldOutOverlay": s.ShowSoldOutOverlay,
	}
	putIfSet(doc, "themeColor", s.ThemeColor)
	if !s.UpdatedAt.IsZero() {
		doc["updatedAt"] = s.UpdatedAt
	}
	return doc
}

// SettingsFromDocument decodes a raw store document.
func SettingsFromDocument(doc map[string]interface{}) Settings {
	return Settings{
		ShowSoldOutOverlay: docBool(doc, "showSoldOutOverlay", true),
		ThemeColor:         docString(doc, "themeColor"),
		UpdatedAt:          docTime(doc, "updatedAt"),
	}
}
