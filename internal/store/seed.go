package store

import (
	_ "embed"
	"encoding/json"
	"time"

	"github.com/lebenbrewing/backend/internal/models"
)

//go:embed seed_menu.json
var seedMenuJSON []byte

type seedFile struct {
	Items    []models.CreateItemRequest `json:"items"`
	Settings models.Settings            `json:"settings"`
}

// SeedDocuments builds the embedded house menu as bucket-keyed documents:
// the items, the nine canonical categories in menu order, and the default
// display settings.
func SeedDocuments() (map[string][]Document, error) {
	var seed seedFile
	if err := json.Unmarshal(seedMenuJSON, &seed); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	byBucket := make(map[string][]Document)

	for i := range seed.Items {
		item := seed.Items[i].Item()
		item.CreatedAt = now
		item.UpdatedAt = now
		bucket := string(item.Bucket())
		byBucket[bucket] = append(byBucket[bucket], item.Document())
	}

	for i, name := range models.MenuCategories {
		cat := models.Category{Name: name, Order: i, UpdatedAt: now}
		byBucket["categories"] = append(byBucket["categories"], cat.Document())
	}

	settings := seed.Settings
	settings.UpdatedAt = now
	byBucket["settings"] = append(byBucket["settings"], settings.Document())

	return byBucket, nil
}

// Seed fills an empty memory store with the house menu so the site renders
// without a configured database. A store that already holds records is
// left alone.
func Seed(s *MemoryStore) error {
	s.mu.Lock()
	empty := len(s.buckets) == 0
	s.mu.Unlock()
	if !empty {
		return nil
	}

	byBucket, err := SeedDocuments()
	if err != nil {
		return err
	}
	for bucket, docs := range byBucket {
		s.Preload(bucket, docs)
	}
	return nil
}
