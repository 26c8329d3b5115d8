package store

import (
	"context"
	"testing"

	"github.com/lebenbrewing/backend/internal/models"
)

func TestSeedDocuments(t *testing.T) {
	byBucket, err := SeedDocuments()
	if err != nil {
		t.Fatalf("SeedDocuments() error = %v", err)
	}

	for _, bucket := range []string{"beers", "wines", "pizzas", "empanadas", "categories", "settings"} {
		if len(byBucket[bucket]) == 0 {
			t.Errorf("seed bucket %q is empty", bucket)
		}
	}

	if got := len(byBucket["categories"]); got != len(models.MenuCategories) {
		t.Errorf("seeded categories = %d, want %d", got, len(models.MenuCategories))
	}
	if got := len(byBucket["settings"]); got != 1 {
		t.Errorf("seeded settings documents = %d, want 1", got)
	}

	// Every seeded item passes its own creation validation, so the bucket
	// routing on the documents is trustworthy.
	for bucket, docs := range byBucket {
		if bucket == "categories" || bucket == "settings" {
			continue
		}
		for _, doc := range docs {
			item := models.ItemFromDocument("seed", doc)
			if got := string(item.Bucket()); got != bucket {
				t.Errorf("item %q routed to %q but stored under %q", item.Name, got, bucket)
			}
		}
	}
}

func TestSeedFillsEmptyStore(t *testing.T) {
	s := NewMemoryStore()
	if err := Seed(s); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	records, _ := s.ListRecords(context.Background(), "beers")
	if len(records) == 0 {
		t.Fatal("seeded store has no beers")
	}
	if s.Writes() != 0 {
		t.Errorf("Writes() after seed = %d, want 0", s.Writes())
	}
}

func TestSeedLeavesPopulatedStoreAlone(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.AddRecord(ctx, "beers", Document{"name": "Existing"})

	if err := Seed(s); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	records, _ := s.ListRecords(ctx, "beers")
	if len(records) != 1 {
		t.Errorf("beers after seeding a populated store = %d, want 1", len(records))
	}
}
