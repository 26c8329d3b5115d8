package services

import (
	"context"
	"errors"
	"testing"

	"github.com/lebenbrewing/backend/internal/models"
	"github.com/lebenbrewing/backend/internal/store"
)

func newMenuFixture(t *testing.T) (*store.MemoryStore, *Aggregator, *MenuService) {
	t.Helper()

	st, agg := newAggregatorFixture(t)
	return st, agg, NewMenuService(st, agg)
}

func TestMenuServiceAddItem(t *testing.T) {
	st, agg, svc := newMenuFixture(t)
	ctx := context.Background()

	id, err := svc.AddItem(ctx, &models.CreateItemRequest{
		Name:     "BRISTOL IPA",
		Category: models.CategoryCervezas,
		Price:    "6000",
		IBU:      "60",
		ABV:      "6.5",
	})
	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if id == "" {
		t.Fatal("AddItem() returned empty id")
	}

	records, _ := st.ListRecords(ctx, string(models.BucketBeers))
	if len(records) != 1 {
		t.Fatalf("beers collection = %d records, want 1", len(records))
	}
	item := models.ItemFromDocument(records[0].ID, records[0].Data)
	if item.CreatedAt.IsZero() || item.UpdatedAt.IsZero() {
		t.Error("timestamps should be stamped on create")
	}

	// The aggregator sees the write through its subscription.
	if bucket, ok := agg.Locate(id); !ok || bucket != models.BucketBeers {
		t.Errorf("Locate(%q) = %q, %v; want beers, true", id, bucket, ok)
	}
}

func TestMenuServiceAddItemValidationWritesNothing(t *testing.T) {
	st, _, svc := newMenuFixture(t)

	_, err := svc.AddItem(context.Background(), &models.CreateItemRequest{
		Name:     "Broken",
		Category: models.CategoryCervezas,
		Price:    "6000",
		// ibu and abv missing
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("AddItem() error = %v, want *ValidationError", err)
	}
	if _, ok := verr.Fields["ibu"]; !ok {
		t.Errorf("validation fields = %v, want ibu", verr.Fields)
	}
	if _, ok := verr.Fields["abv"]; !ok {
		t.Errorf("validation fields = %v, want abv", verr.Fields)
	}
	if st.Writes() != 0 {
		t.Errorf("Writes() = %d, want 0 (validation failure must not write)", st.Writes())
	}
}

func TestMenuServiceUpdateItem(t *testing.T) {
	st, _, svc := newMenuFixture(t)
	ctx := context.Background()

	id := addItem(t, st, models.MenuItem{Name: "Old", Category: models.CategoryPizzas, Available: true})

	name := "New"
	if err := svc.UpdateItem(ctx, id, &models.ItemPatch{Name: &name}); err != nil {
		t.Fatalf("UpdateItem() error = %v", err)
	}

	records, _ := st.ListRecords(ctx, string(models.BucketPizzas))
	item := models.ItemFromDocument(records[0].ID, records[0].Data)
	if item.Name != "New" {
		t.Errorf("name = %q, want New", item.Name)
	}
	if item.UpdatedAt.IsZero() {
		t.Error("updatedAt should be stamped on patch")
	}
	// Untouched fields survive a partial patch.
	if item.Category != models.CategoryPizzas {
		t.Errorf("category = %q, want unchanged", item.Category)
	}
}

func TestMenuServiceUpdateItemNotFound(t *testing.T) {
	_, _, svc := newMenuFixture(t)

	name := "x"
	err := svc.UpdateItem(context.Background(), "missing", &models.ItemPatch{Name: &name})
	if !errors.Is(err, ErrItemNotFound) {
		t.Errorf("UpdateItem(missing) error = %v, want ErrItemNotFound", err)
	}
}

func TestMenuServiceUpdateItemEmptyPatch(t *testing.T) {
	st, _, svc := newMenuFixture(t)
	id := addItem(t, st, models.MenuItem{Name: "Keep", Category: models.CategoryPizzas, Available: true})

	before := st.Writes()
	if err := svc.UpdateItem(context.Background(), id, &models.ItemPatch{}); err != nil {
		t.Fatalf("UpdateItem() error = %v", err)
	}
	if st.Writes() != before {
		t.Error("empty patch should be a no-op, not a write")
	}
}

func TestMenuServiceSetVisibility(t *testing.T) {
	st, agg, svc := newMenuFixture(t)
	ctx := context.Background()

	id := addItem(t, st, models.MenuItem{Name: "Special", Category: models.CategoryTragos, Available: true})

	if err := svc.SetVisibility(ctx, id, true); err != nil {
		t.Fatalf("SetVisibility(true) error = %v", err)
	}
	if len(agg.PublicGrouping()[models.BucketCocktails]) != 0 {
		t.Error("hidden item should leave the public grouping")
	}
	if len(agg.AdminGrouping()[models.BucketCocktails]) != 1 {
		t.Error("hidden item should stay in the admin grouping")
	}

	if err := svc.SetVisibility(ctx, id, false); err != nil {
		t.Fatalf("SetVisibility(false) error = %v", err)
	}
	if len(agg.PublicGrouping()[models.BucketCocktails]) != 1 {
		t.Error("unhidden item should return to the public grouping")
	}
}

func TestMenuServiceMutationsAfterCategoryChange(t *testing.T) {
	st, agg, svc := newMenuFixture(t)
	ctx := context.Background()

	id, err := svc.AddItem(ctx, &models.CreateItemRequest{
		Name:     "Negroni Barrel Aged",
		Category: models.CategoryCervezas,
		Price:    "6000",
		IBU:      "20",
		ABV:      "9",
	})
	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	// Recategorize. The record stays in the beers collection; only the
	// grouping moves it under cocktails.
	tragos := models.CategoryTragos
	if err := svc.UpdateItem(ctx, id, &models.ItemPatch{Category: &tragos}); err != nil {
		t.Fatalf("UpdateItem(category) error = %v", err)
	}
	if len(agg.AdminGrouping()[models.BucketCocktails]) != 1 {
		t.Fatal("recategorized item should group under cocktails")
	}

	// Follow-up mutations still reach the record where it physically lives.
	if err := svc.SetVisibility(ctx, id, true); err != nil {
		t.Fatalf("SetVisibility() after category change error = %v", err)
	}
	if _, err := svc.BulkReorder(ctx, []models.OrderUpdate{{ID: id, Order: 3}}); err != nil {
		t.Fatalf("BulkReorder() after category change error = %v", err)
	}

	records, _ := st.ListRecords(ctx, string(models.BucketBeers))
	if len(records) != 1 {
		t.Fatalf("beers collection = %d records, want 1 (no physical move)", len(records))
	}
	item := models.ItemFromDocument(records[0].ID, records[0].Data)
	if !item.Hidden || item.Order != 3 {
		t.Errorf("item = hidden %v order %d, want hidden true order 3", item.Hidden, item.Order)
	}

	if err := svc.DeleteItem(ctx, id); err != nil {
		t.Fatalf("DeleteItem() after category change error = %v", err)
	}
}

func TestMenuServiceDeleteItem(t *testing.T) {
	st, agg, svc := newMenuFixture(t)
	ctx := context.Background()

	id := addItem(t, st, models.MenuItem{Name: "Gone", Category: models.CategoryMerch, Available: true})

	if err := svc.DeleteItem(ctx, id); err != nil {
		t.Fatalf("DeleteItem() error = %v", err)
	}
	if _, ok := agg.Locate(id); ok {
		t.Error("deleted item should not be locatable")
	}

	if err := svc.DeleteItem(ctx, id); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("second DeleteItem() error = %v, want ErrItemNotFound", err)
	}
}

func TestMenuServiceBulkReorder(t *testing.T) {
	st, agg, svc := newMenuFixture(t)
	ctx := context.Background()

	idA := addItem(t, st, models.MenuItem{Name: "A", Category: models.CategoryCervezas, Order: 0, Available: true})
	idB := addItem(t, st, models.MenuItem{Name: "B", Category: models.CategoryCervezas, Order: 1, Available: true})

	result, err := svc.BulkReorder(ctx, []models.OrderUpdate{
		{ID: idA, Order: 1},
		{ID: idB, Order: 0},
		{ID: "fallback-2", Order: 2},
	})
	if err != nil {
		t.Fatalf("BulkReorder() error = %v", err)
	}
	if result.Updated != 2 {
		t.Errorf("Updated = %d, want 2", result.Updated)
	}
	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", result.Skipped)
	}

	beers := agg.AdminGrouping()[models.BucketBeers]
	if beers[0].Name != "B" || beers[1].Name != "A" {
		t.Errorf("order after reorder = %q, %q; want B, A", beers[0].Name, beers[1].Name)
	}
}

func TestMenuServiceBulkReorderUnknownIDAppliesNothing(t *testing.T) {
	st, agg, svc := newMenuFixture(t)
	ctx := context.Background()

	idA := addItem(t, st, models.MenuItem{Name: "A", Category: models.CategoryCervezas, Order: 0, Available: true})

	_, err := svc.BulkReorder(ctx, []models.OrderUpdate{
		{ID: idA, Order: 5},
		{ID: "never-persisted", Order: 6},
	})
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("BulkReorder() error = %v, want ErrItemNotFound", err)
	}

	if got := agg.AdminGrouping()[models.BucketBeers][0].Order; got != 0 {
		t.Errorf("order = %d after failed batch, want 0 (nothing applied)", got)
	}
}

func TestMenuServiceBulkReorderStoreFailure(t *testing.T) {
	st, _, svc := newMenuFixture(t)
	ctx := context.Background()

	id := addItem(t, st, models.MenuItem{Name: "A", Category: models.CategoryCervezas, Order: 0, Available: true})

	boom := errors.New("transaction aborted")
	st.FailNextBatch(boom)

	_, err := svc.BulkReorder(ctx, []models.OrderUpdate{{ID: id, Order: 5}})
	if !errors.Is(err, boom) {
		t.Fatalf("BulkReorder() error = %v, want store failure", err)
	}

	records, _ := st.ListRecords(ctx, string(models.BucketBeers))
	item := models.ItemFromDocument(records[0].ID, records[0].Data)
	if item.Order != 0 {
		t.Errorf("order = %d after store failure, want 0", item.Order)
	}
}

func TestMenuServiceNilStore(t *testing.T) {
	svc := NewMenuService(nil, nil)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, &models.CreateItemRequest{}); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("AddItem() error = %v, want ErrStoreUnavailable", err)
	}
	if err := svc.DeleteItem(ctx, "x"); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("DeleteItem() error = %v, want ErrStoreUnavailable", err)
	}
	if _, err := svc.BulkReorder(ctx, nil); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("BulkReorder() error = %v, want ErrStoreUnavailable", err)
	}
}
