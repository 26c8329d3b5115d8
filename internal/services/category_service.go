package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/lebenbrewing/backend/internal/models"
	"github.com/lebenbrewing/backend/internal/store"
)

const categoriesBucket = "categories"

// CategoryService manages the section headers of the menu. Sections have
// their own display order, reorderable with the same atomic batch contract
// as items.
type CategoryService struct {
	store store.Adapter
}

func NewCategoryService(st store.Adapter) *CategoryService {
	return &CategoryService{store: st}
}

// List returns all categories sorted by display order, names breaking ties.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}

	records, err := s.store.ListRecords(ctx, categoriesBucket)
	if err != nil {
		return nil, translateStoreErr(err)
	}

	categories := make([]models.Category, 0, len(records))
	for _, r := range records {
		categories = append(categories, models.CategoryFromDocument(r.ID, r.Data))
	}
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].Order != categories[j].Order {
			return categories[i].Order < categories[j].Order
		}
		return strings.ToLower(categories[i].Name) < strings.ToLower(categories[j].Name)
	})
	return categories, nil
}

func (s *CategoryService) Add(ctx context.Context, req *models.CreateCategoryRequest) (string, error) {
	if s.store == nil {
		return "", ErrStoreUnavailable
	}

	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		return "", &ValidationError{Fields: fieldErrors}
	}

	existing, err := s.List(ctx)
	if err != nil {
		return "", err
	}

	order := len(existing)
	if req.Order != nil {
		order = *req.Order
	}

	cat := models.Category{
		Name:      req.Name,
		Order:     order,
		Icon:      req.Icon,
		UpdatedAt: time.Now().UTC(),
	}
	id, err := s.store.AddRecord(ctx, categoriesBucket, cat.Document())
	if err != nil {
		return "", translateStoreErr(err)
	}
	return id, nil
}

// BulkReorder rewrites category orders atomically, skipping placeholder
// entries that only exist client-side.
func (s *CategoryService) BulkReorder(ctx context.Context, updates []models.OrderUpdate) (models.ReorderResult, error) {
	if s.store == nil {
		return models.ReorderResult{}, ErrStoreUnavailable
	}

	now := time.Now().UTC()
	var result models.ReorderResult
	ops := make([]store.WriteOp, 0, len(updates))

	for _, u := range updates {
		if strings.HasPrefix(u.ID, models.PlaceholderIDPrefix) {
			result.Skipped++
			continue
		}
		ops = append(ops, store.WriteOp{
			Bucket: categoriesBucket,
			ID:     u.ID,
			Patch:  store.Document{"order": u.Order, "updatedAt": now},
		})
	}

	if err := s.store.BatchWrite(ctx, ops); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.ReorderResult{}, ErrCategoryNotFound
		}
		return models.ReorderResult{}, translateStoreErr(err)
	}
	result.Updated = len(ops)
	return result, nil
}

// EnsureDefaults seeds the nine canonical categories in menu order when the
// bucket is empty. Safe to call on every startup.
func (s *CategoryService) EnsureDefaults(ctx context.Context) error {
	if s.store == nil {
		return ErrStoreUnavailable
	}

	existing, err := s.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	now := time.Now().UTC()
	for i, name := range models.MenuCategories {
		cat := models.Category{Name: name, Order: i, UpdatedAt: now}
		if _, err := s.store.AddRecord(ctx, categoriesBucket, cat.Document()); err != nil {
			return translateStoreErr(err)
		}
		log.Printf("[CategoryService] seeded category %q", name)
	}
	return nil
}
