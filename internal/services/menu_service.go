package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lebenbrewing/backend/internal/models"
	"github.com/lebenbrewing/backend/internal/store"
)

var (
	ErrItemNotFound     = errors.New("menu item not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError carries per-field messages; nothing is written when it is
// returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// Locator resolves a record id to the bucket physically holding it. The
// aggregator implements it from its live store feeds; the result names the
// collection to address, which is not necessarily the record's display
// bucket once its category has been edited.
type Locator interface {
	Locate(id string) (models.BucketKey, bool)
}

// MenuService validates and applies admin mutations on menu items. Every
// write goes through the store adapter; observing the effect is left to the
// aggregator's subscription path.
type MenuService struct {
	store  store.Adapter
	locate Locator
}

func NewMenuService(st store.Adapter, locate Locator) *MenuService {
	return &MenuService{store: st, locate: locate}
}

// AddItem validates the draft, stamps timestamps and writes the record.
// Validation failure means no write at all.
func (s *MenuService) AddItem(ctx context.Context, req *models.CreateItemRequest) (string, error) {
	if s.store == nil {
		return "", ErrStoreUnavailable
	}

	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		return "", &ValidationError{Fields: fieldErrors}
	}

	item := req.Item()
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	id, err := s.store.AddRecord(ctx, string(item.Bucket()), item.Document())
	if err != nil {
		return "", translateStoreErr(err)
	}
	return id, nil
}

// UpdateItem merges a partial patch. Creation validation is not re-run, so
// toggling one field never requires re-supplying the rest of the record.
func (s *MenuService) UpdateItem(ctx context.Context, id string, patch *models.ItemPatch) error {
	if s.store == nil {
		return ErrStoreUnavailable
	}

	doc := patch.Document()
	if len(doc) == 0 {
		return nil
	}
	doc["updatedAt"] = time.Now().UTC()

	bucket, ok := s.locate.Locate(id)
	if !ok {
		return ErrItemNotFound
	}

	return translateStoreErr(s.store.UpdateRecord(ctx, string(bucket), id, doc))
}

// DeleteItem hard-deletes the record. A missing id reports ErrItemNotFound
// so callers can tell "already gone" from "deleted".
func (s *MenuService) DeleteItem(ctx context.Context, id string) error {
	if s.store == nil {
		return ErrStoreUnavailable
	}

	bucket, ok := s.locate.Locate(id)
	if !ok {
		return ErrItemNotFound
	}

	return translateStoreErr(s.store.DeleteRecord(ctx, string(bucket), id))
}

// SetVisibility toggles only the hidden flag. It is the single most used
// admin control, so it gets its own entry point over the generic patch.
func (s *MenuService) SetVisibility(ctx context.Context, id string, hidden bool) error {
	return s.UpdateItem(ctx, id, &models.ItemPatch{Hidden: &hidden})
}

// BulkReorder applies every (id, order) pair as one atomic batch.
// Placeholder ids that were never persisted are skipped before the batch is
// built; any other unknown id fails the whole batch with nothing applied.
func (s *MenuService) BulkReorder(ctx context.Context, updates []models.OrderUpdate) (models.ReorderResult, error) {
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
		bucket, ok := s.locate.Locate(u.ID)
		if !ok {
			return models.ReorderResult{}, ErrItemNotFound
		}
		ops = append(ops, store.WriteOp{
			Bucket: string(bucket),
			ID:     u.ID,
			Patch:  store.Document{"order": u.Order, "updatedAt": now},
		})
	}

	if err := s.store.BatchWrite(ctx, ops); err != nil {
		return models.ReorderResult{}, translateStoreErr(err)
	}
	result.Updated = len(ops)
	return result, nil
}

func translateStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrItemNotFound
	case errors.Is(err, store.ErrUnavailable):
		return ErrStoreUnavailable
	default:
		return err
	}
}
