package services

import (
	"context"
	"time"

	"github.com/lebenbrewing/backend/internal/models"
	"github.com/lebenbrewing/backend/internal/store"
)

const settingsBucket = "settings"

// SettingsService reads and writes the single site-wide display settings
// document.
type SettingsService struct {
	store store.Adapter
}

func NewSettingsService(st store.Adapter) *SettingsService {
	return &SettingsService{store: st}
}

// Get returns the saved settings, or the defaults when nothing has been
// saved yet.
func (s *SettingsService) Get(ctx context.Context) (models.Settings, error) {
	if s.store == nil {
		return models.DefaultSettings(), ErrStoreUnavailable
	}

	records, err := s.store.ListRecords(ctx, settingsBucket)
	if err != nil {
		return models.DefaultSettings(), translateStoreErr(err)
	}
	if len(records) == 0 {
		return models.DefaultSettings(), nil
	}
	return models.SettingsFromDocument(records[0].Data), nil
}

// Update patches the settings document, creating it on first write.
func (s *SettingsService) Update(ctx context.Context, req *models.UpdateSettingsRequest) (models.Settings, error) {
	if s.store == nil {
		return models.DefaultSettings(), ErrStoreUnavailable
	}

	patch := req.Document()
	patch["updatedAt"] = time.Now().UTC()

	records, err := s.store.ListRecords(ctx, settingsBucket)
	if err != nil {
		return models.DefaultSettings(), translateStoreErr(err)
	}

	if len(records) == 0 {
		current := models.DefaultSettings().Document()
		for k, v := range patch {
			current[k] = v
		}
		if _, err := s.store.AddRecord(ctx, settingsBucket, current); err != nil {
			return models.DefaultSettings(), translateStoreErr(err)
		}
	} else {
		if err := s.store.UpdateRecord(ctx, settingsBucket, records[0].ID, patch); err != nil {
			return models.DefaultSettings(), translateStoreErr(err)
		}
	}

	return s.Get(ctx)
}
