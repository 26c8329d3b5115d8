package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/lebenbrewing/backend/internal/models"
	"github.com/lebenbrewing/backend/internal/services"
)

// PublicHandler serves the customer-facing menu: the current grouping, a
// live SSE feed of it, and the degraded-mode status the frontend shows a
// banner for.
type PublicHandler struct {
	aggregator      *services.Aggregator
	settingsService *services.SettingsService
	degradedReason  string
}

func NewPublicHandler(aggregator *services.Aggregator, settingsService *services.SettingsService, degradedReason string) *PublicHandler {
	return &PublicHandler{
		aggregator:      aggregator,
		settingsService: settingsService,
		degradedReason:  degradedReason,
	}
}

type publicMenuResponse struct {
	Buckets  services.Grouping `json:"buckets"`
	Settings models.Settings   `json:"settings"`

	// BeerCans lists the beers without ibu/abv; the page renders them as
	// their own sub-section under beers.
	BeerCans []models.MenuItem `json:"beerCans,omitempty"`
}

func (h *PublicHandler) buildMenu(r *http.Request) publicMenuResponse {
	grouping := h.aggregator.PublicGrouping()

	detailed, cans := models.SplitBeerList(grouping[models.BucketBeers])
	if len(cans) > 0 {
		grouping[models.BucketBeers] = detailed
	}

	settings, err := h.settingsService.Get(r.Context())
	if err != nil {
		log.Printf("[GetMenu] settings unavailable, using defaults: %v", err)
	}

	return publicMenuResponse{
		Buckets:  grouping,
		Settings: settings,
		BeerCans: cans,
	}
}

// GetMenu returns the public grouping: hidden items are gone, sold-out
// items are present with available=false.
func (h *PublicHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(h.buildMenu(r)))
}

// StreamMenu pushes the public grouping as Server-Sent Events: one event
// immediately, then one per menu change until the client disconnects.
func (h *PublicHandler) StreamMenu(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	updates := make(chan services.Grouping, 8)
	unsubscribe, err := h.aggregator.Subscribe(func(g services.Grouping) {
		select {
		case updates <- services.PublicView(g):
		default:
			// Slow client; it gets the next full snapshot instead.
		}
	}, nil)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, models.NewErrorResponse("Menu feed unavailable"))
		return
	}
	defer unsubscribe()

	for {
		select {
		case <-r.Context().Done():
			return
		case grouping := <-updates:
			payload, err := json.Marshal(grouping)
			if err != nil {
				log.Printf("[StreamMenu] marshal error: %v", err)
				return
			}
			fmt.Fprintf(w, "event: menu\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

type statusResponse struct {
	Degraded bool   `json:"degraded"`
	Reason   string `json:"reason,omitempty"`
}

// GetStatus reports whether the server is running on the fallback store.
func (h *PublicHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(statusResponse{
		Degraded: h.degradedReason != "",
		Reason:   h.degradedReason,
	}))
}
