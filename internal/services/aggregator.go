package services

import (
	"errors"
	"log"
	"sync"

	"github.com/lebenbrewing/backend/internal/models"
	"github.com/lebenbrewing/backend/internal/store"
)

var ErrAggregatorClosed = errors.New("aggregator closed")

// Grouping maps each bucket to its sorted list of menu items.
type Grouping map[models.BucketKey][]models.MenuItem

// TaggedItem is a menu item annotated with the bucket it renders under,
// for the flat admin listing.
type TaggedItem struct {
	models.MenuItem
	BucketKey models.BucketKey `json:"bucketKey"`
}

// UpdateFunc receives the complete grouping after every change. Consumers
// get the full picture each time, never a diff.
type UpdateFunc func(grouping Grouping)

// Aggregator mirrors the whole menu in memory, grouped by bucket, and
// republishes the grouping on every store change. It subscribes to each
// bucket feed of the injected store; which physical layout backs those
// feeds is invisible here.
type Aggregator struct {
	store store.Adapter

	mu       sync.Mutex
	source   map[string][]models.MenuItem
	grouping Grouping
	index    map[string]models.BucketKey
	subs     map[int]*aggregatorSub
	nextSub  int
	unsubs   []store.Unsubscribe
	closed   bool

	// publishMu keeps update and error callbacks from interleaving.
	publishMu sync.Mutex
}

type aggregatorSub struct {
	onUpdate UpdateFunc
	onError  store.ErrorFunc
}

// NewAggregator subscribes to every bucket feed, including the fallback
// bucket that catches records with unrecognized categories.
func NewAggregator(st store.Adapter) (*Aggregator, error) {
	a := &Aggregator{
		store:    st,
		source:   make(map[string][]models.MenuItem),
		grouping: make(Grouping),
		index:    make(map[string]models.BucketKey),
		subs:     make(map[int]*aggregatorSub),
	}

	buckets := make([]string, 0, len(models.MenuBuckets)+1)
	for _, b := range models.MenuBuckets {
		buckets = append(buckets, string(b))
	}
	buckets = append(buckets, string(models.BucketFallback))

	for _, bucket := range buckets {
		bucket := bucket
		unsub, err := st.Subscribe(bucket,
			func(records []store.Record) { a.applySnapshot(bucket, records) },
			func(err error) { a.reportError(bucket, err) },
		)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.unsubs = append(a.unsubs, unsub)
	}

	return a, nil
}

// Close releases every store subscription. No callbacks fire afterwards.
func (a *Aggregator) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	unsubs := a.unsubs
	a.unsubs = nil
	a.subs = make(map[int]*aggregatorSub)
	a.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
}

// Subscribe registers for grouping updates; the current grouping is
// delivered immediately. onError is optional.
func (a *Aggregator) Subscribe(onUpdate UpdateFunc, onError store.ErrorFunc) (store.Unsubscribe, error) {
	// Registration and the initial delivery happen under publishMu so a
	// concurrent snapshot cannot slip a newer grouping in front of the
	// subscriber's starting point.
	a.publishMu.Lock()
	defer a.publishMu.Unlock()

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil, ErrAggregatorClosed
	}
	id := a.nextSub
	a.nextSub++
	a.subs[id] = &aggregatorSub{onUpdate: onUpdate, onError: onError}
	current := renderGrouping(a.grouping)
	a.mu.Unlock()

	onUpdate(current)

	return func() {
		a.mu.Lock()
		delete(a.subs, id)
		a.mu.Unlock()
	}, nil
}

// AdminGrouping returns every record, hidden ones included.
func (a *Aggregator) AdminGrouping() Grouping {
	a.mu.Lock()
	defer a.mu.Unlock()
	return renderGrouping(a.grouping)
}

// PublicGrouping returns the customer-facing grouping with hidden records
// removed. Sold-out records stay in; availability is a rendering concern.
func (a *Aggregator) PublicGrouping() Grouping {
	a.mu.Lock()
	defer a.mu.Unlock()
	return PublicView(a.grouping)
}

// AdminFlatList returns every record across all buckets in menu order,
// tagged with its bucket key.
func (a *Aggregator) AdminFlatList() []TaggedItem {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []TaggedItem
	for _, bucket := range append(append([]models.BucketKey{}, models.MenuBuckets...), models.BucketFallback) {
		for _, item := range a.grouping[bucket] {
			out = append(out, TaggedItem{MenuItem: item.DisplayPrices(), BucketKey: bucket})
		}
	}
	return out
}

// Locate resolves a record id to the physical bucket feed it arrived on.
// Mutations address the store with this, so it must name the collection
// actually holding the record, not the category-derived display bucket;
// the two diverge after any category edit.
func (a *Aggregator) Locate(id string) (models.BucketKey, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	bucket, ok := a.index[id]
	return bucket, ok
}

func (a *Aggregator) applySnapshot(bucket string, records []store.Record) {
	items := make([]models.MenuItem, 0, len(records))
	for _, r := range records {
		items = append(items, models.ItemFromDocument(r.ID, r.Data))
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.source[bucket] = items
	a.grouping = a.regroupLocked()
	a.index = a.reindexLocked()
	published := renderGrouping(a.grouping)
	subs := a.subscribersLocked()
	a.mu.Unlock()

	a.publishMu.Lock()
	defer a.publishMu.Unlock()
	for _, sub := range subs {
		sub.onUpdate(published)
	}
}

// regroupLocked rebuilds the grouping from every source feed. Membership
// follows the record's category, so a category edit moves the record even
// when its physical collection has not changed. Records with no category at
// all stay under their source feed; that is where the legacy per-category
// documents live.
func (a *Aggregator) regroupLocked() Grouping {
	grouping := make(Grouping)
	for sourceBucket, items := range a.source {
		for _, item := range items {
			target := item.Bucket()
			if item.Category == "" {
				target = models.BucketKey(sourceBucket)
			}
			grouping[target] = append(grouping[target], item)
		}
	}
	for bucket := range grouping {
		models.SortItems(grouping[bucket])
	}
	return grouping
}

// reindexLocked rebuilds the id index from the source feeds, keyed on the
// bucket each record physically lives in.
func (a *Aggregator) reindexLocked() map[string]models.BucketKey {
	index := make(map[string]models.BucketKey)
	for sourceBucket, items := range a.source {
		for _, item := range items {
			index[item.ID] = models.BucketKey(sourceBucket)
		}
	}
	return index
}

func (a *Aggregator) reportError(bucket string, err error) {
	log.Printf("[Aggregator] subscription error on %s (keeping last grouping): %v", bucket, err)

	a.mu.Lock()
	subs := a.subscribersLocked()
	a.mu.Unlock()

	a.publishMu.Lock()
	defer a.publishMu.Unlock()
	for _, sub := range subs {
		if sub.onError != nil {
			sub.onError(err)
		}
	}
}

func (a *Aggregator) subscribersLocked() []*aggregatorSub {
	subs := make([]*aggregatorSub, 0, len(a.subs))
	for _, sub := range a.subs {
		subs = append(subs, sub)
	}
	return subs
}

// PublicView filters hidden records out of a grouping. Buckets left empty
// by the filter are dropped entirely.
func PublicView(g Grouping) Grouping {
	out := make(Grouping, len(g))
	for bucket, items := range g {
		visible := make([]models.MenuItem, 0, len(items))
		for _, item := range items {
			if !item.Hidden {
				visible = append(visible, item.DisplayPrices())
			}
		}
		if len(visible) > 0 {
			out[bucket] = visible
		}
	}
	return out
}

// renderGrouping copies a grouping with every price field in its canonical
// display form. Everything the aggregator hands out goes through it, so no
// consumer ever sees the raw legacy price encodings.
func renderGrouping(g Grouping) Grouping {
	out := make(Grouping, len(g))
	for bucket, items := range g {
		rendered := make([]models.MenuItem, len(items))
		for i, item := range items {
			rendered[i] = item.DisplayPrices()
		}
		out[bucket] = rendered
	}
	return out
}
