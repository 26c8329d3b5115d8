package store

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/lebenbrewing/backend/internal/storage"
)

// MemoryStore keeps every bucket in memory. It serves tests and the
// degraded no-Mongo deployment; with a snapshot store attached it survives
// restarts.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]map[string]Document
	subs    map[int]*memorySub
	nextSub int
	writes  int

	// dispatchMu serializes snapshot delivery so no two handlers interleave.
	dispatchMu sync.Mutex

	snapshot *storage.JSONStore

	batchErr error
}

type memorySub struct {
	bucket string
	onSnap SnapshotFunc
	onErr  ErrorFunc
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buckets: make(map[string]map[string]Document),
		subs:    make(map[int]*memorySub),
	}
}

// NewPersistentMemoryStore restores the last snapshot from disk and saves
// after every mutation.
func NewPersistentMemoryStore(snapshot *storage.JSONStore) (*MemoryStore, error) {
	s := NewMemoryStore()
	s.snapshot = snapshot

	saved, err := snapshot.Load()
	if err != nil {
		return nil, err
	}
	for bucket, records := range saved {
		s.buckets[bucket] = make(map[string]Document, len(records))
		for id, doc := range records {
			s.buckets[bucket][id] = Document(doc)
		}
	}
	return s, nil
}

// Preload inserts documents without counting as writes or notifying
// subscribers; used for seeding before the server starts.
func (s *MemoryStore) Preload(bucket string, docs []Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.bucketLocked(bucket)
	for _, doc := range docs {
		records[uuid.New().String()] = copyDocument(doc)
	}
}

func (s *MemoryStore) AddRecord(ctx context.Context, bucket string, doc Document) (string, error) {
	s.mu.Lock()
	id := uuid.New().String()
	s.bucketLocked(bucket)[id] = copyDocument(doc)
	s.writes++
	s.mu.Unlock()

	s.persist()
	s.notify(bucket)
	return id, nil
}

func (s *MemoryStore) UpdateRecord(ctx context.Context, bucket, id string, patch Document) error {
	s.mu.Lock()
	records, ok := s.buckets[bucket]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	doc, ok := records[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	for k, v := range patch {
		doc[k] = v
	}
	s.writes++
	s.mu.Unlock()

	s.persist()
	s.notify(bucket)
	return nil
}

func (s *MemoryStore) DeleteRecord(ctx context.Context, bucket, id string) error {
	s.mu.Lock()
	records, ok := s.buckets[bucket]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if _, ok := records[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(records, id)
	s.writes++
	s.mu.Unlock()

	s.persist()
	s.notify(bucket)
	return nil
}

func (s *MemoryStore) BatchWrite(ctx context.Context, ops []WriteOp) error {
	s.mu.Lock()

	if err := s.batchErr; err != nil {
		s.batchErr = nil
		s.mu.Unlock()
		return err
	}

	// Validate the whole batch before touching anything.
	for _, op := range ops {
		records, ok := s.buckets[op.Bucket]
		if !ok {
			s.mu.Unlock()
			return ErrNotFound
		}
		if _, ok := records[op.ID]; !ok {
			s.mu.Unlock()
			return ErrNotFound
		}
	}

	touched := make(map[string]bool, len(ops))
	for _, op := range ops {
		doc := s.buckets[op.Bucket][op.ID]
		for k, v := range op.Patch {
			doc[k] = v
		}
		touched[op.Bucket] = true
	}
	if len(ops) > 0 {
		s.writes++
	}
	s.mu.Unlock()

	if len(ops) > 0 {
		s.persist()
	}
	for bucket := range touched {
		s.notify(bucket)
	}
	return nil
}

func (s *MemoryStore) ListRecords(ctx context.Context, bucket string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordsLocked(bucket), nil
}

func (s *MemoryStore) Subscribe(bucket string, onSnapshot SnapshotFunc, onError ErrorFunc) (Unsubscribe, error) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = &memorySub{bucket: bucket, onSnap: onSnapshot, onErr: onError}
	records := s.recordsLocked(bucket)
	s.mu.Unlock()

	s.dispatchMu.Lock()
	onSnapshot(records)
	s.dispatchMu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}, nil
}

// Writes reports how many mutations the store has accepted. Tests use it to
// prove that failed validation never reaches the store.
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// FailNextBatch makes the next BatchWrite fail before applying anything.
func (s *MemoryStore) FailNextBatch(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batchErr = err
}

// EmitError delivers a subscription error to every subscriber of the
// bucket, simulating a permission or network failure on the feed.
func (s *MemoryStore) EmitError(bucket string, err error) {
	s.mu.Lock()
	var callbacks []ErrorFunc
	for _, sub := range s.subs {
		if sub.bucket == bucket && sub.onErr != nil {
			callbacks = append(callbacks, sub.onErr)
		}
	}
	s.mu.Unlock()

	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	for _, cb := range callbacks {
		cb(err)
	}
}

func (s *MemoryStore) bucketLocked(bucket string) map[string]Document {
	records, ok := s.buckets[bucket]
	if !ok {
		records = make(map[string]Document)
		s.buckets[bucket] = records
	}
	return records
}

func (s *MemoryStore) recordsLocked(bucket string) []Record {
	records := make([]Record, 0, len(s.buckets[bucket]))
	for id, doc := range s.buckets[bucket] {
		records = append(records, Record{ID: id, Data: copyDocument(doc)})
	}
	return records
}

func (s *MemoryStore) notify(bucket string) {
	s.mu.Lock()
	records := s.recordsLocked(bucket)
	var callbacks []SnapshotFunc
	for _, sub := range s.subs {
		if sub.bucket == bucket {
			callbacks = append(callbacks, sub.onSnap)
		}
	}
	s.mu.Unlock()

	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	for _, cb := range callbacks {
		cb(records)
	}
}

func (s *MemoryStore) persist() {
	if s.snapshot == nil {
		return
	}

	s.mu.Lock()
	saved := make(storage.Buckets, len(s.buckets))
	for bucket, records := range s.buckets {
		saved[bucket] = make(map[string]map[string]interface{}, len(records))
		for id, doc := range records {
			saved[bucket][id] = copyDocument(doc)
		}
	}
	s.mu.Unlock()

	if err := s.snapshot.Save(saved); err != nil {
		log.Printf("memory store: snapshot save failed: %v", err)
	}
}

func copyDocument(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
