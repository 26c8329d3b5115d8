package store

import (
	"context"
	"log"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lebenbrewing/backend/internal/models"
)

// MongoFlatStore is the flat layout: every menu item lives in one "menu"
// collection and buckets are derived client-side from the category field.
// Non-menu buckets (categories, settings) keep dedicated collections, so
// callers use the exact same bucket names against either layout.
type MongoFlatStore struct {
	client   *mongo.Client
	db       *mongo.Database
	menuColl *mongo.Collection

	dispatchMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

const flatMenuCollection = "menu"

func NewMongoFlatStore(ctx context.Context, mongoURI, dbName string) (*MongoFlatStore, error) {
	client, err := connectMongo(ctx, mongoURI)
	if err != nil {
		return nil, err
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	db := client.Database(dbName)
	s := &MongoFlatStore{
		client:   client,
		db:       db,
		menuColl: db.Collection(flatMenuCollection),
		ctx:      watchCtx,
		cancel:   cancel,
	}

	log.Printf("MongoDB connected: db=%s layout=flat", dbName)
	return s, nil
}

func (s *MongoFlatStore) Close(ctx context.Context) error {
	s.cancel()
	s.wg.Wait()
	return s.client.Disconnect(ctx)
}

func isMenuBucket(bucket string) bool {
	if bucket == string(models.BucketFallback) {
		return true
	}
	for _, b := range models.MenuBuckets {
		if bucket == string(b) {
			return true
		}
	}
	return false
}

func (s *MongoFlatStore) collection(bucket string) *mongo.Collection {
	if isMenuBucket(bucket) {
		return s.menuColl
	}
	return s.db.Collection(bucket)
}

func (s *MongoFlatStore) AddRecord(ctx context.Context, bucket string, doc Document) (string, error) {
	return addToCollection(ctx, s.collection(bucket), doc)
}

func (s *MongoFlatStore) UpdateRecord(ctx context.Context, bucket, id string, patch Document) error {
	return updateInCollection(ctx, s.collection(bucket), id, patch)
}

func (s *MongoFlatStore) DeleteRecord(ctx context.Context, bucket, id string) error {
	return deleteFromCollection(ctx, s.collection(bucket), id)
}

func (s *MongoFlatStore) BatchWrite(ctx context.Context, ops []WriteOp) error {
	return batchUpdate(ctx, s.client, s.collection, ops)
}

func (s *MongoFlatStore) ListRecords(ctx context.Context, bucket string) ([]Record, error) {
	ctx, cancelCtx := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancelCtx()

	records, err := listCollection(ctx, s.collection(bucket), bson.M{})
	if err != nil {
		return nil, err
	}
	if !isMenuBucket(bucket) {
		return records, nil
	}
	return filterBucket(records, bucket), nil
}

func (s *MongoFlatStore) Subscribe(bucket string, onSnapshot SnapshotFunc, onError ErrorFunc) (Unsubscribe, error) {
	subCtx, cancelSub := context.WithCancel(s.ctx)

	emit := onSnapshot
	if isMenuBucket(bucket) {
		emit = func(records []Record) {
			onSnapshot(filterBucket(records, bucket))
		}
	}

	coll := s.collection(bucket)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		watchCollection(subCtx, coll, bson.M{}, &s.dispatchMu, emit, onError)
	}()

	return func() { cancelSub() }, nil
}

// filterBucket keeps the records whose category maps to the bucket. A
// record with no usable category lands in the fallback bucket.
func filterBucket(records []Record, bucket string) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		category, _ := r.Data["category"].(string)
		if string(models.BucketForCategory(category)) == bucket {
			out = append(out, r)
		}
	}
	return out
}
