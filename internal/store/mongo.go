package store

import (
	"context"
	"crypto/tls"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoOpTimeout = 10 * time.Second

// MongoStore is the per-bucket layout: one collection per bucket key.
// Change streams drive snapshot re-emission.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database

	// dispatchMu serializes snapshot delivery across all subscriptions.
	dispatchMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewMongoStore(ctx context.Context, mongoURI, dbName string) (*MongoStore, error) {
	client, err := connectMongo(ctx, mongoURI)
	if err != nil {
		return nil, err
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	s := &MongoStore{
		client: client,
		db:     client.Database(dbName),
		ctx:    watchCtx,
		cancel: cancel,
	}

	log.Printf("MongoDB connected: db=%s layout=buckets", dbName)
	return s, nil
}

func connectMongo(ctx context.Context, mongoURI string) (*mongo.Client, error) {
	// Atlas occasionally fails TLS negotiation in some environments unless we force TLS 1.2.
	tlsCfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS12,
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI).SetTLSConfig(tlsCfg))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	s.cancel()
	s.wg.Wait()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) AddRecord(ctx context.Context, bucket string, doc Document) (string, error) {
	return addToCollection(ctx, s.db.Collection(bucket), doc)
}

func (s *MongoStore) UpdateRecord(ctx context.Context, bucket, id string, patch Document) error {
	return updateInCollection(ctx, s.db.Collection(bucket), id, patch)
}

func (s *MongoStore) DeleteRecord(ctx context.Context, bucket, id string) error {
	return deleteFromCollection(ctx, s.db.Collection(bucket), id)
}

func (s *MongoStore) BatchWrite(ctx context.Context, ops []WriteOp) error {
	return batchUpdate(ctx, s.client, func(bucket string) *mongo.Collection {
		return s.db.Collection(bucket)
	}, ops)
}

func addToCollection(ctx context.Context, coll *mongo.Collection, doc Document) (string, error) {
	ctx, cancelCtx := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancelCtx()

	id := uuid.New().String()
	insert := bson.M{"_id": id}
	for k, v := range doc {
		insert[k] = v
	}

	if _, err := coll.InsertOne(ctx, insert); err != nil {
		return "", err
	}
	return id, nil
}

func updateInCollection(ctx context.Context, coll *mongo.Collection, id string, patch Document) error {
	ctx, cancelCtx := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancelCtx()

	res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(patch)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteFromCollection(ctx context.Context, coll *mongo.Collection, id string) error {
	ctx, cancelCtx := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancelCtx()

	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// batchUpdate applies every patch inside one transaction; a missing target
// aborts the whole batch.
func batchUpdate(ctx context.Context, client *mongo.Client, resolve func(bucket string) *mongo.Collection, ops []WriteOp) error {
	if len(ops) == 0 {
		return nil
	}

	ctx, cancelCtx := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancelCtx()

	session, err := client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, op := range ops {
			res, err := resolve(op.Bucket).UpdateOne(sc, bson.M{"_id": op.ID}, bson.M{"$set": bson.M(op.Patch)})
			if err != nil {
				return nil, err
			}
			if res.MatchedCount == 0 {
				return nil, ErrNotFound
			}
		}
		return nil, nil
	})
	return err
}

func (s *MongoStore) ListRecords(ctx context.Context, bucket string) ([]Record, error) {
	ctx, cancelCtx := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancelCtx()

	return listCollection(ctx, s.db.Collection(bucket), bson.M{})
}

func (s *MongoStore) Subscribe(bucket string, onSnapshot SnapshotFunc, onError ErrorFunc) (Unsubscribe, error) {
	subCtx, cancelSub := context.WithCancel(s.ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		watchCollection(subCtx, s.db.Collection(bucket), bson.M{}, &s.dispatchMu, onSnapshot, onError)
	}()

	return func() { cancelSub() }, nil
}

// listCollection reads every matching document and normalizes bson values
// into plain Go types so callers never see driver primitives.
func listCollection(ctx context.Context, coll *mongo.Collection, filter bson.M) ([]Record, error) {
	cur, err := coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	records := make([]Record, 0)
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		records = append(records, recordFromRaw(raw))
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// watchCollection emits an initial snapshot, then re-reads and re-emits on
// every change stream event. On error it reports, keeps the last snapshot
// in place and retries until the subscription is cancelled.
func watchCollection(ctx context.Context, coll *mongo.Collection, filter bson.M, dispatchMu *sync.Mutex, onSnapshot SnapshotFunc, onError ErrorFunc) {
	emit := func() bool {
		listCtx, cancelList := context.WithTimeout(ctx, mongoOpTimeout)
		records, err := listCollection(listCtx, coll, filter)
		cancelList()
		if err != nil {
			reportSubError(coll.Name(), err, onError)
			return false
		}

		dispatchMu.Lock()
		onSnapshot(records)
		dispatchMu.Unlock()
		return true
	}

	for ctx.Err() == nil {
		if !emit() {
			sleepCtx(ctx, 5*time.Second)
			continue
		}

		cs, err := coll.Watch(ctx, mongo.Pipeline{})
		if err != nil {
			reportSubError(coll.Name(), err, onError)
			sleepCtx(ctx, 5*time.Second)
			continue
		}

		for cs.Next(ctx) {
			if !emit() {
				break
			}
		}
		if err := cs.Err(); err != nil && ctx.Err() == nil {
			reportSubError(coll.Name(), err, onError)
		}
		cs.Close(context.Background())

		sleepCtx(ctx, time.Second)
	}
}

func reportSubError(name string, err error, onError ErrorFunc) {
	log.Printf("subscription error on %s: %v", name, err)
	if onError != nil {
		onError(err)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

func recordFromRaw(raw bson.M) Record {
	var id string
	switch v := raw["_id"].(type) {
	case string:
		id = v
	case primitive.ObjectID:
		id = v.Hex()
	}
	delete(raw, "_id")

	return Record{ID: id, Data: normalizeDocument(raw)}
}

// normalizeDocument converts bson container and date types into the plain
// values the models package decodes.
func normalizeDocument(raw bson.M) Document {
	doc := make(Document, len(raw))
	for k, v := range raw {
		doc[k] = normalizeValue(v)
	}
	return doc
}

func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case bson.M:
		return normalizeDocument(t)
	case primitive.A:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return v
	}
}
