// Package store abstracts the document store backing the menu. Two Mongo
// layouts (one collection per bucket, or a single flat collection keyed on
// the category field) and an in-memory store all satisfy the same interface;
// callers never learn which layout is live.
package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrUnavailable = errors.New("store unavailable")
)

// Document is the raw field map of one stored record.
type Document = map[string]interface{}

// Record pairs a store-assigned id with its document.
type Record struct {
	ID   string
	Data Document
}

// WriteOp is one entry of an atomic batch; the patch is merged into the
// record's existing fields.
type WriteOp struct {
	Bucket string
	ID     string
	Patch  Document
}

// SnapshotFunc receives the complete current contents of a bucket.
type SnapshotFunc func(records []Record)

// ErrorFunc receives subscription errors. The last delivered snapshot stays
// valid; no snapshot is retracted on error.
type ErrorFunc func(err error)

// Unsubscribe releases a subscription. After it returns no further
// callbacks are invoked.
type Unsubscribe func()

// Adapter is the persistence contract consumed by the sync and mutation
// layers. All operations are fallible; mutations are acknowledged only once
// the backing store accepted them.
type Adapter interface {
	AddRecord(ctx context.Context, bucket string, doc Document) (string, error)
	UpdateRecord(ctx context.Context, bucket, id string, patch Document) error
	DeleteRecord(ctx context.Context, bucket, id string) error

	// BatchWrite applies every patch or none of them.
	BatchWrite(ctx context.Context, ops []WriteOp) error

	// ListRecords returns the current contents of a bucket.
	ListRecords(ctx context.Context, bucket string) ([]Record, error)

	// Subscribe emits the full bucket snapshot immediately and again after
	// every change to the bucket. Snapshot handlers for one adapter are
	// never run concurrently.
	Subscribe(bucket string, onSnapshot SnapshotFunc, onError ErrorFunc) (Unsubscribe, error)
}
