// Command seed writes the embedded house menu into the configured Mongo
// deployment: items into their buckets, the canonical categories, and the
// default display settings. Buckets that already hold records are skipped
// so re-running is safe.
package main

import (
	"context"
	"log"
	"time"

	"github.com/lebenbrewing/backend/internal/config"
	"github.com/lebenbrewing/backend/internal/store"
)

func main() {
	cfg := config.Load()
	if !cfg.MongoConfigured() {
		log.Fatal("MONGO_URI must be set to seed a database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var (
		st  store.Adapter
		err error
	)
	switch cfg.StorageLayout {
	case config.LayoutFlat:
		st, err = store.NewMongoFlatStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		st, err = store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	}
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	byBucket, err := store.SeedDocuments()
	if err != nil {
		log.Fatalf("Failed to load seed data: %v", err)
	}

	for bucket, docs := range byBucket {
		existing, err := st.ListRecords(ctx, bucket)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", bucket, err)
		}
		if len(existing) > 0 {
			log.Printf("Skipping %s: %d record(s) already present", bucket, len(existing))
			continue
		}
		for _, doc := range docs {
			if _, err := st.AddRecord(ctx, bucket, doc); err != nil {
				log.Fatalf("Failed to seed %s: %v", bucket, err)
			}
		}
		log.Printf("Seeded %s: %d record(s)", bucket, len(docs))
	}

	log.Println("Seed complete")
}
