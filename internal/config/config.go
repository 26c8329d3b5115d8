package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// StorageLayout selects how menu records are laid out in Mongo.
type StorageLayout string

const (
	// LayoutBuckets keeps one collection per menu bucket.
	LayoutBuckets StorageLayout = "buckets"
	// LayoutFlat keeps every item in a single collection keyed on category.
	LayoutFlat StorageLayout = "flat"
)

type Config struct {
	ServerAddress string

	MongoURI      string
	MongoDatabase string
	StorageLayout StorageLayout

	DataDir string

	JWTSecret         string
	JWTExpiration     time.Duration
	AdminPasswordHash string

	FirebaseProjectID       string
	FirebaseCredentialsJSON string
}

func Load() *Config {
	_ = godotenv.Load()

	layout := StorageLayout(getEnv("STORAGE_LAYOUT", string(LayoutBuckets)))
	if layout != LayoutBuckets && layout != LayoutFlat {
		layout = LayoutBuckets
	}

	return &Config{
		ServerAddress:           getEnv("SERVER_ADDRESS", ":8080"),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DB", "leben_menu"),
		StorageLayout:           layout,
		DataDir:                 getEnv("DATA_DIR", "./data"),
		JWTSecret:               getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTExpiration:           24 * time.Hour,
		AdminPasswordHash:       getEnv("ADMIN_PASSWORD_HASH", ""),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsJSON: getEnv("FIREBASE_CREDENTIALS_JSON", ""),
	}
}

// MongoConfigured reports whether a Mongo deployment is reachable in
// principle; without it the server degrades to the in-memory store.
func (c *Config) MongoConfigured() bool {
	return c.MongoURI != ""
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
