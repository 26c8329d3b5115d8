package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Buckets is the on-disk shape of a full store snapshot: bucket -> record
// id -> document fields.
type Buckets map[string]map[string]map[string]interface{}

// JSONStore persists store snapshots to a JSON file. It backs the in-memory
// adapter so the no-Mongo deployment survives restarts.
type JSONStore struct {
	mu       sync.Mutex
	filePath string
}

// NewJSONStore creates a snapshot store at dataDir/filename.
func NewJSONStore(dataDir, filename string) (*JSONStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	return &JSONStore{
		filePath: filepath.Join(dataDir, filename),
	}, nil
}

// Load reads the last saved snapshot. A missing file is an empty snapshot,
// not an error.
func (s *JSONStore) Load() (Buckets, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return Buckets{}, nil
		}
		return nil, err
	}
	defer file.Close()

	var buckets Buckets
	if err := json.NewDecoder(file).Decode(&buckets); err != nil {
		return nil, err
	}
	if buckets == nil {
		buckets = Buckets{}
	}
	return buckets, nil
}

// Save writes the snapshot via a temp file and rename so a crash mid-write
// never truncates the previous snapshot.
func (s *JSONStore) Save(buckets Buckets) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tempFile := s.filePath + ".tmp"
	file, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(buckets); err != nil {
		file.Close()
		os.Remove(tempFile)
		return err
	}

	if err := file.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, s.filePath)
}
