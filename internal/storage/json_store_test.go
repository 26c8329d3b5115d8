package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestJSONStoreLoadMissingFile(t *testing.T) {
	store, err := NewJSONStore(t.TempDir(), "menu.json")
	if err != nil {
		t.Fatalf("NewJSONStore() error = %v", err)
	}

	buckets, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(buckets) != 0 {
		t.Errorf("Load() on missing file = %v, want empty snapshot", buckets)
	}
}

func TestJSONStoreSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewJSONStore(dir, "menu.json")
	if err != nil {
		t.Fatalf("NewJSONStore() error = %v", err)
	}

	saved := Buckets{
		"beers": {
			"id1": {"name": "IPA", "hidden": false},
		},
	}
	if err := store.Save(saved); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded["beers"]["id1"]["name"] != "IPA" {
		t.Errorf("loaded = %v, want saved snapshot back", loaded)
	}

	// No temp file left behind.
	if _, err := os.Stat(filepath.Join(dir, "menu.json.tmp")); !os.IsNotExist(err) {
		t.Error("temp file should be renamed away")
	}
}

func TestJSONStoreSaveOverwrites(t *testing.T) {
	store, err := NewJSONStore(t.TempDir(), "menu.json")
	if err != nil {
		t.Fatalf("NewJSONStore() error = %v", err)
	}

	if err := store.Save(Buckets{"beers": {"id1": {"name": "IPA"}}}); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}
	if err := store.Save(Buckets{"wines": {"id2": {"name": "Malbec"}}}); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	loaded, _ := store.Load()
	if _, ok := loaded["beers"]; ok {
		t.Error("second save should replace the first snapshot")
	}
	if loaded["wines"]["id2"]["name"] != "Malbec" {
		t.Errorf("loaded = %v", loaded)
	}
}
