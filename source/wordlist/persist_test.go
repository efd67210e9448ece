package wordlist

import (
	"path/filepath"
	"testing"
)

func TestStore_SaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.bolt")
	store, err := OpenStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	words := [][]byte{[]byte("alpha"), []byte("beta"), []byte("gamma")}
	if err := store.Save("mylist", words); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok := store.Load("mylist")
	if !ok {
		t.Fatalf("expected Load to find a saved list")
	}
	if len(got) != len(words) {
		t.Fatalf("got %d words, want %d", len(got), len(words))
	}
	for i := range words {
		if string(got[i]) != string(words[i]) {
			t.Fatalf("word %d: got %q, want %q", i, got[i], words[i])
		}
	}
}

func TestStore_LoadMissingSpecReturnsFalse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.bolt")
	store, err := OpenStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if _, ok := store.Load("nope"); ok {
		t.Fatalf("expected Load to report absent spec")
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.bolt")
	store, err := OpenStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Save("durable", [][]byte{[]byte("one"), []byte("two")}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := OpenStore(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()

	got, ok := reopened.Load("durable")
	if !ok {
		t.Fatalf("expected persisted list to survive reopen")
	}
	if len(got) != 2 || string(got[0]) != "one" || string(got[1]) != "two" {
		t.Fatalf("got %v", got)
	}
}
