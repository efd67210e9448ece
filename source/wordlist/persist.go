package wordlist

import (
	"bytes"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

var wordsBucket = []byte("words")

// Store is an optional disk-backed accelerant for the in-memory cache: a
// resolved list is written once and read back on later process runs so a
// large word-source file is tokenized at most once across invocations
// (never a correctness requirement — the in-memory cache above remains
// authoritative within one process).
type Store struct {
	db *bolt.DB
}

// OpenStore opens (creating if needed) a bbolt database at path.
func OpenStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open word-list store: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(wordsBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init word-list store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the cached list for spec, or (nil, false) if absent.
func (s *Store) Load(spec string) ([][]byte, bool) {
	var raw []byte
	_ = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(wordsBucket).Get([]byte(spec))
		if v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if raw == nil {
		return nil, false
	}
	return bytes.Split(raw, []byte{0}), true
}

// Save persists list under spec, joining words with a NUL separator (word
// sources never contain embedded whitespace, but raw bytes could in
// principle collide with any printable separator, so NUL is used instead).
func (s *Store) Save(spec string, list [][]byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(wordsBucket).Put([]byte(spec), bytes.Join(list, []byte{0}))
	})
}
