package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chesscore/internal/book"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("storage: not found")

// Key prefixes; the rest of the key is the position hash in hex.
const (
	prefixBook     = "book/"
	prefixAnalysis = "analysis/"
)

func hashKey(prefix string, hash uint64) []byte {
	return fmt.Appendf(nil, "%s%016x", prefix, hash)
}

// Analysis is a cached search result for one position.
type Analysis struct {
	FEN     string        `json:"fen"`
	Move    string        `json:"move"`
	Score   int           `json:"score"`
	Depth   int           `json:"depth"`
	Nodes   uint64        `json:"nodes"`
	PV      []string      `json:"pv,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
	Stored  time.Time     `json:"stored"`
}

// Store wraps BadgerDB.
type Store struct {
	db *badger.DB
}

// Open opens or creates the database in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// OpenDefault opens the database in DatabaseDir.
func OpenDefault() (*Store, error) {
	dir, err := DatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dir)
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) put(key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

func (s *Store) get(key []byte, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

// SaveBookEntries replaces the book moves stored for one position.
func (s *Store) SaveBookEntries(hash uint64, entries []book.Entry) error {
	return s.put(hashKey(prefixBook, hash), entries)
}

// LoadBookEntries returns the book moves stored for one position.
func (s *Store) LoadBookEntries(hash uint64) ([]book.Entry, error) {
	var entries []book.Entry
	if err := s.get(hashKey(prefixBook, hash), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveBook writes every position of bk in one transaction batch.
func (s *Store) SaveBook(bk *book.Book) error {
	wb := s.db.NewWriteBatch()
	var err error
	bk.Each(func(hash uint64, entries []book.Entry) {
		if err != nil {
			return
		}
		var data []byte
		if data, err = json.Marshal(entries); err == nil {
			err = wb.Set(hashKey(prefixBook, hash), data)
		}
	})
	if err != nil {
		wb.Cancel()
		return fmt.Errorf("storage: save book: %w", err)
	}
	return wb.Flush()
}

// LoadBook reads every stored book position. An empty database gives an
// empty book.
func (s *Store) LoadBook() (*book.Book, error) {
	bk := book.New()
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixBook)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())
			hash, err := strconv.ParseUint(strings.TrimPrefix(key, prefixBook), 16, 64)
			if err != nil {
				return fmt.Errorf("storage: bad book key %q: %w", key, err)
			}
			var entries []book.Entry
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &entries)
			}); err != nil {
				return err
			}
			bk.Set(hash, entries)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bk, nil
}

// SaveAnalysis stores a search result for the position hash, stamping it
// with the current time.
func (s *Store) SaveAnalysis(hash uint64, a Analysis) error {
	a.Stored = time.Now()
	return s.put(hashKey(prefixAnalysis, hash), a)
}

// LoadAnalysis returns the cached result for hash, or ErrNotFound.
func (s *Store) LoadAnalysis(hash uint64) (Analysis, error) {
	var a Analysis
	err := s.get(hashKey(prefixAnalysis, hash), &a)
	return a, err
}

// DeleteAnalysis drops the cached result for hash.
func (s *Store) DeleteAnalysis(hash uint64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(hashKey(prefixAnalysis, hash))
	})
}
