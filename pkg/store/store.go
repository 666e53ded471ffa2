// Package store persists dictionary entries in badger so a dictionary can be
// rebuilt without the original word lists.
package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bastiangx/wordseg/internal/logger"
	"github.com/bastiangx/wordseg/pkg/dic"
	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrClosed   = errors.New("store is closed")
	ErrNotFound = errors.New("word not found")
)

const keyPrefix = "w/"

// Entry is the value stored for each word.
type Entry struct {
	Word   string `msgpack:"w"`
	Source string `msgpack:"s,omitempty"`
	Added  int64  `msgpack:"a"`
}

// Options configures Open.
type Options struct {
	Dir        string
	InMemory   bool
	GCInterval time.Duration // 0 uses five minutes
}

// Store is an append-only word store.
type Store struct {
	db       *badger.DB
	inMemory bool

	gcInterval time.Duration
	done       chan struct{}
	wg         sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// Open opens or creates the store described by opts.
func Open(opts Options) (*Store, error) {
	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Dir == "" {
			return nil, fmt.Errorf("store dir is required unless in memory")
		}
		bopts = badger.DefaultOptions(opts.Dir)
	}
	bopts = bopts.WithLogger(logger.Badger())

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	s := &Store{
		db:         db,
		inMemory:   opts.InMemory,
		gcInterval: opts.GCInterval,
		done:       make(chan struct{}),
	}
	if s.gcInterval <= 0 {
		s.gcInterval = 5 * time.Minute
	}
	if !s.inMemory {
		s.wg.Add(1)
		go s.gcLoop()
	}
	return s, nil
}

func (s *Store) gcLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// one rewrite per tick; ErrNoRewrite just means nothing to reclaim
			if err := s.db.RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				log.Warnf("Value log GC failed: %v", err)
			}
		case <-s.done:
			return
		}
	}
}

func key(word string) []byte {
	return []byte(keyPrefix + word)
}

func encode(word, source string) ([]byte, error) {
	return msgpack.Marshal(&Entry{Word: word, Source: source, Added: time.Now().Unix()})
}

// Put stores word. Blank words are ignored and reported as not added.
func (s *Store) Put(word, source string) (bool, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, ErrClosed
	}

	added := false
	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key(word))
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		val, err := encode(word, source)
		if err != nil {
			return err
		}
		added = true
		return txn.Set(key(word), val)
	})
	if err != nil {
		return false, fmt.Errorf("failed to put %q: %w", word, err)
	}
	return added, nil
}

// PutBatch stores words with a write batch. Existing entries are overwritten
// with the new source.
func (s *Store) PutBatch(words []string, source string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	n := 0
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		val, err := encode(w, source)
		if err != nil {
			return n, fmt.Errorf("failed to encode %q: %w", w, err)
		}
		if err := wb.Set(key(w), val); err != nil {
			return n, fmt.Errorf("failed to batch %q: %w", w, err)
		}
		n++
	}
	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("failed to flush batch: %w", err)
	}
	return n, nil
}

// Get returns the entry stored for word.
func (s *Store) Get(word string) (Entry, error) {
	var e Entry
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return e, ErrClosed
	}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(word))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, &e)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return e, ErrNotFound
	}
	return e, err
}

// Has reports whether word is stored.
func (s *Store) Has(word string) (bool, error) {
	_, err := s.Get(word)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Each calls fn for every stored word in key order. Iteration stops at the
// first error fn returns.
func (s *Store) Each(fn func(word string) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			word := strings.TrimPrefix(string(it.Item().Key()), keyPrefix)
			if err := fn(word); err != nil {
				return err
			}
		}
		return nil
	})
}

// Count returns the number of stored words.
func (s *Store) Count() (int, error) {
	n := 0
	err := s.Each(func(string) error {
		n++
		return nil
	})
	return n, err
}

// LoadInto adds every stored word to d and returns how many were new to d.
func (s *Store) LoadInto(d *dic.Dictionary) (int, error) {
	added := 0
	err := s.Each(func(word string) error {
		ok, err := d.AddWord(word)
		if err != nil {
			log.Warnf("Skipping stored entry %q: %v", word, err)
			return nil
		}
		if ok {
			added++
		}
		return nil
	})
	if err != nil {
		return added, fmt.Errorf("failed to load store: %w", err)
	}
	log.Debugf("Loaded %d words from store", added)
	return added, nil
}

// Close stops the GC loop and closes the database. Calling it twice is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.done)
	s.wg.Wait()
	return s.db.Close()
}
