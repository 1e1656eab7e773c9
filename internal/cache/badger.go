// Package cache stores rendered analysis results in a local BadgerDB so
// repeated runs against an unchanged local repository skip the walk.
package cache

import (
	"context"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/quantmind-br/gitparse-go/internal/domain"
)

// Options contains cache configuration options.
type Options struct {
	Directory string
	InMemory  bool
	Logger    bool
}

// BadgerCache is a result cache backed by BadgerDB.
type BadgerCache struct {
	db *badger.DB
}

// NewBadgerCache opens the cache database, creating the directory when
// needed. Badger's own logging stays off unless explicitly enabled.
func NewBadgerCache(opts Options) (*BadgerCache, error) {
	var badgerOpts badger.Options

	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Directory == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			opts.Directory = homeDir + "/.gitparse/cache"
		}

		if err := os.MkdirAll(opts.Directory, 0755); err != nil {
			return nil, err
		}

		badgerOpts = badger.DefaultOptions(opts.Directory)
	}

	if !opts.Logger {
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			_ = db.RunValueLogGC(0.5)
		}
	}()

	return &BadgerCache{db: db}, nil
}

// Get retrieves a cached value. A missing or expired key yields
// domain.ErrCacheMiss.
func (c *BadgerCache) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return domain.ErrCacheMiss
			}
			return err
		}

		value, err = item.ValueCopy(nil)
		return err
	})

	if err != nil {
		return nil, err
	}

	return value, nil
}

// Set stores a value, expiring after ttl when ttl is positive.
func (c *BadgerCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

// Has checks whether a key exists.
func (c *BadgerCache) Has(ctx context.Context, key string) bool {
	err := c.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		return err
	})
	return err == nil
}

// Delete removes a key.
func (c *BadgerCache) Delete(ctx context.Context, key string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Clear removes all entries.
func (c *BadgerCache) Clear() error {
	return c.db.DropAll()
}

// Close releases the database.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}
