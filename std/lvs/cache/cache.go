// Package cache stores compiled models keyed by the digest of their source.
package cache

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/named-data/lvsc/std/log"
	"github.com/named-data/lvsc/std/lvs"
	"github.com/named-data/lvsc/std/lvs/binfmt"
	"golang.org/x/crypto/blake2b"
)

// Cache is a content-addressed store of compiled models backed by badger.
type Cache struct {
	db *badger.DB
}

// Open opens the cache in dir. An empty dir keeps the cache in memory.
func Open(dir string) (*Cache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{})
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open compile cache: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) String() string {
	return "lvs-cache"
}

// Key derives the cache key of a schema source.
func Key(src string) []byte {
	sum := blake2b.Sum256([]byte(src))
	return append([]byte{'l', 'v', 's', binfmt.Version}, sum[:]...)
}

// Get returns the model stored for src, or nil if there is none.
func (c *Cache) Get(src string) (buf []byte, err error) {
	err = c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(Key(src))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		} else if err != nil {
			return err
		}
		buf, err = item.ValueCopy(nil)
		return err
	})
	return
}

func (c *Cache) Put(src string, buf []byte) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(Key(src), buf)
	})
}

// Compile returns the cached model of src, compiling and storing it on a miss.
// Failed compilations are not cached. The source limit of comp applies to hits too.
func (c *Cache) Compile(comp *lvs.Compiler, src string) ([]byte, error) {
	if err := comp.CheckSize(src); err != nil {
		return nil, err
	}
	buf, err := c.Get(src)
	if err != nil {
		return nil, err
	}
	if buf != nil {
		log.Debug(c, "Cache hit", "size", len(buf))
		return buf, nil
	}

	if buf, err = comp.Compile(src); err != nil {
		return nil, err
	}
	if err = c.Put(src, buf); err != nil {
		log.Warn(c, "Unable to store compiled model", "err", err)
	}
	return buf, nil
}

// badgerLogger routes badger's own messages to the default logger.
type badgerLogger struct{}

func (badgerLogger) String() string {
	return "badger"
}

func (l badgerLogger) Errorf(f string, v ...any) {
	log.Error(l, fmt.Sprintf(f, v...))
}

func (l badgerLogger) Warningf(f string, v ...any) {
	log.Warn(l, fmt.Sprintf(f, v...))
}

func (l badgerLogger) Infof(f string, v ...any) {
	log.Debug(l, fmt.Sprintf(f, v...))
}

func (l badgerLogger) Debugf(f string, v ...any) {
	log.Trace(l, fmt.Sprintf(f, v...))
}
