/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
)

const (
	keyPrefix = "run/"

	defaultGCInterval     = 5 * time.Minute
	defaultGCDiscardRatio = 0.5 // recommended ratio by badger docs
)

// Badger stores records in a badger database, keyed by start time so that
// iteration order is chronological.
type Badger struct {
	db            *badger.DB
	capacity      int
	cancelCleaner context.CancelFunc

	// serializes Add so that trimming never conflicts
	mu sync.Mutex
}

// OpenBadger opens (or creates) the database at path.
func OpenBadger(path string, capacity int) (*Badger, error) {
	if len(path) == 0 {
		return nil, errors.Errorf("path cannot be empty")
	}
	return openBadger(badger.DefaultOptions(path), capacity)
}

func openBadger(opt badger.Options, capacity int) (*Badger, error) {
	opt.Logger = logger.Named("badger")
	db, err := badger.Open(opt)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open DB at '%s'", opt.Dir)
	}
	return &Badger{
		db:            db,
		capacity:      capacity,
		cancelCleaner: autoCleaner(db, defaultGCInterval, defaultGCDiscardRatio),
	}, nil
}

func (b *Badger) Add(r Record) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return errors.Wrapf(err, "could not marshal record [%s]", r.RunID)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(r), raw)
	}); err != nil {
		return errors.Wrapf(err, "could not store record [%s]", r.RunID)
	}
	return b.trim()
}

// trim deletes the oldest records beyond capacity.
func (b *Badger) trim() error {
	var stale [][]byte
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		var keys [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		if len(keys) > b.capacity {
			stale = keys[:len(keys)-b.capacity]
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "could not scan records")
	}
	if len(stale) == 0 {
		return nil
	}

	return errors.Wrap(b.db.Update(func(txn *badger.Txn) error {
		for _, k := range stale {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	}), "could not trim records")
}

func (b *Badger) List(limit int) ([]Record, error) {
	var res []Record
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(append([]byte(keyPrefix), 0xff)); it.Valid(); it.Next() {
			if limit > 0 && len(res) == limit {
				break
			}
			var r Record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			}); err != nil {
				return errors.Wrapf(err, "could not read record [%s]", it.Item().Key())
			}
			res = append(res, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (b *Badger) Close() error {
	if b.cancelCleaner != nil {
		b.cancelCleaner()
	}
	return errors.Wrap(b.db.Close(), "could not close DB")
}

func recordKey(r Record) []byte {
	return []byte(fmt.Sprintf("%s%020d/%s", keyPrefix, r.StartedAt.UnixNano(), r.RunID))
}

// badgerDB is the part of *badger.DB the cleaner needs
type badgerDB interface {
	IsClosed() bool
	RunValueLogGC(discardRatio float64) error
	Opts() badger.Options
}

// autoCleaner runs badger garbage collection periodically as long as the db is open
func autoCleaner(db badgerDB, interval time.Duration, discardRatio float64) context.CancelFunc {
	if db == nil || db.Opts().InMemory {
		// not needed when we run badger in memory mode
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if db.IsClosed() {
					return
				}
				if err := db.RunValueLogGC(discardRatio); err != nil {
					switch err {
					case badger.ErrRejected:
						logger.Warnf("badger: value log garbage collection rejected")
					case badger.ErrNoRewrite:
					default:
						logger.Warnf("badger: unexpected error while performing value log clean up: %s", err)
					}
				}
			}
		}
	}()

	return cancel
}
