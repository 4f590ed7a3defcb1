package kv

import (
	"errors"
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

// BadgerStore is a persistent namespace backed by BadgerDB.
type BadgerStore struct {
	db *badgerdb.DB
}

// OpenBadger opens or creates a Badger database in dir.
func OpenBadger(dir string) (*BadgerStore, error) {
	return openBadger(badgerdb.DefaultOptions(dir))
}

// OpenBadgerInMemory opens a Badger database that lives only in memory.
func OpenBadgerInMemory() (*BadgerStore, error) {
	return openBadger(badgerdb.DefaultOptions("").WithInMemory(true))
}

func openBadger(opts badgerdb.Options) (*BadgerStore, error) {
	opts = opts.WithLogger(badgerLogger{log: Logger().Named("badger")})
	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger %q: %w", opts.Dir, err)
	}
	Logger().Info("badger store opened",
		zap.String("dir", opts.Dir),
		zap.Bool("in_memory", opts.InMemory),
	)
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func (s *BadgerStore) Get(key []byte) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if errors.Is(err, badgerdb.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		if err == nil && value == nil {
			value = []byte{}
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("badger get: %w", err)
	}
	return value, nil
}

func (s *BadgerStore) Has(key []byte) (bool, error) {
	var exists bool
	err := s.db.View(func(txn *badgerdb.Txn) error {
		_, err := txn.Get(key)
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		exists = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("badger has: %w", err)
	}
	return exists, nil
}

func (s *BadgerStore) Set(key, value []byte) error {
	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(append([]byte{}, key...), append([]byte{}, value...))
	})
}

func (s *BadgerStore) Delete(key []byte) error {
	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(append([]byte{}, key...))
	})
}

func (s *BadgerStore) IterateKeys(prefix []byte, f func(key []byte) bool) error {
	return s.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if !f(it.Item().KeyCopy(nil)) {
				break
			}
		}
		return nil
	})
}

// Apply writes the mutations in one transaction.
func (s *BadgerStore) Apply(mutations map[string][]byte) error {
	return s.db.Update(func(txn *badgerdb.Txn) error {
		for k, v := range mutations {
			var err error
			if v == nil {
				err = txn.Delete([]byte(k))
			} else {
				err = txn.Set([]byte(k), v)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}
