package kv

import (
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"
	"go.uber.org/zap"
)

// LevelDBStore is a persistent namespace backed by LevelDB.
type LevelDBStore struct {
	db *leveldb.DB
}

// OpenLevelDB opens or creates a LevelDB database in dir.
func OpenLevelDB(dir string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb %q: %w", dir, err)
	}
	Logger().Info("leveldb store opened", zap.String("dir", dir))
	return &LevelDBStore{db: db}, nil
}

// OpenLevelDBInMemory opens a LevelDB database over memory storage.
func OpenLevelDBInMemory() (*LevelDBStore, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb in memory: %w", err)
	}
	return &LevelDBStore{db: db}, nil
}

func (s *LevelDBStore) Close() error {
	return s.db.Close()
}

func (s *LevelDBStore) Get(key []byte) ([]byte, error) {
	value, err := s.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leveldb get: %w", err)
	}
	if value == nil {
		value = []byte{}
	}
	return value, nil
}

func (s *LevelDBStore) Has(key []byte) (bool, error) {
	return s.db.Has(key, nil)
}

func (s *LevelDBStore) Set(key, value []byte) error {
	return s.db.Put(key, value, nil)
}

func (s *LevelDBStore) Delete(key []byte) error {
	return s.db.Delete(key, nil)
}

func (s *LevelDBStore) IterateKeys(prefix []byte, f func(key []byte) bool) error {
	iter := s.db.NewIterator(ldb_util.BytesPrefix(prefix), nil)
	defer iter.Release()
	for iter.Next() {
		if !f(append([]byte{}, iter.Key()...)) {
			break
		}
	}
	return iter.Error()
}

// Apply writes the mutations as one batch.
func (s *LevelDBStore) Apply(mutations map[string][]byte) error {
	batch := new(leveldb.Batch)
	for k, v := range mutations {
		if v == nil {
			batch.Delete([]byte(k))
			continue
		}
		batch.Put([]byte(k), v)
	}
	return s.db.Write(batch, nil)
}
