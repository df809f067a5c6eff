// Package db implements key-value database functionality with a
// snapshot-isolated transaction on top of pebble.
package db

import (
	"errors"

	"github.com/cockroachdb/pebble"

	"github.com/lebdron/iroha/pkg/collection/bytes"
)

var (
	ErrDataNotFound = errors.New("data was not found")
)

// upperBound returns the smallest key greater than every key with the given
// prefix, or nil when no such key exists.
func upperBound(b []byte) []byte {
	end := make([]byte, len(b))
	copy(end, b)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

type KeyValue interface {
	Key() []byte
	Value() []byte
}

type keyValue struct {
	key   []byte
	value []byte
}

func (k *keyValue) Key() []byte   { return k.key }
func (k *keyValue) Value() []byte { return k.value }

func NewKeyValue(key, value []byte) KeyValue {
	return &keyValue{
		key:   key,
		value: value,
	}
}

type DB struct {
	pebbleDB *pebble.DB
}

func NewDB(path string) (*DB, error) {
	pebbleDB, err := pebble.Open(path, &pebble.Options{
		ErrorIfExists: false,
	})
	if err != nil {
		return nil, err
	}
	return &DB{
		pebbleDB: pebbleDB,
	}, nil
}

func (db *DB) Close() error {
	return db.pebbleDB.Close()
}

func (db *DB) Get(key []byte) ([]byte, error) {
	data, closer, err := db.pebbleDB.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrDataNotFound
		}
		return nil, err
	}
	copied := bytes.Copy(data)
	if err := closer.Close(); err != nil {
		return nil, err
	}
	return copied, nil
}

func (db *DB) Exist(key []byte) (bool, error) {
	_, err := db.Get(key)
	if err != nil {
		if errors.Is(err, ErrDataNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (db *DB) Set(key, value []byte) error {
	return db.pebbleDB.Set(key, value, pebble.Sync)
}

func (db *DB) Del(key []byte) error {
	return db.pebbleDB.Delete(key, pebble.Sync)
}

// Iterate returns all key-values with the given prefix in key order.
func (db *DB) Iterate(prefix []byte, limit int) ([]KeyValue, error) {
	iter := db.pebbleDB.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: upperBound(prefix),
	})
	defer iter.Close()
	result := []KeyValue{}
	for iter.First(); iter.Valid(); iter.Next() {
		if limit > -1 && len(result) >= limit {
			break
		}
		result = append(result, &keyValue{
			key:   bytes.Copy(iter.Key()),
			value: bytes.Copy(iter.Value()),
		})
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return result, nil
}

// NewTransaction opens a snapshot-isolated transaction. Reads observe the
// database as of this call plus the transaction's own writes.
func (db *DB) NewTransaction() *Transaction {
	return &Transaction{
		db:       db,
		snapshot: db.pebbleDB.NewSnapshot(),
		overlay:  map[string]overlayEntry{},
	}
}
