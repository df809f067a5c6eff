package db

import (
	"errors"
	"sort"

	"github.com/cockroachdb/pebble"

	"github.com/lebdron/iroha/pkg/collection/bytes"
)

var (
	ErrTransactionClosed = errors.New("transaction is already committed or discarded")
)

type overlayEntry struct {
	value   []byte
	deleted bool
}

// Transaction buffers writes in memory on top of a pebble snapshot.
// It is not safe for concurrent use; ownership is exclusive per executor.
type Transaction struct {
	db       *DB
	snapshot *pebble.Snapshot
	overlay  map[string]overlayEntry
	closed   bool
}

func (t *Transaction) Get(key []byte) ([]byte, error) {
	if t.closed {
		return nil, ErrTransactionClosed
	}
	if entry, exist := t.overlay[string(key)]; exist {
		if entry.deleted {
			return nil, ErrDataNotFound
		}
		return bytes.Copy(entry.value), nil
	}
	data, closer, err := t.snapshot.Get(key)
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

func (t *Transaction) Set(key, value []byte) error {
	if t.closed {
		return ErrTransactionClosed
	}
	t.overlay[string(key)] = overlayEntry{value: bytes.Copy(value)}
	return nil
}

func (t *Transaction) Del(key []byte) error {
	if t.closed {
		return ErrTransactionClosed
	}
	t.overlay[string(key)] = overlayEntry{deleted: true}
	return nil
}

// Commit applies the buffered writes atomically and releases the snapshot.
func (t *Transaction) Commit() error {
	if t.closed {
		return ErrTransactionClosed
	}
	batch := t.db.pebbleDB.NewBatch()
	for key, entry := range t.overlay {
		var err error
		if entry.deleted {
			err = batch.Delete([]byte(key), nil)
		} else {
			err = batch.Set([]byte(key), entry.value, nil)
		}
		if err != nil {
			return err
		}
	}
	if err := t.db.pebbleDB.Apply(batch, pebble.Sync); err != nil {
		return err
	}
	return t.close()
}

// Discard drops the buffered writes and releases the snapshot.
func (t *Transaction) Discard() error {
	if t.closed {
		return nil
	}
	return t.close()
}

func (t *Transaction) close() error {
	t.closed = true
	t.overlay = nil
	return t.snapshot.Close()
}

// NewIterator returns an iterator over the transaction's view, merging the
// write overlay with the snapshot in key order.
func (t *Transaction) NewIterator() *Iterator {
	overlayKeys := make([]string, 0, len(t.overlay))
	for key := range t.overlay {
		overlayKeys = append(overlayKeys, key)
	}
	sort.Strings(overlayKeys)
	return &Iterator{
		tx:          t,
		overlayKeys: overlayKeys,
	}
}
