package db

import (
	"sort"

	"github.com/cockroachdb/pebble"

	"github.com/lebdron/iroha/pkg/collection/bytes"
)

// Iterator walks a transaction's view in ascending key order. Entries written
// in the transaction shadow snapshot entries with the same key; deleted keys
// are not emitted.
type Iterator struct {
	tx          *Transaction
	snapIter    *pebble.Iterator
	overlayKeys []string
	overlayIdx  int
	curKey      []byte
	curValue    []byte
	fromSnap    bool
	valid       bool
	err         error
}

// Seek positions the iterator at the first key greater than or equal to key.
func (it *Iterator) Seek(key []byte) {
	if it.snapIter != nil {
		it.snapIter.Close()
	}
	it.snapIter = it.tx.snapshot.NewIter(&pebble.IterOptions{
		LowerBound: bytes.Copy(key),
	})
	it.snapIter.First()
	it.overlayIdx = sort.SearchStrings(it.overlayKeys, string(key))
	it.settle()
}

func (it *Iterator) Valid() bool {
	return it.valid
}

func (it *Iterator) Key() []byte {
	return it.curKey
}

func (it *Iterator) Value() []byte {
	return it.curValue
}

func (it *Iterator) Next() {
	if !it.valid {
		return
	}
	if it.fromSnap {
		it.snapIter.Next()
	} else {
		it.overlayIdx++
	}
	it.settle()
}

func (it *Iterator) Err() error {
	return it.err
}

func (it *Iterator) Close() error {
	if it.snapIter == nil {
		return nil
	}
	err := it.snapIter.Close()
	it.snapIter = nil
	return err
}

func (it *Iterator) settle() {
	// snapshot entries shadowed by the overlay are emitted, or suppressed,
	// through the overlay cursor instead
	for it.snapIter.Valid() {
		if _, exist := it.tx.overlay[string(it.snapIter.Key())]; !exist {
			break
		}
		it.snapIter.Next()
	}
	for it.overlayIdx < len(it.overlayKeys) && it.tx.overlay[it.overlayKeys[it.overlayIdx]].deleted {
		it.overlayIdx++
	}
	snapValid := it.snapIter.Valid()
	overlayValid := it.overlayIdx < len(it.overlayKeys)
	switch {
	case !snapValid && !overlayValid:
		it.valid = false
		it.err = it.snapIter.Error()
	case snapValid && (!overlayValid || bytes.Compare(it.snapIter.Key(), []byte(it.overlayKeys[it.overlayIdx])) < 0):
		it.curKey = bytes.Copy(it.snapIter.Key())
		it.curValue = bytes.Copy(it.snapIter.Value())
		it.fromSnap = true
		it.valid = true
	default:
		key := it.overlayKeys[it.overlayIdx]
		it.curKey = []byte(key)
		it.curValue = bytes.Copy(it.tx.overlay[key].value)
		it.fromSnap = false
		it.valid = true
	}
}
