package wsv

import (
	"fmt"
	"strconv"

	"github.com/lebdron/iroha/pkg/db"
)

// Common formats schema keys into a reusable key buffer and issues
// get/put/del/seek against a single storage transaction. It keeps the last
// formatted key and the last read value so callers avoid per-call
// allocations. Not safe for concurrent use; ownership is exclusive per
// executor instance.
type Common struct {
	tx    *db.Transaction
	key   []byte
	value []byte
}

func NewCommon(tx *db.Transaction) *Common {
	return &Common{
		tx: tx,
	}
}

// Key returns the key formatted by the last operation.
func (c *Common) Key() []byte {
	return c.key
}

// Value returns the value read by the last Get, or the value staged with
// SetValue.
func (c *Common) Value() []byte {
	return c.value
}

// SetValue stages the value for the next Put.
func (c *Common) SetValue(value []byte) {
	c.value = append(c.value[:0], value...)
}

// SetValueString stages a string value for the next Put.
func (c *Common) SetValueString(value string) {
	c.value = append(c.value[:0], value...)
}

// EncodeUint stages an unsigned decimal value for the next Put.
func (c *Common) EncodeUint(number uint64) {
	c.value = strconv.AppendUint(c.value[:0], number, 10)
}

// DecodeUint parses the last read value as an unsigned decimal.
func (c *Common) DecodeUint() (uint64, error) {
	return strconv.ParseUint(string(c.value), 10, 64)
}

// Get reads the value at the formatted key. Returns db.ErrDataNotFound when
// the key is absent.
func (c *Common) Get(format string, args ...interface{}) error {
	c.formatKey(format, args...)
	value, err := c.tx.Get(c.key)
	if err != nil {
		c.value = c.value[:0]
		return err
	}
	c.value = append(c.value[:0], value...)
	return nil
}

// Put writes the staged value at the formatted key.
func (c *Common) Put(format string, args ...interface{}) error {
	c.formatKey(format, args...)
	return c.tx.Set(c.key, c.value)
}

// Del removes the formatted key.
func (c *Common) Del(format string, args ...interface{}) error {
	c.formatKey(format, args...)
	return c.tx.Del(c.key)
}

// Seek positions an iterator at the formatted key and returns it; Key then
// holds the formatted key. The caller closes the iterator.
func (c *Common) Seek(format string, args ...interface{}) *db.Iterator {
	c.formatKey(format, args...)
	iter := c.tx.NewIterator()
	iter.Seek(c.key)
	return iter
}

func (c *Common) formatKey(format string, args ...interface{}) {
	c.key = fmt.Appendf(c.key[:0], format, args...)
}
