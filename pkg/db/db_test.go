package db

import (
	"encoding/hex"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lebdron/iroha/pkg/crypto"
)

func randomTempDir() string {
	return path.Join(os.TempDir(), hex.EncodeToString(crypto.RandomBytes(10)))
}

func TestDB(t *testing.T) {
	database, err := NewDB(randomTempDir())
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, database.Set([]byte("key1"), []byte("val1")))

	val, err := database.Get([]byte("key1"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("val1"), val)

	_, err = database.Get([]byte("missing"))
	assert.ErrorIs(t, err, ErrDataNotFound)

	exist, err := database.Exist([]byte("key1"))
	assert.NoError(t, err)
	assert.True(t, exist)

	require.NoError(t, database.Del([]byte("key1")))
	exist, err = database.Exist([]byte("key1"))
	assert.NoError(t, err)
	assert.False(t, exist)
}

func TestDBIterate(t *testing.T) {
	database, err := NewDB(randomTempDir())
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, database.Set([]byte("role/admin"), []byte("1")))
	require.NoError(t, database.Set([]byte("role/user"), []byte("2")))
	require.NoError(t, database.Set([]byte("domain/test"), []byte("user")))

	kvs, err := database.Iterate([]byte("role/"), -1)
	assert.NoError(t, err)
	require.Len(t, kvs, 2)
	assert.Equal(t, []byte("role/admin"), kvs[0].Key())
	assert.Equal(t, []byte("role/user"), kvs[1].Key())

	kvs, err = database.Iterate([]byte("role/"), 1)
	assert.NoError(t, err)
	assert.Len(t, kvs, 1)
}

func TestTransactionSnapshotIsolation(t *testing.T) {
	database, err := NewDB(randomTempDir())
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, database.Set([]byte("key1"), []byte("before")))

	tx := database.NewTransaction()
	defer tx.Discard()

	// writes after the snapshot are not visible
	require.NoError(t, database.Set([]byte("key1"), []byte("after")))
	val, err := tx.Get([]byte("key1"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("before"), val)

	// own writes are visible
	require.NoError(t, tx.Set([]byte("key1"), []byte("own")))
	val, err = tx.Get([]byte("key1"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("own"), val)

	require.NoError(t, tx.Del([]byte("key1")))
	_, err = tx.Get([]byte("key1"))
	assert.ErrorIs(t, err, ErrDataNotFound)
}

func TestTransactionCommit(t *testing.T) {
	database, err := NewDB(randomTempDir())
	require.NoError(t, err)
	defer database.Close()

	tx := database.NewTransaction()
	require.NoError(t, tx.Set([]byte("key1"), []byte("val1")))
	require.NoError(t, tx.Set([]byte("key2"), []byte("val2")))
	require.NoError(t, tx.Commit())

	val, err := database.Get([]byte("key1"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("val1"), val)

	assert.ErrorIs(t, tx.Set([]byte("key3"), []byte("x")), ErrTransactionClosed)
}

func TestTransactionDiscard(t *testing.T) {
	database, err := NewDB(randomTempDir())
	require.NoError(t, err)
	defer database.Close()

	tx := database.NewTransaction()
	require.NoError(t, tx.Set([]byte("key1"), []byte("val1")))
	require.NoError(t, tx.Discard())

	_, err = database.Get([]byte("key1"))
	assert.ErrorIs(t, err, ErrDataNotFound)
}

func TestTransactionIterator(t *testing.T) {
	database, err := NewDB(randomTempDir())
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, database.Set([]byte("a/1"), []byte("stored1")))
	require.NoError(t, database.Set([]byte("a/3"), []byte("stored3")))
	require.NoError(t, database.Set([]byte("a/4"), []byte("stored4")))

	tx := database.NewTransaction()
	defer tx.Discard()
	require.NoError(t, tx.Set([]byte("a/2"), []byte("written2")))
	require.NoError(t, tx.Set([]byte("a/3"), []byte("written3")))
	require.NoError(t, tx.Del([]byte("a/4")))

	iter := tx.NewIterator()
	defer iter.Close()
	iter.Seek([]byte("a/"))

	collected := map[string]string{}
	order := []string{}
	for ; iter.Valid(); iter.Next() {
		collected[string(iter.Key())] = string(iter.Value())
		order = append(order, string(iter.Key()))
	}
	require.NoError(t, iter.Err())

	assert.Equal(t, []string{"a/1", "a/2", "a/3"}, order)
	assert.Equal(t, "stored1", collected["a/1"])
	assert.Equal(t, "written2", collected["a/2"])
	assert.Equal(t, "written3", collected["a/3"])
}

func TestTransactionIteratorSeekMidPrefix(t *testing.T) {
	database, err := NewDB(randomTempDir())
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, database.Set([]byte("b/1"), []byte("1")))
	require.NoError(t, database.Set([]byte("b/2"), []byte("2")))

	tx := database.NewTransaction()
	defer tx.Discard()

	iter := tx.NewIterator()
	defer iter.Close()
	iter.Seek([]byte("b/2"))
	require.True(t, iter.Valid())
	assert.Equal(t, []byte("b/2"), iter.Key())
	iter.Next()
	assert.False(t, iter.Valid())
}
