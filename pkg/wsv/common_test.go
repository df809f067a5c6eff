package wsv

import (
	"encoding/hex"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lebdron/iroha/pkg/crypto"
	"github.com/lebdron/iroha/pkg/db"
)

func newTestCommon(t *testing.T) *Common {
	t.Helper()
	database, err := db.NewDB(path.Join(os.TempDir(), hex.EncodeToString(crypto.RandomBytes(10))))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	tx := database.NewTransaction()
	t.Cleanup(func() { tx.Discard() })
	return NewCommon(tx)
}

func TestCommonPutGet(t *testing.T) {
	common := newTestCommon(t)

	common.SetValueString("admin")
	require.NoError(t, common.Put(KeyDomain, "wonderland"))
	assert.Equal(t, []byte("domain/wonderland"), common.Key())

	require.NoError(t, common.Get(KeyDomain, "wonderland"))
	assert.Equal(t, []byte("admin"), common.Value())

	err := common.Get(KeyDomain, "nowhere")
	assert.ErrorIs(t, err, db.ErrDataNotFound)
}

func TestCommonEncodeDecode(t *testing.T) {
	common := newTestCommon(t)

	common.EncodeUint(7)
	require.NoError(t, common.Put(KeyQuorum, "wonderland", "alice"))
	assert.Equal(t, []byte("quorum/wonderland/alice"), common.Key())

	require.NoError(t, common.Get(KeyQuorum, "wonderland", "alice"))
	quorum, err := common.DecodeUint()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), quorum)
}

func TestCommonDel(t *testing.T) {
	common := newTestCommon(t)

	common.SetValueString("")
	require.NoError(t, common.Put(KeyAccountRole, "wonderland", "alice", "user"))
	require.NoError(t, common.Del(KeyAccountRole, "wonderland", "alice", "user"))
	assert.ErrorIs(t, common.Get(KeyAccountRole, "wonderland", "alice", "user"), db.ErrDataNotFound)
}

func TestCommonSeek(t *testing.T) {
	common := newTestCommon(t)

	for _, pubkey := range []string{"aa", "bb", "cc"} {
		common.SetValueString("")
		require.NoError(t, common.Put(KeySignatory, "wonderland", "alice", pubkey))
	}
	common.SetValueString("")
	require.NoError(t, common.Put(KeySignatory, "wonderland", "bob", "dd"))

	iter := common.Seek(KeySignatory, "wonderland", "alice", "")
	defer iter.Close()
	prefix := string(common.Key())

	found := []string{}
	for ; iter.Valid(); iter.Next() {
		key := string(iter.Key())
		if len(key) < len(prefix) || key[:len(prefix)] != prefix {
			break
		}
		found = append(found, key[len(prefix):])
	}
	require.NoError(t, iter.Err())
	assert.Equal(t, []string{"aa", "bb", "cc"}, found)
}
