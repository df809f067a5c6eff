package wsv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitID(t *testing.T) {
	assert.Equal(t, []string{"alice", "wonderland"}, SplitID("alice@wonderland"))
	assert.Equal(t, []string{"coin", "wonderland"}, SplitID("coin#wonderland"))
	assert.Equal(t, []string{"alice"}, SplitID("alice@"))
	assert.Equal(t, []string{"alice"}, SplitID("@alice"))
	assert.Empty(t, SplitID(""))
	assert.Empty(t, SplitID("@#"))
}

func TestParseID(t *testing.T) {
	name, domain, err := ParseID("alice@wonderland")
	require.NoError(t, err)
	assert.Equal(t, "alice", name)
	assert.Equal(t, "wonderland", domain)

	name, domain, err = ParseID("coin#wonderland")
	require.NoError(t, err)
	assert.Equal(t, "coin", name)
	assert.Equal(t, "wonderland", domain)

	for _, invalid := range []string{"alice", "alice@", "@wonderland", "a@b@c", ""} {
		_, _, err := ParseID(invalid)
		assert.Error(t, err, invalid)
	}
}
