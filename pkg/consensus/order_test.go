package consensus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusterOrderingRotation(t *testing.T) {
	peers := testPeers(3)
	order, err := NewClusterOrdering(peers)
	require.NoError(t, err)

	// k successive rotations walk the sequence modulo n
	for k := 0; k < 7; k++ {
		assert.True(t, order.CurrentLeader().Equal(peers[k%3]), "k=%d", k)
		order.SwitchToNext()
	}
}

func TestClusterOrderingEmpty(t *testing.T) {
	_, err := NewClusterOrdering(nil)
	assert.ErrorIs(t, err, ErrEmptyPeerList)

	_, err = NewClusterOrderingForHash(nil, testHash(1))
	assert.ErrorIs(t, err, ErrEmptyPeerList)
}

func TestClusterOrderingForHashDeterministic(t *testing.T) {
	peers := testPeers(4)
	first, err := NewClusterOrderingForHash(peers, testHash(1))
	require.NoError(t, err)
	second, err := NewClusterOrderingForHash(peers, testHash(1))
	require.NoError(t, err)
	assert.True(t, first.CurrentLeader().Equal(second.CurrentLeader()))
}

func TestClusterOrderingCopySemantics(t *testing.T) {
	peers := testPeers(3)
	order, err := NewClusterOrdering(peers)
	require.NoError(t, err)

	copied := order
	copied.SwitchToNext()
	assert.True(t, order.CurrentLeader().Equal(peers[0]))
	assert.True(t, copied.CurrentLeader().Equal(peers[1]))
}
