package consensus

import (
	"errors"
	"hash/fnv"
)

var ErrEmptyPeerList = errors.New("peer list is empty")

// ClusterOrdering is a finite rotating sequence of peers selecting the leader
// of each voting attempt. It is a value type: every attempt carries its own
// rotation position.
type ClusterOrdering struct {
	peers   []Peer
	current int
}

func NewClusterOrdering(peers []Peer) (ClusterOrdering, error) {
	if len(peers) == 0 {
		return ClusterOrdering{}, ErrEmptyPeerList
	}
	return ClusterOrdering{
		peers: peers,
	}, nil
}

// NewClusterOrderingForHash starts the rotation at a position derived from
// the voted hash, so different proposals spread their first leader across the
// cluster.
func NewClusterOrderingForHash(peers []Peer, hash YacHash) (ClusterOrdering, error) {
	if len(peers) == 0 {
		return ClusterOrdering{}, ErrEmptyPeerList
	}
	digest := fnv.New32a()
	digest.Write([]byte(hash.VoteHashes.ProposalHash))
	digest.Write([]byte(hash.VoteHashes.BlockHash))
	return ClusterOrdering{
		peers:   peers,
		current: int(digest.Sum32() % uint32(len(peers))),
	}, nil
}

// CurrentLeader returns the head of the rotation.
func (o *ClusterOrdering) CurrentLeader() Peer {
	return o.peers[o.current]
}

// SwitchToNext rotates the head to the next peer, wrapping around.
func (o *ClusterOrdering) SwitchToNext() {
	o.current = (o.current + 1) % len(o.peers)
}

func (o *ClusterOrdering) Peers() []Peer {
	return o.peers
}

func (o *ClusterOrdering) NumberOfPeers() int {
	return len(o.peers)
}
