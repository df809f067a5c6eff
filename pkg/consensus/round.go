// Package consensus implements YAC, a leader-rotating voting protocol driving
// the cluster from one committed block height to the next. It tolerates up to
// floor((n-1)/3) faulty peers.
package consensus

import (
	"fmt"

	"github.com/lebdron/iroha/pkg/collection/bytes"
)

// Round names a single voting attempt at a single height. Ordering is
// lexicographic on (BlockRound, RejectRound).
type Round struct {
	BlockRound  uint64 `json:"blockRound"`
	RejectRound uint64 `json:"rejectRound"`
}

// Compare returns -1, 0 or 1 for the lexicographic order of rounds.
func (r Round) Compare(other Round) int {
	switch {
	case r.BlockRound < other.BlockRound:
		return -1
	case r.BlockRound > other.BlockRound:
		return 1
	case r.RejectRound < other.RejectRound:
		return -1
	case r.RejectRound > other.RejectRound:
		return 1
	}
	return 0
}

func (r Round) String() string {
	return fmt.Sprintf("(%d, %d)", r.BlockRound, r.RejectRound)
}

// VoteHashes carries the proposal and block digests a vote commits to. Both
// are empty in a vote for a frozen round.
type VoteHashes struct {
	ProposalHash string `json:"proposalHash"`
	BlockHash    string `json:"blockHash"`
}

// Signature is a public key with the bytes it signed.
type Signature struct {
	PublicKey []byte `json:"publicKey"`
	Signed    []byte `json:"signed"`
}

func (s *Signature) Equal(other *Signature) bool {
	if s == nil || other == nil {
		return s == other
	}
	return bytes.Equal(s.PublicKey, other.PublicKey) && bytes.Equal(s.Signed, other.Signed)
}

// YacHash is the consensus-level identifier of a candidate block at a round.
type YacHash struct {
	VoteRound      Round      `json:"round"`
	VoteHashes     VoteHashes `json:"hashes"`
	BlockSignature *Signature `json:"blockSignature,omitempty"`
}

func (h YacHash) Equal(other YacHash) bool {
	return h.VoteRound == other.VoteRound &&
		h.VoteHashes == other.VoteHashes &&
		h.BlockSignature.Equal(other.BlockSignature)
}

func (h YacHash) String() string {
	return fmt.Sprintf("%s [%s, %s]", h.VoteRound, h.VoteHashes.ProposalHash, h.VoteHashes.BlockHash)
}

// VoteMessage is one signed vote. State messages on the wire are vectors of
// votes sharing a round.
type VoteMessage struct {
	Hash      YacHash    `json:"hash"`
	Signature *Signature `json:"signature"`
}

func (v VoteMessage) Equal(other VoteMessage) bool {
	return v.Hash.Equal(other.Hash) && v.Signature.Equal(other.Signature)
}

func (v VoteMessage) String() string {
	return fmt.Sprintf("vote %s", v.Hash)
}

// Peer identifies a cluster member. Equality is by public key.
type Peer struct {
	PublicKey []byte `json:"publicKey"`
	Address   string `json:"address"`
}

func (p Peer) Equal(other Peer) bool {
	return bytes.Equal(p.PublicKey, other.PublicKey)
}

// LedgerState is the committed top-block info YAC measures rounds against.
type LedgerState struct {
	Height uint64
	Peers  []Peer
}

// Outcome is the result of a finished round surfaced to the pipeline.
type Outcome interface {
	Votes() []VoteMessage
}

// CommitMessage reports a round that reached super-majority on one hash.
type CommitMessage struct {
	votes []VoteMessage
}

func NewCommitMessage(votes []VoteMessage) *CommitMessage {
	return &CommitMessage{votes: votes}
}

func (m *CommitMessage) Votes() []VoteMessage { return m.votes }

// RejectMessage reports a round where no hash can reach super-majority.
type RejectMessage struct {
	votes []VoteMessage
}

func NewRejectMessage(votes []VoteMessage) *RejectMessage {
	return &RejectMessage{votes: votes}
}

func (m *RejectMessage) Votes() []VoteMessage { return m.votes }

// FutureMessage carries votes for a round above the local height, to be
// buffered by the pipeline and replayed after catch-up.
type FutureMessage struct {
	votes []VoteMessage
}

func NewFutureMessage(votes []VoteMessage) *FutureMessage {
	return &FutureMessage{votes: votes}
}

func (m *FutureMessage) Votes() []VoteMessage { return m.votes }
