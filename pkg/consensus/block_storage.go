package consensus

import (
	"github.com/lebdron/iroha/pkg/log"
)

// BlockStorage collects votes for one specific hash at one round. A vote is
// accepted when its signer belongs to the current peer set, its hash matches
// the storage key and it was not inserted before.
type BlockStorage struct {
	storageKey YacHash
	votes      []VoteMessage
	peers      []Peer
	checker    SupermajorityChecker
	logger     log.Logger
}

func NewBlockStorage(hash YacHash, peers []Peer, checker SupermajorityChecker, logger log.Logger) *BlockStorage {
	return &BlockStorage{
		storageKey: hash,
		peers:      peers,
		checker:    checker,
		logger:     logger,
	}
}

// Insert adds one vote and returns the commit outcome once super-majority is
// reached, nil otherwise.
func (s *BlockStorage) Insert(msg VoteMessage) Outcome {
	if s.validScheme(msg) && s.uniqueVote(msg) {
		s.votes = append(s.votes, msg)
		s.logger.Infof("Vote for round %s and hashes (%s, %s) inserted, votes in storage [%d/%d]",
			msg.Hash.VoteRound,
			msg.Hash.VoteHashes.ProposalHash,
			msg.Hash.VoteHashes.BlockHash,
			len(s.votes),
			len(s.peers))
	}
	return s.State()
}

// InsertVotes adds every vote of the state.
func (s *BlockStorage) InsertVotes(votes []VoteMessage) Outcome {
	for _, vote := range votes {
		s.Insert(vote)
	}
	return s.State()
}

// State returns the commit outcome when the collected votes reach
// super-majority over the peer set, nil otherwise.
func (s *BlockStorage) State() Outcome {
	if s.checker.HasSupermajority(len(s.votes), len(s.peers)) {
		return NewCommitMessage(s.Votes())
	}
	return nil
}

func (s *BlockStorage) Votes() []VoteMessage {
	votes := make([]VoteMessage, len(s.votes))
	copy(votes, s.votes)
	return votes
}

func (s *BlockStorage) NumberOfVotes() int {
	return len(s.votes)
}

func (s *BlockStorage) StorageKey() YacHash {
	return s.storageKey
}

func (s *BlockStorage) Contains(msg VoteMessage) bool {
	for _, vote := range s.votes {
		if vote.Equal(msg) {
			return true
		}
	}
	return false
}

func (s *BlockStorage) uniqueVote(msg VoteMessage) bool {
	return !s.Contains(msg)
}

func (s *BlockStorage) validScheme(vote VoteMessage) bool {
	if vote.Signature == nil {
		return false
	}
	knownPeer := false
	for _, peer := range s.peers {
		if peer.Equal(Peer{PublicKey: vote.Signature.PublicKey}) {
			knownPeer = true
			break
		}
	}
	if !knownPeer {
		s.logger.Warningf("Got a vote from an unknown peer: %s", vote)
	}
	return s.storageKey.Equal(vote.Hash) && knownPeer
}
