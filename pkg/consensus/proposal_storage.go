package consensus

import (
	"github.com/lebdron/iroha/pkg/log"
)

// ProposalStorage aggregates block storages for all competing hashes observed
// in one round. It emits Commit when one hash collects super-majority and
// Reject when the vote distribution proves no hash ever can.
type ProposalStorage struct {
	round         Round
	blockStorages []*BlockStorage
	peers         []Peer
	checker       SupermajorityChecker
	logger        log.Logger
	answer        Outcome
}

func NewProposalStorage(round Round, peers []Peer, checker SupermajorityChecker, logger log.Logger) *ProposalStorage {
	return &ProposalStorage{
		round:   round,
		peers:   peers,
		checker: checker,
		logger:  logger,
	}
}

func (s *ProposalStorage) Round() Round {
	return s.round
}

// Answer returns the outcome this round has already produced, if any.
func (s *ProposalStorage) Answer() Outcome {
	return s.answer
}

// Insert routes the votes of a state message to the block storages keyed by
// each vote's hash, creating them lazily, and returns the first outcome the
// round produces. The outcome is sticky: once the round is decided further
// insertions do not change it.
func (s *ProposalStorage) Insert(votes []VoteMessage) Outcome {
	for _, vote := range votes {
		s.insert(vote)
	}
	return s.answer
}

func (s *ProposalStorage) insert(msg VoteMessage) {
	if msg.Hash.VoteRound != s.round {
		return
	}
	storage := s.findStorage(msg.Hash)
	if outcome := storage.Insert(msg); outcome != nil {
		if s.answer == nil {
			s.answer = outcome
		}
		return
	}
	if s.answer == nil {
		s.checkReject()
	}
}

// checkReject fires when not even the most voted hash can reach
// super-majority with all peers which have not voted yet.
func (s *ProposalStorage) checkReject() {
	voted := 0
	frequent := 0
	for _, storage := range s.blockStorages {
		votes := storage.NumberOfVotes()
		voted += votes
		if votes > frequent {
			frequent = votes
		}
	}
	if !s.checker.CanBeCommitted(frequent, voted, len(s.peers)) {
		s.logger.Infof("Round %s rejected: no hash can reach supermajority", s.round)
		s.answer = NewRejectMessage(s.allVotes())
	}
}

func (s *ProposalStorage) findStorage(hash YacHash) *BlockStorage {
	for _, storage := range s.blockStorages {
		if storage.StorageKey().Equal(hash) {
			return storage
		}
	}
	storage := NewBlockStorage(hash, s.peers, s.checker, s.logger)
	s.blockStorages = append(s.blockStorages, storage)
	return storage
}

func (s *ProposalStorage) allVotes() []VoteMessage {
	votes := []VoteMessage{}
	for _, storage := range s.blockStorages {
		votes = append(votes, storage.Votes()...)
	}
	return votes
}
