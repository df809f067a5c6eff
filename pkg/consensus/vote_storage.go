package consensus

import (
	"github.com/lebdron/iroha/pkg/log"
)

// ProcessingState tracks whether the local node has already broadcast and
// surfaced a round's outcome. Transitions follow the strict monotone path
// NotSentNotProcessed -> SentNotProcessed -> SentProcessed and are driven
// exclusively by the YAC state machine.
type ProcessingState int

const (
	NotSentNotProcessed ProcessingState = iota
	SentNotProcessed
	SentProcessed
)

func (s ProcessingState) String() string {
	switch s {
	case NotSentNotProcessed:
		return "NotSentNotProcessed"
	case SentNotProcessed:
		return "SentNotProcessed"
	case SentProcessed:
		return "SentProcessed"
	}
	return "Unknown"
}

// CleanupStrategy bounds the rounds retained by the vote storage. Track
// records a new round and returns the rounds to evict.
type CleanupStrategy interface {
	Track(round Round) []Round
}

// bufferedCleanupStrategy retains the last depth rounds in arrival order and
// evicts everything strictly older than the window.
type bufferedCleanupStrategy struct {
	depth  int
	rounds []Round
}

func NewBufferedCleanupStrategy(depth int) CleanupStrategy {
	return &bufferedCleanupStrategy{
		depth: depth,
	}
}

func (c *bufferedCleanupStrategy) Track(round Round) []Round {
	c.rounds = append(c.rounds, round)
	if len(c.rounds) <= c.depth {
		return nil
	}
	evicted := make([]Round, len(c.rounds)-c.depth)
	copy(evicted, c.rounds[:len(c.rounds)-c.depth])
	c.rounds = c.rounds[len(c.rounds)-c.depth:]
	return evicted
}

// VoteStorage maps rounds to their proposal storages together with the
// per-round processing state.
type VoteStorage struct {
	proposals     map[Round]*ProposalStorage
	states        map[Round]ProcessingState
	lastFinalized *Round
	cleanup       CleanupStrategy
	checker       SupermajorityChecker
	logger        log.Logger
}

func NewVoteStorage(cleanup CleanupStrategy, checker SupermajorityChecker, logger log.Logger) *VoteStorage {
	return &VoteStorage{
		proposals: map[Round]*ProposalStorage{},
		states:    map[Round]ProcessingState{},
		cleanup:   cleanup,
		checker:   checker,
		logger:    logger,
	}
}

// Store inserts all votes of a state message atomically and returns the first
// outcome the round produces, or nil.
func (s *VoteStorage) Store(state []VoteMessage, peers []Peer) Outcome {
	if len(state) == 0 {
		return nil
	}
	round := state[0].Hash.VoteRound
	storage, exist := s.proposals[round]
	if !exist {
		storage = NewProposalStorage(round, peers, s.checker, s.logger)
		s.proposals[round] = storage
		for _, evicted := range s.cleanup.Track(round) {
			s.logger.Debugf("Cleanup round %s", evicted)
			delete(s.proposals, evicted)
			delete(s.states, evicted)
		}
	}
	outcome := storage.Insert(state)
	if outcome != nil {
		if s.lastFinalized == nil || s.lastFinalized.Compare(round) < 0 {
			finalized := round
			s.lastFinalized = &finalized
		}
	}
	return outcome
}

// IsCommitted reports whether the round has already produced an outcome.
func (s *VoteStorage) IsCommitted(round Round) bool {
	storage, exist := s.proposals[round]
	return exist && storage.Answer() != nil
}

// State returns the outcome of the round, if it produced one.
func (s *VoteStorage) State(round Round) (Outcome, bool) {
	storage, exist := s.proposals[round]
	if !exist || storage.Answer() == nil {
		return nil, false
	}
	return storage.Answer(), true
}

// LastFinalizedRound is the highest round which produced an outcome.
func (s *VoteStorage) LastFinalizedRound() (Round, bool) {
	if s.lastFinalized == nil {
		return Round{}, false
	}
	return *s.lastFinalized, true
}

// ProcessingState returns the current per-round flag.
func (s *VoteStorage) ProcessingState(round Round) ProcessingState {
	return s.states[round]
}

// NextProcessingState advances the monotone per-round flag by one step.
func (s *VoteStorage) NextProcessingState(round Round) {
	switch s.states[round] {
	case NotSentNotProcessed:
		s.states[round] = SentNotProcessed
	case SentNotProcessed:
		s.states[round] = SentProcessed
	}
}

// Remove drops the round's storage to escape a stuck voting situation.
func (s *VoteStorage) Remove(round Round) {
	delete(s.proposals, round)
	delete(s.states, round)
}
