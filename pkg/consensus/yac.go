package consensus

import (
	"sync"

	"github.com/lebdron/iroha/pkg/log"
)

// rotatePeriod is the number of voting attempts before the round is
// considered frozen and the per-round storage is cleared.
const rotatePeriod = 10

// Network is the outbound side of the vote transport. SendState must not
// block the caller; implementations post to an outbound queue.
type Network interface {
	SendState(to Peer, state []VoteMessage)
	Stop()
}

// Yac drives vote propagation, outcome application and past/future round
// handling. All state mutations are serialised on one dispatch lane: the
// network callback, the timer callback and ledger-advance notifications all
// acquire the same lock, so within the lane operations are atomic with
// respect to each other.
type Yac struct {
	mu          sync.Mutex
	ledgerState *LedgerState
	voteStorage *VoteStorage
	network     Network
	crypto      CryptoProvider
	timer       Timer
	logger      log.Logger
	stopped     bool
}

func NewYac(
	voteStorage *VoteStorage,
	network Network,
	crypto CryptoProvider,
	timer Timer,
	ledgerState *LedgerState,
	logger log.Logger,
) *Yac {
	return &Yac{
		ledgerState: ledgerState,
		voteStorage: voteStorage,
		network:     network,
		crypto:      crypto,
		timer:       timer,
		logger:      logger,
	}
}

// Stop releases the network. Outstanding timer callbacks become no-ops.
func (y *Yac) Stop() {
	y.mu.Lock()
	y.stopped = true
	y.timer.Deny()
	y.mu.Unlock()
	y.network.Stop()
}

// ProcessLedgerState replaces the committed top-block info. Rounds below the
// new height become past on subsequent receipts.
func (y *Yac) ProcessLedgerState(ledgerState *LedgerState) {
	y.mu.Lock()
	defer y.mu.Unlock()
	y.ledgerState = ledgerState
}

// Vote begins voting for a new proposal following the given leader order.
func (y *Yac) Vote(hash YacHash, order ClusterOrdering) {
	y.mu.Lock()
	defer y.mu.Unlock()
	peers := make([]string, 0, order.NumberOfPeers())
	for _, peer := range order.Peers() {
		peers = append(peers, peer.Address)
	}
	y.logger.Infof("Order for voting: %v", peers)

	vote := y.crypto.GetVote(hash)
	y.votingStep(vote, order, 0)
}

// OnState handles one verified state message and returns the outcome to
// surface to the pipeline, if any.
func (y *Yac) OnState(state []VoteMessage) Outcome {
	y.mu.Lock()
	defer y.mu.Unlock()
	if len(state) == 0 || !y.crypto.Verify(state) {
		y.logger.Warningf("Crypto verification failed for message with %d votes", len(state))
		return nil
	}

	round := state[0].Hash.VoteRound
	switch {
	case round.BlockRound > y.ledgerState.Height:
		y.logger.Infof("Pass state from future for %s to pipeline", round)
		return NewFutureMessage(state)
	case round.BlockRound < y.ledgerState.Height:
		y.logger.Infof("Received state from past for %s, try to propagate back", round)
		y.tryPropagateBack(state)
		return nil
	}
	return y.applyState(state)
}

// votingStep sends the vote to the current leader and schedules the next
// attempt. It runs on the dispatch lane; the caller holds the lock.
func (y *Yac) votingStep(vote VoteMessage, order ClusterOrdering, attempt uint32) {
	if y.stopped {
		return
	}
	round := vote.Hash.VoteRound
	if y.voteStorage.IsCommitted(round) {
		return
	}

	if attempt != 0 && attempt%rotatePeriod == 0 {
		y.voteStorage.Remove(round)
	}
	if attempt == rotatePeriod {
		// round is frozen; vote for an empty proposal instead
		vote.Hash.VoteHashes = VoteHashes{}
		vote.Hash.BlockSignature = nil
		vote = y.crypto.GetVote(vote.Hash)
	}

	leader := order.CurrentLeader()
	y.logger.Infof("Vote %s to peer %s, attempt %d", vote, leader.Address, attempt)
	y.network.SendState(leader, []VoteMessage{vote})
	order.SwitchToNext()

	y.timer.InvokeAfterDelay(func() {
		y.mu.Lock()
		defer y.mu.Unlock()
		y.votingStep(vote, order, attempt+1)
	})
}

// applyState stores the votes and walks the processing-state transitions of
// the round. The caller holds the lock.
func (y *Yac) applyState(state []VoteMessage) Outcome {
	answer := y.voteStorage.Store(state, y.ledgerState.Peers)
	if answer == nil {
		return nil
	}
	round := state[0].Hash.VoteRound

	// A state carrying several votes means some peer already collected this
	// outcome, so propagation is redundant. A single-peer cluster collects
	// the outcome from its own single vote.
	if len(state) > 1 || len(y.ledgerState.Peers) == 1 {
		if y.voteStorage.ProcessingState(round) == NotSentNotProcessed {
			y.voteStorage.NextProcessingState(round)
			y.logger.Infof("Received supermajority of votes for %s, skip propagation", round)
		}
	}

	switch y.voteStorage.ProcessingState(round) {
	case NotSentNotProcessed:
		y.voteStorage.NextProcessingState(round)
		y.logger.Infof("Propagate state %s to whole network", round)
		y.propagateState(answer.Votes())
	case SentNotProcessed:
		y.voteStorage.NextProcessingState(round)
		y.logger.Infof("Pass outcome for %s to pipeline", round)
		return answer
	case SentProcessed:
		y.tryPropagateBack(state)
	}
	return nil
}

// tryPropagateBack resends the last finalized outcome directly to the sender
// of a stale vote. It only works for single-vote states: a list of votes
// means the sender's state is already committed.
func (y *Yac) tryPropagateBack(state []VoteMessage) {
	if len(state) != 1 {
		return
	}
	lastRound, ok := y.voteStorage.LastFinalizedRound()
	if !ok || state[0].Hash.VoteRound.Compare(lastRound) > 0 {
		return
	}
	lastState, ok := y.voteStorage.State(lastRound)
	if !ok {
		return
	}
	from, ok := y.findPeer(state[0])
	if !ok {
		return
	}
	y.logger.Infof("Propagate state %s directly to %s", lastRound, from.Address)
	y.network.SendState(from, lastState.Votes())
}

func (y *Yac) findPeer(vote VoteMessage) (Peer, bool) {
	if vote.Signature == nil {
		return Peer{}, false
	}
	for _, peer := range y.ledgerState.Peers {
		if peer.Equal(Peer{PublicKey: vote.Signature.PublicKey}) {
			return peer, true
		}
	}
	return Peer{}, false
}

func (y *Yac) propagateState(msg []VoteMessage) {
	for _, peer := range y.ledgerState.Peers {
		y.network.SendState(peer, msg)
	}
}
