package consensus

import (
	"time"

	"github.com/lebdron/iroha/pkg/crypto"
	"github.com/lebdron/iroha/pkg/log"
)

// defaultCleanupDepth bounds the rounds retained by the vote storage.
const defaultCleanupDepth = 10

// Transport extends the outbound Network with the inbound state stream.
type Transport interface {
	Network
	// Subscribe sets the handler invoked for every inbound state message.
	// A nil handler unsubscribes.
	Subscribe(handler func(state []VoteMessage))
}

// Config carries everything the gate needs to assemble a YAC instance.
type Config struct {
	Keypair      *crypto.Keypair
	LedgerState  *LedgerState
	VoteDelay    time.Duration
	CleanupDepth int
	Logger       log.Logger
}

// Gate owns the YAC state machine and connects it to the transport and the
// outer pipeline. Construction order is fixed: the state machine is fully
// initialized before the transport is subscribed; teardown runs in reverse.
type Gate struct {
	yac       *Yac
	transport Transport
	callback  func(Outcome)
	peers     []Peer
	logger    log.Logger
}

// NewGate wires vote storage, crypto, timer and the state machine, then
// subscribes the transport. The callback receives every outcome the state
// machine surfaces, including FutureMessage.
func NewGate(cfg Config, transport Transport, callback func(Outcome)) (*Gate, error) {
	if _, err := NewClusterOrdering(cfg.LedgerState.Peers); err != nil {
		return nil, err
	}
	depth := cfg.CleanupDepth
	if depth <= 0 {
		depth = defaultCleanupDepth
	}
	checker := NewBFTSupermajorityChecker()
	voteStorage := NewVoteStorage(NewBufferedCleanupStrategy(depth), checker, cfg.Logger.With("component", "voteStorage"))
	cryptoProvider := NewCryptoProvider(cfg.Keypair, cfg.Logger.With("component", "crypto"))
	timer := NewTimer(cfg.VoteDelay)
	yac := NewYac(voteStorage, transport, cryptoProvider, timer, cfg.LedgerState, cfg.Logger.With("component", "yac"))

	gate := &Gate{
		yac:       yac,
		transport: transport,
		callback:  callback,
		peers:     cfg.LedgerState.Peers,
		logger:    cfg.Logger,
	}
	transport.Subscribe(gate.onState)
	return gate, nil
}

// Vote starts a new voting round for the hash, with the leader order derived
// from it.
func (g *Gate) Vote(hash YacHash) error {
	order, err := NewClusterOrderingForHash(g.peers, hash)
	if err != nil {
		return err
	}
	g.yac.Vote(hash, order)
	return nil
}

// ProcessLedgerState tells the state machine the ledger advanced.
func (g *Gate) ProcessLedgerState(ledgerState *LedgerState) {
	g.peers = ledgerState.Peers
	g.yac.ProcessLedgerState(ledgerState)
}

// Stop unsubscribes the transport before stopping the state machine, the
// reverse of construction.
func (g *Gate) Stop() {
	g.transport.Subscribe(nil)
	g.yac.Stop()
}

func (g *Gate) onState(state []VoteMessage) {
	outcome := g.yac.OnState(state)
	if outcome == nil {
		return
	}
	if g.callback != nil {
		g.callback(outcome)
	}
}
