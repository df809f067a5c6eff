// Package transport implements the point-to-point vote transport over zmq
// push/pull sockets. Delivery is fire-and-forget; the protocol tolerates
// drops.
package transport

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-zeromq/zmq4"
	"golang.org/x/sync/errgroup"

	"github.com/lebdron/iroha/pkg/consensus"
	"github.com/lebdron/iroha/pkg/log"
)

// outboundQueueSize bounds the unsent state messages. When the queue is full
// new messages are dropped; the voting step retries by timer anyway.
const outboundQueueSize = 128

type envelope struct {
	to    consensus.Peer
	state []consensus.VoteMessage
}

// Network sends and receives vote state messages. Inbound messages are
// delivered to the subscribed handler from a single goroutine; SendState
// never blocks the caller.
type Network struct {
	listenAddress string
	logger        log.Logger

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group

	listen zmq4.Socket

	mu      sync.Mutex
	clients map[string]zmq4.Socket
	handler func(state []consensus.VoteMessage)

	out chan envelope
}

func New(listenAddress string, logger log.Logger) *Network {
	return &Network{
		listenAddress: listenAddress,
		logger:        logger,
		clients:       map[string]zmq4.Socket{},
		out:           make(chan envelope, outboundQueueSize),
	}
}

// Start binds the listen socket and launches the send and receive loops.
func (n *Network) Start(ctx context.Context) error {
	n.ctx, n.cancel = context.WithCancel(ctx)
	n.listen = zmq4.NewPull(n.ctx)
	if err := n.listen.Listen(n.listenAddress); err != nil {
		return err
	}
	n.group, _ = errgroup.WithContext(n.ctx)
	n.group.Go(n.readLoop)
	n.group.Go(n.sendLoop)
	return nil
}

// Subscribe sets the inbound handler. A nil handler unsubscribes.
func (n *Network) Subscribe(handler func(state []consensus.VoteMessage)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handler = handler
}

// SendState queues the state message for the peer. The message is dropped
// when the outbound queue is full.
func (n *Network) SendState(to consensus.Peer, state []consensus.VoteMessage) {
	select {
	case n.out <- envelope{to: to, state: state}:
	default:
		n.logger.Warningf("Outbound queue full, dropping state for %s", to.Address)
	}
}

// Stop shuts the loops down and closes every socket.
func (n *Network) Stop() {
	if n.cancel == nil {
		return
	}
	n.cancel()
	n.listen.Close()
	n.mu.Lock()
	for address, client := range n.clients {
		client.Close()
		delete(n.clients, address)
	}
	n.mu.Unlock()
	n.group.Wait() //nolint:errcheck // loops only report context cancellation
}

func (n *Network) readLoop() error {
	for {
		msg, err := n.listen.Recv()
		if err != nil {
			if n.ctx.Err() != nil {
				return nil
			}
			n.logger.Errorf("Fail to receive state message with %s", err)
			continue
		}
		state := []consensus.VoteMessage{}
		if err := json.Unmarshal(msg.Bytes(), &state); err != nil {
			n.logger.Warningf("Dropping undecodable state message with %s", err)
			continue
		}
		n.mu.Lock()
		handler := n.handler
		n.mu.Unlock()
		if handler != nil {
			handler(state)
		}
	}
}

func (n *Network) sendLoop() error {
	for {
		select {
		case <-n.ctx.Done():
			return nil
		case env := <-n.out:
			data, err := json.Marshal(env.state)
			if err != nil {
				n.logger.Errorf("Fail to encode state message with %s", err)
				continue
			}
			client, err := n.client(env.to.Address)
			if err != nil {
				n.logger.Warningf("Fail to dial peer %s with %s", env.to.Address, err)
				continue
			}
			if err := client.Send(zmq4.NewMsg(data)); err != nil {
				n.logger.Warningf("Fail to send state to %s with %s", env.to.Address, err)
			}
		}
	}
}

// client returns the push socket for the address, dialing lazily.
func (n *Network) client(address string) (zmq4.Socket, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if client, exist := n.clients[address]; exist {
		return client, nil
	}
	client := zmq4.NewPush(n.ctx)
	if err := client.Dial(address); err != nil {
		return nil, err
	}
	n.clients[address] = client
	return client, nil
}
