// irohad is a CLI which runs the ledger state-replication node.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/lebdron/iroha/pkg/consensus"
	"github.com/lebdron/iroha/pkg/consensus/transport"
	"github.com/lebdron/iroha/pkg/crypto"
	"github.com/lebdron/iroha/pkg/db"
	"github.com/lebdron/iroha/pkg/log"
)

func main() {
	app := cli.App{
		Usage: "Permissioned BFT ledger node",
		Commands: []*cli.Command{
			{
				Name:  "start",
				Usage: "Start the node",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Path to node config",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					config, err := loadConfig(c.String("config"))
					if err != nil {
						return err
					}
					return start(config)
				},
			},
			{
				Name:  "keygen",
				Usage: "Generate a node keypair",
				Action: func(c *cli.Context) error {
					keypair, err := crypto.NewKeypair()
					if err != nil {
						return err
					}
					fmt.Printf("publicKey: %s\n", crypto.ToHex(keypair.PublicKey))
					fmt.Printf("privateKey: %s\n", crypto.ToHex(keypair.PrivateKey))
					return nil
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// wsvPeers lists the cluster members recorded under the peer/ keys of the
// world state.
func wsvPeers(database *db.DB) ([]consensus.Peer, error) {
	const prefix = "peer/"
	kvs, err := database.Iterate([]byte(prefix), -1)
	if err != nil {
		return nil, err
	}
	peers := make([]consensus.Peer, 0, len(kvs))
	for _, kv := range kvs {
		publicKey, err := crypto.FromHex(string(kv.Key()[len(prefix):]))
		if err != nil {
			return nil, fmt.Errorf("invalid peer record %s: %w", kv.Key(), err)
		}
		peers = append(peers, consensus.Peer{
			PublicKey: publicKey,
			Address:   string(kv.Value()),
		})
	}
	return peers, nil
}

func start(config *Config) error {
	logger, err := log.NewDefaultLogger(config.LogLevel)
	if err != nil {
		return err
	}

	keypair, err := config.keypair()
	if err != nil {
		return err
	}

	database, err := db.NewDB(filepath.Join(config.DataPath, "wsv"))
	if err != nil {
		return err
	}
	defer database.Close()

	peers, err := config.ledgerPeers()
	if err != nil {
		return err
	}
	if len(peers) == 0 {
		// fall back to the peer records of the world state
		if peers, err = wsvPeers(database); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	network := transport.New(config.ListenAddress, logger.With("component", "transport"))
	if err := network.Start(ctx); err != nil {
		return err
	}

	gate, err := consensus.NewGate(consensus.Config{
		Keypair:     keypair,
		LedgerState: &consensus.LedgerState{Height: config.Height, Peers: peers},
		VoteDelay:   config.voteDelay(),
		Logger:      logger.With("component", "consensus"),
	}, network, func(outcome consensus.Outcome) {
		switch outcome.(type) {
		case *consensus.CommitMessage:
			logger.Infof("Commit outcome with %d votes", len(outcome.Votes()))
		case *consensus.RejectMessage:
			logger.Infof("Reject outcome with %d votes", len(outcome.Votes()))
		case *consensus.FutureMessage:
			logger.Infof("Future round message with %d votes", len(outcome.Votes()))
		}
	})
	if err != nil {
		return err
	}

	logger.Infof("Node started at height %d with %d peers", config.Height, len(peers))

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals

	logger.Info("Shutting down")
	gate.Stop()
	return nil
}
