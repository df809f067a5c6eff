package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/lebdron/iroha/pkg/consensus"
	"github.com/lebdron/iroha/pkg/crypto"
)

// PeerConfig names one cluster member.
type PeerConfig struct {
	PublicKey string `yaml:"publicKey"`
	Address   string `yaml:"address"`
}

// Config is the node configuration file.
type Config struct {
	LogLevel      string       `yaml:"logLevel"`
	DataPath      string       `yaml:"dataPath"`
	ListenAddress string       `yaml:"listenAddress"`
	PrivateKey    string       `yaml:"privateKey"`
	VoteDelayMS   int          `yaml:"voteDelayMs"`
	Height        uint64       `yaml:"height"`
	Peers         []PeerConfig `yaml:"peers"`
}

func (c *Config) setDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.DataPath == "" {
		c.DataPath = "./data"
	}
	if c.VoteDelayMS <= 0 {
		c.VoteDelayMS = 3000
	}
	if c.Height == 0 {
		c.Height = 1
	}
}

func (c *Config) voteDelay() time.Duration {
	return time.Duration(c.VoteDelayMS) * time.Millisecond
}

func (c *Config) keypair() (*crypto.Keypair, error) {
	privateKey, err := crypto.FromHex(c.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return crypto.KeypairFromPrivateKey(privateKey)
}

func (c *Config) ledgerPeers() ([]consensus.Peer, error) {
	peers := make([]consensus.Peer, len(c.Peers))
	for i, peer := range c.Peers {
		publicKey, err := crypto.FromHex(peer.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("invalid public key for peer %s: %w", peer.Address, err)
		}
		peers[i] = consensus.Peer{
			PublicKey: publicKey,
			Address:   peer.Address,
		}
	}
	return peers, nil
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	config.setDefaults()
	return config, nil
}
