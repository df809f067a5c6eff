package consensus

import (
	"encoding/binary"

	"github.com/lebdron/iroha/pkg/crypto"
	"github.com/lebdron/iroha/pkg/log"
)

// CryptoProvider signs the local node's votes and verifies incoming state
// messages.
type CryptoProvider interface {
	// GetVote signs the hash with the node key.
	GetVote(hash YacHash) VoteMessage
	// Verify checks every signature of a state message. Verification
	// short-circuits on the first bad vote.
	Verify(state []VoteMessage) bool
}

type cryptoProvider struct {
	keypair *crypto.Keypair
	logger  log.Logger
}

func NewCryptoProvider(keypair *crypto.Keypair, logger log.Logger) CryptoProvider {
	return &cryptoProvider{
		keypair: keypair,
		logger:  logger,
	}
}

// signedPayload is the sha3-256 digest of the canonical byte form of a
// YacHash; the vote signature covers this digest.
func signedPayload(hash YacHash) []byte {
	payload := make([]byte, 0, 16+len(hash.VoteHashes.ProposalHash)+len(hash.VoteHashes.BlockHash))
	payload = binary.BigEndian.AppendUint64(payload, hash.VoteRound.BlockRound)
	payload = binary.BigEndian.AppendUint64(payload, hash.VoteRound.RejectRound)
	payload = append(payload, hash.VoteHashes.ProposalHash...)
	payload = append(payload, hash.VoteHashes.BlockHash...)
	return crypto.Hash(payload)
}

func (c *cryptoProvider) GetVote(hash YacHash) VoteMessage {
	payload := signedPayload(hash)
	return VoteMessage{
		Hash: hash,
		Signature: &Signature{
			PublicKey: c.keypair.PublicKey,
			Signed:    crypto.Sign(c.keypair.PrivateKey, payload),
		},
	}
}

func (c *cryptoProvider) Verify(state []VoteMessage) bool {
	if len(state) == 0 {
		return false
	}
	for _, vote := range state {
		if vote.Signature == nil {
			return false
		}
		payload := signedPayload(vote.Hash)
		if !crypto.VerifySignature(vote.Signature.PublicKey, payload, vote.Signature.Signed) {
			c.logger.Warningf("Signature verification failed for %s", vote)
			return false
		}
	}
	return true
}
