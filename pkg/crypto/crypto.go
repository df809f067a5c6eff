// Package crypto provides signing primitives used by the consensus layer.
//
// It supports ed25519 for the signature scheme and sha3-256 for hashing.
package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"errors"

	ed "golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/sha3"
)

const (
	HashLength       = 32
	PublicKeyLength  = 32
	PrivateKeyLength = 64
	SignatureLength  = 64
)

var (
	ErrInvalidKeyLength = errors.New("invalid key length")
)

func RandomBytes(size int) []byte {
	r := make([]byte, size)
	if _, err := rand.Read(r); err != nil {
		panic(err)
	}
	return r
}

// Keypair holds an ed25519 keypair.
type Keypair struct {
	PublicKey  []byte
	PrivateKey []byte
}

// NewKeypair generates a fresh random keypair.
func NewKeypair() (*Keypair, error) {
	publicKey, privateKey, err := ed.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &Keypair{
		PublicKey:  publicKey,
		PrivateKey: privateKey,
	}, nil
}

// KeypairFromPrivateKey restores a keypair from a 64-byte private key.
func KeypairFromPrivateKey(privateKey []byte) (*Keypair, error) {
	if len(privateKey) != PrivateKeyLength {
		return nil, ErrInvalidKeyLength
	}
	return &Keypair{
		PublicKey:  Copy(privateKey[32:]),
		PrivateKey: Copy(privateKey),
	}, nil
}

// Hash returns the sha3-256 digest of data.
func Hash(data []byte) []byte {
	digest := sha3.Sum256(data)
	return digest[:]
}

func Sign(privateKey, message []byte) []byte {
	return ed.Sign(privateKey, message)
}

func VerifySignature(publicKey, message, signature []byte) bool {
	if len(publicKey) != PublicKeyLength || len(signature) != SignatureLength {
		return false
	}
	return ed.Verify(publicKey, message, signature)
}

func ToHex(b []byte) string {
	return hex.EncodeToString(b)
}

func FromHex(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

func Copy(val []byte) []byte {
	copied := make([]byte, len(val))
	copy(copied, val)
	return copied
}
