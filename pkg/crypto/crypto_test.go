package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	keypair, err := NewKeypair()
	require.NoError(t, err)

	message := []byte("vote payload")
	signature := Sign(keypair.PrivateKey, message)
	assert.Len(t, signature, SignatureLength)
	assert.True(t, VerifySignature(keypair.PublicKey, message, signature))
	assert.False(t, VerifySignature(keypair.PublicKey, []byte("other"), signature))

	other, err := NewKeypair()
	require.NoError(t, err)
	assert.False(t, VerifySignature(other.PublicKey, message, signature))
}

func TestKeypairFromPrivateKey(t *testing.T) {
	keypair, err := NewKeypair()
	require.NoError(t, err)

	restored, err := KeypairFromPrivateKey(keypair.PrivateKey)
	require.NoError(t, err)
	assert.Equal(t, keypair.PublicKey, restored.PublicKey)

	_, err = KeypairFromPrivateKey([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidKeyLength)
}

func TestHash(t *testing.T) {
	digest := Hash([]byte("abc"))
	assert.Len(t, digest, HashLength)
	assert.Equal(t, digest, Hash([]byte("abc")))
	assert.NotEqual(t, digest, Hash([]byte("abd")))
}
