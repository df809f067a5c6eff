package bytes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCopy(t *testing.T) {
	original := []byte{1, 2, 3}
	copied := Copy(original)
	assert.Equal(t, original, copied)
	copied[0] = 9
	assert.Equal(t, byte(1), original[0])
}

func TestJoin(t *testing.T) {
	assert.Equal(t, []byte("abcd"), Join([]byte("ab"), []byte("cd")))
	assert.Equal(t, []byte{}, Join())
	assert.Equal(t, []byte("abcd"), JoinSize(4, []byte("ab"), []byte("cd")))
}

func TestHasPrefix(t *testing.T) {
	assert.True(t, HasPrefix([]byte("account_role/d/a"), []byte("account_role/")))
	assert.False(t, HasPrefix([]byte("role/r"), []byte("account_role/")))
}
