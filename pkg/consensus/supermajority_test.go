package consensus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBFTSupermajority(t *testing.T) {
	checker := NewBFTSupermajorityChecker()

	cases := []struct {
		all       int
		threshold int
	}{
		{1, 1},
		{2, 1},
		{3, 1},
		{4, 3},
		{5, 3},
		{6, 3},
		{7, 5},
		{10, 7},
	}
	for _, c := range cases {
		assert.True(t, checker.HasSupermajority(c.threshold, c.all), "n=%d", c.all)
		assert.False(t, checker.HasSupermajority(c.threshold-1, c.all), "n=%d", c.all)
	}
}

func TestBFTCanBeCommitted(t *testing.T) {
	checker := NewBFTSupermajorityChecker()

	// n=4, threshold 3: two hashes with 2 votes each leave no hash able to
	// reach 3 even with nobody left to vote
	assert.False(t, checker.CanBeCommitted(2, 4, 4))
	// one hash with 2 votes out of 2 voted can still be committed
	assert.True(t, checker.CanBeCommitted(2, 2, 4))
	// a fresh round can always be committed
	assert.True(t, checker.CanBeCommitted(0, 0, 4))
}
