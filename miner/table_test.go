package miner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powfaucetorg/libpowfaucet-go/registry"
)

func meta(difficulty uint8, reward uint64) registry.FaucetMetadata {
	return registry.FaucetMetadata{Difficulty: difficulty, Reward: reward}
}

func TestNewTableCollapsesDuplicates(t *testing.T) {
	table := NewTable([]registry.FaucetMetadata{
		meta(2, 100),
		meta(2, 100),
		meta(2, 200),
	})
	assert.Equal(t, 2, table.Size())
}

func TestTableEmptyAndMinDifficulty(t *testing.T) {
	table := NewTable(nil)
	assert.True(t, table.Empty())

	table = NewTable([]registry.FaucetMetadata{meta(3, 10), meta(1, 20), meta(5, 30)})
	assert.False(t, table.Empty())
	assert.Equal(t, uint8(1), table.MinDifficulty())
}

func TestCandidatesGreedyOrder(t *testing.T) {
	table := NewTable([]registry.FaucetMetadata{
		meta(2, 10),
		meta(2, 50),
		meta(3, 5),
	})

	// A three-prefix identity can claim everywhere; best reward first.
	got := table.Candidates(3)
	require.Len(t, got, 3)
	assert.Equal(t, meta(2, 50), got[0])
	assert.Equal(t, meta(2, 10), got[1])
	assert.Equal(t, meta(3, 5), got[2])

	// A two-prefix identity cannot reach difficulty 3.
	got = table.Candidates(2)
	require.Len(t, got, 2)
	assert.Equal(t, meta(2, 50), got[0])
	assert.Equal(t, meta(2, 10), got[1])

	assert.Empty(t, table.Candidates(1))
}

func TestCandidatesTieBreakOnDifficulty(t *testing.T) {
	table := NewTable([]registry.FaucetMetadata{
		meta(1, 100),
		meta(4, 100),
	})
	got := table.Candidates(4)
	require.Len(t, got, 2)
	assert.Equal(t, uint8(4), got[0].Difficulty, "equal rewards rank harder difficulty first")
	assert.Equal(t, uint8(1), got[1].Difficulty)
}

func TestRemoveRecomputesMin(t *testing.T) {
	low := meta(1, 20)
	table := NewTable([]registry.FaucetMetadata{meta(3, 10), low})

	table.Remove(low)
	assert.Equal(t, 1, table.Size())
	assert.False(t, table.Contains(low))
	assert.Equal(t, uint8(3), table.MinDifficulty())

	// Removing something absent is a no-op.
	table.Remove(low)
	assert.Equal(t, 1, table.Size())

	table.Remove(meta(3, 10))
	assert.True(t, table.Empty())
}
