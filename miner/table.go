// Package miner implements the claim scheduler: the search for claimant
// identities whose addresses satisfy a faucet's difficulty, and the greedy
// allocation of each mined identity across the eligible faucets.
package miner

import (
	"sort"

	"github.com/powfaucetorg/libpowfaucet-go/registry"
)

// Table is the scheduler's working set of eligible faucets, keyed first by
// difficulty and then by reward. It is owned by the single scheduler loop;
// only the minimum difficulty is shared with the generation workers, via the
// scheduler's atomic.
type Table struct {
	pools map[uint8]map[uint64]registry.FaucetMetadata
	size  int
}

// NewTable builds a table from scanned metadata. Duplicate
// (difficulty, reward) pairs collapse to one entry, mirroring the on-ledger
// invariant that at most one Spec exists per pair.
func NewTable(metas []registry.FaucetMetadata) *Table {
	t := &Table{pools: make(map[uint8]map[uint64]registry.FaucetMetadata)}
	for _, m := range metas {
		byReward, ok := t.pools[m.Difficulty]
		if !ok {
			byReward = make(map[uint64]registry.FaucetMetadata)
			t.pools[m.Difficulty] = byReward
		}
		if _, dup := byReward[m.Reward]; !dup {
			byReward[m.Reward] = m
			t.size++
		}
	}
	return t
}

// Size returns the number of faucets in the table.
func (t *Table) Size() int { return t.size }

// Empty reports whether no faucets remain.
func (t *Table) Empty() bool { return t.size == 0 }

// MinDifficulty returns the smallest difficulty among remaining faucets.
// This is the generation filter: identities below it cannot claim anywhere.
// Calling it on an empty table returns 0; callers check Empty first.
func (t *Table) MinDifficulty() uint8 {
	first := true
	var min uint8
	for d := range t.pools {
		if first || d < min {
			min = d
			first = false
		}
	}
	return min
}

// Contains reports whether the faucet is still in the table.
func (t *Table) Contains(m registry.FaucetMetadata) bool {
	byReward, ok := t.pools[m.Difficulty]
	if !ok {
		return false
	}
	_, ok = byReward[m.Reward]
	return ok
}

// Remove permanently drops a depleted faucet.
func (t *Table) Remove(m registry.FaucetMetadata) {
	byReward, ok := t.pools[m.Difficulty]
	if !ok {
		return
	}
	if _, ok := byReward[m.Reward]; !ok {
		return
	}
	delete(byReward, m.Reward)
	if len(byReward) == 0 {
		delete(t.pools, m.Difficulty)
	}
	t.size--
}

// Candidates returns every faucet an identity with the given prefix length
// can claim from, ranked descending by (reward, difficulty). Highest value
// first is the economically correct greedy order: each identity claims at
// most once per difficulty tier, so the best-paying pool in a tier must be
// exhausted before any lesser one.
func (t *Table) Candidates(prefixLen int) []registry.FaucetMetadata {
	var out []registry.FaucetMetadata
	for d, byReward := range t.pools {
		if int(d) > prefixLen {
			continue
		}
		for _, m := range byReward {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Reward != out[j].Reward {
			return out[i].Reward > out[j].Reward
		}
		return out[i].Difficulty > out[j].Difficulty
	})
	return out
}
