// Package registry discovers existing faucets by scanning the ledger for
// Spec records and reconstructs the client-side metadata table. The snapshot
// is advisory: other clients mutate the same pools concurrently, so every
// consumer must reconcile against live account state before acting.
package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/powfaucetorg/libpowfaucet-go/faucet"
	"github.com/powfaucetorg/libpowfaucet-go/keys"
	"github.com/powfaucetorg/libpowfaucet-go/ledger"
)

// MinProfitableReward is the fixed profitability floor: a faucet paying less
// than the fee spent to claim from it is never worth mining, whatever its
// difficulty.
const MinProfitableReward = faucet.FeePerSignature

// FaucetMetadata is the client-side projection of one faucet. It is rebuilt
// from scans and never sent to the ledger.
type FaucetMetadata struct {
	Spec       keys.Address
	Source     keys.Address
	Difficulty uint8
	Reward     uint64
}

// Options are the optional floors for InferEligibleSpecs.
type Options struct {
	MinDifficulty uint8
	MinReward     uint64
}

// ScanAllSpecs enumerates every Spec record the program owns and decodes it.
// The scan filters by the Spec record's exact data size, then skips any
// account that still fails to decode; a malformed record never aborts the
// scan. Return order carries no meaning.
func ScanAllSpecs(ctx context.Context, svc ledger.Service) ([]FaucetMetadata, error) {
	accounts, err := svc.ScanAccountsByOwner(ctx, faucet.ProgramID, faucet.SpecRecordSize)
	if err != nil {
		return nil, fmt.Errorf("registry: scan specs: %w", err)
	}

	out := make([]FaucetMetadata, 0, len(accounts))
	for _, ka := range accounts {
		record, err := faucet.DecodeSpecRecord(ka.Account.Data)
		if err != nil {
			continue // not a spec record
		}
		source, _, err := faucet.SourceAddress(ka.Address)
		if err != nil {
			continue
		}
		out = append(out, FaucetMetadata{
			Spec:       ka.Address,
			Source:     source,
			Difficulty: record.Difficulty,
			Reward:     record.Reward,
		})
	}
	return out, nil
}

// InferEligibleSpecs filters the scan by the optional floors and the fixed
// profitability floor, then confirms each candidate is live: the Spec still
// exists and its source pool holds at least one nominal reward. The liveness
// pass is advisory; the authoritative checks happen inside Claim at
// submission time.
func InferEligibleSpecs(ctx context.Context, svc ledger.Service, opts Options) ([]FaucetMetadata, error) {
	all, err := ScanAllSpecs(ctx, svc)
	if err != nil {
		return nil, err
	}

	out := make([]FaucetMetadata, 0, len(all))
	for _, meta := range all {
		if meta.Difficulty < opts.MinDifficulty {
			continue
		}
		if meta.Reward < opts.MinReward || meta.Reward < MinProfitableReward {
			continue
		}
		if _, err := svc.GetAccount(ctx, meta.Spec); err != nil {
			continue // vanished since the scan
		}
		balance, err := svc.GetBalance(ctx, meta.Source)
		if err != nil || balance < meta.Reward {
			continue // depleted or unreadable
		}
		out = append(out, meta)
	}
	return out, nil
}

// GroupByDifficulty partitions metadata by difficulty and, within each
// difficulty, sorts descending by reward. This is the presentation order the
// CLI uses; the scheduler imposes its own ranking.
func GroupByDifficulty(metas []FaucetMetadata) map[uint8][]FaucetMetadata {
	grouped := make(map[uint8][]FaucetMetadata)
	for _, m := range metas {
		grouped[m.Difficulty] = append(grouped[m.Difficulty], m)
	}
	for d := range grouped {
		sort.Slice(grouped[d], func(i, j int) bool {
			return grouped[d][i].Reward > grouped[d][j].Reward
		})
	}
	return grouped
}
