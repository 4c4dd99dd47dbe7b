package miner

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/powfaucetorg/libpowfaucet-go/client"
	"github.com/powfaucetorg/libpowfaucet-go/ledger"
	"github.com/powfaucetorg/libpowfaucet-go/registry"
)

// Claimer submits one claim transaction and reports the confirmed outcome.
// *client.Client satisfies it.
type Claimer interface {
	Claim(ctx context.Context, payer, claimant ledger.Signer, meta registry.FaucetMetadata) (*client.ClaimResult, error)
}

// EventType tags scheduler progress events.
type EventType int

const (
	// EventClaimed reports a confirmed claim.
	EventClaimed EventType = iota
	// EventDepleted reports a faucet removed after its pool ran dry.
	EventDepleted
	// EventRejected reports a failed submission (routine under racing
	// claimants; the scheduler moved on).
	EventRejected
)

// Event is one scheduler progress notification.
type Event struct {
	Type   EventType
	Faucet registry.FaucetMetadata
	Paid   uint64 // EventClaimed: actual transferred amount
	TxID   string
	Err    error // EventRejected
}

// Config parameterizes a mining run.
type Config struct {
	// Payer funds fees and receives payouts.
	Payer ledger.Signer

	// Target is the cumulative nominal payout to stop at.
	Target uint64

	// Workers is the keypair generation parallelism (0 = NumCPU).
	Workers int

	// Progress, if set, receives events from the scheduler loop.
	Progress func(Event)
}

// Summary is the terminal state of a mining run.
type Summary struct {
	// ClaimedNominal accumulates the nominal reward of every confirmed
	// claim; the run stops when it reaches the target. ClaimedPaid is the
	// sum of actually transferred amounts, which lags behind when claims
	// were clamped by drained pools.
	ClaimedNominal uint64
	ClaimedPaid    uint64

	Claims     int
	Identities uint64 // total keypairs generated
	Exhausted  bool   // true if the eligible table emptied before target
}

// Scheduler mines identities and allocates each across the eligible faucet
// table greedily. The loop is single-threaded; only identity generation runs
// in parallel.
type Scheduler struct {
	claimer Claimer
	svc     ledger.Service
	table   *Table
	gen     *Generator
	cfg     Config

	// minViable is the table's current minimum difficulty, shared with the
	// generation workers as their rejection threshold.
	minViable atomic.Int32
}

// New builds a scheduler over an initial working set. It returns
// ErrNoEligibleFaucets if the set is empty: an empty universe is a
// configuration problem, unlike exhaustion during a run.
func New(claimer Claimer, svc ledger.Service, metas []registry.FaucetMetadata, cfg Config) (*Scheduler, error) {
	table := NewTable(metas)
	if table.Empty() {
		return nil, ErrNoEligibleFaucets
	}
	if cfg.Payer == nil {
		return nil, fmt.Errorf("miner: config: payer is required")
	}
	s := &Scheduler{
		claimer: claimer,
		svc:     svc,
		table:   table,
		gen:     NewGenerator(cfg.Workers),
		cfg:     cfg,
	}
	s.minViable.Store(int32(table.MinDifficulty()))
	return s, nil
}

// Stats returns the generator's live mining statistics.
func (s *Scheduler) Stats() Stats { return s.gen.Stats() }

// Run mines until the cumulative nominal payout reaches the target, the
// eligible table empties, or ctx is cancelled. Submission failures are
// routine (racing other claimants) and never abort the run; aborting leaves
// no state behind, since claimant identities are ephemeral.
func (s *Scheduler) Run(ctx context.Context) (*Summary, error) {
	genCtx, stopGen := context.WithCancel(ctx)
	defer stopGen()
	candidates := s.gen.Start(genCtx, func() int { return int(s.minViable.Load()) })

	summary := &Summary{}
	defer func() { summary.Identities = s.gen.Stats().Attempts }()

	for summary.ClaimedNominal < s.cfg.Target {
		var cand Candidate
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		case c, ok := <-candidates:
			if !ok {
				return summary, ctx.Err()
			}
			cand = c
		}

		if done, err := s.allocate(ctx, cand, summary); done || err != nil {
			return summary, err
		}
	}
	return summary, nil
}

// allocate spends one mined identity across the ranked candidate faucets.
// It returns done=true when the run should stop (target reached or table
// exhausted).
func (s *Scheduler) allocate(ctx context.Context, cand Candidate, summary *Summary) (bool, error) {
	// One claim per difficulty tier per identity: the receipt key is
	// (claimant, difficulty), so a second submission in the same tier can
	// only burn a fee on a guaranteed rejection.
	consumed := make(map[uint8]bool)

	for _, meta := range s.table.Candidates(cand.PrefixLen) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if consumed[meta.Difficulty] {
			continue
		}
		if !s.table.Contains(meta) {
			continue // pruned earlier in this same pass
		}

		// Advisory balance re-check; the authoritative one happens inside
		// the claim transaction.
		balance, err := s.svc.GetBalance(ctx, meta.Source)
		if err != nil {
			s.notify(Event{Type: EventRejected, Faucet: meta, Err: err})
			continue
		}
		if balance < meta.Reward {
			s.deplete(meta)
			if s.table.Empty() {
				summary.Exhausted = true
				return true, nil
			}
			continue
		}

		res, err := s.claimer.Claim(ctx, s.cfg.Payer, cand.Keypair, meta)
		if err != nil {
			// Losing a race (replay, drained pool, transport hiccup) is a
			// normal outcome; move on to the next ranked candidate.
			s.notify(Event{Type: EventRejected, Faucet: meta, Err: err})
			continue
		}

		summary.ClaimedNominal += meta.Reward
		summary.ClaimedPaid += res.Paid
		summary.Claims++
		consumed[meta.Difficulty] = true
		s.notify(Event{Type: EventClaimed, Faucet: meta, Paid: res.Paid, TxID: res.TxID})

		if summary.ClaimedNominal >= s.cfg.Target {
			return true, nil
		}
	}
	return false, nil
}

// deplete permanently removes a drained faucet and retightens the
// generation filter if the easiest tier just vanished.
func (s *Scheduler) deplete(meta registry.FaucetMetadata) {
	s.table.Remove(meta)
	if !s.table.Empty() {
		s.minViable.Store(int32(s.table.MinDifficulty()))
	}
	s.notify(Event{Type: EventDepleted, Faucet: meta})
}

func (s *Scheduler) notify(ev Event) {
	if s.cfg.Progress != nil {
		s.cfg.Progress(ev)
	}
}
