package miner

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/powfaucetorg/libpowfaucet-go/keys"
)

// Candidate is a freshly mined claimant identity together with its
// proof-of-work score.
type Candidate struct {
	Keypair   *keys.Keypair
	PrefixLen int
}

// Generator mines candidate identities on a pool of CPU workers. Generation
// is uniform with no retry bias; the prefix filter below minDifficulty is
// the cheap rejection that makes the search tractable, so only identities
// that can claim somewhere reach the scheduler.
type Generator struct {
	workers   int
	attempts  atomic.Uint64
	startTime time.Time
}

// Stats holds real-time mining statistics.
type Stats struct {
	Attempts    uint64
	Rate        float64 // keypairs per second
	ElapsedSecs float64
}

// NewGenerator creates a generator. If workers is 0 it defaults to the
// number of CPU cores.
func NewGenerator(workers int) *Generator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Generator{workers: workers}
}

// Stats returns current performance statistics. Safe to call concurrently
// with a running search.
func (g *Generator) Stats() Stats {
	attempts := g.attempts.Load()
	elapsed := time.Since(g.startTime).Seconds()
	var rate float64
	if elapsed > 0 {
		rate = float64(attempts) / elapsed
	}
	return Stats{Attempts: attempts, Rate: rate, ElapsedSecs: elapsed}
}

// Start launches the workers and returns the candidate stream. minDifficulty
// is re-read for every identity, so the filter tightens immediately when the
// scheduler prunes the easiest faucet. The stream closes once ctx is
// cancelled and all workers have drained.
func (g *Generator) Start(ctx context.Context, minDifficulty func() int) <-chan Candidate {
	out := make(chan Candidate, g.workers)
	g.startTime = time.Now()
	g.attempts.Store(0)

	done := make(chan struct{}, g.workers)
	for i := 0; i < g.workers; i++ {
		go g.worker(ctx, minDifficulty, out, done)
	}
	go func() {
		for i := 0; i < g.workers; i++ {
			<-done
		}
		close(out)
	}()
	return out
}

func (g *Generator) worker(ctx context.Context, minDifficulty func() int, out chan<- Candidate, done chan<- struct{}) {
	defer func() { done <- struct{}{} }()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		kp, err := keys.NewKeypair()
		if err != nil {
			continue
		}
		g.attempts.Add(1)

		prefixLen := keys.LeadingPrefixLen(kp.Address())
		if prefixLen < minDifficulty() {
			continue
		}

		select {
		case out <- Candidate{Keypair: kp, PrefixLen: prefixLen}:
		case <-ctx.Done():
			return
		}
	}
}
