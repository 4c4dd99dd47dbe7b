package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/urfave/cli"

	"github.com/powfaucetorg/libpowfaucet-go/client"
	"github.com/powfaucetorg/libpowfaucet-go/miner"
	"github.com/powfaucetorg/libpowfaucet-go/registry"
)

func runMine(c *cli.Context) error {
	env, err := buildEnvironment(c)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := ensurePayerFunded(ctx, env); err != nil {
		return err
	}

	metas, err := mineTargets(ctx, c, env)
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		fmt.Println("No eligible faucets, please check your parameters")
		return nil
	}

	sched, err := miner.New(env.client, env.svc, metas, miner.Config{
		Payer:   env.payer,
		Target:  c.Uint64("target"),
		Workers: c.Int("workers"),
		Progress: func(ev miner.Event) {
			switch ev.Type {
			case miner.EventClaimed:
				fmt.Printf("Claimed %g tokens (paid %g) from faucet %s: %s\n",
					float64(ev.Faucet.Reward)/unitsPerToken, float64(ev.Paid)/unitsPerToken,
					ev.Faucet.Source, ev.TxID)
			case miner.EventDepleted:
				fmt.Printf("Faucet %s is empty\n", ev.Faucet.Source)
			case miner.EventRejected:
				fmt.Printf("Claim against %s failed (%s): %v\n",
					ev.Faucet.Source, client.Classify(ev.Err), ev.Err)
			}
		},
	})
	if err != nil {
		return err
	}

	summary, runErr := sched.Run(ctx)
	stats := sched.Stats()
	fmt.Printf("Generated %d identities at %.0f keys/s\n", stats.Attempts, stats.Rate)
	fmt.Printf("Claimed %g tokens nominal (%g actually paid) across %d claims\n",
		float64(summary.ClaimedNominal)/unitsPerToken,
		float64(summary.ClaimedPaid)/unitsPerToken, summary.Claims)
	if summary.Exhausted {
		fmt.Println("All eligible faucets are exhausted")
	}
	if runErr != nil && runErr != context.Canceled {
		return runErr
	}
	return nil
}

// mineTargets resolves which faucets to mine: every eligible faucet when
// --all is given, otherwise the single faucet named by --difficulty and
// --reward.
func mineTargets(ctx context.Context, c *cli.Context, env *environment) ([]registry.FaucetMetadata, error) {
	if c.Bool("all") {
		return registry.InferEligibleSpecs(ctx, env.svc, registry.Options{
			MinDifficulty: uint8(c.Uint("difficulty")),
		})
	}

	difficulty := c.Uint("difficulty")
	reward := c.Float64("reward")
	if difficulty == 0 || difficulty > 255 || reward <= 0 {
		return nil, fmt.Errorf("either --all or both --difficulty and --reward are required")
	}

	info, err := env.client.GetFaucet(ctx, uint8(difficulty), tokenAmount(reward))
	if err != nil {
		return nil, err
	}
	if !info.Exists {
		fmt.Println("Faucet does not exist, please check your parameters")
		return nil, nil
	}
	if info.Balance < info.Meta.Reward {
		fmt.Println("Faucet is empty")
		return nil, nil
	}
	return []registry.FaucetMetadata{info.Meta}, nil
}
