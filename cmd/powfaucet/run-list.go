package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/urfave/cli"

	"github.com/powfaucetorg/libpowfaucet-go/registry"
)

func runList(c *cli.Context) error {
	env, err := buildEnvironment(c)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	ctx := context.Background()
	metas, err := registry.ScanAllSpecs(ctx, env.svc)
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		fmt.Println("No faucets found")
		return nil
	}

	grouped := registry.GroupByDifficulty(metas)
	difficulties := make([]int, 0, len(grouped))
	for d := range grouped {
		difficulties = append(difficulties, int(d))
	}
	sort.Ints(difficulties)

	for _, d := range difficulties {
		fmt.Printf("difficulty %d:\n", d)
		for _, m := range grouped[uint8(d)] {
			balance, err := env.svc.GetBalance(ctx, m.Source)
			if err != nil {
				return err
			}
			fmt.Printf("  reward %g tokens  balance %g tokens  %s\n",
				float64(m.Reward)/unitsPerToken, float64(balance)/unitsPerToken, m.Source)
		}
	}
	return nil
}
