package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli"
)

func runCreate(c *cli.Context) error {
	difficulty := c.Uint("difficulty")
	reward := c.Float64("reward")
	if difficulty == 0 || difficulty > 255 {
		return fmt.Errorf("difficulty must be between 1 and 255")
	}
	if reward <= 0 {
		return fmt.Errorf("reward must be positive")
	}

	env, err := buildEnvironment(c)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	ctx := context.Background()
	if err := ensurePayerFunded(ctx, env); err != nil {
		return err
	}

	result, err := env.client.CreateFaucet(ctx, env.payer, uint8(difficulty), tokenAmount(reward))
	if err != nil {
		return err
	}
	if result.AlreadyExists {
		fmt.Printf("Faucet already exists at %s\n", result.Source)
		return nil
	}
	fmt.Printf("Created proof of work faucet with difficulty %d and reward of %g tokens: %s\n",
		difficulty, reward, result.TxID)
	fmt.Printf("Faucet spec address: %s\n", result.Spec)
	fmt.Printf("Faucet address: %s\n", result.Source)
	fmt.Println("Fund it with a plain transfer to the faucet address.")
	return nil
}
