package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli"
)

func runInfo(c *cli.Context) error {
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

	info, err := env.client.GetFaucet(context.Background(), uint8(difficulty), tokenAmount(reward))
	if err != nil {
		return err
	}
	fmt.Printf("Faucet spec address: %s\n", info.Meta.Spec)
	fmt.Printf("Faucet address: %s\n", info.Meta.Source)
	if !info.Exists {
		fmt.Println("Faucet does not exist, please check your parameters")
		return nil
	}
	fmt.Printf("Faucet balance: %g tokens\n", float64(info.Balance)/unitsPerToken)
	return nil
}
