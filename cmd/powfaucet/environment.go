package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli"

	"github.com/powfaucetorg/libpowfaucet-go/client"
	"github.com/powfaucetorg/libpowfaucet-go/config"
	"github.com/powfaucetorg/libpowfaucet-go/faucet"
	"github.com/powfaucetorg/libpowfaucet-go/keys"
	"github.com/powfaucetorg/libpowfaucet-go/ledger"
	"github.com/powfaucetorg/libpowfaucet-go/wallet"
)

// unitsPerToken converts the CLI's human-readable token amounts into base
// units.
const unitsPerToken = 1_000_000_000

// environment is the resolved runtime for one command invocation.
type environment struct {
	cfg    config.Config
	payer  *keys.Keypair
	svc    ledger.Service
	client *client.Client

	closer func() error
}

func (e *environment) Close() error {
	if e.closer != nil {
		return e.closer()
	}
	return nil
}

// buildEnvironment layers configuration (file, then environment variables,
// then global flags), loads the payer keypair, and connects the ledger
// service. For the "sim" network it opens the persistent local simulator
// instead of an RPC client.
func buildEnvironment(c *cli.Context) (*environment, error) {
	dataDir := c.GlobalString("data-dir")
	if dataDir == "" {
		dataDir = config.DefaultDataDir()
	}

	cfg := config.DefaultConfig()
	if loaded, err := config.LoadConfig(config.ConfigPath(dataDir)); err == nil {
		cfg = loaded
	}
	if v := c.GlobalString("network"); v != "" {
		cfg.Network = v
	}
	if v := c.GlobalString("url"); v != "" {
		cfg.RPCURL = v
	}
	if v := c.GlobalString("keypair"); v != "" {
		cfg.KeypairPath = v
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	payer, err := loadOrCreatePayer(cfg.KeypairPath)
	if err != nil {
		return nil, err
	}

	env := &environment{cfg: cfg, payer: payer}

	if cfg.Network == "sim" {
		store, err := faucet.OpenBoltStore(filepath.Join(dataDir, "sim.db"))
		if err != nil {
			return nil, err
		}
		env.svc = faucet.NewSimulator(store)
		env.closer = store.Close
	} else {
		rpcCfg, err := ledger.ResolveConfig(&ledger.RPCConfig{URL: cfg.RPCURL}, envMap(), cfg.Network)
		if err != nil {
			return nil, err
		}
		env.svc = ledger.NewRPCClient(*rpcCfg)
	}

	env.client = client.New(env.svc)
	return env, nil
}

// loadOrCreatePayer loads the payer keypair, generating and saving a fresh
// one on first run.
func loadOrCreatePayer(path string) (*keys.Keypair, error) {
	kp, err := wallet.LoadKeypair(path)
	if err == nil {
		return kp, nil
	}
	if !os.IsNotExist(unwrapPathError(err)) {
		return nil, err
	}
	kp, err = keys.NewKeypair()
	if err != nil {
		return nil, err
	}
	if err := wallet.SaveKeypair(path, kp); err != nil {
		return nil, err
	}
	fmt.Printf("Created new payer keypair at %s: %s\n", path, kp.Address())
	return kp, nil
}

func unwrapPathError(err error) error {
	for {
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return err
		}
		inner := u.Unwrap()
		if inner == nil {
			return err
		}
		err = inner
	}
}

// devnetGenesisHash identifies the public devnet. Mutating commands check it
// so a mistyped --url cannot point devnet traffic at another network.
const devnetGenesisHash = "EtWTRABZaYq6iMfeYKouRu166VU2xqa1wcaWoxPkrZBG"

func guardNetwork(ctx context.Context, env *environment) error {
	if env.cfg.Network != "devnet" {
		return nil
	}
	hash, err := env.svc.GenesisHash(ctx)
	if err != nil {
		return fmt.Errorf("cannot verify network genesis: %w", err)
	}
	if hash != devnetGenesisHash {
		return fmt.Errorf("endpoint genesis %s does not match devnet", hash)
	}
	return nil
}

// ensurePayerFunded tops up a near-empty payer via the network airdrop so a
// brand-new wallet can cover its first claim fee.
func ensurePayerFunded(ctx context.Context, env *environment) error {
	if err := guardNetwork(ctx, env); err != nil {
		return err
	}
	balance, err := env.svc.GetBalance(ctx, env.payer.Address())
	if err != nil {
		return err
	}
	if balance >= faucet.FeePerSignature {
		return nil
	}
	if _, err := env.svc.RequestAirdrop(ctx, env.payer.Address(), unitsPerToken); err != nil {
		return fmt.Errorf("payer wallet is empty and airdrop failed: %w", err)
	}
	return nil
}

func envMap() map[string]string {
	out := make(map[string]string)
	if v := os.Getenv("POWFAUCET_RPC_URL"); v != "" {
		out["POWFAUCET_RPC_URL"] = v
	}
	return out
}

// tokenAmount converts a --reward flag value into base units.
func tokenAmount(tokens float64) uint64 {
	return uint64(tokens * unitsPerToken)
}
