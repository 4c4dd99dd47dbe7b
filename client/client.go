// Package client is the shared business logic layer over the ledger service:
// CLI commands and the mining scheduler both call it to create faucets,
// inspect them, and submit claims. It owns transaction assembly; the faucet
// package owns the semantics.
package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/powfaucetorg/libpowfaucet-go/faucet"
	"github.com/powfaucetorg/libpowfaucet-go/keys"
	"github.com/powfaucetorg/libpowfaucet-go/ledger"
	"github.com/powfaucetorg/libpowfaucet-go/registry"
)

// Client wraps a ledger service with the faucet protocol's client-side
// operations.
type Client struct {
	svc ledger.Service
}

// New creates a Client over the given ledger service.
func New(svc ledger.Service) *Client {
	return &Client{svc: svc}
}

// Service returns the underlying ledger service.
func (c *Client) Service() ledger.Service { return c.svc }

// CreateResult is the outcome of CreateFaucet.
type CreateResult struct {
	Spec          keys.Address
	Source        keys.Address
	TxID          string
	AlreadyExists bool
}

// CreateFaucet creates the Spec record for a (difficulty, reward) pair. If
// the Spec already exists the call reports that instead of failing: creation
// is idempotent by construction, since the record address is a pure function
// of the pair. Funding the source pool is a separate plain transfer.
func (c *Client) CreateFaucet(ctx context.Context, payer ledger.Signer, difficulty uint8, reward uint64) (*CreateResult, error) {
	spec, _, err := faucet.SpecAddress(difficulty, reward)
	if err != nil {
		return nil, err
	}
	source, _, err := faucet.SourceAddress(spec)
	if err != nil {
		return nil, err
	}
	result := &CreateResult{Spec: spec, Source: source}

	if _, err := c.svc.GetAccount(ctx, spec); err == nil {
		result.AlreadyExists = true
		return result, nil
	}

	blockhash, err := c.svc.LatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("client: latest blockhash: %w", err)
	}
	tx := ledger.NewTransaction(payer.Address(), blockhash,
		faucet.NewCreateInstruction(payer.Address(), spec, difficulty, reward))
	if err := tx.Sign(payer); err != nil {
		return nil, err
	}

	res, err := c.svc.SubmitAndConfirm(ctx, tx)
	if err != nil {
		if errors.Is(err, faucet.ErrSpecExists) {
			result.AlreadyExists = true
			return result, nil
		}
		return nil, fmt.Errorf("client: create faucet: %w", err)
	}
	result.TxID = res.ID
	return result, nil
}

// FaucetInfo describes one faucet's current state.
type FaucetInfo struct {
	Meta    registry.FaucetMetadata
	Exists  bool
	Balance uint64
}

// GetFaucet resolves the derived addresses for a (difficulty, reward) pair
// and reads the faucet's live state.
func (c *Client) GetFaucet(ctx context.Context, difficulty uint8, reward uint64) (*FaucetInfo, error) {
	spec, _, err := faucet.SpecAddress(difficulty, reward)
	if err != nil {
		return nil, err
	}
	source, _, err := faucet.SourceAddress(spec)
	if err != nil {
		return nil, err
	}
	info := &FaucetInfo{Meta: registry.FaucetMetadata{
		Spec:       spec,
		Source:     source,
		Difficulty: difficulty,
		Reward:     reward,
	}}

	if _, err := c.svc.GetAccount(ctx, spec); err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			return info, nil
		}
		return nil, fmt.Errorf("client: get faucet: %w", err)
	}
	info.Exists = true

	balance, err := c.svc.GetBalance(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("client: source balance: %w", err)
	}
	info.Balance = balance
	return info, nil
}

// ClaimResult is the confirmed outcome of one claim.
type ClaimResult struct {
	TxID string

	// Paid is the amount actually transferred, which is clamped to the
	// source pool's remaining balance and can be less than the nominal
	// reward (including zero) when a race drained the pool first.
	Paid uint64
}

// Claim submits a claim for the mined claimant identity against the faucet
// described by meta. The claimant co-signs to prove control of the identity;
// the payer funds the fee and receives the payout.
func (c *Client) Claim(ctx context.Context, payer, claimant ledger.Signer, meta registry.FaucetMetadata) (*ClaimResult, error) {
	receipt, _, err := faucet.ReceiptAddress(claimant.Address(), meta.Difficulty)
	if err != nil {
		return nil, err
	}

	blockhash, err := c.svc.LatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("client: latest blockhash: %w", err)
	}
	tx := ledger.NewTransaction(payer.Address(), blockhash,
		faucet.NewClaimInstruction(payer.Address(), claimant.Address(), receipt, meta.Spec, meta.Source))
	if err := tx.Sign(payer, claimant); err != nil {
		return nil, err
	}

	res, err := c.svc.SubmitAndConfirm(ctx, tx)
	if err != nil {
		return nil, err
	}

	result := &ClaimResult{TxID: res.ID}
	for _, tr := range res.Transfers {
		if tr.From == meta.Source && tr.To == payer.Address() {
			result.Paid += tr.Amount
		}
	}
	return result, nil
}
