package faucet

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powfaucetorg/libpowfaucet-go/keys"
	"github.com/powfaucetorg/libpowfaucet-go/ledger"
)

func tempSimulator(t *testing.T) *Simulator {
	t.Helper()
	store, err := OpenBoltStore(filepath.Join(t.TempDir(), "sim.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewSimulator(store)
}

func fundedKeypair(t *testing.T, sim *Simulator, amount uint64) *keys.Keypair {
	t.Helper()
	kp, err := keys.NewKeypair()
	require.NoError(t, err)
	_, err = sim.RequestAirdrop(context.Background(), kp.Address(), amount)
	require.NoError(t, err)
	return kp
}

// mineKeypair searches for an identity whose prefix length is exactly want.
// Expected cost is 58^want generations, so tests stay at 0 or 1.
func mineKeypair(t *testing.T, want int) *keys.Keypair {
	t.Helper()
	for i := 0; i < 100_000; i++ {
		kp, err := keys.NewKeypair()
		require.NoError(t, err)
		if keys.LeadingPrefixLen(kp.Address()) == want {
			return kp
		}
	}
	t.Fatalf("no keypair with prefix %d found", want)
	return nil
}

func createSpec(t *testing.T, sim *Simulator, payer *keys.Keypair, difficulty uint8, reward uint64) (spec, source keys.Address) {
	t.Helper()
	ctx := context.Background()

	spec, _, err := SpecAddress(difficulty, reward)
	require.NoError(t, err)
	source, _, err = SourceAddress(spec)
	require.NoError(t, err)

	bh, err := sim.LatestBlockhash(ctx)
	require.NoError(t, err)
	tx := ledger.NewTransaction(payer.Address(), bh,
		NewCreateInstruction(payer.Address(), spec, difficulty, reward))
	require.NoError(t, tx.Sign(payer))
	_, err = sim.SubmitAndConfirm(ctx, tx)
	require.NoError(t, err)
	return spec, source
}

func submitClaim(t *testing.T, sim *Simulator, payer, claimant *keys.Keypair, spec, source keys.Address, difficulty uint8) (*ledger.TxResult, error) {
	t.Helper()
	ctx := context.Background()

	receipt, _, err := ReceiptAddress(claimant.Address(), difficulty)
	require.NoError(t, err)

	bh, err := sim.LatestBlockhash(ctx)
	require.NoError(t, err)
	tx := ledger.NewTransaction(payer.Address(), bh,
		NewClaimInstruction(payer.Address(), claimant.Address(), receipt, spec, source))
	require.NoError(t, tx.Sign(payer, claimant))
	return sim.SubmitAndConfirm(ctx, tx)
}

const (
	testReward = uint64(1_000_000)
	payerFunds = uint64(10_000_000)
)

func TestCreateSpec(t *testing.T) {
	sim := tempSimulator(t)
	payer := fundedKeypair(t, sim, payerFunds)

	spec, _ := createSpec(t, sim, payer, 2, testReward)

	acct, err := sim.GetAccount(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, ProgramID, acct.Owner)

	record, err := DecodeSpecRecord(acct.Data)
	require.NoError(t, err)
	assert.Equal(t, SpecRecord{Difficulty: 2, Reward: testReward}, record)
}

func TestCreateSpecDuplicate(t *testing.T) {
	sim := tempSimulator(t)
	payer := fundedKeypair(t, sim, payerFunds)
	ctx := context.Background()

	spec, _ := createSpec(t, sim, payer, 2, testReward)

	bh, err := sim.LatestBlockhash(ctx)
	require.NoError(t, err)
	tx := ledger.NewTransaction(payer.Address(), bh,
		NewCreateInstruction(payer.Address(), spec, 2, testReward))
	require.NoError(t, tx.Sign(payer))
	_, err = sim.SubmitAndConfirm(ctx, tx)
	assert.ErrorIs(t, err, ErrSpecExists)
}

func TestCreateSpecWrongAddress(t *testing.T) {
	sim := tempSimulator(t)
	payer := fundedKeypair(t, sim, payerFunds)
	ctx := context.Background()

	wrong, err := keys.NewKeypair()
	require.NoError(t, err)

	bh, err := sim.LatestBlockhash(ctx)
	require.NoError(t, err)
	tx := ledger.NewTransaction(payer.Address(), bh,
		NewCreateInstruction(payer.Address(), wrong.Address(), 2, testReward))
	require.NoError(t, tx.Sign(payer))
	_, err = sim.SubmitAndConfirm(ctx, tx)
	assert.ErrorIs(t, err, ErrAccountMismatch)
}

func TestClaimPaysReward(t *testing.T) {
	sim := tempSimulator(t)
	ctx := context.Background()
	payer := fundedKeypair(t, sim, payerFunds)
	claimant := mineKeypair(t, 1)

	spec, source := createSpec(t, sim, payer, 1, testReward)
	_, err := sim.RequestAirdrop(ctx, source, 5*testReward)
	require.NoError(t, err)

	before, err := sim.GetBalance(ctx, payer.Address())
	require.NoError(t, err)

	res, err := submitClaim(t, sim, payer, claimant, spec, source, 1)
	require.NoError(t, err)
	require.Len(t, res.Transfers, 1)
	assert.Equal(t, ledger.Transfer{From: source, To: payer.Address(), Amount: testReward}, res.Transfers[0])
	assert.NotEmpty(t, res.ID)

	// Payer paid two signature fees and received the reward.
	after, err := sim.GetBalance(ctx, payer.Address())
	require.NoError(t, err)
	assert.Equal(t, before-2*FeePerSignature+testReward, after)

	poolBalance, err := sim.GetBalance(ctx, source)
	require.NoError(t, err)
	assert.Equal(t, 4*testReward, poolBalance)

	receipt, _, err := ReceiptAddress(claimant.Address(), 1)
	require.NoError(t, err)
	acct, err := sim.GetAccount(ctx, receipt)
	require.NoError(t, err)
	assert.Equal(t, ProgramID, acct.Owner)
	assert.True(t, IsReceiptRecord(acct.Data))
}

func TestClaimReplayRejected(t *testing.T) {
	sim := tempSimulator(t)
	ctx := context.Background()
	payer := fundedKeypair(t, sim, payerFunds)
	claimant := mineKeypair(t, 1)

	spec, source := createSpec(t, sim, payer, 1, testReward)
	_, err := sim.RequestAirdrop(ctx, source, 5*testReward)
	require.NoError(t, err)

	_, err = submitClaim(t, sim, payer, claimant, spec, source, 1)
	require.NoError(t, err)

	poolBefore, err := sim.GetBalance(ctx, source)
	require.NoError(t, err)
	payerBefore, err := sim.GetBalance(ctx, payer.Address())
	require.NoError(t, err)

	_, err = submitClaim(t, sim, payer, claimant, spec, source, 1)
	assert.ErrorIs(t, err, ErrReceiptExists)

	// The rejected transaction left no trace, fee included.
	poolAfter, err := sim.GetBalance(ctx, source)
	require.NoError(t, err)
	assert.Equal(t, poolBefore, poolAfter)
	payerAfter, err := sim.GetBalance(ctx, payer.Address())
	require.NoError(t, err)
	assert.Equal(t, payerBefore, payerAfter)
}

func TestClaimReplayAcrossSameDifficulty(t *testing.T) {
	sim := tempSimulator(t)
	ctx := context.Background()
	payer := fundedKeypair(t, sim, payerFunds)
	claimant := mineKeypair(t, 1)

	// Two pools at the same difficulty with different rewards share the
	// receipt key, so one identity claims from at most one of them.
	specA, sourceA := createSpec(t, sim, payer, 1, testReward)
	specB, sourceB := createSpec(t, sim, payer, 1, 2*testReward)
	_, err := sim.RequestAirdrop(ctx, sourceA, 5*testReward)
	require.NoError(t, err)
	_, err = sim.RequestAirdrop(ctx, sourceB, 5*testReward)
	require.NoError(t, err)

	_, err = submitClaim(t, sim, payer, claimant, specA, sourceA, 1)
	require.NoError(t, err)

	_, err = submitClaim(t, sim, payer, claimant, specB, sourceB, 1)
	assert.ErrorIs(t, err, ErrReceiptExists)
}

func TestClaimProofOfWorkRejected(t *testing.T) {
	sim := tempSimulator(t)
	ctx := context.Background()
	payer := fundedKeypair(t, sim, payerFunds)
	claimant := mineKeypair(t, 0)

	spec, source := createSpec(t, sim, payer, 1, testReward)
	_, err := sim.RequestAirdrop(ctx, source, 5*testReward)
	require.NoError(t, err)

	payerBefore, err := sim.GetBalance(ctx, payer.Address())
	require.NoError(t, err)

	_, err = submitClaim(t, sim, payer, claimant, spec, source, 1)
	assert.ErrorIs(t, err, ErrProofOfWorkRejected)

	// Fee debit rolled back with the rest of the transaction.
	payerAfter, err := sim.GetBalance(ctx, payer.Address())
	require.NoError(t, err)
	assert.Equal(t, payerBefore, payerAfter)
}

func TestClaimClampsToPoolBalance(t *testing.T) {
	sim := tempSimulator(t)
	ctx := context.Background()
	payer := fundedKeypair(t, sim, payerFunds)
	claimant := mineKeypair(t, 1)

	spec, source := createSpec(t, sim, payer, 1, testReward)
	_, err := sim.RequestAirdrop(ctx, source, testReward/2)
	require.NoError(t, err)

	res, err := submitClaim(t, sim, payer, claimant, spec, source, 1)
	require.NoError(t, err)
	require.Len(t, res.Transfers, 1)
	assert.Equal(t, testReward/2, res.Transfers[0].Amount)

	poolBalance, err := sim.GetBalance(ctx, source)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), poolBalance)
}

func TestClaimEmptyPoolSpendsClaimRight(t *testing.T) {
	sim := tempSimulator(t)
	payer := fundedKeypair(t, sim, payerFunds)
	claimant := mineKeypair(t, 1)

	// Never funded: the claim succeeds, pays nothing, and still consumes
	// the claim right.
	spec, source := createSpec(t, sim, payer, 1, testReward)

	res, err := submitClaim(t, sim, payer, claimant, spec, source, 1)
	require.NoError(t, err)
	assert.Empty(t, res.Transfers)

	_, err = submitClaim(t, sim, payer, claimant, spec, source, 1)
	assert.ErrorIs(t, err, ErrReceiptExists)
}

func TestClaimWrongSourceRejected(t *testing.T) {
	sim := tempSimulator(t)
	ctx := context.Background()
	payer := fundedKeypair(t, sim, payerFunds)
	claimant := mineKeypair(t, 1)

	spec, source := createSpec(t, sim, payer, 1, testReward)
	_, err := sim.RequestAirdrop(ctx, source, 5*testReward)
	require.NoError(t, err)

	// Point the claim at an unrelated funded account.
	decoy := fundedKeypair(t, sim, 5*testReward)
	_, err = submitClaim(t, sim, payer, claimant, spec, decoy.Address(), 1)
	assert.ErrorIs(t, err, ErrAccountMismatch)

	// Nothing was spent.
	receipt, _, err := ReceiptAddress(claimant.Address(), 1)
	require.NoError(t, err)
	_, err = sim.GetAccount(ctx, receipt)
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
}

func TestClaimSpecMissing(t *testing.T) {
	sim := tempSimulator(t)
	payer := fundedKeypair(t, sim, payerFunds)
	claimant := mineKeypair(t, 1)

	spec, _, err := SpecAddress(1, testReward)
	require.NoError(t, err)
	source, _, err := SourceAddress(spec)
	require.NoError(t, err)

	_, err = submitClaim(t, sim, payer, claimant, spec, source, 1)
	assert.ErrorIs(t, err, ErrSpecNotFound)
}

func TestSubmitInsufficientFeeFunds(t *testing.T) {
	sim := tempSimulator(t)
	ctx := context.Background()
	funded := fundedKeypair(t, sim, payerFunds)
	broke := fundedKeypair(t, sim, FeePerSignature-1)
	claimant := mineKeypair(t, 1)

	spec, source := createSpec(t, sim, funded, 1, testReward)
	_, err := sim.RequestAirdrop(ctx, source, 5*testReward)
	require.NoError(t, err)

	_, err = submitClaim(t, sim, broke, claimant, spec, source, 1)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestSubmitRejectsUnknownProgram(t *testing.T) {
	sim := tempSimulator(t)
	ctx := context.Background()
	payer := fundedKeypair(t, sim, payerFunds)

	other, err := keys.NewKeypair()
	require.NoError(t, err)
	bh, err := sim.LatestBlockhash(ctx)
	require.NoError(t, err)
	tx := ledger.NewTransaction(payer.Address(), bh, ledger.Instruction{
		ProgramID: other.Address(),
		Accounts: []ledger.AccountMeta{
			{Address: payer.Address(), Signer: true, Writable: true},
		},
		Data: EncodeClaimData(),
	})
	require.NoError(t, tx.Sign(payer))
	_, err = sim.SubmitAndConfirm(ctx, tx)
	assert.ErrorIs(t, err, ErrUnknownProgram)
}

func TestScanAccountsByOwnerSizeFilter(t *testing.T) {
	sim := tempSimulator(t)
	ctx := context.Background()
	payer := fundedKeypair(t, sim, payerFunds)
	claimant := mineKeypair(t, 1)

	spec, source := createSpec(t, sim, payer, 1, testReward)
	_, err := sim.RequestAirdrop(ctx, source, 5*testReward)
	require.NoError(t, err)
	_, err = submitClaim(t, sim, payer, claimant, spec, source, 1)
	require.NoError(t, err)

	// Size-filtered scan sees the spec but not the receipt.
	specs, err := sim.ScanAccountsByOwner(ctx, ProgramID, SpecRecordSize)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, spec, specs[0].Address)

	// Unfiltered scan sees both.
	all, err := sim.ScanAccountsByOwner(ctx, ProgramID, -1)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSimulatorBalanceAndGenesis(t *testing.T) {
	sim := tempSimulator(t)
	ctx := context.Background()

	kp, err := keys.NewKeypair()
	require.NoError(t, err)
	balance, err := sim.GetBalance(ctx, kp.Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), balance, "absent accounts report zero")

	hash, err := sim.GenesisHash(ctx)
	require.NoError(t, err)
	assert.Equal(t, SimGenesisHash, hash)
}
