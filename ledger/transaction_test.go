package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powfaucetorg/libpowfaucet-go/keys"
)

func testKeypair(t *testing.T) *keys.Keypair {
	t.Helper()
	kp, err := keys.NewKeypair()
	require.NoError(t, err)
	return kp
}

func testInstruction(program keys.Address, metas ...AccountMeta) Instruction {
	return Instruction{ProgramID: program, Accounts: metas, Data: []byte{1, 2, 3}}
}

func TestRequiredSignersPayerFirstDeduplicated(t *testing.T) {
	payer := testKeypair(t)
	cosigner := testKeypair(t)
	program := testKeypair(t).Address()

	tx := NewTransaction(payer.Address(), Blockhash{},
		testInstruction(program,
			AccountMeta{Address: payer.Address(), Signer: true, Writable: true},
			AccountMeta{Address: cosigner.Address(), Signer: true},
		),
		testInstruction(program,
			AccountMeta{Address: cosigner.Address(), Signer: true},
			AccountMeta{Address: testKeypair(t).Address()}, // not a signer
		),
	)

	signers := tx.RequiredSigners()
	require.Len(t, signers, 2)
	assert.Equal(t, payer.Address(), signers[0], "payer must come first")
	assert.Equal(t, cosigner.Address(), signers[1])
}

func TestSignAndVerifySignatures(t *testing.T) {
	payer := testKeypair(t)
	cosigner := testKeypair(t)
	program := testKeypair(t).Address()

	tx := NewTransaction(payer.Address(), Blockhash{1},
		testInstruction(program,
			AccountMeta{Address: payer.Address(), Signer: true, Writable: true},
			AccountMeta{Address: cosigner.Address(), Signer: true},
		),
	)

	require.NoError(t, tx.Sign(payer, cosigner))
	assert.NoError(t, tx.VerifySignatures())

	sig, ok := tx.Signature(payer.Address())
	require.True(t, ok)
	assert.Len(t, sig, 64)
}

func TestSignMissingSigner(t *testing.T) {
	payer := testKeypair(t)
	cosigner := testKeypair(t)
	program := testKeypair(t).Address()

	tx := NewTransaction(payer.Address(), Blockhash{},
		testInstruction(program,
			AccountMeta{Address: payer.Address(), Signer: true, Writable: true},
			AccountMeta{Address: cosigner.Address(), Signer: true},
		),
	)

	err := tx.Sign(payer)
	assert.ErrorIs(t, err, ErrMissingSigner)
}

func TestVerifySignaturesDetectsTampering(t *testing.T) {
	payer := testKeypair(t)
	program := testKeypair(t).Address()

	tx := NewTransaction(payer.Address(), Blockhash{},
		testInstruction(program,
			AccountMeta{Address: payer.Address(), Signer: true, Writable: true},
		),
	)
	require.NoError(t, tx.Sign(payer))
	require.NoError(t, tx.VerifySignatures())

	// Mutating the message invalidates the stored signature.
	tx.Blockhash = Blockhash{0xFF}
	err := tx.VerifySignatures()
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestMessageDeterministic(t *testing.T) {
	payer := testKeypair(t)
	program := testKeypair(t).Address()

	tx := NewTransaction(payer.Address(), Blockhash{9},
		testInstruction(program,
			AccountMeta{Address: payer.Address(), Signer: true, Writable: true},
		),
	)
	assert.Equal(t, tx.Message(), tx.Message())

	other := NewTransaction(payer.Address(), Blockhash{10},
		testInstruction(program,
			AccountMeta{Address: payer.Address(), Signer: true, Writable: true},
		),
	)
	assert.NotEqual(t, tx.Message(), other.Message())
}

func TestEncodeLayout(t *testing.T) {
	payer := testKeypair(t)
	cosigner := testKeypair(t)
	program := testKeypair(t).Address()

	tx := NewTransaction(payer.Address(), Blockhash{},
		testInstruction(program,
			AccountMeta{Address: payer.Address(), Signer: true, Writable: true},
			AccountMeta{Address: cosigner.Address(), Signer: true},
		),
	)
	require.NoError(t, tx.Sign(payer, cosigner))

	encoded, err := tx.Encode()
	require.NoError(t, err)

	// Signature count, then 64 bytes per signer, then the message.
	require.Greater(t, len(encoded), 1+2*64)
	assert.Equal(t, byte(2), encoded[0])
	assert.Equal(t, tx.Message(), encoded[1+2*64:])

	payerSig, _ := tx.Signature(payer.Address())
	assert.Equal(t, payerSig, encoded[1:1+64])
}

func TestEncodeUnsignedFails(t *testing.T) {
	payer := testKeypair(t)
	program := testKeypair(t).Address()

	tx := NewTransaction(payer.Address(), Blockhash{},
		testInstruction(program,
			AccountMeta{Address: payer.Address(), Signer: true, Writable: true},
		),
	)
	_, err := tx.Encode()
	assert.ErrorIs(t, err, ErrMissingSigner)
}
