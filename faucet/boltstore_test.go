package faucet

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powfaucetorg/libpowfaucet-go/keys"
	"github.com/powfaucetorg/libpowfaucet-go/ledger"
)

func testAddress(t *testing.T) keys.Address {
	t.Helper()
	kp, err := keys.NewKeypair()
	require.NoError(t, err)
	return kp.Address()
}

func TestBoltStorePutAndGet(t *testing.T) {
	store, err := OpenBoltStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	addr := testAddress(t)
	acct := &ledger.Account{Owner: ProgramID, Balance: 500, Data: []byte{1, 2, 3}}
	require.NoError(t, store.Update(func(tx StoreTx) error {
		return tx.SetAccount(addr, acct)
	}))

	err = store.View(func(tx StoreTx) error {
		got, err := tx.Account(addr)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, acct, got)

		missing, err := tx.Account(testAddress(t))
		require.NoError(t, err)
		assert.Nil(t, missing)
		return nil
	})
	require.NoError(t, err)
}

func TestBoltStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	addr := testAddress(t)

	store, err := OpenBoltStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Update(func(tx StoreTx) error {
		return tx.SetAccount(addr, &ledger.Account{Balance: 123})
	}))
	require.NoError(t, store.Close())

	store, err = OpenBoltStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	err = store.View(func(tx StoreTx) error {
		got, err := tx.Account(addr)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, uint64(123), got.Balance)
		return nil
	})
	require.NoError(t, err)
}

func TestBoltStoreUpdateRollsBackOnError(t *testing.T) {
	store, err := OpenBoltStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	addr := testAddress(t)
	boom := errors.New("boom")

	err = store.Update(func(tx StoreTx) error {
		if err := tx.SetAccount(addr, &ledger.Account{Balance: 999}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = store.View(func(tx StoreTx) error {
		got, err := tx.Account(addr)
		require.NoError(t, err)
		assert.Nil(t, got, "failed update must leave no trace")
		return nil
	})
	require.NoError(t, err)
}

func TestBoltStoreRange(t *testing.T) {
	store, err := OpenBoltStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	want := map[keys.Address]uint64{
		testAddress(t): 1,
		testAddress(t): 2,
		testAddress(t): 3,
	}
	require.NoError(t, store.Update(func(tx StoreTx) error {
		for addr, balance := range want {
			if err := tx.SetAccount(addr, &ledger.Account{Balance: balance}); err != nil {
				return err
			}
		}
		return nil
	}))

	got := make(map[keys.Address]uint64)
	err = store.View(func(tx StoreTx) error {
		return tx.Range(func(addr keys.Address, acct *ledger.Account) error {
			got[addr] = acct.Balance
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
