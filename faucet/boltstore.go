package faucet

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/powfaucetorg/libpowfaucet-go/keys"
	"github.com/powfaucetorg/libpowfaucet-go/ledger"
)

var bucketAccounts = []byte("accounts")

// BoltStore is a bbolt-backed AccountStore. The simulator uses it so that a
// locally simulated ledger survives restarts; tests use it with a temp
// directory.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ AccountStore = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("faucet: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("faucet: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketAccounts)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("faucet: create bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// View implements AccountStore.
func (s *BoltStore) View(fn func(StoreTx) error) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		return fn(&boltTx{bucket: tx.Bucket(bucketAccounts)})
	})
}

// Update implements AccountStore. bbolt discards the transaction when fn
// returns an error, which provides the program's rollback guarantee.
func (s *BoltStore) Update(fn func(StoreTx) error) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return fn(&boltTx{bucket: tx.Bucket(bucketAccounts)})
	})
}

type boltTx struct {
	bucket *bbolt.Bucket
}

func (t *boltTx) Account(addr keys.Address) (*ledger.Account, error) {
	data := t.bucket.Get(addr.Bytes())
	if data == nil {
		return nil, nil
	}
	var acct ledger.Account
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&acct); err != nil {
		return nil, fmt.Errorf("faucet: decode account: %w", err)
	}
	return &acct, nil
}

func (t *boltTx) SetAccount(addr keys.Address, acct *ledger.Account) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(acct); err != nil {
		return fmt.Errorf("faucet: encode account: %w", err)
	}
	if err := t.bucket.Put(addr.Bytes(), buf.Bytes()); err != nil {
		return fmt.Errorf("faucet: put account: %w", err)
	}
	return nil
}

func (t *boltTx) Range(fn func(addr keys.Address, acct *ledger.Account) error) error {
	return t.bucket.ForEach(func(k, v []byte) error {
		addr, err := keys.AddressFromBytes(k)
		if err != nil {
			return fmt.Errorf("faucet: account key: %w", err)
		}
		var acct ledger.Account
		if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&acct); err != nil {
			return fmt.Errorf("faucet: decode account: %w", err)
		}
		return fn(addr, &acct)
	})
}
