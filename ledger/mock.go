package ledger

import (
	"context"

	"github.com/powfaucetorg/libpowfaucet-go/keys"
)

// MockService is a test double for Service.
// All function fields must be set before the corresponding method is called.
type MockService struct {
	GetAccountFn          func(ctx context.Context, addr keys.Address) (*Account, error)
	GetBalanceFn          func(ctx context.Context, addr keys.Address) (uint64, error)
	ScanAccountsByOwnerFn func(ctx context.Context, program keys.Address, dataSize int) ([]KeyedAccount, error)
	LatestBlockhashFn     func(ctx context.Context) (Blockhash, error)
	SubmitAndConfirmFn    func(ctx context.Context, tx *Transaction) (*TxResult, error)
	RequestAirdropFn      func(ctx context.Context, addr keys.Address, amount uint64) (string, error)
	GenesisHashFn         func(ctx context.Context) (string, error)
}

func (m *MockService) GetAccount(ctx context.Context, addr keys.Address) (*Account, error) {
	return m.GetAccountFn(ctx, addr)
}
func (m *MockService) GetBalance(ctx context.Context, addr keys.Address) (uint64, error) {
	return m.GetBalanceFn(ctx, addr)
}
func (m *MockService) ScanAccountsByOwner(ctx context.Context, program keys.Address, dataSize int) ([]KeyedAccount, error) {
	return m.ScanAccountsByOwnerFn(ctx, program, dataSize)
}
func (m *MockService) LatestBlockhash(ctx context.Context) (Blockhash, error) {
	return m.LatestBlockhashFn(ctx)
}
func (m *MockService) SubmitAndConfirm(ctx context.Context, tx *Transaction) (*TxResult, error) {
	return m.SubmitAndConfirmFn(ctx, tx)
}
func (m *MockService) RequestAirdrop(ctx context.Context, addr keys.Address, amount uint64) (string, error) {
	return m.RequestAirdropFn(ctx, addr, amount)
}
func (m *MockService) GenesisHash(ctx context.Context) (string, error) {
	return m.GenesisHashFn(ctx)
}
