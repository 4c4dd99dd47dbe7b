package ledger

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/powfaucetorg/libpowfaucet-go/keys"
)

// RPCClient is a JSON-RPC 1.0 client for a ledger node's read/write
// interface. It handles request serialization, response parsing, and the
// mapping from RPC methods onto the Service interface.
type RPCClient struct {
	url    string
	client *http.Client
	nextID atomic.Int64
}

// rpcRequest represents a JSON-RPC 1.0 request payload.
type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int64         `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// rpcResponse represents a JSON-RPC 1.0 response payload.
type rpcResponse struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// rpcError represents an error returned by the JSON-RPC server.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewRPCClient creates a client for the node at url with a pooled HTTP
// transport.
func NewRPCClient(cfg RPCConfig) *RPCClient {
	return &RPCClient{
		url: cfg.URL,
		client: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
	}
}

// Compile-time interface check.
var _ Service = (*RPCClient)(nil)

// Call invokes a JSON-RPC method on the node. If result is nil the response
// result is discarded.
//
// Call returns ErrConnectionFailed if the HTTP request fails and
// ErrInvalidResponse if the response cannot be decoded. RPC-level errors are
// returned as plain errors carrying the server's message, which the claim
// flow classifies further (see the client package).
func (c *RPCClient) Call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	if params == nil {
		params = []interface{}{}
	}
	reqBody := rpcRequest{
		JSONRPC: "1.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("ledger: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ledger: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: HTTP %d: %s", ErrConnectionFailed, resp.StatusCode, string(respBody))
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrInvalidResponse, err)
	}

	if rpcResp.ID != reqBody.ID {
		return fmt.Errorf("%w: response ID mismatch: expected %d, got %d",
			ErrInvalidResponse, reqBody.ID, rpcResp.ID)
	}

	if rpcResp.Error != nil {
		return fmt.Errorf("ledger: rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}

	if result != nil && rpcResp.Result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("%w: unmarshal result: %w", ErrInvalidResponse, err)
		}
	}

	return nil
}

// accountInfo is the wire form of an account in RPC responses. Data is hex.
type accountInfo struct {
	Owner   string `json:"owner"`
	Balance uint64 `json:"balance"`
	Data    string `json:"data"`
}

func (a *accountInfo) decode() (*Account, error) {
	owner, err := keys.AddressFromBase58(a.Owner)
	if err != nil {
		return nil, fmt.Errorf("%w: owner: %w", ErrInvalidResponse, err)
	}
	data, err := hex.DecodeString(a.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: account data: %w", ErrInvalidResponse, err)
	}
	return &Account{Owner: owner, Balance: a.Balance, Data: data}, nil
}

// GetAccount implements Service.
func (c *RPCClient) GetAccount(ctx context.Context, addr keys.Address) (*Account, error) {
	var info *accountInfo
	if err := c.Call(ctx, "getAccountInfo", []interface{}{addr.String()}, &info); err != nil {
		return nil, err
	}
	if info == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}
	return info.decode()
}

// GetBalance implements Service. Absent accounts report a zero balance.
func (c *RPCClient) GetBalance(ctx context.Context, addr keys.Address) (uint64, error) {
	var balance uint64
	if err := c.Call(ctx, "getBalance", []interface{}{addr.String()}, &balance); err != nil {
		return 0, err
	}
	return balance, nil
}

// ScanAccountsByOwner implements Service.
func (c *RPCClient) ScanAccountsByOwner(ctx context.Context, program keys.Address, dataSize int) ([]KeyedAccount, error) {
	params := []interface{}{program.String()}
	if dataSize >= 0 {
		params = append(params, map[string]interface{}{"dataSize": dataSize})
	}
	var raw []struct {
		Address string      `json:"address"`
		Account accountInfo `json:"account"`
	}
	if err := c.Call(ctx, "getProgramAccounts", params, &raw); err != nil {
		return nil, err
	}
	out := make([]KeyedAccount, 0, len(raw))
	for _, entry := range raw {
		addr, err := keys.AddressFromBase58(entry.Address)
		if err != nil {
			return nil, fmt.Errorf("%w: account address: %w", ErrInvalidResponse, err)
		}
		acct, err := entry.Account.decode()
		if err != nil {
			return nil, err
		}
		out = append(out, KeyedAccount{Address: addr, Account: *acct})
	}
	return out, nil
}

// LatestBlockhash implements Service.
func (c *RPCClient) LatestBlockhash(ctx context.Context) (Blockhash, error) {
	var hashHex string
	if err := c.Call(ctx, "getLatestBlockhash", nil, &hashHex); err != nil {
		return Blockhash{}, err
	}
	raw, err := hex.DecodeString(hashHex)
	if err != nil || len(raw) != len(Blockhash{}) {
		return Blockhash{}, fmt.Errorf("%w: blockhash %q", ErrInvalidResponse, hashHex)
	}
	var bh Blockhash
	copy(bh[:], raw)
	return bh, nil
}

// SubmitAndConfirm implements Service. The node rejects a transaction as a
// unit, so a returned error means none of its effects are visible.
func (c *RPCClient) SubmitAndConfirm(ctx context.Context, tx *Transaction) (*TxResult, error) {
	encoded, err := tx.Encode()
	if err != nil {
		return nil, err
	}
	var resp struct {
		ID        string `json:"id"`
		Transfers []struct {
			From   string `json:"from"`
			To     string `json:"to"`
			Amount uint64 `json:"amount"`
		} `json:"transfers"`
	}
	if err := c.Call(ctx, "sendAndConfirmTransaction", []interface{}{hex.EncodeToString(encoded)}, &resp); err != nil {
		return nil, err
	}
	result := &TxResult{ID: resp.ID}
	for _, t := range resp.Transfers {
		from, err := keys.AddressFromBase58(t.From)
		if err != nil {
			return nil, fmt.Errorf("%w: transfer source: %w", ErrInvalidResponse, err)
		}
		to, err := keys.AddressFromBase58(t.To)
		if err != nil {
			return nil, fmt.Errorf("%w: transfer destination: %w", ErrInvalidResponse, err)
		}
		result.Transfers = append(result.Transfers, Transfer{From: from, To: to, Amount: t.Amount})
	}
	return result, nil
}

// RequestAirdrop implements Service.
func (c *RPCClient) RequestAirdrop(ctx context.Context, addr keys.Address, amount uint64) (string, error) {
	var txid string
	if err := c.Call(ctx, "requestAirdrop", []interface{}{addr.String(), amount}, &txid); err != nil {
		return "", err
	}
	return txid, nil
}

// GenesisHash implements Service.
func (c *RPCClient) GenesisHash(ctx context.Context) (string, error) {
	var hash string
	if err := c.Call(ctx, "getGenesisHash", nil, &hash); err != nil {
		return "", err
	}
	return hash, nil
}
