package ledger

import "fmt"

// RPCConfig holds the connection parameters for a ledger node's JSON-RPC
// interface.
type RPCConfig struct {
	URL     string `json:"url"`
	Network string `json:"network"`
}

// NetworkPresets contains default RPC endpoints for known networks.
// Public networks are intentionally omitted to require explicit
// configuration.
var NetworkPresets = map[string]RPCConfig{
	"localnet": {URL: "http://localhost:8899"},
}

// ResolveConfig merges RPC configuration from three sources with decreasing
// priority:
//  1. CLI flags (highest priority)
//  2. Environment variables (POWFAUCET_RPC_URL)
//  3. Network presets (lowest priority, localnet only)
//
// Short aliases "local" and "l" resolve to localnet.
func ResolveConfig(flags *RPCConfig, env map[string]string, network string) (*RPCConfig, error) {
	switch network {
	case "local", "l", "localhost":
		network = "localnet"
	}
	result := RPCConfig{Network: network}

	if preset, ok := NetworkPresets[network]; ok {
		result = preset
		result.Network = network
	}

	if env != nil {
		if v, ok := env["POWFAUCET_RPC_URL"]; ok && v != "" {
			result.URL = v
		}
	}

	if flags != nil {
		if flags.URL != "" {
			result.URL = flags.URL
		}
	}

	if result.URL == "" {
		return nil, fmt.Errorf("%w: %s requires explicit RPC configuration (set --url or POWFAUCET_RPC_URL)",
			ErrUnknownNetwork, network)
	}

	return &result, nil
}
