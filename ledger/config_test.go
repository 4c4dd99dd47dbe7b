package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfigPreset(t *testing.T) {
	cfg, err := ResolveConfig(nil, nil, "localnet")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8899", cfg.URL)
	assert.Equal(t, "localnet", cfg.Network)
}

func TestResolveConfigAliases(t *testing.T) {
	for _, alias := range []string{"local", "l", "localhost"} {
		cfg, err := ResolveConfig(nil, nil, alias)
		require.NoError(t, err, alias)
		assert.Equal(t, "localnet", cfg.Network, alias)
		assert.Equal(t, "http://localhost:8899", cfg.URL, alias)
	}
}

func TestResolveConfigEnvOverridesPreset(t *testing.T) {
	env := map[string]string{"POWFAUCET_RPC_URL": "http://envhost:1234"}
	cfg, err := ResolveConfig(nil, env, "localnet")
	require.NoError(t, err)
	assert.Equal(t, "http://envhost:1234", cfg.URL)
}

func TestResolveConfigFlagsWin(t *testing.T) {
	env := map[string]string{"POWFAUCET_RPC_URL": "http://envhost:1234"}
	flags := &RPCConfig{URL: "http://flaghost:5678"}
	cfg, err := ResolveConfig(flags, env, "localnet")
	require.NoError(t, err)
	assert.Equal(t, "http://flaghost:5678", cfg.URL)
}

func TestResolveConfigUnknownNetworkRequiresURL(t *testing.T) {
	_, err := ResolveConfig(nil, nil, "devnet")
	assert.ErrorIs(t, err, ErrUnknownNetwork)

	cfg, err := ResolveConfig(&RPCConfig{URL: "http://devhost:8899"}, nil, "devnet")
	require.NoError(t, err)
	assert.Equal(t, "http://devhost:8899", cfg.URL)
	assert.Equal(t, "devnet", cfg.Network)
}

func TestResolveConfigEmptyFlagURLIgnored(t *testing.T) {
	cfg, err := ResolveConfig(&RPCConfig{}, nil, "localnet")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8899", cfg.URL)
}
