package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http":      "www.example:9000",
		"database_dsn":            "certs.db",
		"secret_key":              "my_secret_key",
		"token_validity_duration": "24h",
		"rpc_url":                 "http://localhost:8545",
		"contract_address":        "0x2222222222222222222222222222222222222222",
		"relayer_private_key":     "aabbcc",
		"max_priority_fee_gwei":   10,
		"max_fee_gwei":            20,
		"confirm_timeout":         "45s",
		"bulk_auth_ttl":           "30m",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "certs.db", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 24*time.Hour, cfg.TokenValidityDuration)
		assert.Equal(t, "http://localhost:8545", cfg.RPCURL)
		assert.Equal(t, "0x2222222222222222222222222222222222222222", cfg.ContractAddress)
		assert.Equal(t, "aabbcc", cfg.RelayerPrivateKey)
		assert.Equal(t, int64(10), cfg.MaxPriorityFeeGwei)
		assert.Equal(t, int64(20), cfg.MaxFeeGwei)
		assert.Equal(t, 45*time.Second, cfg.ConfirmTimeout)
		assert.Equal(t, 30*time.Minute, cfg.BulkAuthTTL)
	})

	t.Run("no flag leaves config untouched", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
		assert.Equal(t, 90*time.Second, cfg.ConfirmTimeout)
	})

	t.Run("invalid json panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o600))

		os.Args = []string{"testbin", "-c", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
