package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/certledger/internal/flagx"
	"github.com/dmitrijs2005/certledger/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "90s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	RPCURL                string         `json:"rpc_url"`
	ContractAddress       string         `json:"contract_address"`
	RelayerPrivateKey     string         `json:"relayer_private_key"`
	MaxPriorityFeeGwei    int64          `json:"max_priority_fee_gwei"`
	MaxFeeGwei            int64          `json:"max_fee_gwei"`
	ConfirmTimeout        timex.Duration `json:"confirm_timeout"`
	BulkAuthTTL           timex.Duration `json:"bulk_auth_ttl"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The lookup order for the JSON file path is:
//
//	The -c or -config command-line flags.
//	If it is not set, no JSON file is loaded.
//
// If the file path is found, parseJson attempts to read and unmarshal it
// into a JsonConfig. The resulting values are copied into the target Config.
// If the file cannot be read or contains invalid JSON, the function panics.
//
// The caller is expected to merge these values with defaults and
// command-line flags as part of the full configuration process.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.TokenValidityDuration = time.Duration(c.TokenValidityDuration.Duration)
	config.RPCURL = c.RPCURL
	config.ContractAddress = c.ContractAddress
	config.RelayerPrivateKey = c.RelayerPrivateKey
	config.MaxPriorityFeeGwei = c.MaxPriorityFeeGwei
	config.MaxFeeGwei = c.MaxFeeGwei
	config.ConfirmTimeout = time.Duration(c.ConfirmTimeout.Duration)
	config.BulkAuthTTL = time.Duration(c.BulkAuthTTL.Duration)
}
