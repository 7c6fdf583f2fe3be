package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/certledger/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      session token validity, hours
//	-n string   chain JSON-RPC URL
//	-k string   certificate contract address
//	-w string   relayer private key (hex)
//	-y int      max priority fee, gwei
//	-f int      max fee, gwei
//	-o int      confirmation wait timeout, seconds
//	-l int      bulk authorization TTL, minutes
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers and converted to time.Duration.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-n", "-k", "-w", "-y", "-f", "-o", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Hours()), "token_validity_duration (in hours)")

	fs.StringVar(&config.RPCURL, "n", config.RPCURL, "chain JSON-RPC URL")
	fs.StringVar(&config.ContractAddress, "k", config.ContractAddress, "certificate contract address")
	fs.StringVar(&config.RelayerPrivateKey, "w", config.RelayerPrivateKey, "relayer private key (hex)")
	fs.Int64Var(&config.MaxPriorityFeeGwei, "y", config.MaxPriorityFeeGwei, "max priority fee (gwei)")
	fs.Int64Var(&config.MaxFeeGwei, "f", config.MaxFeeGwei, "max fee (gwei)")

	confirmTimeout := fs.Int("o", int(config.ConfirmTimeout.Seconds()), "confirmation timeout (in seconds)")
	bulkAuthTTL := fs.Int("l", int(config.BulkAuthTTL.Minutes()), "bulk authorization TTL (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Hour
	config.ConfirmTimeout = time.Duration(*confirmTimeout) * time.Second
	config.BulkAuthTTL = time.Duration(*bulkAuthTTL) * time.Minute
}
