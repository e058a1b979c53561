package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/passvault/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC health bind address (e.g., ":50051")
//	-d string   database DSN
//	-s string   JWT HMAC secret key
//	-i string   token issuer
//	-u string   token audience
//	-t int      access token validity, minutes
//	-k string   secret protection master key
//	-n int      PBKDF2 iterations
//	-h int      storage health probe interval, seconds
//	-l string   log level: debug, info, warn, error
//
// Duration flags are integers and converted to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-d", "-s", "-i", "-u", "-t", "-k", "-n", "-h", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run the HTTP API")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "address and port to run the gRPC health service")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN (empty for in-memory)")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing key")
	fs.StringVar(&config.TokenIssuer, "i", config.TokenIssuer, "token issuer")
	fs.StringVar(&config.TokenAudience, "u", config.TokenAudience, "token audience")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")

	fs.StringVar(&config.ProtectionKey, "k", config.ProtectionKey, "secret protection key")
	fs.IntVar(&config.HashIterations, "n", config.HashIterations, "PBKDF2 iterations")

	healthCheckInterval := fs.Int("h", int(config.HealthCheckInterval.Seconds()), "health_check_interval (in seconds)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.HealthCheckInterval = time.Duration(*healthCheckInterval) * time.Second
}
