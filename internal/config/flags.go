package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/credkeeper/internal/flagx"
)

var knownFlags = []string{
	"-a", "-d", "-k", "-salt", "-scheme", "-id-alphabet", "-id-min-length",
	"-cache-ttl", "-rate", "-burst", "-binding", "-remote", "-log-format", "-log-level",
}

// parseFlags overlays command-line flags:
//
//	-a string          gRPC address
//	-d string          database DSN (sqlite path or postgres:// URL)
//	-k string          root key passphrase
//	-salt string       root key salt
//	-scheme string     secret storage scheme: cipher or hash
//	-id-alphabet       public id alphabet
//	-id-min-length     minimum public id length
//	-cache-ttl         search cache TTL, e.g. 5m; 0 disables
//	-rate, -burst      login rate limit per peer
//	-binding           CLI token binding (default: host name)
//	-remote            CLI uses the gRPC server (write -remote=true before positional args)
//	-log-format        json, text or zerolog
//	-log-level         debug, info, warn or error
//
// Only these flags are looked at; everything else on the command line is
// left to other parsers.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC address")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "k", config.SecretKey, "root key passphrase")
	fs.StringVar(&config.KeySalt, "salt", config.KeySalt, "root key salt")
	fs.StringVar(&config.SecretScheme, "scheme", config.SecretScheme, "secret storage scheme (cipher|hash)")
	fs.StringVar(&config.IDAlphabet, "id-alphabet", config.IDAlphabet, "public id alphabet")
	minLen := fs.Uint("id-min-length", uint(config.IDMinLength), "minimum public id length")
	fs.DurationVar(&config.CacheTTL, "cache-ttl", config.CacheTTL, "search cache TTL, 0 disables")
	fs.Float64Var(&config.RateLimit, "rate", config.RateLimit, "login attempts per second per peer")
	fs.IntVar(&config.RateBurst, "burst", config.RateBurst, "login burst per peer")
	fs.StringVar(&config.Binding, "binding", config.Binding, "token binding value")
	fs.BoolVar(&config.Remote, "remote", config.Remote, "use the gRPC server")
	fs.StringVar(&config.LogFormat, "log-format", config.LogFormat, "log format (json|text|zerolog)")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
	if *minLen > 255 {
		panic("id-min-length must be at most 255")
	}
	config.IDMinLength = uint8(*minLen)
}
