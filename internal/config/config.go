// Package config assembles runtime settings for the credkeeper server and
// CLI. Sources are applied in order, each overriding the previous one:
// built-in defaults, an optional JSON file (-c/-config), CREDKEEPER_*
// environment variables and finally command-line flags.
package config

import (
	"fmt"
	"os"
	"time"
)

// Secret storage schemes.
const (
	SchemeCipher = "cipher"
	SchemeHash   = "hash"
)

// Config holds runtime settings shared by the server and the CLI.
//
// Fields:
//   - DatabaseDSN: sqlite file path, or a postgres:// URL.
//   - EndpointAddrGRPC: gRPC bind address (server) or dial target (clients).
//   - SecretKey / KeySalt: passphrase and salt the root key is derived from.
//   - SecretScheme: "cipher" stores secrets reversibly, "hash" with argon2id.
//   - IDAlphabet / IDMinLength: public identifier encoding.
//   - CacheTTL: lifetime of cached search pages; 0 (default) disables the
//     cache. Authentication lookups are never cached.
//   - RateLimit / RateBurst: login attempts per second per peer; 0 disables.
//   - Binding: CLI token binding value; empty means the host name.
//   - Remote: CLI talks to the server at EndpointAddrGRPC instead of
//     opening the user database itself.
//   - LogFormat / LogLevel: see logging.New.
type Config struct {
	DatabaseDSN      string        `env:"DATABASE_DSN"`
	EndpointAddrGRPC string        `env:"GRPC_ADDR"`
	SecretKey        string        `env:"SECRET_KEY"`
	KeySalt          string        `env:"KEY_SALT"`
	SecretScheme     string        `env:"SECRET_SCHEME"`
	IDAlphabet       string        `env:"ID_ALPHABET"`
	IDMinLength      uint8         `env:"ID_MIN_LENGTH"`
	CacheTTL         time.Duration `env:"CACHE_TTL"`
	RateLimit        float64       `env:"RATE_LIMIT"`
	RateBurst        int           `env:"RATE_BURST"`
	Binding          string        `env:"BINDING"`
	Remote           bool          `env:"REMOTE"`
	LogFormat        string        `env:"LOG_FORMAT"`
	LogLevel         string        `env:"LOG_LEVEL"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey and KeySalt must be overridden outside development.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "credkeeper.db"
	c.EndpointAddrGRPC = ":50051"
	c.SecretKey = "secretKey"
	c.KeySalt = "credkeeper-dev-salt"
	c.SecretScheme = SchemeCipher
	c.IDAlphabet = ""
	c.IDMinLength = 8
	c.CacheTTL = 0
	c.RateLimit = 5
	c.RateBurst = 10
	c.Binding = ""
	c.Remote = false
	c.LogFormat = "json"
	c.LogLevel = "info"
}

// Validate reports settings the services cannot start with.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("config: secret key is required")
	}
	if len(c.KeySalt) < 8 {
		return fmt.Errorf("config: key salt must be at least 8 bytes")
	}
	if c.SecretScheme != SchemeCipher && c.SecretScheme != SchemeHash {
		return fmt.Errorf("config: unknown secret scheme %q", c.SecretScheme)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("config: database DSN is required")
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		return fmt.Errorf("config: rate limit and burst must not be negative")
	}
	return nil
}

// ResolveBinding returns Binding, falling back to the host name.
func (c *Config) ResolveBinding() string {
	if c.Binding != "" {
		return c.Binding
	}
	host, err := os.Hostname()
	if err != nil {
		return "localhost"
	}
	return host
}

// LoadConfig builds a Config from defaults, the JSON file, the environment
// and command-line flags. Malformed input panics, as at startup there is
// nothing sensible to fall back to.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
