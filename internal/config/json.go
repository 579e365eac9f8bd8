package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/credkeeper/internal/flagx"
	"github.com/dmitrijs2005/credkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Only keys present in
// the file override the current values.
type JsonConfig struct {
	DatabaseDSN      *string         `json:"database_dsn"`
	EndpointAddrGRPC *string         `json:"endpoint_addr_grpc"`
	SecretKey        *string         `json:"secret_key"`
	KeySalt          *string         `json:"key_salt"`
	SecretScheme     *string         `json:"secret_scheme"`
	IDAlphabet       *string         `json:"id_alphabet"`
	IDMinLength      *uint8          `json:"id_min_length"`
	CacheTTL         *timex.Duration `json:"cache_ttl"`
	RateLimit        *float64        `json:"rate_limit"`
	RateBurst        *int            `json:"rate_burst"`
	Binding          *string         `json:"binding"`
	Remote           *bool           `json:"remote"`
	LogFormat        *string         `json:"log_format"`
	LogLevel         *string         `json:"log_level"`
}

// parseJson overlays the file named by -c/-config, if any. An unreadable
// file or invalid JSON panics.
func parseJson(config *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setIf(&config.SecretKey, c.SecretKey)
	setIf(&config.KeySalt, c.KeySalt)
	setIf(&config.SecretScheme, c.SecretScheme)
	setIf(&config.IDAlphabet, c.IDAlphabet)
	setIf(&config.IDMinLength, c.IDMinLength)
	setIf(&config.RateLimit, c.RateLimit)
	setIf(&config.RateBurst, c.RateBurst)
	setIf(&config.Binding, c.Binding)
	setIf(&config.Remote, c.Remote)
	setIf(&config.LogFormat, c.LogFormat)
	setIf(&config.LogLevel, c.LogLevel)
	if c.CacheTTL != nil {
		config.CacheTTL = c.CacheTTL.Duration
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
