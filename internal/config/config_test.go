package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = append([]string{"testbin"}, args...)
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "credkeeper.db", c.DatabaseDSN)
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, SchemeCipher, c.SecretScheme)
	assert.Equal(t, uint8(8), c.IDMinLength)
	assert.Zero(t, c.CacheTTL, "search cache is opt-in")
	assert.Equal(t, float64(5), c.RateLimit)
	assert.Equal(t, 10, c.RateBurst)
	assert.Equal(t, "json", c.LogFormat)
	assert.Equal(t, "info", c.LogLevel)
	require.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no secret key", func(c *Config) { c.SecretKey = "" }},
		{"short salt", func(c *Config) { c.KeySalt = "salt" }},
		{"unknown scheme", func(c *Config) { c.SecretScheme = "rot13" }},
		{"no dsn", func(c *Config) { c.DatabaseDSN = "" }},
		{"negative rate", func(c *Config) { c.RateLimit = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			require.Error(t, c.Validate())
		})
	}
}

func TestResolveBinding(t *testing.T) {
	c := Config{Binding: "host-A"}
	assert.Equal(t, "host-A", c.ResolveBinding())

	c.Binding = ""
	assert.NotEmpty(t, c.ResolveBinding())
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeTempJSON(t, t.TempDir(), "cfg.json", map[string]any{
		"database_dsn":       "from-json.db",
		"endpoint_addr_grpc": "json:1",
		"log_level":          "debug",
	})
	t.Setenv("CREDKEEPER_GRPC_ADDR", "env:2")
	t.Setenv("CREDKEEPER_LOG_FORMAT", "text")
	withArgs(t, "-c", path, "-log-format", "zerolog")

	c := LoadConfig()

	assert.Equal(t, "from-json.db", c.DatabaseDSN)
	assert.Equal(t, "env:2", c.EndpointAddrGRPC)
	assert.Equal(t, "zerolog", c.LogFormat)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, SchemeCipher, c.SecretScheme)
}

func TestLoadConfig_DefaultsOnly(t *testing.T) {
	withArgs(t)
	c := LoadConfig()

	var want Config
	want.LoadDefaults()
	assert.Equal(t, &want, c)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("CREDKEEPER_SECRET_SCHEME", "hash")
	t.Setenv("CREDKEEPER_ID_MIN_LENGTH", "12")
	t.Setenv("CREDKEEPER_CACHE_TTL", "90s")
	t.Setenv("CREDKEEPER_RATE_LIMIT", "0.5")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, SchemeHash, c.SecretScheme)
	assert.Equal(t, uint8(12), c.IDMinLength)
	assert.Equal(t, 90*time.Second, c.CacheTTL)
	assert.Equal(t, 0.5, c.RateLimit)
	assert.Equal(t, "credkeeper.db", c.DatabaseDSN)
}

func TestParseEnv_BadValuePanics(t *testing.T) {
	t.Setenv("CREDKEEPER_RATE_BURST", "lots")
	var c Config
	require.Panics(t, func() { parseEnv(&c) })
}

func TestParseJson_MissingFilePanics(t *testing.T) {
	withArgs(t, "-config", filepath.Join(t.TempDir(), "absent.json"))
	var c Config
	require.Panics(t, func() { parseJson(&c) })
}
