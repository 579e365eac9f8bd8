package config

import (
	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment variable read into Config.
const EnvPrefix = "CREDKEEPER_"

// parseEnv overlays CREDKEEPER_* variables. Unset variables leave the
// current value alone; unparsable ones panic.
func parseEnv(config *Config) {
	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		panic(err)
	}
}
