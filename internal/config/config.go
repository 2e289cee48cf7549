// Package config loads the reader's ambient, non-positional settings —
// log level, sink paths, strict msg_size checking, metrics summary
// toggle — from environment variables into a typed struct with
// mapstructure tags, populated through Viper. None of this changes the
// wire protocol or snapshot grammar; the one positional CLI argument
// (`levels`) stays a plain flag.Arg read in cmd/depthfeed, not part of
// this struct.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds every environment-tunable setting this reader honors.
type Config struct {
	LogLevel       string `mapstructure:"log_level"`
	OutputLog      string `mapstructure:"output_log"`
	DebugLog       string `mapstructure:"debug_log"`
	StrictMsgSize  bool   `mapstructure:"strict_msg_size"`
	MetricsSummary bool   `mapstructure:"metrics_summary"`
}

// Default returns the configuration a bare invocation runs with.
func Default() Config {
	return Config{
		LogLevel:       "info",
		OutputLog:      "output.log",
		DebugLog:       "debug.log",
		StrictMsgSize:  true,
		MetricsSummary: true,
	}
}

// Load reads DEPTHFEED_-prefixed environment variables over the
// defaults and returns the resulting Config.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DEPTHFEED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("output_log", def.OutputLog)
	v.SetDefault("debug_log", def.DebugLog)
	v.SetDefault("strict_msg_size", def.StrictMsgSize)
	v.SetDefault("metrics_summary", def.MetricsSummary)

	// Unmarshal doesn't consult AutomaticEnv for keys it hasn't seen bound
	// explicitly, so every key needs its own BindEnv even though the prefix
	// and replacer are already set.
	for _, key := range []string{"log_level", "output_log", "debug_log", "strict_msg_size", "metrics_summary"} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
