package config

import (
	"time"

	"github.com/spf13/pflag"
)

// HistoryConfig holds configuration for the history command.
type HistoryConfig struct {
	Wallet      string
	Chains      []string
	Delay       time.Duration
	HTTPTimeout time.Duration
	APIKeys     map[string]string
	Out         string
	PGDSN       string
	Cached      bool
	LogLevel    string
}

// LoadHistory merges config file, environment variables, and flags into
// HistoryConfig.
func LoadHistory(cfgFile string, flags *pflag.FlagSet) (HistoryConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"delay":        time.Second,
		"http-timeout": 15 * time.Second,
		"log-level":    "info",
	})
	if err != nil {
		return HistoryConfig{}, err
	}

	cfg := HistoryConfig{
		Wallet:      v.GetString("wallet"),
		Chains:      getStringSlice(v, "chain"),
		Delay:       v.GetDuration("delay"),
		HTTPTimeout: v.GetDuration("http-timeout"),
		APIKeys:     getStringMap(v, "api-key"),
		Out:         v.GetString("out"),
		PGDSN:       v.GetString("pg-dsn"),
		Cached:      v.GetBool("cached"),
		LogLevel:    v.GetString("log-level"),
	}

	return cfg, nil
}
