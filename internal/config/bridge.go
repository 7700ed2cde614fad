package config

import (
	"time"

	"github.com/spf13/pflag"
)

// BridgeConfig holds configuration for the wrap, unwrap and track commands.
type BridgeConfig struct {
	RPCURL       string
	DestRPCURL   string
	PrivateKey   string
	Source       string
	Dest         string
	Amount       string
	Recipient    string
	MessageID    string
	StatusURL    string
	PollInterval time.Duration
	MaxAttempts  int
	LogLevel     string
}

// LoadBridge merges config file, environment variables, and flags into
// BridgeConfig.
func LoadBridge(cfgFile string, flags *pflag.FlagSet) (BridgeConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"poll-interval": 5 * time.Second,
		"max-attempts":  20,
		"log-level":     "info",
	})
	if err != nil {
		return BridgeConfig{}, err
	}

	cfg := BridgeConfig{
		RPCURL:       v.GetString("rpc"),
		DestRPCURL:   v.GetString("dest-rpc"),
		PrivateKey:   v.GetString("private-key"),
		Source:       v.GetString("source"),
		Dest:         v.GetString("dest"),
		Amount:       v.GetString("amount"),
		Recipient:    v.GetString("recipient"),
		MessageID:    v.GetString("message-id"),
		StatusURL:    v.GetString("status-url"),
		PollInterval: v.GetDuration("poll-interval"),
		MaxAttempts:  v.GetInt("max-attempts"),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, nil
}
