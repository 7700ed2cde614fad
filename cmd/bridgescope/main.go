package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "bridgescope",
		Short:        "cCOP wrap/unwrap bridge driver and history aggregator",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Aggregate a wallet's bridge history across all chains",
		RunE:  runHistory,
	}

	historyCmd.Flags().String("wallet", "", "wallet address")
	historyCmd.Flags().StringSlice("chain", nil, "chains to query (default: all)")
	historyCmd.Flags().Duration("delay", time.Second, "delay between per-chain explorer calls")
	historyCmd.Flags().Duration("http-timeout", 15*time.Second, "explorer HTTP timeout")
	historyCmd.Flags().String("api-key", "", "explorer API keys (chain=key, comma-separated)")
	historyCmd.Flags().String("out", "", "optional JSONL output path")
	historyCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for the history cache")
	historyCmd.Flags().Bool("cached", false, "serve the cached history from Postgres instead of querying explorers")
	historyCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(historyCmd)

	wrapCmd := &cobra.Command{
		Use:   "wrap",
		Short: "Lock cCOP on the home chain and mint on a destination chain",
		RunE:  runWrap,
	}
	addBridgeFlags(wrapCmd)
	root.AddCommand(wrapCmd)

	unwrapCmd := &cobra.Command{
		Use:   "unwrap",
		Short: "Burn wcCOP on a remote chain and release cCOP on the home chain",
		RunE:  runUnwrap,
	}
	addBridgeFlags(unwrapCmd)
	root.AddCommand(unwrapCmd)

	trackCmd := &cobra.Command{
		Use:   "track",
		Short: "Poll delivery status for an existing message id",
		RunE:  runTrack,
	}
	addBridgeFlags(trackCmd)
	trackCmd.Flags().String("message-id", "", "cross-chain message id (bytes32 hex)")
	root.AddCommand(trackCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addBridgeFlags(cmd *cobra.Command) {
	cmd.Flags().String("rpc", "", "source chain RPC URL")
	cmd.Flags().String("dest-rpc", "", "destination chain RPC URL (for on-chain delivery checks)")
	cmd.Flags().String("private-key", "", "hex private key of the wallet")
	cmd.Flags().String("source", "", "source chain name")
	cmd.Flags().String("dest", "", "destination chain name")
	cmd.Flags().String("amount", "", "token amount (decimal, e.g. 1000.5)")
	cmd.Flags().String("recipient", "", "recipient address (default: wallet)")
	cmd.Flags().String("status-url", "", "delivery-status API endpoint (default: on-chain mailbox check)")
	cmd.Flags().Duration("poll-interval", 5*time.Second, "delivery poll interval")
	cmd.Flags().Int("max-attempts", 20, "delivery poll attempt budget")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
