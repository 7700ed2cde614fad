package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bridgeScope/internal/chains"
	"bridgeScope/internal/config"
	"bridgeScope/internal/explorer"
	"bridgeScope/internal/history"
	"bridgeScope/internal/model"
	"bridgeScope/internal/storage"
	"bridgeScope/internal/storage/postgres"
)

func runHistory(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadHistory(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.Wallet == "" {
		return fmt.Errorf("wallet is required")
	}
	if !common.IsHexAddress(cfg.Wallet) {
		return fmt.Errorf("invalid wallet address: %s", cfg.Wallet)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wallet := common.HexToAddress(cfg.Wallet)

	if cfg.Cached {
		return serveCachedHistory(ctx, cfg, wallet, logger)
	}

	chainSet, err := chains.Select(cfg.Chains)
	if err != nil {
		return err
	}

	client := explorer.NewClient(cfg.HTTPTimeout, cfg.APIKeys, logger)
	fetcher := history.NewFetcher(client, logger)
	aggregator := history.NewAggregator(fetcher, chainSet, logger)
	aggregator.InterCallDelay = cfg.Delay

	logger.Info("aggregating bridge history",
		zap.String("wallet", wallet.Hex()),
		zap.Int("chains", len(chainSet)),
	)

	txs, err := aggregator.AllTransactions(ctx, wallet)
	if err != nil {
		return fmt.Errorf("aggregate transactions: %w", err)
	}
	reportHistory(logger, txs, history.ComputeSummary(txs))

	if err := exportTransactions(cfg.Out, txs, logger); err != nil {
		return err
	}

	if cfg.PGDSN != "" {
		if err := cacheTransactions(ctx, cfg.PGDSN, wallet, txs, logger); err != nil {
			// The cache is best effort; the aggregation already succeeded.
			logger.Warn("history cache update failed", zap.Error(err))
		}
	}

	return nil
}

// serveCachedHistory answers from the Postgres cache without touching the
// explorers. Useful offline or when the explorer feeds are down.
func serveCachedHistory(ctx context.Context, cfg config.HistoryConfig, wallet common.Address, logger *zap.Logger) error {
	if cfg.PGDSN == "" {
		return fmt.Errorf("pg-dsn is required with --cached")
	}

	store, err := postgres.NewStore(ctx, cfg.PGDSN)
	if err != nil {
		return fmt.Errorf("open history cache: %w", err)
	}
	defer store.Close()

	txs, summary, err := history.FromCache(ctx, store, wallet.Hex(), 0)
	if err != nil {
		return fmt.Errorf("load cached history: %w", err)
	}

	logger.Info("serving cached bridge history",
		zap.String("wallet", wallet.Hex()),
	)
	reportHistory(logger, txs, summary)

	return exportTransactions(cfg.Out, txs, logger)
}

func reportHistory(logger *zap.Logger, txs []model.CanonicalTransaction, summary model.AggregateSummary) {
	logger.Info("history aggregated",
		zap.Int("transactions", len(txs)),
		zap.Int("wraps", summary.WrapCount),
		zap.Int("unwraps", summary.UnwrapCount),
		zap.String("wrap_total", summary.WrapTotal),
		zap.String("unwrap_total", summary.UnwrapTotal),
		zap.String("net_wrapped", summary.NetWrapped),
	)

	for _, tx := range txs {
		logger.Info("transaction",
			zap.String("chain", tx.Chain),
			zap.String("type", string(tx.Type)),
			zap.String("amount", tx.Amount),
			zap.String("status", string(tx.Status)),
			zap.String("tx_hash", tx.TxHash),
			zap.Int64("timestamp_ms", tx.TimestampMs),
		)
	}
}

func exportTransactions(path string, txs []model.CanonicalTransaction, logger *zap.Logger) error {
	if path == "" {
		return nil
	}
	sink := storage.NewJsonlStorage(path)
	if err := sink.PutTransactionBatch(txs); err != nil {
		return fmt.Errorf("write jsonl output: %w", err)
	}
	logger.Info("transactions exported", zap.String("path", path))
	return nil
}

func cacheTransactions(ctx context.Context, dsn string, wallet common.Address, txs []model.CanonicalTransaction, logger *zap.Logger) error {
	store, err := postgres.NewStore(ctx, dsn)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	if err := store.UpsertTransactions(ctx, wallet.Hex(), txs); err != nil {
		return fmt.Errorf("upsert transactions: %w", err)
	}
	logger.Info("history cache updated", zap.Int("transactions", len(txs)))
	return nil
}
