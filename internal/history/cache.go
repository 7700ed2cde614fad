package history

import (
	"context"

	"bridgeScope/internal/model"
)

// CachedSource serves previously aggregated transactions for one wallet.
// *postgres.Store satisfies it.
type CachedSource interface {
	LoadTransactions(ctx context.Context, wallet string, limit int) ([]model.CanonicalTransaction, error)
}

// FromCache loads a wallet's cached history and recomputes its summary.
// The cache is an offline fallback view; it is never merged with live
// explorer data.
func FromCache(ctx context.Context, src CachedSource, wallet string, limit int) ([]model.CanonicalTransaction, model.AggregateSummary, error) {
	txs, err := src.LoadTransactions(ctx, wallet, limit)
	if err != nil {
		return nil, model.AggregateSummary{}, err
	}
	sortTransactions(txs)
	return txs, ComputeSummary(txs), nil
}
