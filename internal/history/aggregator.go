package history

import (
	"context"
	"math/big"
	"sort"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"bridgeScope/internal/chains"
	"bridgeScope/internal/model"
)

// DefaultInterCallDelay spaces per-chain fetches to stay under third-party
// explorer rate limits. Sequencing is a deliberate throughput trade-off,
// not a correctness requirement.
const DefaultInterCallDelay = time.Second

// Aggregator combines per-chain results into one sorted, deduplicated,
// summarized view.
type Aggregator struct {
	fetcher        *Fetcher
	chainSet       []chains.Config
	InterCallDelay time.Duration
	Sleep          func(ctx context.Context, d time.Duration) error
	logger         *zap.Logger

	generation atomic.Uint64
}

// NewAggregator builds an aggregator over the given chain set.
func NewAggregator(fetcher *Fetcher, chainSet []chains.Config, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		fetcher:        fetcher,
		chainSet:       chainSet,
		InterCallDelay: DefaultInterCallDelay,
		logger:         logger,
	}
}

// AllTransactions fetches every chain sequentially with an inter-call
// delay, concatenates the results and sorts them by timestamp descending.
// A failing chain contributes zero records; the only error returned is
// context cancellation.
func (a *Aggregator) AllTransactions(ctx context.Context, wallet common.Address) ([]model.CanonicalTransaction, error) {
	sleep := a.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var all []model.CanonicalTransaction
	for i, cfg := range a.chainSet {
		if i > 0 && a.InterCallDelay > 0 {
			if err := sleep(ctx, a.InterCallDelay); err != nil {
				return nil, err
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		txs := a.fetcher.FetchChainTransactions(ctx, cfg, wallet)
		a.logger.Debug("chain fetched",
			zap.String("chain", cfg.Name),
			zap.Int("transactions", len(txs)),
		)
		all = append(all, txs...)
	}

	sortTransactions(all)
	return all, nil
}

// Refresh runs a full aggregation and hands the result to apply, unless a
// newer refresh started meanwhile. Stale results are discarded wholesale so
// two refreshes can never interleave their writes.
func (a *Aggregator) Refresh(ctx context.Context, wallet common.Address, apply func([]model.CanonicalTransaction, model.AggregateSummary)) error {
	gen := a.generation.Add(1)

	txs, err := a.AllTransactions(ctx, wallet)
	if err != nil {
		return err
	}

	if a.generation.Load() != gen {
		a.logger.Debug("refresh superseded, result discarded",
			zap.Uint64("generation", gen),
		)
		return nil
	}

	apply(txs, ComputeSummary(txs))
	return nil
}

// ComputeSummary derives the wrap/unwrap totals and counts from a
// transaction set.
func ComputeSummary(txs []model.CanonicalTransaction) model.AggregateSummary {
	wrapTotal := new(big.Rat)
	unwrapTotal := new(big.Rat)
	var wrapCount, unwrapCount int

	for _, tx := range txs {
		amount, ok := new(big.Rat).SetString(tx.Amount)
		if !ok {
			continue
		}
		switch tx.Type {
		case model.TxWrap:
			wrapTotal.Add(wrapTotal, amount)
			wrapCount++
		case model.TxUnwrap:
			unwrapTotal.Add(unwrapTotal, amount)
			unwrapCount++
		}
	}

	net := new(big.Rat).Sub(wrapTotal, unwrapTotal)
	return model.AggregateSummary{
		WrapTotal:   wrapTotal.FloatString(2),
		UnwrapTotal: unwrapTotal.FloatString(2),
		NetWrapped:  net.FloatString(2),
		WrapCount:   wrapCount,
		UnwrapCount: unwrapCount,
	}
}

func sortTransactions(txs []model.CanonicalTransaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].TimestampMs != txs[j].TimestampMs {
			return txs[i].TimestampMs > txs[j].TimestampMs
		}
		// Hash tie-break keeps the order deterministic across fetches.
		return txs[i].TxHash > txs[j].TxHash
	})
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
