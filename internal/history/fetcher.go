package history

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"bridgeScope/internal/chains"
	"bridgeScope/internal/codec"
	"bridgeScope/internal/explorer"
	"bridgeScope/internal/model"
)

// ExplorerAPI is the per-chain history source the fetcher consumes.
// *explorer.Client satisfies it.
type ExplorerAPI interface {
	TxList(ctx context.Context, cfg chains.Config, address common.Address) ([]model.RawChainRecord, error)
	TokenTxList(ctx context.Context, cfg chains.Config, address common.Address) ([]model.RawChainRecord, error)
}

var _ ExplorerAPI = (*explorer.Client)(nil)

// Fetcher produces the canonical transaction set for one chain and wallet.
type Fetcher struct {
	api    ExplorerAPI
	logger *zap.Logger
}

// NewFetcher builds a fetcher over an explorer API.
func NewFetcher(api ExplorerAPI, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{api: api, logger: logger}
}

// FetchChainTransactions fetches, classifies, decodes and deduplicates one
// chain's history for the wallet. Any provider failure degrades to an empty
// slice so one chain can never block the others.
func (f *Fetcher) FetchChainTransactions(ctx context.Context, cfg chains.Config, wallet common.Address) []model.CanonicalTransaction {
	normal, err := f.api.TxList(ctx, cfg, wallet)
	if err != nil {
		f.logger.Warn("txlist fetch failed",
			zap.String("chain", cfg.Name),
			zap.Error(err),
		)
		normal = nil
	}

	// Non-home chains always fetch the token-transfer feed as well: some
	// providers answer an empty txlist even when transfers exist, and the
	// transfer log carries the ground-truth on-chain amount.
	var tokenTransfers []model.RawChainRecord
	if !cfg.Home {
		tokenTransfers, err = f.api.TokenTxList(ctx, cfg, wallet)
		if err != nil {
			f.logger.Warn("tokentx fetch failed",
				zap.String("chain", cfg.Name),
				zap.Error(err),
			)
			tokenTransfers = nil
		}
	}

	seen := make(map[string]struct{})
	out := make([]model.CanonicalTransaction, 0, len(normal)+len(tokenTransfers))

	// Token-transfer records go first so that when both feeds describe the
	// same hash, the transfer-derived amount wins the dedup.
	for _, rec := range tokenTransfers {
		tx, ok := f.classify(cfg, wallet, rec)
		if !ok {
			continue
		}
		if _, dup := seen[tx.ID]; dup {
			continue
		}
		seen[tx.ID] = struct{}{}
		out = append(out, tx)
	}
	for _, rec := range normal {
		tx, ok := f.classify(cfg, wallet, rec)
		if !ok {
			continue
		}
		if _, dup := seen[tx.ID]; dup {
			continue
		}
		seen[tx.ID] = struct{}{}
		out = append(out, tx)
	}

	return out
}

// classify applies the per-chain wrap/unwrap rules. Records matching
// neither rule, or decoding to a zero amount, are dropped.
func (f *Fetcher) classify(cfg chains.Config, wallet common.Address, rec model.RawChainRecord) (model.CanonicalTransaction, bool) {
	if cfg.Home {
		return f.classifyHome(cfg, wallet, rec)
	}
	return f.classifyRemote(cfg, wallet, rec)
}

// classifyHome: a wrap is a call from the wallet to the bridge contract
// whose call data starts with the wrap selector.
func (f *Fetcher) classifyHome(cfg chains.Config, wallet common.Address, rec model.RawChainRecord) (model.CanonicalTransaction, bool) {
	if rec.IsTokenTransfer {
		return model.CanonicalTransaction{}, false
	}
	if !sameAddress(rec.To, cfg.Bridge.Hex()) || !sameAddress(rec.From, wallet.Hex()) {
		return model.CanonicalTransaction{}, false
	}
	if !matchesSelector(rec, chains.WrapSelector, "wrap") {
		return model.CanonicalTransaction{}, false
	}

	amount := codec.DecodeAmountAt(rec.Input, codec.WrapAmountOffset)
	if amount.Sign() == 0 {
		return model.CanonicalTransaction{}, false
	}
	return buildTransaction(cfg, rec, model.TxWrap, codec.AmountString(amount)), true
}

// classifyRemote: an unwrap is either a wrapped-token transfer sent by the
// wallet (a send is a burn-to-unwrap) or a normal call to the token
// contract matching the unwrap selector.
func (f *Fetcher) classifyRemote(cfg chains.Config, wallet common.Address, rec model.RawChainRecord) (model.CanonicalTransaction, bool) {
	if rec.IsTokenTransfer {
		if !sameAddress(rec.From, wallet.Hex()) {
			return model.CanonicalTransaction{}, false
		}
		if !sameAddress(rec.TokenContract, cfg.Token.Hex()) && !strings.EqualFold(rec.TokenSymbol, cfg.TokenSymbol) {
			return model.CanonicalTransaction{}, false
		}
		value, ok := new(big.Int).SetString(rec.Value, 10)
		if !ok || value.Sign() == 0 {
			return model.CanonicalTransaction{}, false
		}
		decimals := rec.TokenDecimals
		if decimals == 0 {
			decimals = codec.TokenDecimals
		}
		return buildTransaction(cfg, rec, model.TxUnwrap, codec.FormatUnits(value, decimals)), true
	}

	if !sameAddress(rec.To, cfg.Token.Hex()) {
		return model.CanonicalTransaction{}, false
	}
	if !matchesSelector(rec, chains.UnwrapSelector, "unwrap") {
		return model.CanonicalTransaction{}, false
	}

	amount := codec.DecodeAmountAt(rec.Input, codec.UnwrapAmountOffset)
	if amount.Sign() == 0 {
		return model.CanonicalTransaction{}, false
	}
	return buildTransaction(cfg, rec, model.TxUnwrap, codec.AmountString(amount)), true
}

func buildTransaction(cfg chains.Config, rec model.RawChainRecord, txType model.TxType, amount string) model.CanonicalTransaction {
	status := model.StatusCompleted
	if rec.Failed {
		status = model.StatusFailed
	}
	return model.CanonicalTransaction{
		ID:          strings.ToLower(rec.Hash),
		Type:        txType,
		Chain:       cfg.Name,
		Amount:      amount,
		TimestampMs: int64(rec.Timestamp) * 1000,
		TxHash:      strings.ToLower(rec.Hash),
		Status:      status,
		FromAddress: strings.ToLower(rec.From),
		ToAddress:   strings.ToLower(rec.To),
		BlockNumber: rec.BlockNumber,
		GasUsed:     rec.GasUsed,
		GasPrice:    rec.GasPrice,
	}
}

func sameAddress(a, b string) bool {
	if common.IsHexAddress(a) && common.IsHexAddress(b) {
		return common.HexToAddress(a) == common.HexToAddress(b)
	}
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func matchesSelector(rec model.RawChainRecord, selector, functionPrefix string) bool {
	if rec.MethodSelector != "" && strings.EqualFold(rec.MethodSelector, selector) {
		return true
	}
	if strings.HasPrefix(strings.ToLower(rec.Input), selector) {
		return true
	}
	return functionPrefix != "" && strings.HasPrefix(strings.ToLower(rec.FunctionName), functionPrefix)
}
