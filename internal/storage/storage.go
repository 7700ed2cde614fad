package storage

import "bridgeScope/internal/model"

// TransactionSink is a best-effort, non-authoritative destination for
// aggregated history. Aggregation never depends on it.
type TransactionSink interface {
	PutTransactionBatch(txs []model.CanonicalTransaction) error
}
