package model

// TxType classifies a bridge operation.
type TxType string

const (
	TxWrap   TxType = "wrap"
	TxUnwrap TxType = "unwrap"
)

// TxStatus is the terminal state of a historical transaction.
type TxStatus string

const (
	StatusCompleted TxStatus = "completed"
	StatusFailed    TxStatus = "failed"
	StatusPending   TxStatus = "pending"
)

// CanonicalTransaction is the normalized, deduplicated representation of a
// bridge operation. Unique by ID within one wallet's aggregated result set.
type CanonicalTransaction struct {
	ID          string   `json:"id"`
	Type        TxType   `json:"type"`
	Chain       string   `json:"chain"`
	Amount      string   `json:"amount"`
	TimestampMs int64    `json:"timestamp_ms"`
	TxHash      string   `json:"tx_hash"`
	Status      TxStatus `json:"status"`
	FromAddress string   `json:"from_address"`
	ToAddress   string   `json:"to_address"`
	BlockNumber uint64   `json:"block_number"`
	GasUsed     uint64   `json:"gas_used"`
	GasPrice    string   `json:"gas_price"`
}
