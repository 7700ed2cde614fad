package model

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// CrossChainMessage is the opaque handle returned by a source-chain bridge
// call. It is never persisted; it lives for one submission and is consumed
// by the delivery poller.
type CrossChainMessage struct {
	ID          common.Hash `json:"id"`
	SourceChain string      `json:"source_chain"`
	SubmittedAt time.Time   `json:"submitted_at"`
}
