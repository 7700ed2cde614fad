package delivery

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const mailboxABIJSON = `[
  {
    "inputs": [{"internalType": "bytes32", "name": "messageId", "type": "bytes32"}],
    "name": "delivered",
    "outputs": [{"internalType": "bool", "name": "", "type": "bool"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

var (
	mailboxABI     abi.ABI
	mailboxABIOnce sync.Once
	mailboxABIErr  error
)

// MailboxABI returns the parsed destination mailbox ABI.
func MailboxABI() (abi.ABI, error) {
	mailboxABIOnce.Do(func() {
		mailboxABI, mailboxABIErr = abi.JSON(strings.NewReader(mailboxABIJSON))
	})
	return mailboxABI, mailboxABIErr
}

// ContractReader performs a read-only contract call.
type ContractReader interface {
	ReadOnlyCall(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

// OnChainSource checks delivery directly against the destination chain's
// mailbox contract instead of the relayer API.
type OnChainSource struct {
	reader  ContractReader
	mailbox common.Address
}

// NewOnChainSource builds a delivered(bytes32) status source.
func NewOnChainSource(reader ContractReader, mailbox common.Address) *OnChainSource {
	return &OnChainSource{reader: reader, mailbox: mailbox}
}

// Lookup implements StatusFunc via an eth_call on the mailbox.
func (s *OnChainSource) Lookup(ctx context.Context, id common.Hash) (Status, error) {
	parsed, err := MailboxABI()
	if err != nil {
		return StatusUnknown, err
	}
	data, err := parsed.Pack("delivered", [32]byte(id))
	if err != nil {
		return StatusUnknown, fmt.Errorf("pack delivered: %w", err)
	}

	ret, err := s.reader.ReadOnlyCall(ctx, s.mailbox, data)
	if err != nil {
		return StatusUnknown, fmt.Errorf("delivered call: %w", err)
	}

	values, err := parsed.Unpack("delivered", ret)
	if err != nil {
		return StatusUnknown, fmt.Errorf("unpack delivered: %w", err)
	}
	if len(values) != 1 {
		return StatusUnknown, fmt.Errorf("unexpected delivered return arity: %d", len(values))
	}
	delivered, ok := values[0].(bool)
	if !ok {
		return StatusUnknown, fmt.Errorf("unexpected delivered return type %T", values[0])
	}
	if delivered {
		return StatusDelivered, nil
	}
	return StatusPending, nil
}
