package bridge

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"bridgeScope/internal/chain"
	"bridgeScope/internal/chains"
	"bridgeScope/internal/delivery"
	"bridgeScope/internal/model"
)

// State is the per-operation lifecycle position.
type State string

const (
	StateIdle             State = "idle"
	StateQuoteRequested   State = "quote_requested"
	StateValidated        State = "validated"
	StateSubmitted        State = "submitted"
	StateAwaitingDelivery State = "awaiting_delivery"
	StateDelivered        State = "delivered"
	StateTimedOut         State = "timed_out"
)

// ContractBackend is the contract surface the orchestrator drives.
// *chain.Signer satisfies it.
type ContractBackend interface {
	ReadOnlyCall(ctx context.Context, to common.Address, data []byte) ([]byte, error)
	SimulateCall(ctx context.Context, call chain.CallSpec) (chain.Simulation, error)
	ExecuteCall(ctx context.Context, call chain.CallSpec) (common.Hash, error)
	TokenBalance(ctx context.Context, token, owner common.Address) (*big.Int, error)
	Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
}

var _ ContractBackend = (*chain.Signer)(nil)

// Request describes one user-initiated bridge operation.
type Request struct {
	Wallet    common.Address
	Recipient common.Address
	Amount    *big.Int
}

// Result is the terminal outcome of an operation. A TimedOut state is not
// fatal: funds may still arrive, and TxHash lets the user check the
// cross-chain explorer independently.
type Result struct {
	State     State
	TxHash    common.Hash
	Message   model.CrossChainMessage
	Quote     *big.Int
	Delivered bool
}

// Orchestrator drives a wrap or unwrap end to end: quote, validate,
// simulate, execute, await delivery, refresh balances.
type Orchestrator struct {
	backend ContractBackend
	poller  *delivery.Poller
	source  chains.Config
	dest    chains.Config
	logger  *zap.Logger

	// RefreshBalances runs after delivery resolution (success or timeout),
	// never before, so a stale post-bridge balance is never shown.
	RefreshBalances func(ctx context.Context)
	// OnTransition observes state changes; used by the presentation layer
	// and by tests.
	OnTransition func(State)

	mu         sync.Mutex
	state      State
	cancelPoll context.CancelFunc
}

// NewOrchestrator builds an orchestrator for one source/destination pair.
func NewOrchestrator(backend ContractBackend, poller *delivery.Poller, source, dest chains.Config, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		backend: backend,
		poller:  poller,
		source:  source,
		dest:    dest,
		logger:  logger,
		state:   StateIdle,
	}
}

// State returns the current lifecycle position.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Wrap locks tokens on the source (home) chain and mints on the
// destination chain.
func (o *Orchestrator) Wrap(ctx context.Context, req Request) (Result, error) {
	parsed, err := WrapperABI()
	if err != nil {
		return o.fail(err)
	}

	o.setState(StateQuoteRequested)
	quoteData, err := parsed.Pack("quoteWrap", o.dest.DomainID, req.Amount)
	if err != nil {
		return o.fail(fmt.Errorf("pack quoteWrap: %w", err))
	}
	quote, err := o.readQuote(ctx, parsed, "quoteWrap", o.source.Bridge, quoteData)
	if err != nil {
		return o.fail(fmt.Errorf("quote: %w", err))
	}

	if err := o.validateFunds(ctx, req, o.source.Token, o.source.Bridge, true); err != nil {
		return o.fail(err)
	}
	o.setState(StateValidated)

	callData, err := parsed.Pack("wrap", o.dest.DomainID, req.Recipient, req.Amount)
	if err != nil {
		return o.fail(fmt.Errorf("pack wrap: %w", err))
	}

	return o.submitAndAwait(ctx, parsed, "wrap", chain.CallSpec{
		From:  req.Wallet,
		To:    o.source.Bridge,
		Value: quote,
		Data:  callData,
	})
}

// Unwrap burns wrapped tokens on the source (remote) chain to release the
// locked tokens on the destination (home) chain.
func (o *Orchestrator) Unwrap(ctx context.Context, req Request) (Result, error) {
	parsed, err := WrapperABI()
	if err != nil {
		return o.fail(err)
	}

	o.setState(StateQuoteRequested)
	quoteData, err := parsed.Pack("quoteUnwrap", req.Amount)
	if err != nil {
		return o.fail(fmt.Errorf("pack quoteUnwrap: %w", err))
	}
	quote, err := o.readQuote(ctx, parsed, "quoteUnwrap", o.source.Token, quoteData)
	if err != nil {
		return o.fail(fmt.Errorf("quote: %w", err))
	}

	// Burning the caller's own wrapped balance needs no allowance.
	if err := o.validateFunds(ctx, req, o.source.Token, common.Address{}, false); err != nil {
		return o.fail(err)
	}
	o.setState(StateValidated)

	callData, err := parsed.Pack("unwrap", req.Recipient, req.Amount)
	if err != nil {
		return o.fail(fmt.Errorf("pack unwrap: %w", err))
	}

	return o.submitAndAwait(ctx, parsed, "unwrap", chain.CallSpec{
		From:  req.Wallet,
		To:    o.source.Token,
		Value: quote,
		Data:  callData,
	})
}

func (o *Orchestrator) readQuote(ctx context.Context, parsed abi.ABI, method string, to common.Address, data []byte) (*big.Int, error) {
	ret, err := o.backend.ReadOnlyCall(ctx, to, data)
	if err != nil {
		return nil, err
	}
	values, err := parsed.Unpack(method, ret)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("unexpected %s return arity: %d", method, len(values))
	}
	quote, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected %s return type %T", method, values[0])
	}
	return quote, nil
}

func (o *Orchestrator) validateFunds(ctx context.Context, req Request, token, spender common.Address, checkAllowance bool) error {
	if req.Amount == nil || req.Amount.Sign() <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	balance, err := o.backend.TokenBalance(ctx, token, req.Wallet)
	if err != nil {
		return fmt.Errorf("read balance: %w", err)
	}
	if balance.Cmp(req.Amount) < 0 {
		return fmt.Errorf("insufficient balance: have %s, need %s", balance, req.Amount)
	}

	if checkAllowance {
		allowance, err := o.backend.Allowance(ctx, token, req.Wallet, spender)
		if err != nil {
			return fmt.Errorf("read allowance: %w", err)
		}
		if allowance.Cmp(req.Amount) < 0 {
			return fmt.Errorf("insufficient allowance: have %s, need %s", allowance, req.Amount)
		}
	}
	return nil
}

func (o *Orchestrator) submitAndAwait(ctx context.Context, parsed abi.ABI, method string, call chain.CallSpec) (Result, error) {
	sim, err := o.backend.SimulateCall(ctx, call)
	if err != nil {
		return o.fail(fmt.Errorf("simulation reverted: %w", err))
	}

	messageID, err := extractMessageID(parsed, method, sim.Return)
	if err != nil {
		return o.fail(err)
	}

	txHash, err := o.backend.ExecuteCall(ctx, call)
	if err != nil {
		return o.fail(fmt.Errorf("submit transaction: %w", err))
	}
	o.setState(StateSubmitted)

	message := model.CrossChainMessage{
		ID:          messageID,
		SourceChain: o.source.Name,
		SubmittedAt: time.Now().UTC(),
	}
	o.logger.Info("bridge call submitted",
		zap.String("method", method),
		zap.String("tx_hash", txHash.Hex()),
		zap.String("message_id", messageID.Hex()),
	)

	o.setState(StateAwaitingDelivery)
	pollCtx := o.beginPoll(ctx)
	delivered, err := o.poller.WaitForDelivery(pollCtx, messageID)
	o.endPoll()

	// Balance refresh runs strictly after delivery resolution.
	if o.RefreshBalances != nil {
		o.RefreshBalances(ctx)
	}

	result := Result{
		TxHash:    txHash,
		Message:   message,
		Quote:     call.Value,
		Delivered: delivered,
	}
	if err != nil {
		o.setState(StateTimedOut)
		result.State = StateTimedOut
		return result, fmt.Errorf("delivery poll aborted: %w", err)
	}
	if delivered {
		o.setState(StateDelivered)
		result.State = StateDelivered
		return result, nil
	}

	o.setState(StateTimedOut)
	result.State = StateTimedOut
	o.logger.Warn("delivery not confirmed; funds may still arrive",
		zap.String("tx_hash", txHash.Hex()),
		zap.String("message_id", messageID.Hex()),
	)
	return result, nil
}

// beginPoll supersedes any in-flight poll so a stale result can never
// overwrite a newer operation's state.
func (o *Orchestrator) beginPoll(ctx context.Context) context.Context {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancelPoll != nil {
		o.cancelPoll()
	}
	pollCtx, cancel := context.WithCancel(ctx)
	o.cancelPoll = cancel
	return pollCtx
}

func (o *Orchestrator) endPoll() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancelPoll != nil {
		o.cancelPoll()
		o.cancelPoll = nil
	}
}

func (o *Orchestrator) setState(state State) {
	o.mu.Lock()
	o.state = state
	hook := o.OnTransition
	o.mu.Unlock()

	o.logger.Debug("state transition", zap.String("state", string(state)))
	if hook != nil {
		hook(state)
	}
}

func (o *Orchestrator) fail(err error) (Result, error) {
	o.setState(StateIdle)
	return Result{State: StateIdle}, err
}

func extractMessageID(parsed abi.ABI, method string, ret []byte) (common.Hash, error) {
	values, err := parsed.Unpack(method, ret)
	if err != nil {
		return common.Hash{}, fmt.Errorf("unpack %s return: %w", method, err)
	}
	if len(values) != 1 {
		return common.Hash{}, fmt.Errorf("unexpected %s return arity: %d", method, len(values))
	}
	id, ok := values[0].([32]byte)
	if !ok {
		return common.Hash{}, fmt.Errorf("unexpected %s return type %T", method, values[0])
	}
	return common.Hash(id), nil
}
