package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// CallSpec describes one contract call for simulation or execution.
type CallSpec struct {
	From  common.Address
	To    common.Address
	Value *big.Int
	Data  []byte
}

// Simulation is the result of a dry-run of a call.
type Simulation struct {
	GasEstimate uint64
	Return      []byte
}

// Client wraps go-ethereum RPC and provides the contract operations the
// orchestrator needs.
type Client struct {
	rpcClient *rpc.Client
	ethClient *ethclient.Client
	chainID   *big.Int
}

// NewClient dials the RPC URL and resolves the chain id.
func NewClient(ctx context.Context, rpcURL string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	ethClient := ethclient.NewClient(rpcClient)

	chainID, err := ethClient.ChainID(ctx)
	if err != nil {
		rpcClient.Close()
		return nil, fmt.Errorf("get chain id: %w", err)
	}

	return &Client{
		rpcClient: rpcClient,
		ethClient: ethClient,
		chainID:   chainID,
	}, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// ChainID returns the connected chain's id.
func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// ReadOnlyCall performs an eth_call against the latest block.
func (c *Client) ReadOnlyCall(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	msg := ethereum.CallMsg{To: &to, Data: data}
	return c.ethClient.CallContract(ctx, msg, nil)
}

// SimulateCall estimates gas and dry-runs the call, returning its return
// data without submitting anything.
func (c *Client) SimulateCall(ctx context.Context, call CallSpec) (Simulation, error) {
	msg := ethereum.CallMsg{
		From:  call.From,
		To:    &call.To,
		Value: call.Value,
		Data:  call.Data,
	}

	gas, err := c.ethClient.EstimateGas(ctx, msg)
	if err != nil {
		return Simulation{}, fmt.Errorf("estimate gas: %w", err)
	}

	ret, err := c.ethClient.CallContract(ctx, msg, nil)
	if err != nil {
		return Simulation{}, fmt.Errorf("simulate call: %w", err)
	}

	return Simulation{GasEstimate: gas, Return: ret}, nil
}

// ExecuteCall signs and submits the call as a transaction, returning its
// hash. The key's address must match call.From.
func (c *Client) ExecuteCall(ctx context.Context, key *ecdsa.PrivateKey, call CallSpec) (common.Hash, error) {
	if key == nil {
		return common.Hash{}, fmt.Errorf("signing key is required")
	}
	sender := crypto.PubkeyToAddress(key.PublicKey)
	if call.From != (common.Address{}) && call.From != sender {
		return common.Hash{}, fmt.Errorf("call sender %s does not match key address %s", call.From.Hex(), sender.Hex())
	}

	nonce, err := c.ethClient.PendingNonceAt(ctx, sender)
	if err != nil {
		return common.Hash{}, fmt.Errorf("pending nonce: %w", err)
	}

	gasPrice, err := c.ethClient.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("suggest gas price: %w", err)
	}

	gas, err := c.ethClient.EstimateGas(ctx, ethereum.CallMsg{
		From:  sender,
		To:    &call.To,
		Value: call.Value,
		Data:  call.Data,
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("estimate gas: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &call.To,
		Value:    call.Value,
		Gas:      gas,
		GasPrice: gasPrice,
		Data:     call.Data,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("sign transaction: %w", err)
	}

	if err := c.ethClient.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("send transaction: %w", err)
	}

	return signed.Hash(), nil
}
