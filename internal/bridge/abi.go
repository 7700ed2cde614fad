package bridge

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// The wrapper surface shared by the treasury contract on the home chain
// (wrap side) and the wrapped-token contract on remote chains (unwrap
// side). Both bridge calls return the cross-chain message identifier.
const wrapperABIJSON = `[
  {
    "inputs": [
      {"internalType": "uint32", "name": "destination", "type": "uint32"},
      {"internalType": "address", "name": "recipient", "type": "address"},
      {"internalType": "uint256", "name": "amount", "type": "uint256"}
    ],
    "name": "wrap",
    "outputs": [{"internalType": "bytes32", "name": "messageId", "type": "bytes32"}],
    "stateMutability": "payable",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "address", "name": "recipient", "type": "address"},
      {"internalType": "uint256", "name": "amount", "type": "uint256"}
    ],
    "name": "unwrap",
    "outputs": [{"internalType": "bytes32", "name": "messageId", "type": "bytes32"}],
    "stateMutability": "payable",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "uint32", "name": "destination", "type": "uint32"},
      {"internalType": "uint256", "name": "amount", "type": "uint256"}
    ],
    "name": "quoteWrap",
    "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "amount", "type": "uint256"}],
    "name": "quoteUnwrap",
    "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

var (
	wrapperABI     abi.ABI
	wrapperABIOnce sync.Once
	wrapperABIErr  error
)

// WrapperABI returns the parsed wrapper contract ABI.
func WrapperABI() (abi.ABI, error) {
	wrapperABIOnce.Do(func() {
		wrapperABI, wrapperABIErr = abi.JSON(strings.NewReader(wrapperABIJSON))
	})
	return wrapperABI, wrapperABIErr
}
