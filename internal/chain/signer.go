package chain

import (
	"context"
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer binds a client to one signing key so callers can execute calls
// without handling the key themselves.
type Signer struct {
	*Client
	key *ecdsa.PrivateKey
}

// NewSigner wraps a client with a signing key.
func NewSigner(client *Client, key *ecdsa.PrivateKey) *Signer {
	return &Signer{Client: client, key: key}
}

// Address returns the key's address.
func (s *Signer) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

// ExecuteCall signs and submits the call with the bound key.
func (s *Signer) ExecuteCall(ctx context.Context, call CallSpec) (common.Hash, error) {
	return s.Client.ExecuteCall(ctx, s.key, call)
}
