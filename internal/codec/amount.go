package codec

import (
	"math/big"
	"strings"
)

// ABI call data layout: "0x" + 8 hex selector digits, then 64-hex-digit
// (32-byte) argument slots. The amount parameter sits at a fixed hex offset
// per call signature.
const (
	wordHexLen = 64

	// unwrap(address,uint256): selector + address slot.
	UnwrapAmountOffset = 74
	// wrap(uint32,address,uint256): selector + domain slot + address slot.
	WrapAmountOffset = 138

	// TokenDecimals is the fixed fractional precision of cCOP and wcCOP.
	TokenDecimals = 18

	displayDecimals = 2
)

// DecodeAmountAt reads the 32-byte big-endian unsigned integer starting at
// the given hex offset of the call data. Missing or short input decodes to
// zero; callers treat a zero amount as undecodable, not as a real
// zero-value transfer.
func DecodeAmountAt(callData string, offset int) *big.Int {
	zero := new(big.Int)
	if offset < 0 || !strings.HasPrefix(callData, "0x") {
		return zero
	}
	if len(callData) < offset+wordHexLen {
		return zero
	}
	value, ok := new(big.Int).SetString(callData[offset:offset+wordHexLen], 16)
	if !ok || value.Sign() < 0 {
		return zero
	}
	return value
}

// FormatUnits renders a base-unit integer as a decimal string with two
// fractional display digits.
func FormatUnits(value *big.Int, decimals int) string {
	if value == nil {
		return "0.00"
	}
	if decimals < 0 {
		decimals = 0
	}
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	rat := new(big.Rat).SetFrac(value, denom)
	return rat.FloatString(displayDecimals)
}

// AmountString renders a wei amount at the token's 18-decimal precision.
func AmountString(wei *big.Int) string {
	return FormatUnits(wei, TokenDecimals)
}

// ParseUnits parses a human decimal amount string into base units.
// Returns nil when the input is not a valid decimal number.
func ParseUnits(amount string, decimals int) *big.Int {
	rat, ok := new(big.Rat).SetString(strings.TrimSpace(amount))
	if !ok || rat.Sign() < 0 {
		return nil
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	scaled := new(big.Rat).Mul(rat, new(big.Rat).SetInt(scale))
	if !scaled.IsInt() {
		// Truncate sub-base-unit dust.
		return new(big.Int).Quo(scaled.Num(), scaled.Denom())
	}
	return scaled.Num()
}
