package codec

import (
	"fmt"
	"math/big"
	"testing"
)

func unwrapCallData(amount *big.Int) string {
	recipient := fmt.Sprintf("%064x", 0xbeef)
	return "0x39f47693" + recipient + fmt.Sprintf("%064x", amount)
}

func wrapCallData(amount *big.Int) string {
	domain := fmt.Sprintf("%064x", 8453)
	recipient := fmt.Sprintf("%064x", 0xbeef)
	return "0x3c7580e6" + domain + recipient + fmt.Sprintf("%064x", amount)
}

func tokens(n int64) *big.Int {
	one := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	return new(big.Int).Mul(big.NewInt(n), one)
}

func TestDecodeAmountAtUnwrapLayout(t *testing.T) {
	amount := tokens(5)
	got := DecodeAmountAt(unwrapCallData(amount), UnwrapAmountOffset)
	if got.Cmp(amount) != 0 {
		t.Fatalf("decoded %s, want %s", got, amount)
	}
	if AmountString(got) != "5.00" {
		t.Fatalf("formatted %q, want 5.00", AmountString(got))
	}
}

func TestDecodeAmountAtWrapLayout(t *testing.T) {
	amount := tokens(1000)
	got := DecodeAmountAt(wrapCallData(amount), WrapAmountOffset)
	if got.Cmp(amount) != 0 {
		t.Fatalf("decoded %s, want %s", got, amount)
	}
	if AmountString(got) != "1000.00" {
		t.Fatalf("formatted %q, want 1000.00", AmountString(got))
	}
}

func TestDecodeAmountAtShortInput(t *testing.T) {
	inputs := []string{
		"",
		"0x",
		"0x39f47693",
		"0x39f47693" + "00",
		unwrapCallData(tokens(1))[:80],
	}
	for _, input := range inputs {
		got := DecodeAmountAt(input, UnwrapAmountOffset)
		if got.Sign() != 0 {
			t.Fatalf("input %q decoded to %s, want 0", input, got)
		}
	}
}

func TestDecodeAmountAtNegativeOffset(t *testing.T) {
	if got := DecodeAmountAt(unwrapCallData(tokens(1)), -1); got.Sign() != 0 {
		t.Fatalf("negative offset decoded to %s, want 0", got)
	}
}

func TestFormatUnits(t *testing.T) {
	cases := []struct {
		value    *big.Int
		decimals int
		want     string
	}{
		{tokens(1000), 18, "1000.00"},
		{big.NewInt(1500000), 6, "1.50"},
		{big.NewInt(0), 18, "0.00"},
		{nil, 18, "0.00"},
	}
	for _, tc := range cases {
		if got := FormatUnits(tc.value, tc.decimals); got != tc.want {
			t.Fatalf("FormatUnits(%v, %d) = %q, want %q", tc.value, tc.decimals, got, tc.want)
		}
	}
}

func TestParseUnits(t *testing.T) {
	if got := ParseUnits("5", 18); got.Cmp(tokens(5)) != 0 {
		t.Fatalf("ParseUnits(5) = %s", got)
	}
	if got := ParseUnits("0.5", 18); got.Cmp(new(big.Int).Div(tokens(1), big.NewInt(2))) != 0 {
		t.Fatalf("ParseUnits(0.5) = %s", got)
	}
	if got := ParseUnits("not-a-number", 18); got != nil {
		t.Fatalf("expected nil for invalid input, got %s", got)
	}
	if got := ParseUnits("-3", 18); got != nil {
		t.Fatalf("expected nil for negative input, got %s", got)
	}
}
