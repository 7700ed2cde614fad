package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestCanonicalTransactionJSONRoundTrip(t *testing.T) {
	original := CanonicalTransaction{
		ID:          "0xdef456",
		Type:        TxWrap,
		Chain:       "celo",
		Amount:      "1000.00",
		TimestampMs: 1700000000000,
		TxHash:      "0xdef456",
		Status:      StatusCompleted,
		FromAddress: "0x1111111111111111111111111111111111111111",
		ToAddress:   "0x2222222222222222222222222222222222222222",
		BlockNumber: 36000000,
		GasUsed:     210000,
		GasPrice:    "5000000000",
	}

	b, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded CanonicalTransaction
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(original, decoded) {
		t.Fatalf("round-trip mismatch: %+v != %+v", original, decoded)
	}
}
