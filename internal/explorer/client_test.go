package explorer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"bridgeScope/internal/chains"
)

func testChain(endpoint string) chains.Config {
	cfg, _ := chains.ByName("base")
	cfg.ExplorerURL = endpoint
	return cfg
}

func TestTxListNormalization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The handler runs on the server goroutine; record, don't abort.
		if got := r.URL.Query().Get("action"); got != "txlist" {
			t.Errorf("unexpected action %q", got)
		}
		if got := r.URL.Query().Get("sort"); got != "desc" {
			t.Errorf("unexpected sort %q", got)
		}
		fmt.Fprint(w, `{"status":"1","message":"OK","result":[{
			"hash":"0xaaa","from":"0x1111111111111111111111111111111111111111",
			"to":"0x2222222222222222222222222222222222222222",
			"input":"0x39f47693","methodId":"0x39F47693","functionName":"unwrap(address to, uint256 amount)",
			"value":"0","timeStamp":"1700000000","blockNumber":"123","gasUsed":"21000",
			"gasPrice":"1000000000","isError":"1"}]}`)
	}))
	defer server.Close()

	client := NewClient(time.Second, nil, zap.NewNop())
	records, err := client.TxList(context.Background(), testChain(server.URL), common.HexToAddress("0x1111111111111111111111111111111111111111"))
	if err != nil {
		t.Fatalf("txlist: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("want 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.MethodSelector != "0x39f47693" {
		t.Fatalf("selector not lowercased: %q", rec.MethodSelector)
	}
	if rec.Timestamp != 1700000000 || rec.BlockNumber != 123 || rec.GasUsed != 21000 {
		t.Fatalf("numeric fields mismatch: %+v", rec)
	}
	if !rec.Failed {
		t.Fatalf("isError=1 should map to Failed")
	}
	if rec.IsTokenTransfer {
		t.Fatalf("txlist record flagged as token transfer")
	}
}

func TestTokenTxListNormalization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("action"); got != "tokentx" {
			t.Errorf("unexpected action %q", got)
		}
		if got := r.URL.Query().Get("contractaddress"); got == "" {
			t.Errorf("missing contractaddress")
		}
		fmt.Fprint(w, `{"status":"1","message":"OK","result":[{
			"hash":"0xbbb","from":"0x1111111111111111111111111111111111111111",
			"to":"0x0000000000000000000000000000000000000000",
			"value":"1000000000000000000","tokenSymbol":"wcCOP","tokenDecimal":"18",
			"contractAddress":"0x2f25deb3848c207fc8e0c34035b3ba7fc157602b",
			"timeStamp":"1700000100","blockNumber":"124","gasUsed":"52000","gasPrice":"7"}]}`)
	}))
	defer server.Close()

	client := NewClient(time.Second, nil, zap.NewNop())
	records, err := client.TokenTxList(context.Background(), testChain(server.URL), common.HexToAddress("0x1111111111111111111111111111111111111111"))
	if err != nil {
		t.Fatalf("tokentx: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("want 1 record, got %d", len(records))
	}

	rec := records[0]
	if !rec.IsTokenTransfer {
		t.Fatalf("tokentx record not flagged as token transfer")
	}
	if rec.TokenSymbol != "wcCOP" || rec.TokenDecimals != 18 {
		t.Fatalf("token fields mismatch: %+v", rec)
	}
}

func TestStatusZeroWithResultIsTolerated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"0","message":"NOTOK","result":[{
			"hash":"0xccc","from":"0x1","to":"0x2","input":"0x","value":"0",
			"timeStamp":"1700000000","blockNumber":"1","gasUsed":"0","gasPrice":"0","isError":"0"}]}`)
	}))
	defer server.Close()

	client := NewClient(time.Second, nil, zap.NewNop())
	records, err := client.TxList(context.Background(), testChain(server.URL), common.Address{})
	if err != nil {
		t.Fatalf("txlist: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("status=0 with result should still parse, got %d records", len(records))
	}
}

func TestStatusZeroEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"0","message":"No transactions found","result":[]}`)
	}))
	defer server.Close()

	client := NewClient(time.Second, nil, zap.NewNop())
	records, err := client.TxList(context.Background(), testChain(server.URL), common.Address{})
	if err != nil {
		t.Fatalf("txlist: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("want empty history, got %d records", len(records))
	}
}

func TestProviderErrorResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"0","message":"NOTOK","result":"Max rate limit reached"}`)
	}))
	defer server.Close()

	client := NewClient(time.Second, nil, zap.NewNop())
	if _, err := client.TxList(context.Background(), testChain(server.URL), common.Address{}); err == nil {
		t.Fatalf("expected error for string result")
	}
}

func TestHTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend down", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(time.Second, nil, zap.NewNop())
	if _, err := client.TxList(context.Background(), testChain(server.URL), common.Address{}); err == nil {
		t.Fatalf("expected error for http 502")
	}
}
