package delivery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

func noSleep(ctx context.Context, d time.Duration) error { return ctx.Err() }

func testPoller(lookup StatusFunc, maxAttempts int) *Poller {
	p := NewPoller(lookup, zap.NewNop())
	p.MaxAttempts = maxAttempts
	p.Interval = 0
	p.Sleep = noSleep
	return p
}

func TestWaitForDeliveryExhaustsBudget(t *testing.T) {
	calls := 0
	poller := testPoller(func(ctx context.Context, id common.Hash) (Status, error) {
		calls++
		return StatusPending, nil
	}, 20)

	delivered, err := poller.WaitForDelivery(context.Background(), common.Hash{0x01})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if delivered {
		t.Fatalf("never-delivered source reported delivered")
	}
	if calls != 20 {
		t.Fatalf("want exactly 20 status calls, got %d", calls)
	}
}

func TestWaitForDeliveryEarlyExit(t *testing.T) {
	calls := 0
	poller := testPoller(func(ctx context.Context, id common.Hash) (Status, error) {
		calls++
		return StatusDelivered, nil
	}, 20)

	delivered, err := poller.WaitForDelivery(context.Background(), common.Hash{0x02})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !delivered {
		t.Fatalf("expected delivered")
	}
	if calls != 1 {
		t.Fatalf("want exactly 1 status call, got %d", calls)
	}
}

func TestWaitForDeliveryRecoversAfterErrors(t *testing.T) {
	calls := 0
	poller := testPoller(func(ctx context.Context, id common.Hash) (Status, error) {
		calls++
		if calls < 3 {
			return StatusUnknown, errors.New("transport down")
		}
		return StatusDelivered, nil
	}, 20)

	delivered, err := poller.WaitForDelivery(context.Background(), common.Hash{0x03})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !delivered || calls != 3 {
		t.Fatalf("delivered=%v calls=%d, want true after 3 calls", delivered, calls)
	}
}

func TestWaitForDeliveryCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	poller := testPoller(func(ctx context.Context, id common.Hash) (Status, error) {
		calls++
		if calls == 2 {
			cancel()
		}
		return StatusPending, nil
	}, 20)

	delivered, err := poller.WaitForDelivery(ctx, common.Hash{0x04})
	if delivered {
		t.Fatalf("cancelled poll reported delivered")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if calls > 3 {
		t.Fatalf("poll kept running after cancellation: %d calls", calls)
	}
}

func TestStatusClientLookup(t *testing.T) {
	id := common.HexToHash("0xabcdef")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The handler runs on the server goroutine; record, don't abort.
		if got := r.URL.Query().Get("id"); got != id.Hex() {
			t.Errorf("unexpected id %q", got)
		}
		fmt.Fprint(w, `{"status":"delivered","delivered":true}`)
	}))
	defer server.Close()

	client := NewStatusClient(server.URL, time.Second)
	status, err := client.Lookup(context.Background(), id)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if status != StatusDelivered {
		t.Fatalf("want delivered, got %v", status)
	}
}

func TestStatusClientPendingAndNotFound(t *testing.T) {
	pending := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"pending","delivered":false}`)
	}))
	defer pending.Close()

	client := NewStatusClient(pending.URL, time.Second)
	status, err := client.Lookup(context.Background(), common.Hash{})
	if err != nil || status != StatusPending {
		t.Fatalf("want pending, got %v err=%v", status, err)
	}

	missing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer missing.Close()

	client = NewStatusClient(missing.URL, time.Second)
	status, err = client.Lookup(context.Background(), common.Hash{})
	if err != nil || status != StatusPending {
		t.Fatalf("404 should map to pending, got %v err=%v", status, err)
	}
}
