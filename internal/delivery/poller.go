package delivery

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Status is the observed delivery state of a cross-chain message.
type Status int

const (
	StatusPending Status = iota
	StatusDelivered
	StatusUnknown
)

// StatusFunc looks up the delivery state of a message once.
type StatusFunc func(ctx context.Context, id common.Hash) (Status, error)

// Defaults for interactive flows: up to ~100s of waiting.
const (
	DefaultInterval    = 5 * time.Second
	DefaultMaxAttempts = 20
)

// Poller observes eventual delivery of a cross-chain message by repeatedly
// querying a status source until delivery is seen or the attempt budget is
// exhausted. Sleep is injectable so termination is testable without real
// delays.
type Poller struct {
	Interval    time.Duration
	MaxAttempts int
	Lookup      StatusFunc
	Sleep       func(ctx context.Context, d time.Duration) error
	Logger      *zap.Logger
}

// NewPoller builds a poller with interactive defaults.
func NewPoller(lookup StatusFunc, logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		Interval:    DefaultInterval,
		MaxAttempts: DefaultMaxAttempts,
		Lookup:      lookup,
		Logger:      logger,
	}
}

// WaitForDelivery polls until the message is delivered or MaxAttempts status
// calls have been made. It returns (true, nil) on delivery, (false, nil)
// when the budget is exhausted, and (false, ctx.Err()) on cancellation.
// Lookup errors and unknown states count as a failed attempt and are retried.
func (p *Poller) WaitForDelivery(ctx context.Context, id common.Hash) (bool, error) {
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	interval := p.Interval
	if interval < 0 {
		interval = 0
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		status, err := p.Lookup(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			p.Logger.Warn("delivery status lookup failed",
				zap.String("message_id", id.Hex()),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		} else if status == StatusDelivered {
			p.Logger.Info("message delivered",
				zap.String("message_id", id.Hex()),
				zap.Int("attempt", attempt),
			)
			return true, nil
		}

		if attempt == maxAttempts {
			break
		}
		if err := sleep(ctx, interval); err != nil {
			return false, err
		}
	}

	p.Logger.Warn("delivery not confirmed within attempt budget",
		zap.String("message_id", id.Hex()),
		zap.Int("max_attempts", maxAttempts),
	)
	return false, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
