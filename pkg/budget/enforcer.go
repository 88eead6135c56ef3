package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/grove-ai/grove/pkg/config"
	"github.com/grove-ai/grove/pkg/ledger"
)

// ErrLimitExceeded is returned when spending has reached a configured cap.
var ErrLimitExceeded = errors.New("cost limit exceeded")

// Enforcer checks ledger spend against configured cost limits before each
// generation call. A limit <= 0 disables that check.
type Enforcer struct {
	limits config.CostLimits
	ledger ledger.Ledger
}

// New creates an Enforcer backed by the given ledger.
func New(limits config.CostLimits, l ledger.Ledger) *Enforcer {
	return &Enforcer{limits: limits, ledger: l}
}

// Check returns ErrLimitExceeded if today's spend has reached the daily cap
// or the trailing 30 days' spend has reached the monthly cap.
func (e *Enforcer) Check(ctx context.Context) error {
	now := time.Now().UTC()

	if e.limits.DailyUSD > 0 {
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		spent, err := e.ledger.TotalSince(ctx, startOfDay)
		if err != nil {
			return fmt.Errorf("daily limit check: %w", err)
		}
		if spent >= e.limits.DailyUSD {
			return fmt.Errorf("%w: daily limit $%.2f reached", ErrLimitExceeded, e.limits.DailyUSD)
		}
	}

	if e.limits.MonthlyUSD > 0 {
		spent, err := e.ledger.TotalSince(ctx, now.AddDate(0, 0, -30))
		if err != nil {
			return fmt.Errorf("monthly limit check: %w", err)
		}
		if spent >= e.limits.MonthlyUSD {
			return fmt.Errorf("%w: monthly limit $%.2f reached", ErrLimitExceeded, e.limits.MonthlyUSD)
		}
	}

	return nil
}
