package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/paydesk/finagent/internal/ledger"
)

var validRefundReasons = map[string]bool{
	"duplicate":             true,
	"fraudulent":            true,
	"requested_by_customer": true,
}

// ExecuteSecureRefund submits a full refund for a charge with a
// deterministic idempotency key so that repeat submissions for the same
// charge on the same calendar day collapse upstream. The reason is
// deliberately excluded from the key: two same-day attempts with
// different reasons still collide, acting as a duplicate-refund guard.
//
// The mutation is issued exactly once. It is never retried here;
// resubmitting a failed refund is the caller's decision.
func (e *Engine) ExecuteSecureRefund(ctx context.Context, chargeID, reason string) (*RefundResult, error) {
	if chargeID == "" {
		return nil, &ValidationError{Field: "charge_id", Message: "must not be empty"}
	}
	if !validRefundReasons[reason] {
		return nil, &ValidationError{
			Field:   "reason",
			Message: "must be one of duplicate, fraudulent, requested_by_customer",
		}
	}

	key := refundIdempotencyKey(chargeID, e.now().UTC())
	e.log.Info().Str("charge", chargeID).Str("reason", reason).Msg("executing secure refund")

	refund, err := e.ledger.CreateRefund(ctx, ledger.CreateRefundParams{
		ChargeID:       chargeID,
		Reason:         reason,
		IdempotencyKey: key,
	})
	if err != nil {
		var apiErr *ledger.APIError
		if errors.As(err, &apiErr) && apiErr.AlreadyRefunded() {
			// Expected business outcome, not an exception.
			return &RefundResult{
				Success: false,
				Error:   ErrCodeAlreadyRefunded,
				Message: "This charge has already been refunded.",
			}, nil
		}
		return nil, &MutationError{Err: err}
	}

	return &RefundResult{
		Success:        true,
		RefundID:       refund.ID,
		Status:         refund.Status,
		AmountRefunded: float64(refund.Amount) / 100,
		Currency:       refund.Currency,
		OriginalCharge: chargeID,
	}, nil
}

func refundIdempotencyKey(chargeID string, day time.Time) string {
	return fmt.Sprintf("refund_%s_%s", chargeID, day.Format("2006-01-02"))
}
