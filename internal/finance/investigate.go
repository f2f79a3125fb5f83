package finance

import (
	"context"
	"net/mail"
	"strings"

	"github.com/paydesk/finagent/internal/ledger"
)

const (
	failedChargeLimit = 10
	recentChargeLimit = 20
	refundRecordCap   = 5
)

// InvestigatePaymentFailure resolves a customer by email, then
// cross-references their failed charges and recently refunded charges.
// A customer that does not exist yields found_count=0 with empty lists
// and no further queries; that is the contract, not a fallback.
//
// If the upstream holds multiple accounts for one email, only the first
// match is used.
func (e *Engine) InvestigatePaymentFailure(ctx context.Context, customerEmail string) (*InvestigationReport, error) {
	if err := validateEmail(customerEmail); err != nil {
		return nil, err
	}

	e.log.Info().Str("email", customerEmail).Msg("investigating payment failures")

	customers, err := e.ledger.SearchCustomers(ctx, customerEmail, 1)
	if err != nil {
		return nil, &QueryError{Op: "customer search", Err: err}
	}

	if len(customers.Data) == 0 {
		e.log.Info().Str("email", customerEmail).Msg("customer not found, returning empty report")
		return &InvestigationReport{
			RequestID:  customers.RequestID,
			FoundCount: 0,
			Failures:   []FailureRecord{},
			Refunds:    []RefundRecord{},
		}, nil
	}
	customerID := customers.Data[0].ID

	failed, err := e.ledger.SearchCharges(ctx, ledger.SearchChargesParams{
		CustomerID: customerID,
		Status:     "failed",
		Limit:      failedChargeLimit,
	})
	if err != nil {
		return nil, &QueryError{Op: "failed charge search", Err: err}
	}

	// Upstream order is preserved, typically recency-first.
	failures := make([]FailureRecord, 0, len(failed.Data))
	for _, charge := range failed.Data {
		failures = append(failures, FailureRecord{
			ID:             charge.ID,
			Amount:         float64(charge.Amount) / 100,
			Created:        charge.Created,
			FailureCode:    charge.FailureCode,
			FailureMessage: charge.FailureMessage,
			Status:         charge.Status,
		})
	}

	// Refunds are not directly searchable upstream; fetch a wider
	// window of the customer's recent charges and keep the refunded
	// ones.
	recent, err := e.ledger.SearchCharges(ctx, ledger.SearchChargesParams{
		CustomerID: customerID,
		Limit:      recentChargeLimit,
	})
	if err != nil {
		return nil, &QueryError{Op: "recent charge search", Err: err}
	}

	refunds := []RefundRecord{}
	for _, charge := range recent.Data {
		if !charge.Refunded && charge.AmountRefunded <= 0 {
			continue
		}
		status := "partial"
		if charge.Refunded {
			status = "refunded"
		}
		refunds = append(refunds, RefundRecord{
			ID:       charge.ID,
			Amount:   float64(charge.AmountRefunded) / 100,
			Status:   status,
			ChargeID: charge.ID,
		})
		if len(refunds) == refundRecordCap {
			break
		}
	}

	return &InvestigationReport{
		RequestID:  failed.RequestID,
		FoundCount: len(failed.Data),
		Failures:   failures,
		Refunds:    refunds,
	}, nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != strings.TrimSpace(email) {
		return &ValidationError{Field: "customer_email", Message: "must be a well-formed email address"}
	}
	return nil
}
