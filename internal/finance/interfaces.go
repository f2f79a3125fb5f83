package finance

import (
	"context"

	"github.com/paydesk/finagent/internal/ledger"
)

// LedgerAPI is the slice of the payment processor's API the engine
// consumes. The production implementation is *ledger.Client.
type LedgerAPI interface {
	// ListEntries fetches one page of balance entries for a date range.
	ListEntries(ctx context.Context, p ledger.ListEntriesParams) (*ledger.EntryPage, error)

	// SearchCustomers finds customers by exact email match.
	SearchCustomers(ctx context.Context, email string, limit int) (*ledger.CustomerSearchResult, error)

	// SearchCharges finds charges for a customer, optionally filtered
	// to a status.
	SearchCharges(ctx context.Context, p ledger.SearchChargesParams) (*ledger.ChargeSearchResult, error)

	// CreateRefund submits a refund mutation. Implementations must not
	// retry it.
	CreateRefund(ctx context.Context, p ledger.CreateRefundParams) (*ledger.Refund, error)
}
