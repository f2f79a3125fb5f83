package finance

import (
	"time"

	"github.com/rs/zerolog"
)

const defaultPageSize = 100

// Engine implements the financial operations: revenue aggregation,
// payment failure investigation, and secure refund execution. It is
// stateless between calls; the remote ledger is the single source of
// truth.
type Engine struct {
	ledger   LedgerAPI
	log      zerolog.Logger
	pageSize int
	now      func() time.Time
}

// Options tunes engine construction. Zero values select defaults.
type Options struct {
	// PageSize sets the entry page size for revenue aggregation.
	// Results are page-size-invariant; this exists for tuning and
	// tests.
	PageSize int

	// Now supplies the current time. Overridden in tests to pin the
	// idempotency-key date.
	Now func() time.Time
}

// New creates an engine backed by the given ledger client.
func New(ledger LedgerAPI, log zerolog.Logger, opts Options) *Engine {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		ledger:   ledger,
		log:      log,
		pageSize: pageSize,
		now:      now,
	}
}
