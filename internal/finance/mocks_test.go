package finance

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/paydesk/finagent/internal/ledger"
)

// Common test errors
var (
	ErrMockQuery    = errors.New("mock query error")
	ErrMockMutation = errors.New("mock mutation error")
)

// MockLedger implements LedgerAPI for testing. Entries are served in
// order with cursor-based pagination the way the upstream does it.
type MockLedger struct {
	mu sync.Mutex

	Entries        []ledger.Entry
	Customers      []ledger.Customer
	FailedCharges  []ledger.Charge
	RecentCharges  []ledger.Charge
	RefundResponse *ledger.Refund
	RefundErr      error

	ListEntriesFunc func(ctx context.Context, p ledger.ListEntriesParams) (*ledger.EntryPage, error)

	ListCalls          int
	ListParams         []ledger.ListEntriesParams
	CustomerSearches   int
	ChargeSearches     int
	ChargeSearchParams []ledger.SearchChargesParams
	RefundCalls        int
	LastRefundParams   ledger.CreateRefundParams

	FailListOnCall int // fail the Nth ListEntries call (0 = never)
}

func (m *MockLedger) ListEntries(ctx context.Context, p ledger.ListEntriesParams) (*ledger.EntryPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ListCalls++
	m.ListParams = append(m.ListParams, p)

	if m.FailListOnCall > 0 && m.ListCalls >= m.FailListOnCall {
		return nil, ErrMockQuery
	}

	if m.ListEntriesFunc != nil {
		return m.ListEntriesFunc(ctx, p)
	}

	// Serve entries after the cursor, one page at a time.
	start := 0
	if p.StartingAfter != "" {
		for i, entry := range m.Entries {
			if entry.ID == p.StartingAfter {
				start = i + 1
				break
			}
		}
	}

	end := start + p.Limit
	if end > len(m.Entries) {
		end = len(m.Entries)
	}

	return &ledger.EntryPage{
		Data:    m.Entries[start:end],
		HasMore: end < len(m.Entries),
	}, nil
}

func (m *MockLedger) SearchCustomers(ctx context.Context, email string, limit int) (*ledger.CustomerSearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CustomerSearches++

	var matches []ledger.Customer
	for _, cust := range m.Customers {
		if cust.Email == email {
			matches = append(matches, cust)
		}
		if len(matches) == limit {
			break
		}
	}

	return &ledger.CustomerSearchResult{Data: matches, RequestID: "req_mock"}, nil
}

func (m *MockLedger) SearchCharges(ctx context.Context, p ledger.SearchChargesParams) (*ledger.ChargeSearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ChargeSearches++
	m.ChargeSearchParams = append(m.ChargeSearchParams, p)

	source := m.RecentCharges
	if p.Status == "failed" {
		source = m.FailedCharges
	}

	data := source
	if len(data) > p.Limit {
		data = data[:p.Limit]
	}

	return &ledger.ChargeSearchResult{Data: data, RequestID: "req_mock"}, nil
}

func (m *MockLedger) CreateRefund(ctx context.Context, p ledger.CreateRefundParams) (*ledger.Refund, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RefundCalls++
	m.LastRefundParams = p

	if m.RefundErr != nil {
		return nil, m.RefundErr
	}
	if m.RefundResponse != nil {
		return m.RefundResponse, nil
	}

	return &ledger.Refund{
		ID:       "re_mock_1",
		Charge:   p.ChargeID,
		Amount:   1000,
		Currency: "usd",
		Status:   "succeeded",
	}, nil
}

// makeEntries builds n synthetic charge entries with deterministic
// amounts and fees.
func makeEntries(n int) []ledger.Entry {
	entries := make([]ledger.Entry, n)
	for i := range entries {
		entries[i] = ledger.Entry{
			ID:      fmt.Sprintf("txn_%03d", i),
			Amount:  int64(1000 + i),
			Fee:     int64(30 + i%7),
			Type:    "charge",
			Created: int64(1700000000 + i*60),
		}
	}
	return entries
}
