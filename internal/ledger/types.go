package ledger

import (
	"fmt"
	"strings"
)

// Entry is a single balance history entry recorded by the payment
// processor: the amount moved, the fee taken, and when it happened.
// Amounts are in minor units (cents).
type Entry struct {
	ID      string `json:"id"`
	Amount  int64  `json:"amount"`
	Fee     int64  `json:"fee"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
}

// EntryPage is one page of a cursor-paginated entry listing.
type EntryPage struct {
	Data    []Entry `json:"data"`
	HasMore bool    `json:"has_more"`
}

// Customer is a customer account on the payment processor.
type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Charge is a payment attempt. Amounts are in minor units.
type Charge struct {
	ID             string `json:"id"`
	Amount         int64  `json:"amount"`
	AmountRefunded int64  `json:"amount_refunded"`
	Refunded       bool   `json:"refunded"`
	Status         string `json:"status"`
	FailureCode    string `json:"failure_code"`
	FailureMessage string `json:"failure_message"`
	Created        int64  `json:"created"`
	Customer       string `json:"customer"`
}

// Refund is the result of a refund mutation. Amount is in minor units.
type Refund struct {
	ID       string `json:"id"`
	Charge   string `json:"charge"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// CustomerSearchResult holds the customers matching a search together
// with the upstream request id for traceability.
type CustomerSearchResult struct {
	Data      []Customer
	RequestID string
}

// ChargeSearchResult holds the charges matching a search together with
// the upstream request id.
type ChargeSearchResult struct {
	Data      []Charge
	RequestID string
}

// ListEntriesParams selects a page of balance entries.
type ListEntriesParams struct {
	Type          string
	CreatedGTE    int64
	CreatedLTE    int64
	Limit         int
	StartingAfter string
}

// SearchChargesParams selects charges for a customer, optionally
// narrowed to a status.
type SearchChargesParams struct {
	CustomerID string
	Status     string
	Limit      int
}

// CreateRefundParams submits a refund for a charge. The idempotency key
// lets the upstream deduplicate resubmissions.
type CreateRefundParams struct {
	ChargeID       string
	Reason         string
	IdempotencyKey string
}

// CreateCustomerParams creates a customer account.
type CreateCustomerParams struct {
	Email       string
	Name        string
	Description string
}

// CreateChargeParams creates a charge against a customer source.
type CreateChargeParams struct {
	Amount      int64
	Currency    string
	CustomerID  string
	Source      string
	Description string
}

// APIError is a structured error returned by the payment API.
type APIError struct {
	StatusCode int
	Type       string `json:"type"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ledger API error (%d %s): %s", e.StatusCode, e.Type, e.Message)
}

// AlreadyRefunded reports whether the error is the upstream signal that
// the charge has already been fully refunded. The message probe covers
// upstreams that omit the error code.
func (e *APIError) AlreadyRefunded() bool {
	if e.Code == "charge_already_refunded" {
		return true
	}
	return e.Type == "invalid_request_error" && strings.Contains(e.Message, "already been refunded")
}
