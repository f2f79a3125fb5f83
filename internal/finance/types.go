package finance

// MetricsReport is the aggregated revenue picture for a date range.
// Monetary fields are major-unit decimals (dollars, not cents).
type MetricsReport struct {
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	TotalVolume      float64 `json:"total_volume"`
	TotalFees        float64 `json:"total_fees"`
	NetRevenue       float64 `json:"net_revenue"`
	TransactionCount int     `json:"transaction_count"`
	Currency         string  `json:"currency"`
}

// FailureRecord describes one failed charge found during an
// investigation.
type FailureRecord struct {
	ID             string  `json:"id"`
	Amount         float64 `json:"amount"`
	Created        int64   `json:"created"`
	FailureCode    string  `json:"failure_code,omitempty"`
	FailureMessage string  `json:"failure_message,omitempty"`
	Status         string  `json:"status"`
}

// RefundRecord describes one refunded charge found during an
// investigation. Status is "refunded" for full refunds, "partial"
// otherwise.
type RefundRecord struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Status   string  `json:"status"`
	ChargeID string  `json:"charge_id"`
}

// InvestigationReport cross-references a customer's failed charges and
// recent refunds. FoundCount counts failed charges; a customer that
// does not exist yields a zero report, not an error.
type InvestigationReport struct {
	RequestID  string          `json:"request_id,omitempty"`
	FoundCount int             `json:"found_count"`
	Failures   []FailureRecord `json:"failures"`
	Refunds    []RefundRecord  `json:"refunds"`
}

// RefundResult is the outcome of a refund submission. The
// already-refunded case is an expected business outcome reported with
// Success=false and Error set; anything else surfaces as a Go error.
type RefundResult struct {
	Success        bool    `json:"success"`
	RefundID       string  `json:"refund_id,omitempty"`
	Status         string  `json:"status,omitempty"`
	AmountRefunded float64 `json:"amount_refunded,omitempty"`
	Currency       string  `json:"currency,omitempty"`
	OriginalCharge string  `json:"original_charge,omitempty"`
	Error          string  `json:"error,omitempty"`
	Message        string  `json:"message,omitempty"`
}
