package finance

import (
	"context"
	"time"

	"github.com/paydesk/finagent/internal/ledger"
)

const currencyUSD = "usd"

// GetFinancialMetrics walks every balance entry of type "charge"
// created within [startDate, endDate] and returns the aggregated
// totals. Dates are inclusive YYYY-MM-DD strings, converted to
// epoch-second bounds at midnight UTC. Any page-fetch failure aborts
// the whole aggregation; a truncated sum is never returned.
func (e *Engine) GetFinancialMetrics(ctx context.Context, startDate, endDate string) (*MetricsReport, error) {
	start, err := parseDate(startDate)
	if err != nil {
		return nil, &ValidationError{Field: "start_date", Message: "must be a YYYY-MM-DD date"}
	}
	end, err := parseDate(endDate)
	if err != nil {
		return nil, &ValidationError{Field: "end_date", Message: "must be a YYYY-MM-DD date"}
	}

	e.log.Info().Str("start", startDate).Str("end", endDate).Msg("aggregating financial metrics")

	var totalAmount, totalFee int64
	count := 0
	cursor := ""

	for {
		page, err := e.ledger.ListEntries(ctx, ledger.ListEntriesParams{
			Type:          "charge",
			CreatedGTE:    start.Unix(),
			CreatedLTE:    end.Unix(),
			Limit:         e.pageSize,
			StartingAfter: cursor,
		})
		if err != nil {
			return nil, &QueryError{Op: "list entries", Err: err}
		}

		for _, entry := range page.Data {
			totalAmount += entry.Amount
			totalFee += entry.Fee
			count++
		}

		if !page.HasMore || len(page.Data) == 0 {
			break
		}
		// Cursor advances strictly forward from the last entry seen.
		cursor = page.Data[len(page.Data)-1].ID
	}

	// Minor units become dollars exactly once, here at the report
	// boundary.
	return &MetricsReport{
		StartDate:        startDate,
		EndDate:          endDate,
		TotalVolume:      float64(totalAmount) / 100,
		TotalFees:        float64(totalFee) / 100,
		NetRevenue:       float64(totalAmount-totalFee) / 100,
		TransactionCount: count,
		Currency:         currencyUSD,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
