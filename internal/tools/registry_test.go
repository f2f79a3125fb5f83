package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/paydesk/finagent/internal/audit"
	"github.com/paydesk/finagent/internal/finance"
)

// MockFinanceOps implements FinanceOps for testing
type MockFinanceOps struct {
	MetricsCalls     int
	InvestigateCalls int
	RefundCalls      int

	LastStart, LastEnd     string
	LastEmail              string
	LastCharge, LastReason string

	Err error
}

func (m *MockFinanceOps) GetFinancialMetrics(ctx context.Context, startDate, endDate string) (*finance.MetricsReport, error) {
	m.MetricsCalls++
	m.LastStart, m.LastEnd = startDate, endDate
	if m.Err != nil {
		return nil, m.Err
	}
	return &finance.MetricsReport{StartDate: startDate, EndDate: endDate, Currency: "usd"}, nil
}

func (m *MockFinanceOps) InvestigatePaymentFailure(ctx context.Context, customerEmail string) (*finance.InvestigationReport, error) {
	m.InvestigateCalls++
	m.LastEmail = customerEmail
	if m.Err != nil {
		return nil, m.Err
	}
	return &finance.InvestigationReport{Failures: []finance.FailureRecord{}, Refunds: []finance.RefundRecord{}}, nil
}

func (m *MockFinanceOps) ExecuteSecureRefund(ctx context.Context, chargeID, reason string) (*finance.RefundResult, error) {
	m.RefundCalls++
	m.LastCharge, m.LastReason = chargeID, reason
	if m.Err != nil {
		return nil, m.Err
	}
	return &finance.RefundResult{Success: true, RefundID: "re_1", Status: "succeeded"}, nil
}

// MockRecorder implements Recorder for testing
type MockRecorder struct {
	Records []*audit.Invocation
}

func (m *MockRecorder) Record(inv *audit.Invocation) error {
	m.Records = append(m.Records, inv)
	return nil
}

func TestRegistry_Definitions(t *testing.T) {
	t.Run("Given a registry When definitions listed Then all three tools appear in order", func(t *testing.T) {
		// Given
		registry := NewRegistry(&MockFinanceOps{}, nil, "session-1", zerolog.Nop())

		// When
		defs := registry.Definitions()

		// Then
		want := []string{"get_financial_metrics", "investigate_payment_failure", "execute_secure_refund"}
		if len(defs) != len(want) {
			t.Fatalf("expected %d tools, got %d", len(want), len(defs))
		}
		for i, name := range want {
			if defs[i].Name != name {
				t.Errorf("tool %d: expected %s, got %s", i, name, defs[i].Name)
			}
			if defs[i].Description == "" || defs[i].InputSchema == nil {
				t.Errorf("tool %s: missing description or schema", name)
			}
		}
	})
}

func TestRegistry_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("Given metrics args When handled Then the engine receives the dates", func(t *testing.T) {
		// Given
		engine := &MockFinanceOps{}
		registry := NewRegistry(engine, nil, "session-1", zerolog.Nop())

		// When
		result, err := registry.Handle(ctx, "get_financial_metrics", map[string]interface{}{
			"start_date": "2023-11-01",
			"end_date":   "2023-11-30",
		})

		// Then
		if err != nil {
			t.Fatalf("Handle failed: %v", err)
		}
		if engine.MetricsCalls != 1 || engine.LastStart != "2023-11-01" || engine.LastEnd != "2023-11-30" {
			t.Errorf("engine not called as expected: %+v", engine)
		}
		report, ok := result.(*finance.MetricsReport)
		if !ok || report.Currency != "usd" {
			t.Errorf("unexpected result: %#v", result)
		}
	})

	t.Run("Given a missing argument When handled Then validation rejects before the engine is called", func(t *testing.T) {
		cases := []struct {
			tool string
			args map[string]interface{}
		}{
			{"get_financial_metrics", map[string]interface{}{"start_date": "2023-11-01"}},
			{"investigate_payment_failure", map[string]interface{}{}},
			{"execute_secure_refund", map[string]interface{}{"charge_id": "ch_1"}},
		}

		for _, tc := range cases {
			// Given
			engine := &MockFinanceOps{}
			registry := NewRegistry(engine, nil, "session-1", zerolog.Nop())

			// When
			_, err := registry.Handle(ctx, tc.tool, tc.args)

			// Then
			if err == nil || !strings.Contains(err.Error(), "is required") {
				t.Errorf("%s: expected required-argument error, got %v", tc.tool, err)
			}
			if engine.MetricsCalls+engine.InvestigateCalls+engine.RefundCalls != 0 {
				t.Errorf("%s: engine called despite invalid input", tc.tool)
			}
		}
	})

	t.Run("Given an unknown tool When handled Then an error is returned", func(t *testing.T) {
		// Given
		registry := NewRegistry(&MockFinanceOps{}, nil, "session-1", zerolog.Nop())

		// When
		_, err := registry.Handle(ctx, "transfer_all_funds", nil)

		// Then
		if err == nil || !strings.Contains(err.Error(), "unknown tool") {
			t.Errorf("expected unknown tool error, got %v", err)
		}
	})

	t.Run("Given a recorder When tools are handled Then invocations are audited", func(t *testing.T) {
		// Given
		engine := &MockFinanceOps{}
		recorder := &MockRecorder{}
		registry := NewRegistry(engine, recorder, "session-1", zerolog.Nop())

		// When: one success, one engine failure.
		if _, err := registry.Handle(ctx, "execute_secure_refund", map[string]interface{}{
			"charge_id": "ch_1",
			"reason":    "duplicate",
		}); err != nil {
			t.Fatalf("Handle failed: %v", err)
		}

		engine.Err = errors.New("upstream down")
		_, _ = registry.Handle(ctx, "investigate_payment_failure", map[string]interface{}{
			"customer_email": "alice@example.com",
		})

		// Then
		if len(recorder.Records) != 2 {
			t.Fatalf("expected 2 audit records, got %d", len(recorder.Records))
		}
		first := recorder.Records[0]
		if first.Tool != "execute_secure_refund" || !first.Success || first.SessionID != "session-1" {
			t.Errorf("unexpected first record: %+v", first)
		}
		if first.ID == "" {
			t.Errorf("expected invocation id assigned")
		}
		second := recorder.Records[1]
		if second.Success || second.Error == "" {
			t.Errorf("expected failed invocation recorded with error, got %+v", second)
		}
	})
}
