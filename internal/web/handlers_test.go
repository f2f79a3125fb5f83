package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/paydesk/finagent/internal/finance"
	"github.com/paydesk/finagent/internal/tools"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubEngine implements tools.FinanceOps for handler tests
type stubEngine struct {
	metricsErr error
	refundErr  error
}

func (s *stubEngine) GetFinancialMetrics(ctx context.Context, startDate, endDate string) (*finance.MetricsReport, error) {
	if s.metricsErr != nil {
		return nil, s.metricsErr
	}
	return &finance.MetricsReport{
		StartDate:        startDate,
		EndDate:          endDate,
		TotalVolume:      75.00,
		TotalFees:        2.33,
		NetRevenue:       72.67,
		TransactionCount: 2,
		Currency:         "usd",
	}, nil
}

func (s *stubEngine) InvestigatePaymentFailure(ctx context.Context, customerEmail string) (*finance.InvestigationReport, error) {
	return &finance.InvestigationReport{Failures: []finance.FailureRecord{}, Refunds: []finance.RefundRecord{}}, nil
}

func (s *stubEngine) ExecuteSecureRefund(ctx context.Context, chargeID, reason string) (*finance.RefundResult, error) {
	if s.refundErr != nil {
		return nil, s.refundErr
	}
	return &finance.RefundResult{Success: true, RefundID: "re_1", Status: "succeeded"}, nil
}

func newTestServer(engine tools.FinanceOps) *Server {
	registry := tools.NewRegistry(engine, nil, "session-test", zerolog.Nop())
	return NewServer(registry, zerolog.Nop())
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestHandleHealth(t *testing.T) {
	t.Run("Given a running server When health checked Then it reports online", func(t *testing.T) {
		// Given
		server := newTestServer(&stubEngine{})

		// When
		w := doRequest(server, http.MethodGet, "/health", "")

		// Then
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if body["status"] != "online" || body["service"] != "finagent" {
			t.Errorf("unexpected health body: %v", body)
		}
	})
}

func TestHandleListTools(t *testing.T) {
	t.Run("Given the registry When tools listed Then all three are returned", func(t *testing.T) {
		// Given
		server := newTestServer(&stubEngine{})

		// When
		w := doRequest(server, http.MethodGet, "/api/tools", "")

		// Then
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body struct {
			Success bool `json:"success"`
			Count   int  `json:"count"`
			Tools   []struct {
				Name string `json:"name"`
			} `json:"tools"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if !body.Success || body.Count != 3 {
			t.Errorf("unexpected body: %+v", body)
		}
	})
}

func TestHandleInvokeTool(t *testing.T) {
	t.Run("Given valid metrics args When invoked Then the report is returned", func(t *testing.T) {
		// Given
		server := newTestServer(&stubEngine{})

		// When
		w := doRequest(server, http.MethodPost, "/api/tools/get_financial_metrics",
			`{"start_date":"2023-11-01","end_date":"2023-11-30"}`)

		// Then
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var body struct {
			Success bool `json:"success"`
			Data    struct {
				NetRevenue       float64 `json:"net_revenue"`
				TransactionCount int     `json:"transaction_count"`
			} `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if !body.Success || body.Data.NetRevenue != 72.67 || body.Data.TransactionCount != 2 {
			t.Errorf("unexpected body: %+v", body)
		}
	})

	t.Run("Given a missing argument When invoked Then a 400 is returned", func(t *testing.T) {
		// Given
		server := newTestServer(&stubEngine{})

		// When
		w := doRequest(server, http.MethodPost, "/api/tools/get_financial_metrics",
			`{"start_date":"2023-11-01"}`)

		// Then
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("Given malformed input rejected by the engine When invoked Then a 400 is returned", func(t *testing.T) {
		// Given
		server := newTestServer(&stubEngine{
			metricsErr: &finance.ValidationError{Field: "start_date", Message: "must be a YYYY-MM-DD date"},
		})

		// When
		w := doRequest(server, http.MethodPost, "/api/tools/get_financial_metrics",
			`{"start_date":"nope","end_date":"2023-11-30"}`)

		// Then
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("Given an upstream failure When invoked Then a 502 is returned", func(t *testing.T) {
		// Given
		server := newTestServer(&stubEngine{
			metricsErr: &finance.QueryError{Op: "list entries", Err: context.DeadlineExceeded},
		})

		// When
		w := doRequest(server, http.MethodPost, "/api/tools/get_financial_metrics",
			`{"start_date":"2023-11-01","end_date":"2023-11-30"}`)

		// Then
		if w.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("Given an unknown tool When invoked Then a 404 is returned", func(t *testing.T) {
		// Given
		server := newTestServer(&stubEngine{})

		// When
		w := doRequest(server, http.MethodPost, "/api/tools/not_a_tool", `{}`)

		// Then
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}
