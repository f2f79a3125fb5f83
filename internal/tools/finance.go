package tools

import (
	"context"
)

// financeTools builds the tool bindings for the finance engine. Schema
// descriptions are written for an agent runtime: the phrasing steers
// models away from passing structured objects where strings are
// expected.
func financeTools(engine FinanceOps) []Tool {
	return []Tool{
		{
			Name:        "get_financial_metrics",
			Description: "Calculate total revenue volume and transaction count between two inclusive dates. Requires 'start_date' and 'end_date' as simple strings (YYYY-MM-DD).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"start_date": map[string]interface{}{
						"type":        "string",
						"description": "The start date as a simple string in 'YYYY-MM-DD' format (e.g. '2023-01-01'). Do NOT pass an object.",
					},
					"end_date": map[string]interface{}{
						"type":        "string",
						"description": "The end date as a simple string in 'YYYY-MM-DD' format (e.g. '2023-01-31'). Do NOT pass an object.",
					},
				},
				"required": []string{"start_date", "end_date"},
			},
			ValidateInput: func(args map[string]interface{}) error {
				if _, err := requireString(args, "start_date"); err != nil {
					return err
				}
				_, err := requireString(args, "end_date")
				return err
			},
			Run: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
				start, _ := args["start_date"].(string)
				end, _ := args["end_date"].(string)
				return engine.GetFinancialMetrics(ctx, start, end)
			},
		},
		{
			Name:        "investigate_payment_failure",
			Description: "Search for failed payments AND recent refunds by customer email. Returns details of failures and refunds to assist with support.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"customer_email": map[string]interface{}{
						"type":        "string",
						"description": "The email address of the customer to investigate. Pass as a simple string.",
					},
				},
				"required": []string{"customer_email"},
			},
			ValidateInput: func(args map[string]interface{}) error {
				_, err := requireString(args, "customer_email")
				return err
			},
			Run: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
				email, _ := args["customer_email"].(string)
				return engine.InvestigatePaymentFailure(ctx, email)
			},
		},
		{
			Name:        "execute_secure_refund",
			Description: "Issue a full refund to a customer for a specific charge. REQUIRES HUMAN CONFIRMATION. Requires 'charge_id' as a simple string.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"charge_id": map[string]interface{}{
						"type":        "string",
						"description": "The charge ID (e.g., ch_123) to refund. Pass as a simple string.",
					},
					"reason": map[string]interface{}{
						"type":        "string",
						"description": "The internal reason for the refund: duplicate, fraudulent, or requested_by_customer.",
					},
				},
				"required": []string{"charge_id", "reason"},
			},
			ValidateInput: func(args map[string]interface{}) error {
				if _, err := requireString(args, "charge_id"); err != nil {
					return err
				}
				_, err := requireString(args, "reason")
				return err
			},
			Run: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
				chargeID, _ := args["charge_id"].(string)
				reason, _ := args["reason"].(string)
				return engine.ExecuteSecureRefund(ctx, chargeID, reason)
			},
		},
	}
}
