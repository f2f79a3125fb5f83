package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultBaseURL    = "https://api.stripe.com"
	maxReadRetries    = 3
	initialRetryDelay = 1 * time.Second
)

// Client is an HTTP client for the payment processor's ledger API.
// Read requests are retried with exponential backoff on rate limits and
// server errors; mutations are submitted exactly once.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// Config holds client construction parameters. BaseURL is optional and
// defaults to the production API host.
type Config struct {
	APIKey  string
	BaseURL string
	Logger  zerolog.Logger
}

// New creates a new ledger client.
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     cfg.Logger,
	}
}

// ListEntries fetches one page of balance entries. The cursor in
// StartingAfter is the id of the last entry of the previous page.
func (c *Client) ListEntries(ctx context.Context, p ListEntriesParams) (*EntryPage, error) {
	params := url.Values{}
	if p.Type != "" {
		params.Set("type", p.Type)
	}
	params.Set("created[gte]", strconv.FormatInt(p.CreatedGTE, 10))
	params.Set("created[lte]", strconv.FormatInt(p.CreatedLTE, 10))
	params.Set("limit", strconv.Itoa(p.Limit))
	if p.StartingAfter != "" {
		params.Set("starting_after", p.StartingAfter)
	}

	body, _, err := c.get(ctx, "/v1/balance_transactions", params)
	if err != nil {
		return nil, err
	}

	var page EntryPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to decode entry page: %w", err)
	}
	for i, entry := range page.Data {
		if entry.ID == "" {
			return nil, fmt.Errorf("entry %d in page has no id", i)
		}
	}
	return &page, nil
}

// SearchCustomers finds customers whose email matches exactly.
func (c *Client) SearchCustomers(ctx context.Context, email string, limit int) (*CustomerSearchResult, error) {
	params := url.Values{}
	params.Set("query", fmt.Sprintf("email:%q", email))
	params.Set("limit", strconv.Itoa(limit))

	body, requestID, err := c.get(ctx, "/v1/customers/search", params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []Customer `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode customer search: %w", err)
	}
	for i, cust := range resp.Data {
		if cust.ID == "" {
			return nil, fmt.Errorf("customer %d in search result has no id", i)
		}
	}
	return &CustomerSearchResult{Data: resp.Data, RequestID: requestID}, nil
}

// SearchCharges finds charges for a customer, optionally filtered to a
// status.
func (c *Client) SearchCharges(ctx context.Context, p SearchChargesParams) (*ChargeSearchResult, error) {
	query := fmt.Sprintf("customer:%q", p.CustomerID)
	if p.Status != "" {
		query += fmt.Sprintf(" AND status:%q", p.Status)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(p.Limit))

	body, requestID, err := c.get(ctx, "/v1/charges/search", params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []Charge `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode charge search: %w", err)
	}
	for i, charge := range resp.Data {
		if charge.ID == "" {
			return nil, fmt.Errorf("charge %d in search result has no id", i)
		}
	}
	return &ChargeSearchResult{Data: resp.Data, RequestID: requestID}, nil
}

// CreateRefund submits a refund mutation. The request is sent exactly
// once; deduplication of resubmissions is the idempotency key's job.
func (c *Client) CreateRefund(ctx context.Context, p CreateRefundParams) (*Refund, error) {
	form := url.Values{}
	form.Set("charge", p.ChargeID)
	form.Set("reason", p.Reason)

	headers := http.Header{}
	if p.IdempotencyKey != "" {
		headers.Set("Idempotency-Key", p.IdempotencyKey)
	}

	body, _, err := c.post(ctx, "/v1/refunds", form, headers)
	if err != nil {
		return nil, err
	}

	var refund Refund
	if err := json.Unmarshal(body, &refund); err != nil {
		return nil, fmt.Errorf("failed to decode refund: %w", err)
	}
	if refund.ID == "" || refund.Status == "" {
		return nil, fmt.Errorf("refund response missing id or status")
	}
	return &refund, nil
}

// CreateCustomer creates a customer account. Used by seeding.
func (c *Client) CreateCustomer(ctx context.Context, p CreateCustomerParams) (*Customer, error) {
	form := url.Values{}
	form.Set("email", p.Email)
	if p.Name != "" {
		form.Set("name", p.Name)
	}
	if p.Description != "" {
		form.Set("description", p.Description)
	}

	body, _, err := c.post(ctx, "/v1/customers", form, nil)
	if err != nil {
		return nil, err
	}

	var cust Customer
	if err := json.Unmarshal(body, &cust); err != nil {
		return nil, fmt.Errorf("failed to decode customer: %w", err)
	}
	if cust.ID == "" {
		return nil, fmt.Errorf("customer response missing id")
	}
	return &cust, nil
}

// CreateCharge creates a charge. Used by seeding.
func (c *Client) CreateCharge(ctx context.Context, p CreateChargeParams) (*Charge, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(p.Amount, 10))
	form.Set("currency", p.Currency)
	if p.CustomerID != "" {
		form.Set("customer", p.CustomerID)
	}
	if p.Source != "" {
		form.Set("source", p.Source)
	}
	if p.Description != "" {
		form.Set("description", p.Description)
	}

	body, _, err := c.post(ctx, "/v1/charges", form, nil)
	if err != nil {
		return nil, err
	}

	var charge Charge
	if err := json.Unmarshal(body, &charge); err != nil {
		return nil, fmt.Errorf("failed to decode charge: %w", err)
	}
	if charge.ID == "" {
		return nil, fmt.Errorf("charge response missing id")
	}
	return &charge, nil
}

// get issues a read request with bounded retry on rate limits (429) and
// server errors (5xx). Returns the response body and request id.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, string, error) {
	if c.apiKey == "" {
		return nil, "", fmt.Errorf("ledger API key not set")
	}

	endpoint := c.baseURL + path + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt < maxReadRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * initialRetryDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, "", ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		body, requestID, retryable, err := c.send(req)
		if err == nil {
			return body, requestID, nil
		}
		lastErr = err
		if !retryable {
			return nil, "", err
		}
	}

	return nil, "", fmt.Errorf("max retries (%d) exceeded: %w", maxReadRetries, lastErr)
}

// post issues a mutation request exactly once. Retrying a failed
// mutation is the caller's decision, never the client's.
func (c *Client) post(ctx context.Context, path string, form url.Values, headers http.Header) ([]byte, string, error) {
	if c.apiKey == "" {
		return nil, "", fmt.Errorf("ledger API key not set")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	body, requestID, _, err := c.send(req)
	return body, requestID, err
}

// send executes one request. The third return value reports whether the
// failure is worth retrying (network error, 429, or 5xx).
func (c *Client) send(req *http.Request) ([]byte, string, bool, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", true, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	requestID := resp.Header.Get("Request-Id")

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, requestID, true, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseAPIError(resp.StatusCode, body)
		c.log.Warn().
			Str("path", req.URL.Path).
			Int("status", resp.StatusCode).
			Str("code", apiErr.Code).
			Msg("ledger API error")
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, requestID, retryable, apiErr
	}

	return body, requestID, false, nil
}

func parseAPIError(statusCode int, body []byte) *APIError {
	var envelope struct {
		Error APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr := envelope.Error
		apiErr.StatusCode = statusCode
		return &apiErr
	}
	return &APIError{
		StatusCode: statusCode,
		Type:       "api_error",
		Message:    strings.TrimSpace(string(body)),
	}
}
