package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/paydesk/finagent/internal/audit"
	"github.com/paydesk/finagent/internal/finance"
)

// FinanceOps is the engine surface the registry exposes as tools.
type FinanceOps interface {
	GetFinancialMetrics(ctx context.Context, startDate, endDate string) (*finance.MetricsReport, error)
	InvestigatePaymentFailure(ctx context.Context, customerEmail string) (*finance.InvestigationReport, error)
	ExecuteSecureRefund(ctx context.Context, chargeID, reason string) (*finance.RefundResult, error)
}

// Recorder receives the audit record of each invocation. May be nil.
type Recorder interface {
	Record(inv *audit.Invocation) error
}

// Handler executes a tool call with already-validated arguments.
type Handler func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// Tool binds an operation name to its schema, input validator, and
// handler. The registry is built explicitly at startup; there is no
// reflection or annotation scanning.
type Tool struct {
	Name          string
	Description   string
	InputSchema   map[string]interface{}
	ValidateInput func(args map[string]interface{}) error
	Run           Handler
}

// Registry maps tool names to their definitions and handlers.
type Registry struct {
	tools     map[string]Tool
	order     []string
	recorder  Recorder
	sessionID string
	log       zerolog.Logger
}

// NewRegistry builds the tool registry over a finance engine.
func NewRegistry(engine FinanceOps, recorder Recorder, sessionID string, log zerolog.Logger) *Registry {
	r := &Registry{
		tools:     make(map[string]Tool),
		recorder:  recorder,
		sessionID: sessionID,
		log:       log,
	}
	for _, tool := range financeTools(engine) {
		r.tools[tool.Name] = tool
		r.order = append(r.order, tool.Name)
	}
	return r
}

// Definitions returns every registered tool in registration order.
func (r *Registry) Definitions() []Tool {
	defs := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name])
	}
	return defs
}

// Handle validates the arguments, dispatches to the named tool, and
// records the invocation to the audit trail.
func (r *Registry) Handle(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	tool, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}

	started := time.Now()
	var result interface{}
	err := tool.ValidateInput(args)
	if err == nil {
		result, err = tool.Run(ctx, args)
	}

	r.record(name, args, started, err)

	if err != nil {
		r.log.Warn().Str("tool", name).Err(err).Msg("tool call failed")
		return nil, err
	}
	return result, nil
}

func (r *Registry) record(name string, args map[string]interface{}, started time.Time, callErr error) {
	if r.recorder == nil {
		return
	}
	inv := &audit.Invocation{
		ID:         uuid.New().String(),
		SessionID:  r.sessionID,
		Tool:       name,
		Arguments:  args,
		StartedAt:  started,
		DurationMS: time.Since(started).Milliseconds(),
		Success:    callErr == nil,
	}
	if callErr != nil {
		inv.Error = callErr.Error()
	}
	if err := r.recorder.Record(inv); err != nil {
		r.log.Warn().Err(err).Msg("failed to record invocation")
	}
}

func requireString(args map[string]interface{}, key string) (string, error) {
	v, _ := args[key].(string)
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}
