package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/paydesk/finagent/internal/tools"
)

const protocolVersion = "2024-11-05"

// Server exposes the tool registry over JSON-RPC 2.0 on stdio (the MCP
// wire protocol). Protocol output goes to out; logging must go
// elsewhere.
type Server struct {
	registry *tools.Registry
	log      zerolog.Logger
	in       io.Reader
	out      io.Writer
}

// NewServer creates an MCP server on stdin/stdout.
func NewServer(registry *tools.Registry, log zerolog.Logger) *Server {
	return NewServerWithIO(registry, log, os.Stdin, os.Stdout)
}

// NewServerWithIO creates an MCP server on explicit streams, used by
// tests to drive the protocol over pipes.
func NewServerWithIO(registry *tools.Registry, log zerolog.Logger, in io.Reader, out io.Writer) *Server {
	return &Server{
		registry: registry,
		log:      log,
		in:       in,
		out:      out,
	}
}

// Protocol types

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type response struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *rpcError   `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type initializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	ServerInfo      serverInfo   `json:"serverInfo"`
	Capabilities    capabilities `json:"capabilities"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type capabilities struct {
	Tools *toolsCapability `json:"tools,omitempty"`
}

type toolsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

type toolDefinition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema interface{} `json:"inputSchema"`
}

type listToolsResult struct {
	Tools []toolDefinition `json:"tools"`
}

type callToolParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

type callToolResult struct {
	Content []toolContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

type toolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Run reads newline-delimited JSON-RPC messages until EOF or context
// cancellation.
func (s *Server) Run(ctx context.Context) error {
	reader := bufio.NewReader(s.in)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			s.send(&response{JSONRPC: "2.0", Error: &rpcError{Code: -32700, Message: "Parse error"}})
			continue
		}

		if resp := s.handle(ctx, &req); resp != nil {
			if err := s.send(resp); err != nil {
				return err
			}
		}
	}
}

func (s *Server) handle(ctx context.Context, req *request) *response {
	switch req.Method {
	case "initialize":
		return &response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: initializeResult{
				ProtocolVersion: protocolVersion,
				ServerInfo:      serverInfo{Name: "finagent", Version: "1.0.0"},
				Capabilities:    capabilities{Tools: &toolsCapability{}},
			},
		}
	case "tools/list":
		defs := s.registry.Definitions()
		listed := make([]toolDefinition, len(defs))
		for i, def := range defs {
			listed[i] = toolDefinition{
				Name:        def.Name,
				Description: def.Description,
				InputSchema: def.InputSchema,
			}
		}
		return &response{JSONRPC: "2.0", ID: req.ID, Result: listToolsResult{Tools: listed}}
	case "tools/call":
		return s.handleCallTool(ctx, req)
	case "notifications/initialized":
		return nil // Notification, no response
	default:
		return &response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &rpcError{Code: -32601, Message: "Method not found"},
		}
	}
}

func (s *Server) handleCallTool(ctx context.Context, req *request) *response {
	var params callToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return &response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &rpcError{Code: -32602, Message: "Invalid params"},
		}
	}

	result, err := s.registry.Handle(ctx, params.Name, params.Arguments)
	if err != nil {
		return &response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: callToolResult{
				Content: []toolContent{{Type: "text", Text: fmt.Sprintf("Error: %v", err)}},
				IsError: true,
			},
		}
	}

	resultJSON, _ := json.Marshal(result)
	return &response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: callToolResult{
			Content: []toolContent{{Type: "text", Text: string(resultJSON)}},
		},
	}
}

func (s *Server) send(resp *response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.out, "%s\n", data)
	return err
}
