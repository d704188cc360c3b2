package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"suitability-mcp/internal/config"
	serr "suitability-mcp/internal/errors"
	"suitability-mcp/internal/logging"
	"suitability-mcp/internal/metrics"
	"suitability-mcp/internal/provider"
	"suitability-mcp/internal/safety"
	"suitability-mcp/internal/scoring"
	"suitability-mcp/internal/version"
)

type Dependencies struct {
	Provider provider.Provider
	Engine   *scoring.Engine
	Logger   *zap.Logger
	Limiter  *safety.Limiter
	Metrics  *metrics.Collector
	Config   config.Config
	// Now defaults to time.Now; tests pin it.
	Now func() time.Time
}

func (d Dependencies) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// handler is the shape of every tool function in this package.
type handler[In, Out any] func(context.Context, Dependencies, In) (*mcp.CallToolResult, Out, error)

// add registers a tool and records its outcome.
func add[In, Out any](server *mcp.Server, deps Dependencies, tool *mcp.Tool, h handler[In, Out]) {
	logger := logging.WithTool(deps.Logger, tool.Name)
	mcp.AddTool(server, tool, func(ctx context.Context, req *mcp.CallToolRequest, input In) (*mcp.CallToolResult, Out, error) {
		start := time.Now()
		res, out, err := h(ctx, deps, input)
		outcome := "ok"
		if res != nil && res.IsError {
			outcome = errorCode(res)
		}
		deps.Metrics.ToolCall(tool.Name, outcome)
		logger.Debug("tool call", zap.String("outcome", outcome), zap.Duration("took", time.Since(start)))
		return res, out, err
	})
}

func Register(server *mcp.Server, deps Dependencies) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	add(server, deps, &mcp.Tool{Name: "ping", Description: "ping the server"}, Ping)
	add(server, deps, &mcp.Tool{Name: "server_info", Description: "returns server metadata and default scoring strategies"}, ServerInfo)
	add(server, deps, &mcp.Tool{
		Name:        "score_districts",
		Description: "scores and ranks candidate districts for a new branch over a time window",
	}, ScoreDistricts)
	add(server, deps, &mcp.Tool{
		Name:        "district_detail",
		Description: "returns the full score breakdown and rank of one district",
	}, DistrictDetail)
	add(server, deps, &mcp.Tool{Name: "scoring_params", Description: "returns the effective scoring tables and constants"}, ScoringParams)
}

// Ping tool

type PingInput struct {
	Message string `json:"message,omitempty" jsonschema:"optional message to echo"`
}

type PingOutput struct {
	Pong string `json:"pong"`
}

func Ping(ctx context.Context, deps Dependencies, input PingInput) (*mcp.CallToolResult, PingOutput, error) {
	msg := input.Message
	if msg == "" {
		msg = "pong"
	}
	return nil, PingOutput{Pong: msg}, nil
}

// ServerInfo tool

type ServerInfoInput struct{}

type ServerInfoOutput struct {
	Version          string            `json:"version"`
	Commit           string            `json:"commit"`
	MetricsBackend   string            `json:"metrics_backend"`
	Caching          bool              `json:"caching"`
	CacheBackend     string            `json:"cache_backend,omitempty"`
	WindowMonths     int               `json:"window_months"`
	MaxResults       int               `json:"max_results"`
	DefaultSelection scoring.Selection `json:"default_selection"`
}

func ServerInfo(ctx context.Context, deps Dependencies, _ ServerInfoInput) (*mcp.CallToolResult, ServerInfoOutput, error) {
	info := version.Info()
	out := ServerInfoOutput{
		Version:          info.Version,
		Commit:           info.Commit,
		MetricsBackend:   string(deps.Config.MetricsBackend),
		Caching:          deps.Config.EnableCaching,
		WindowMonths:     deps.Config.WindowMonths,
		MaxResults:       deps.Config.MaxResults,
		DefaultSelection: scoring.DefaultSelection(),
	}
	if out.Caching {
		out.CacheBackend = string(deps.Config.CacheBackend)
	}
	return nil, out, nil
}

// Helper error creation
func callError(code serr.ErrorCode, msg, hint string) *mcp.CallToolResult {
	errObj := map[string]any{"code": code, "message": msg}
	if hint != "" {
		errObj["hint"] = hint
	}
	return &mcp.CallToolResult{
		IsError:           true,
		StructuredContent: errObj,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("%s: %s", code, msg)},
		},
	}
}

func toolError(err error) *mcp.CallToolResult {
	e := serr.ToToolError(err)
	return callError(e.Code, e.Message, e.Hint)
}

func errorCode(res *mcp.CallToolResult) string {
	if m, ok := res.StructuredContent.(map[string]any); ok {
		if code, ok := m["code"].(serr.ErrorCode); ok {
			return string(code)
		}
	}
	return string(serr.CodeInternalError)
}

func clampLimit(cfg config.Config, limit int) int {
	if limit <= 0 || limit > cfg.MaxResults {
		return cfg.MaxResults
	}
	return limit
}
