// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// MCP server assembly: tools, resources and prompts over one set of
// dependencies.

package mcpserver

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"suitability-mcp/internal/mcpserver/prompts"
	"suitability-mcp/internal/mcpserver/resources"
	"suitability-mcp/internal/mcpserver/tools"
	"suitability-mcp/internal/version"
)

const serverName = "suitability-mcp"

type Server struct {
	srv *mcp.Server
}

func New(impl *mcp.Implementation, deps tools.Dependencies) *Server {
	if impl == nil {
		impl = &mcp.Implementation{Name: serverName, Version: version.Info().Version}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	m := mcp.NewServer(impl, nil)
	tools.Register(m, deps)
	resources.RegisterAll(m, deps)
	prompts.RegisterAll(m, deps)
	return &Server{srv: m}
}

// Run runs the server with the provided transport (e.g., &mcp.StdioTransport{}).
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.srv.Run(ctx, transport)
}

// StreamableHandler serves the streamable HTTP transport. Sessions share the
// same server and therefore the same provider cache.
func (s *Server) StreamableHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.srv }, nil)
}

// MCP exposes the underlying server for in-process clients.
func (s *Server) MCP() *mcp.Server { return s.srv }
