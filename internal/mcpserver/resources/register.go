package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"suitability-mcp/internal/mcpserver/tools"
)

const (
	ParamsURI  = "suitability://params"
	RankingURI = "suitability://ranking"
)

// RegisterAll registers read-only JSON resources with the MCP server.
func RegisterAll(server *mcp.Server, deps tools.Dependencies) {
	server.AddResource(&mcp.Resource{
		URI:         ParamsURI,
		Name:        "scoring_params",
		Description: "Effective scoring tables and constants",
		MIMEType:    "application/json",
	}, jsonResource(func(ctx context.Context) (any, error) {
		_, out, err := tools.ScoringParams(ctx, deps, tools.ScoringParamsInput{})
		return out, err
	}))
	server.AddResource(&mcp.Resource{
		URI:         RankingURI,
		Name:        "ranking",
		Description: "Ranking for the default window and strategies",
		MIMEType:    "application/json",
	}, jsonResource(func(ctx context.Context) (any, error) {
		res, out, err := tools.ScoreDistricts(ctx, deps, tools.ScoreDistrictsInput{})
		if err != nil {
			return nil, err
		}
		if res != nil && res.IsError {
			return nil, fmt.Errorf("ranking unavailable: %v", res.StructuredContent)
		}
		return out, nil
	}))
}

func jsonResource(load func(context.Context) (any, error)) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		uri := ""
		if req != nil && req.Params != nil {
			uri = req.Params.URI
		}
		return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
			{URI: uri, MIMEType: "application/json", Text: string(b)},
		}}, nil
	}
}
