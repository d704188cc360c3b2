package mcpserver

import (
	"context"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suitability-mcp/internal/config"
	"suitability-mcp/internal/mcpserver/resources"
	"suitability-mcp/internal/mcpserver/tools"
	"suitability-mcp/internal/provider"
	"suitability-mcp/internal/scoring"
)

type staticProvider []scoring.Observation

func (p staticProvider) Snapshot(_ context.Context, w provider.Window) (provider.Snapshot, error) {
	return provider.Snapshot{Window: w, Districts: p}, nil
}

func connect(t *testing.T) *mcp.ClientSession {
	t.Helper()
	engine, err := scoring.NewEngine(scoring.DefaultParams())
	require.NoError(t, err)
	d := 5000.0
	srv := New(nil, tools.Dependencies{
		Provider: staticProvider{{
			District:   scoring.District{ID: 2, Name: "Buca", InAnalysisScope: true, PopulationDensity: &d},
			RawMetrics: scoring.RawMetrics{AppointmentCount: 360, DistinctMonthCount: 6},
		}},
		Engine: engine,
		Config: config.Config{WindowMonths: 12, MaxResults: 10},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	serverT, clientT := mcp.NewInMemoryTransports()
	serverSession, err := srv.MCP().Connect(ctx, serverT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0"}, nil)
	session, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func TestServerListsTools(t *testing.T) {
	session := connect(t)
	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"ping", "server_info", "score_districts", "district_detail", "scoring_params"}, names)
}

func TestServerCallsScoreDistricts(t *testing.T) {
	session := connect(t)
	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: "score_districts", Arguments: map[string]any{}})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	out, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.Len(t, out["ranking"], 1)
}

func TestServerReadsParamsResource(t *testing.T) {
	session := connect(t)
	res, err := session.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: resources.ParamsURI})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Contains(t, res.Contents[0].Text, "scoreCap")
}

func TestServerSiteSelectionPrompt(t *testing.T) {
	session := connect(t)
	res, err := session.GetPrompt(context.Background(), &mcp.GetPromptParams{Name: "/suitability.site_selection"})
	require.NoError(t, err)
	require.Len(t, res.Messages, 2)
	text, ok := res.Messages[1].Content.(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "Buca")
}
