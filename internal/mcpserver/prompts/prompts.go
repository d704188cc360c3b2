package prompts

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"suitability-mcp/internal/mcpserver/tools"
)

const topN = 5

// RegisterAll registers all prompts with the MCP server.
func RegisterAll(server *mcp.Server, deps tools.Dependencies) {
	server.AddPrompt(&mcp.Prompt{
		Name:        "/suitability.site_selection",
		Title:       "Branch site selection",
		Description: "Shortlist of candidate districts with risk and payback notes",
		Arguments:   []*mcp.PromptArgument{
			{Name: "from", Description: "window start, RFC3339"},
			{Name: "to", Description: "window end, RFC3339"},
			{Name: "risk_policy", Description: "competitor_only or net_profit_gated"},
		},
	}, promptSiteSelection(deps))
	server.AddPrompt(&mcp.Prompt{
		Name:        "/suitability.district_review",
		Title:       "District review",
		Description: "Explain the score breakdown of one district",
		Arguments:   []*mcp.PromptArgument{{Name: "district", Description: "district name", Required: true}},
	}, promptDistrictReview(deps))
}

func arg(req *mcp.GetPromptRequest, name string) string {
	if req == nil || req.Params == nil || req.Params.Arguments == nil {
		return ""
	}
	return strings.TrimSpace(req.Params.Arguments[name])
}

func promptSiteSelection(deps tools.Dependencies) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		var b strings.Builder
		b.WriteString("### 📍 Branch Site Selection\n")
		b.WriteString("- [ ] Review the shortlist below\n")
		b.WriteString("- [ ] Check risk level and payback of each candidate\n")
		b.WriteString("- [ ] Drill into finalists with `district_detail`\n\n")

		res, out, err := tools.ScoreDistricts(ctx, deps, tools.ScoreDistrictsInput{
			From:       arg(req, "from"),
			To:         arg(req, "to"),
			RiskPolicy: arg(req, "risk_policy"),
			Limit:      topN,
		})
		switch {
		case err != nil:
			b.WriteString(fmt.Sprintf("⚠️ Unable to score districts: %v\n", err))
		case res != nil && res.IsError:
			b.WriteString(fmt.Sprintf("⚠️ Unable to score districts: %v\n", res.StructuredContent))
		default:
			b.WriteString(fmt.Sprintf("**Window**: %s to %s\n", out.Window.From, out.Window.To))
			b.WriteString(fmt.Sprintf("**Candidates**: %d of %d districts\n\n", out.Summary.Candidates, out.Summary.Districts))
			for i, d := range out.Districts {
				payback := "no payback"
				if d.PaybackMonths != nil {
					payback = fmt.Sprintf("payback %d months", *d.PaybackMonths)
				}
				b.WriteString(fmt.Sprintf("%d. %s: score %d, risk %s, %s\n", i+1, d.DistrictName, *d.SuitabilityScore, d.RiskLevel, payback))
			}
			if out.Summary.SmallMarketCapped > 0 {
				b.WriteString(fmt.Sprintf("\n%d district(s) were capped by the small market guard.\n", out.Summary.SmallMarketCapped))
			}
		}

		messages := []*mcp.PromptMessage{
			{Role: mcp.Role("system"), Content: &mcp.TextContent{Text: "You are a concise retail expansion analyst. Recommend districts and flag risks."}},
			{Role: mcp.Role("assistant"), Content: &mcp.TextContent{Text: b.String()}},
		}
		return &mcp.GetPromptResult{Description: "Branch site selection", Messages: messages}, nil
	}
}

func promptDistrictReview(deps tools.Dependencies) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		name := arg(req, "district")
		if name == "" {
			msg := "### 🔎 District Review\n- Provide `district` argument.\n- Example: get_prompt /suitability.district_review arguments:{\"district\":\"Buca\"}\n"
			messages := []*mcp.PromptMessage{
				{Role: mcp.Role("assistant"), Content: &mcp.TextContent{Text: msg}},
			}
			return &mcp.GetPromptResult{Description: "Provide district argument", Messages: messages}, nil
		}

		var b strings.Builder
		b.WriteString("### 🔎 District Review\n")
		b.WriteString(fmt.Sprintf("**District**: %s\n\n", name))
		res, out, err := tools.DistrictDetail(ctx, deps, tools.DistrictDetailInput{DistrictName: name})
		switch {
		case err != nil:
			b.WriteString(fmt.Sprintf("⚠️ Unable to load district: %v\n", err))
		case res != nil && res.IsError:
			b.WriteString(fmt.Sprintf("⚠️ Unable to load district: %v\n", res.StructuredContent))
		default:
			d := out.District
			if d.SuitabilityScore == nil {
				b.WriteString("Outside the analysis scope; projections only.\n\n")
			} else {
				b.WriteString(fmt.Sprintf("Rank %d of %d, score %d, risk %s\n\n", d.Rank, out.Candidates, *d.SuitabilityScore, d.RiskLevel))
			}
			js, _ := json.MarshalIndent(d, "", "  ")
			b.WriteString(fmt.Sprintf("```json\n%s\n```\n", string(js)))
		}

		messages := []*mcp.PromptMessage{
			{Role: mcp.Role("system"), Content: &mcp.TextContent{Text: "You are a concise retail expansion analyst. Explain which factors drive the score."}},
			{Role: mcp.Role("assistant"), Content: &mcp.TextContent{Text: b.String()}},
		}
		return &mcp.GetPromptResult{Description: "District review", Messages: messages}, nil
	}
}
