package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/downtime/internal/chat"
	"github.com/rpggio/downtime/internal/locale"
)

const serverInstructions = `downtime plans Blades in the Dark downtime activities and posts them to the crew chat.

Each user has one plan: an ordered list of activities (acquire asset, long-term project, recover,
reduce heat, train, indulge vice). Plans survive restarts until they are submitted or cleared.

Workflow:
1) open_planner to see the plan and any trauma warning.
2) add_activity to plan something new. The user picks the type and fills the form through
   elicitation; invalid input is re-asked with warnings, declining cancels without changes.
3) edit_activity / remove_activity by id, preview_report to see what will be posted.
4) submit_to_chat posts one report per activity in order and clears the plan.
   If posting fails part way, reports already posted are removed from the plan; submit again.
5) start_over discards the plan after confirmation.

Docs:
- downtime://docs/guide
- downtime://rules/overindulge
`

const guideContent = `# Downtime planner

Activities are kept in the order they were added; editing keeps an activity's position and id.

| type | form |
|---|---|
| acquire-asset | asset name, quality tier, acquired before, restricted |
| long-term-project | project name, action rolled |
| recover | healing method, then contact quality or crewmate tinker |
| reduce-heat | method, action rolled |
| train | attribute or playbook, crew training upgrade |
| indulge-vice | purveyor, description, lowest attribute and current stress (pre-filled from the sheet) |

Training grants 1 xp, 2 with the crew training upgrade.
A character with trauma who has not planned to indulge their vice is warned when the planner opens.
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     func(*locale.Catalog) string
}

var docResources = []docResource{
	{
		URI:         "downtime://docs/guide",
		Name:        "guide",
		Title:       "Downtime planner guide",
		Description: "Activity types, their forms and planning rules.",
		Content:     func(*locale.Catalog) string { return guideContent },
	},
	{
		URI:         chat.OverindulgeRuleURI,
		Name:        "rules_overindulge",
		Title:       "Overindulging a vice",
		Description: "Consequences of clearing more stress than you had when indulging a vice.",
		Content:     func(c *locale.Catalog) string { return c.Localize("Rules.Overindulge") },
	},
}

func registerRuleResources(server *sdkmcp.Server, catalog *locale.Catalog) {
	for _, doc := range docResources {
		content := doc.Content(catalog)
		uri := doc.URI

		server.AddResource(&sdkmcp.Resource{
			URI:         uri,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			target := uri
			if req != nil && req.Params != nil && req.Params.URI != "" {
				target = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      target,
					MIMEType: "text/markdown",
					Text:     content,
				}},
			}, nil
		})
	}
}
