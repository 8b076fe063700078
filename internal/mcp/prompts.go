package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("portfolio_site",
		mcp.WithPromptDescription("Guide through building a multi-page portfolio site"),
		mcp.WithArgument("owner",
			mcp.ArgumentDescription("Whose portfolio this is"),
			mcp.RequiredArgument(),
		),
	), s.handlePortfolioPrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("landing_page",
		mcp.WithPromptDescription("Lay out a single landing page with a hero, features and a call to action"),
		mcp.WithArgument("product",
			mcp.ArgumentDescription("Product or project being presented"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("cta",
			mcp.ArgumentDescription("Call-to-action button label"),
		),
	), s.handleLandingPagePrompt)
}

func (s *Server) handlePortfolioPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	owner := req.Params.Arguments["owner"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Build a portfolio for: %s", owner),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Build a portfolio site for "%s". Follow these steps:

1. create_draft named "%s", then add_page twice and rename_page the three pages to "Home", "Projects" and "Contact"
2. On every page, add_component a navBar first so it spans the top of the page
3. On Home, add a textBlock with a short introduction and an image next to it
4. On Projects, add one projectCard per project with {"title","description","link"} content. Project cards and everything below the first one flow in rows on the published site
5. On Contact, add a textBlock and a button with {"label","href"} content
6. Use arrange_components if a page looks cluttered, then publish_draft

Let auto-layout place components unless a precise position matters; overlapping drops are moved to the nearest free spot.`, owner, owner),
				},
			},
		},
	}, nil
}

func (s *Server) handleLandingPagePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	product := req.Params.Arguments["product"]
	cta := req.Params.Arguments["cta"]
	if cta == "" {
		cta = "Get started"
	}
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Landing page for %s", product),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Lay out a landing page for "%s" on the active draft. Follow these steps:

1. add_component a navBar at x=0, y=0
2. Add a textBlock headline under it and a video or image beside the headline
3. Add three cards in one row describing the main features, each with {"title","body"} content
4. Add a button labelled "%s" below the cards
5. render_page to check the result before publish_draft`, product, cta),
				},
			},
		},
	}, nil
}
