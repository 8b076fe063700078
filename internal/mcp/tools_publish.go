package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPublishTools() {
	s.mcp.AddTool(mcp.NewTool("publish_draft",
		mcp.WithDescription("Render every page of a draft to static HTML in the output directory"),
		mcp.WithString("draftId", mcp.Description("ID of the draft (defaults to the active draft)")),
	), s.handlePublishDraft)

	s.mcp.AddTool(mcp.NewTool("render_page",
		mcp.WithDescription("Render one page of a draft as HTML without writing it"),
		mcp.WithString("draftId", mcp.Description("ID of the draft (defaults to the active draft)")),
		mcp.WithString("slug", mcp.Description("Page slug (empty for the first page)")),
	), s.handleRenderPage)
}

func (s *Server) handlePublishDraft(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveDraftID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	res, err := s.publish.Publish(ctx, id)
	if err != nil {
		return nil, err
	}

	type publishedFile struct {
		Name string `json:"name"`
		Page string `json:"page"`
	}
	files := make([]publishedFile, len(res.Files))
	for i, f := range res.Files {
		files[i] = publishedFile{Name: f.Name, Page: f.Page}
	}
	return jsonResult(map[string]any{"dir": res.Dir, "files": files})
}

func (s *Server) handleRenderPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveDraftID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	body, err := s.publish.RenderPage(ctx, id, req.GetString("slug", ""))
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return textResult(string(body)), nil
}
