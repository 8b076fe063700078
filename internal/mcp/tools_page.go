package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"sitebuilder/internal/editor"
)

func (s *Server) registerPageTools() {
	draftID := mcp.WithString("draftId", mcp.Description("ID of the draft (defaults to the active draft)"))

	s.mcp.AddTool(mcp.NewTool("switch_page",
		mcp.WithDescription("Make another page active. Unsaved edits of the current page are kept."),
		draftID,
		mcp.WithNumber("index", mcp.Description("Zero-based page index"), mcp.Required()),
	), s.handleSwitchPage)

	s.mcp.AddTool(mcp.NewTool("add_page",
		mcp.WithDescription("Append an empty page named \"New Page\" (numbered when taken) and make it active"),
		draftID,
	), s.handleAddPage)

	s.mcp.AddTool(mcp.NewTool("rename_page",
		mcp.WithDescription("Rename a page. Names must be unique and non-empty."),
		draftID,
		mcp.WithNumber("index", mcp.Description("Zero-based page index"), mcp.Required()),
		mcp.WithString("name", mcp.Description("New page name"), mcp.Required()),
	), s.handleRenamePage)

	s.mcp.AddTool(mcp.NewTool("move_page",
		mcp.WithDescription("Reorder a page. The active page follows the move."),
		draftID,
		mcp.WithNumber("from", mcp.Description("Current index"), mcp.Required()),
		mcp.WithNumber("to", mcp.Description("Target index"), mcp.Required()),
	), s.handleMovePage)

	s.mcp.AddTool(mcp.NewTool("delete_page",
		mcp.WithDescription("Delete a page. Pages with more than one component wait for user approval."),
		draftID,
		mcp.WithNumber("index", mcp.Description("Zero-based page index"), mcp.Required()),
		mcp.WithDestructiveHintAnnotation(true),
	), s.handleDeletePage)

	s.mcp.AddTool(mcp.NewTool("list_pending_approvals",
		mcp.WithDescription("List destructive actions still waiting for the user's answer"),
	), s.handleListPendingApprovals)
}

func (s *Server) handleSwitchPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := s.resolveDraftID(args)
	if err != nil {
		return nil, err
	}
	index, err := requireInt(args, "index")
	if err != nil {
		return nil, err
	}
	state, err := s.editor.SwitchPage(ctx, id, index)
	if err != nil {
		return nil, fmt.Errorf("switch page: %w", err)
	}
	return jsonResult(state)
}

func (s *Server) handleAddPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveDraftID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	state, err := s.editor.AddPage(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("add page: %w", err)
	}
	return jsonResult(state)
}

func (s *Server) handleRenamePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := s.resolveDraftID(args)
	if err != nil {
		return nil, err
	}
	index, err := requireInt(args, "index")
	if err != nil {
		return nil, err
	}
	name, _ := args["name"].(string)
	state, err := s.editor.RenamePage(ctx, id, index, name)
	if err != nil {
		return nil, fmt.Errorf("rename page: %w", err)
	}
	return jsonResult(state)
}

func (s *Server) handleMovePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := s.resolveDraftID(args)
	if err != nil {
		return nil, err
	}
	from, err := requireInt(args, "from")
	if err != nil {
		return nil, err
	}
	to, err := requireInt(args, "to")
	if err != nil {
		return nil, err
	}
	state, err := s.editor.MovePage(ctx, id, from, to)
	if err != nil {
		return nil, fmt.Errorf("move page: %w", err)
	}
	return jsonResult(state)
}

func (s *Server) handleDeletePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := s.resolveDraftID(args)
	if err != nil {
		return nil, err
	}
	index, err := requireInt(args, "index")
	if err != nil {
		return nil, err
	}
	outcome, err := s.editor.DeletePage(ctx, id, index)
	if err != nil {
		return nil, fmt.Errorf("delete page: %w", err)
	}
	switch outcome {
	case editor.DeleteApplied:
		return textResult(fmt.Sprintf("Page %d deleted", index)), nil
	case editor.DeleteNeedsConfirmation:
		return textResult(fmt.Sprintf("Page %d has several components; deletion waits for user approval (see list_pending_approvals)", index)), nil
	default:
		return textResult(fmt.Sprintf("Page %d not deleted: no such page", index)), nil
	}
}

func (s *Server) handleListPendingApprovals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pending, err := s.approval.Pending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	return jsonResult(pending)
}
