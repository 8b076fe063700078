package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerDraftTools() {
	// ── list_drafts ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_drafts",
		mcp.WithDescription("List all site drafts"),
	), s.handleListDrafts)

	// ── create_draft ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_draft",
		mcp.WithDescription("Create a new draft with a single Home page and make it active"),
		mcp.WithString("name", mcp.Description("Name of the site")),
	), s.handleCreateDraft)

	// ── open_draft ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("open_draft",
		mcp.WithDescription("Open a draft for editing. Tools that accept draftId will default to it."),
		mcp.WithString("draftId", mcp.Description("ID of the draft"), mcp.Required()),
	), s.handleOpenDraft)

	s.mcp.AddTool(mcp.NewTool("get_draft",
		mcp.WithDescription("Return the stored draft with all of its pages"),
		mcp.WithString("draftId", mcp.Description("ID of the draft (defaults to the active draft)")),
	), s.handleGetDraft)

	s.mcp.AddTool(mcp.NewTool("rename_draft",
		mcp.WithDescription("Rename a draft"),
		mcp.WithString("draftId", mcp.Description("ID of the draft (defaults to the active draft)")),
		mcp.WithString("name", mcp.Description("New name"), mcp.Required()),
	), s.handleRenameDraft)

	s.mcp.AddTool(mcp.NewTool("delete_draft",
		mcp.WithDescription("Delete a draft and its history. Requires user approval."),
		mcp.WithString("draftId", mcp.Description("ID of the draft"), mcp.Required()),
		mcp.WithDestructiveHintAnnotation(true),
	), s.handleDeleteDraft)

	s.mcp.AddTool(mcp.NewTool("export_draft",
		mcp.WithDescription("Export a draft as JSON"),
		mcp.WithString("draftId", mcp.Description("ID of the draft (defaults to the active draft)")),
	), s.handleExportDraft)

	s.mcp.AddTool(mcp.NewTool("import_draft",
		mcp.WithDescription("Create or replace a draft from exported JSON"),
		mcp.WithString("json", mcp.Description("Draft JSON as produced by export_draft"), mcp.Required()),
	), s.handleImportDraft)

	// ── history ────────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_revisions",
		mcp.WithDescription("List saved revisions of a draft, newest first"),
		mcp.WithString("draftId", mcp.Description("ID of the draft (defaults to the active draft)")),
	), s.handleListRevisions)

	s.mcp.AddTool(mcp.NewTool("restore_revision",
		mcp.WithDescription("Restore the pages of a draft from a saved revision"),
		mcp.WithString("draftId", mcp.Description("ID of the draft (defaults to the active draft)")),
		mcp.WithString("revisionId", mcp.Description("ID of the revision"), mcp.Required()),
	), s.handleRestoreRevision)
}

// revisionSummary omits the snapshot, which can be large.
type revisionSummary struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	CreatedAt string `json:"createdAt"`
}

func (s *Server) handleListDrafts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	drafts, err := s.drafts.ListDrafts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	return jsonResult(drafts)
}

func (s *Server) handleCreateDraft(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, err := s.drafts.CreateDraft(ctx, req.GetString("name", ""))
	if err != nil {
		return nil, fmt.Errorf("create draft: %w", err)
	}
	// Auto-set as active draft
	s.setActiveDraft(d.ID)
	return jsonResult(d)
}

func (s *Server) handleOpenDraft(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "draftId")
	if err != nil {
		return nil, err
	}
	state, err := s.editor.Open(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("open draft: %w", err)
	}
	s.setActiveDraft(id)
	return jsonResult(state)
}

func (s *Server) handleGetDraft(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveDraftID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	d, err := s.drafts.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	return jsonResult(d)
}

func (s *Server) handleRenameDraft(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := s.resolveDraftID(args)
	if err != nil {
		return nil, err
	}
	name, err := requireString(args, "name")
	if err != nil {
		return nil, err
	}
	if err := s.drafts.RenameDraft(ctx, id, name); err != nil {
		return nil, fmt.Errorf("rename draft: %w", err)
	}
	return textResult(fmt.Sprintf("Draft %s renamed to %q", id, name)), nil
}

func (s *Server) handleDeleteDraft(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "draftId")
	if err != nil {
		return nil, err
	}
	d, err := s.drafts.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}

	meta := fmt.Sprintf(`{"draftId":%q}`, id)
	approved, err := s.approval.Request("delete_draft",
		fmt.Sprintf("Delete draft %q with %d page(s)", d.Name, len(d.PageList())), meta)
	if err != nil || !approved {
		return textResult("Action rejected by user"), nil
	}

	if err := s.drafts.DeleteDraft(ctx, id); err != nil {
		return nil, fmt.Errorf("delete draft: %w", err)
	}
	s.editor.Close(id)
	if s.activeDraft() == id {
		s.setActiveDraft("")
	}
	return textResult(fmt.Sprintf("Draft %s deleted", id)), nil
}

func (s *Server) handleExportDraft(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveDraftID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	data, err := s.drafts.ExportDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	return textResult(string(data)), nil
}

func (s *Server) handleImportDraft(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := requireString(req.GetArguments(), "json")
	if err != nil {
		return nil, err
	}
	d, err := s.drafts.ImportDraft(ctx, []byte(data))
	if err != nil {
		return nil, err
	}
	// Drop any cached session so edits continue from the imported pages.
	s.editor.Close(d.ID)
	return jsonResult(d)
}

func (s *Server) handleListRevisions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveDraftID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	revs, err := s.drafts.ListRevisions(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]revisionSummary, len(revs))
	for i, r := range revs {
		out[i] = revisionSummary{ID: r.ID, Label: r.Label, CreatedAt: r.CreatedAt.Format("2006-01-02 15:04:05")}
	}
	return jsonResult(out)
}

func (s *Server) handleRestoreRevision(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := s.resolveDraftID(args)
	if err != nil {
		return nil, err
	}
	revID, err := requireString(args, "revisionId")
	if err != nil {
		return nil, err
	}
	if _, err := s.drafts.RestoreRevision(ctx, id, revID); err != nil {
		return nil, err
	}
	s.editor.Close(id)
	state, err := s.editor.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	return jsonResult(state)
}
