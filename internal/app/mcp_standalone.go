package app

import (
	"context"

	mcpserver "sitebuilder/internal/mcp"
)

// ServeMCP runs the MCP server on stdin/stdout until the client disconnects.
// Page deletions that need approval are queued in the shared store, so a
// user can answer them from another terminal with "sitebuilder approvals".
func (a *App) ServeMCP(ctx context.Context) error {
	mcpSrv := mcpserver.New(ctx, mcpserver.Deps{
		Emitter:   a.Emitter,
		Drafts:    a.Drafts,
		Editor:    a.Editor,
		Publish:   a.Publish,
		Approvals: a.Approvals, // Enable store-backed approval IPC
		Logger:    a.Logger,
	})
	return mcpSrv.ServeStdio()
}
