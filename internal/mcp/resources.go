package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	draftsURI      = "sitebuilder://drafts"
	draftURIPrefix = "sitebuilder://draft/"
)

func (s *Server) registerResources() {
	// ── sitebuilder://drafts ───────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		draftsURI,
		"All Drafts",
		mcp.WithMIMEType("application/json"),
	), s.handleDraftsResource)

	// ── sitebuilder://draft/{draftId} ──────────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			draftURIPrefix+"{draftId}",
			"Pages of a Draft",
		),
		s.handleDraftResource,
	)
}

func (s *Server) handleDraftsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	drafts, err := s.drafts.ListDrafts(ctx)
	if err != nil {
		return nil, err
	}
	data, _ := json.MarshalIndent(drafts, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      draftsURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleDraftResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	draftID := draftIDFromURI(uri)
	if draftID == "" {
		return nil, fmt.Errorf("could not extract draftId from URI: %s", uri)
	}

	// The editor session includes edits not yet switched away from.
	pages, err := s.editor.Pages(ctx, draftID)
	if err != nil {
		return nil, err
	}

	data, _ := json.MarshalIndent(pages, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// draftIDFromURI extracts the id from "sitebuilder://draft/{id}".
func draftIDFromURI(uri string) string {
	id, ok := strings.CutPrefix(uri, draftURIPrefix)
	if !ok {
		return ""
	}
	id, _, _ = strings.Cut(id, "/")
	return id
}
