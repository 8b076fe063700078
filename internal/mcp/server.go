package mcpserver

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"

	"sitebuilder/internal/domain"
	"sitebuilder/internal/service"
)

// Server is the MCP server for the site builder.
// It exposes tools, resources, and prompts so AI agents can edit drafts.
type Server struct {
	mcp      *server.MCPServer
	emitter  EventEmitter
	approval *ApprovalQueue
	logger   *log.Logger

	// Services (injected from app layer)
	drafts  *service.DraftService
	editor  *service.EditorService
	publish *service.PublishService

	// Active draft context (set by open_draft / create_draft)
	mu            sync.Mutex
	activeDraftID string
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Emitter   EventEmitter
	Drafts    *service.DraftService
	Editor    *service.EditorService
	Publish   *service.PublishService
	Approvals domain.ApprovalStore // When set, approvals are answered from another process
	Logger    *log.Logger
}

// New creates and configures a new MCP server with all tools and resources.
// The editor's page-deletion prompts are routed through the approval queue.
func New(ctx context.Context, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	approval := NewApprovalQueue(ctx, deps.Emitter)
	approval.SetLogger(logger.WithPrefix("approval"))
	if deps.Approvals != nil {
		approval.SetStore(deps.Approvals)
	}
	deps.Editor.SetConfirmer(approval)

	s := &Server{
		emitter:  deps.Emitter,
		approval: approval,
		logger:   logger.WithPrefix("mcp"),
		drafts:   deps.Drafts,
		editor:   deps.Editor,
		publish:  deps.Publish,
	}

	s.mcp = server.NewMCPServer(
		"sitebuilder-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerDraftTools()
	s.registerPageTools()
	s.registerComponentTools()
	s.registerPublishTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.logger.Info("starting stdio server")
	return server.ServeStdio(s.mcp)
}

// Approvals exposes the approval queue so a host can answer prompts.
func (s *Server) Approvals() *ApprovalQueue {
	return s.approval
}

func (s *Server) setActiveDraft(id string) {
	s.mu.Lock()
	s.activeDraftID = id
	s.mu.Unlock()
}

func (s *Server) activeDraft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeDraftID
}
