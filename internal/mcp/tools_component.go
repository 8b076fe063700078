package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"sitebuilder/internal/domain"
	"sitebuilder/internal/service"
)

var componentTypes = []string{
	string(domain.ComponentTypeTextBlock),
	string(domain.ComponentTypeImage),
	string(domain.ComponentTypeVideo),
	string(domain.ComponentTypeCard),
	string(domain.ComponentTypeProjectCard),
	string(domain.ComponentTypeButton),
	string(domain.ComponentTypeNavBar),
}

func (s *Server) registerComponentTools() {
	draftID := mcp.WithString("draftId", mcp.Description("ID of the draft (defaults to the active draft)"))
	componentID := mcp.WithString("componentId", mcp.Description("ID of the component"), mcp.Required())

	// ── add_component ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_component",
		mcp.WithDescription("Drop a component on the active page. Without x/y it is placed by auto-layout; a drop that overlaps is moved to the nearest free spot."),
		draftID,
		mcp.WithString("type", mcp.Description("Component type"), mcp.Required(), mcp.Enum(componentTypes...)),
		mcp.WithNumber("x", mcp.Description("X position (optional, auto-layout if omitted)")),
		mcp.WithNumber("y", mcp.Description("Y position (optional, auto-layout if omitted)")),
		mcp.WithNumber("width", mcp.Description("Width (optional, uses the type default)")),
		mcp.WithNumber("height", mcp.Description("Height (optional, uses the type default)")),
		mcp.WithString("content", mcp.Description("Content as a JSON object (e.g. {\"text\":\"Hi\"}) or plain text")),
	), s.handleAddComponent)

	s.mcp.AddTool(mcp.NewTool("move_component",
		mcp.WithDescription("Drag a component to a new position. Returns where it landed after collision avoidance."),
		draftID,
		componentID,
		mcp.WithNumber("x", mcp.Description("Drop X position"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Drop Y position"), mcp.Required()),
	), s.handleMoveComponent)

	s.mcp.AddTool(mcp.NewTool("resize_component",
		mcp.WithDescription("Resize a component. Sizes snap to the 10px grid."),
		draftID,
		componentID,
		mcp.WithNumber("width", mcp.Description("New width"), mcp.Required()),
		mcp.WithNumber("height", mcp.Description("New height"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("New X position (defaults to the current one)")),
		mcp.WithNumber("y", mcp.Description("New Y position (defaults to the current one)")),
	), s.handleResizeComponent)

	s.mcp.AddTool(mcp.NewTool("update_content",
		mcp.WithDescription("Replace the content payload of a component"),
		draftID,
		componentID,
		mcp.WithString("content", mcp.Description("Content as a JSON object or plain text"), mcp.Required()),
	), s.handleUpdateContent)

	s.mcp.AddTool(mcp.NewTool("remove_component",
		mcp.WithDescription("Remove a component from the active page"),
		draftID,
		componentID,
	), s.handleRemoveComponent)

	s.mcp.AddTool(mcp.NewTool("select_component",
		mcp.WithDescription("Select a component on the active page"),
		draftID,
		componentID,
	), s.handleSelectComponent)

	s.mcp.AddTool(mcp.NewTool("arrange_components",
		mcp.WithDescription("Lay out every component of the active page in rows from the top-left corner"),
		draftID,
	), s.handleArrangeComponents)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleAddComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := s.resolveDraftID(args)
	if err != nil {
		return nil, err
	}
	typ, err := requireString(args, "type")
	if err != nil {
		return nil, err
	}
	content, err := contentArg(args)
	if err != nil {
		return nil, err
	}

	in := service.AddComponentInput{Type: domain.ComponentType(typ), Content: content}
	if pos, ok := positionArg(args); ok {
		in.Position = pos
	}
	if hasNumber(args, "width") && hasNumber(args, "height") {
		in.Size = &domain.Size{Width: getFloat(args, "width", 0), Height: getFloat(args, "height", 0)}
	}

	c, err := s.editor.AddComponent(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("add component: %w", err)
	}
	return jsonResult(c)
}

func (s *Server) handleMoveComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := s.resolveDraftID(args)
	if err != nil {
		return nil, err
	}
	cid, err := requireString(args, "componentId")
	if err != nil {
		return nil, err
	}
	pos, ok := positionArg(args)
	if !ok {
		return nil, fmt.Errorf("x and y are required")
	}
	final, err := s.editor.MoveComponent(ctx, id, cid, *pos)
	if err != nil {
		return nil, fmt.Errorf("move component: %w", err)
	}
	return jsonResult(final)
}

func (s *Server) handleResizeComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := s.resolveDraftID(args)
	if err != nil {
		return nil, err
	}
	cid, err := requireString(args, "componentId")
	if err != nil {
		return nil, err
	}
	if !hasNumber(args, "width") || !hasNumber(args, "height") {
		return nil, fmt.Errorf("width and height are required")
	}
	size := domain.Size{Width: getFloat(args, "width", 0), Height: getFloat(args, "height", 0)}

	pos, ok := positionArg(args)
	if !ok {
		state, err := s.editor.Open(ctx, id)
		if err != nil {
			return nil, err
		}
		c, found := findComponent(state.Components, cid)
		if !found {
			return nil, fmt.Errorf("%w: %s", domain.ErrComponentNotFound, cid)
		}
		pos = &c.Position
	}

	placed, err := s.editor.ResizeComponent(ctx, id, cid, *pos, size)
	if err != nil {
		return nil, fmt.Errorf("resize component: %w", err)
	}
	return jsonResult(placed)
}

func (s *Server) handleUpdateContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := s.resolveDraftID(args)
	if err != nil {
		return nil, err
	}
	cid, err := requireString(args, "componentId")
	if err != nil {
		return nil, err
	}
	content, err := contentArg(args)
	if err != nil {
		return nil, err
	}
	if err := s.editor.UpdateContent(ctx, id, cid, content); err != nil {
		return nil, fmt.Errorf("update content: %w", err)
	}
	return textResult(fmt.Sprintf("Component %s content updated", cid)), nil
}

func (s *Server) handleRemoveComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := s.resolveDraftID(args)
	if err != nil {
		return nil, err
	}
	cid, err := requireString(args, "componentId")
	if err != nil {
		return nil, err
	}
	if err := s.editor.RemoveComponent(ctx, id, cid); err != nil {
		return nil, fmt.Errorf("remove component: %w", err)
	}
	return textResult(fmt.Sprintf("Component %s removed", cid)), nil
}

func (s *Server) handleSelectComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := s.resolveDraftID(args)
	if err != nil {
		return nil, err
	}
	cid, err := requireString(args, "componentId")
	if err != nil {
		return nil, err
	}
	state, err := s.editor.Select(ctx, id, cid)
	if err != nil {
		return nil, err
	}
	return jsonResult(state)
}

func (s *Server) handleArrangeComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveDraftID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	state, err := s.editor.Arrange(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("arrange: %w", err)
	}
	return jsonResult(state)
}

func findComponent(cs []domain.Component, id string) (domain.Component, bool) {
	for _, c := range cs {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Component{}, false
}
