package mcpserver

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"sitebuilder/internal/domain"
)

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// resolveDraftID returns the draftId from tool args or falls back to the
// active draft.
func (s *Server) resolveDraftID(args map[string]any) (string, error) {
	if id, ok := args["draftId"].(string); ok && id != "" {
		return id, nil
	}
	if id := s.activeDraft(); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("no draftId provided and no active draft set (use open_draft first)")
}

func requireString(args map[string]any, key string) (string, error) {
	v, _ := args[key].(string)
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

// getFloat reads a numeric argument. JSON numbers arrive as float64.
func getFloat(args map[string]any, key string, def float64) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

func hasNumber(args map[string]any, key string) bool {
	switch args[key].(type) {
	case float64, int, int64:
		return true
	}
	return false
}

func getInt(args map[string]any, key string, def int) int {
	if !hasNumber(args, key) {
		return def
	}
	return int(getFloat(args, key, float64(def)))
}

func requireInt(args map[string]any, key string) (int, error) {
	if !hasNumber(args, key) {
		return 0, fmt.Errorf("%s is required", key)
	}
	return getInt(args, key, 0), nil
}

// positionArg returns the x/y pair when both are present.
func positionArg(args map[string]any) (*domain.Position, bool) {
	if !hasNumber(args, "x") || !hasNumber(args, "y") {
		return nil, false
	}
	return &domain.Position{X: getFloat(args, "x", 0), Y: getFloat(args, "y", 0)}, true
}

// contentArg turns the content argument into a component payload. Valid
// JSON objects pass through unchanged; any other text becomes a JSON string.
func contentArg(args map[string]any) (json.RawMessage, error) {
	switch v := args["content"].(type) {
	case nil:
		return nil, nil
	case string:
		return domain.ContentFromString(v), nil
	case map[string]any:
		return json.Marshal(v)
	default:
		return nil, fmt.Errorf("content must be a string or an object")
	}
}
