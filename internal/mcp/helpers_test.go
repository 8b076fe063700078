package mcpserver

import (
	"testing"
)

func TestContentArg(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"missing", nil, ""},
		{"empty", "", ""},
		{"plain text", "Hello", `"Hello"`},
		{"json object", `{"label":"Go"}`, `{"label":"Go"}`},
		{"json array stays text", `[1,2]`, `"[1,2]"`},
		{"object argument", map[string]any{"src": "a.png"}, `{"src":"a.png"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := contentArg(map[string]any{"content": tt.in})
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.want {
				t.Errorf("contentArg(%v) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}

	if _, err := contentArg(map[string]any{"content": 3.0}); err == nil {
		t.Error("expected error for numeric content")
	}
}

func TestNumberArgs(t *testing.T) {
	args := map[string]any{"index": 2.0, "x": 10.5, "name": "n"}

	if got, err := requireInt(args, "index"); err != nil || got != 2 {
		t.Errorf("requireInt = %d, %v", got, err)
	}
	if _, err := requireInt(args, "name"); err == nil {
		t.Error("expected error for non-numeric index")
	}
	if _, ok := positionArg(args); ok {
		t.Error("position without y should be missing")
	}
	args["y"] = 4.0
	pos, ok := positionArg(args)
	if !ok || pos.X != 10.5 || pos.Y != 4 {
		t.Errorf("positionArg = %+v, %v", pos, ok)
	}
}

func TestDraftIDFromURI(t *testing.T) {
	tests := map[string]string{
		"sitebuilder://draft/abc":       "abc",
		"sitebuilder://draft/abc/pages": "abc",
		"sitebuilder://drafts":          "",
		"other://draft/abc":             "",
	}
	for uri, want := range tests {
		if got := draftIDFromURI(uri); got != want {
			t.Errorf("draftIDFromURI(%q) = %q, want %q", uri, got, want)
		}
	}
}

func TestResolveDraftID(t *testing.T) {
	s := &Server{}
	if _, err := s.resolveDraftID(map[string]any{}); err == nil {
		t.Error("expected error without draftId or active draft")
	}
	s.setActiveDraft("active")
	if got, _ := s.resolveDraftID(map[string]any{}); got != "active" {
		t.Errorf("fallback = %q", got)
	}
	if got, _ := s.resolveDraftID(map[string]any{"draftId": "given"}); got != "given" {
		t.Errorf("explicit = %q", got)
	}
}
