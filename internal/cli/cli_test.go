package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := fmt.Sprintf("data_dir = %q\n\n[log]\nlevel = \"warn\"\n", dir)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, cfgPath, stdin string, args ...string) (string, error) {
	t.Helper()
	root := New(io.Discard, log.InfoLevel).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, cfgPath string, args ...string) string {
	t.Helper()
	out, err := runCLI(t, cfgPath, "", args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

// idFrom extracts the value printed on the "id" key line.
func idFrom(t *testing.T, out string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 && fields[0] == "id" {
			return fields[1]
		}
	}
	t.Fatalf("no id in output:\n%s", out)
	return ""
}

func TestCLI_EditAndPublish(t *testing.T) {
	cfg := writeConfig(t)

	id := idFrom(t, mustRun(t, cfg, "draft", "create", "Demo"))

	out := mustRun(t, cfg, "component", "add", id, "textBlock", "--content", "Hello")
	if !strings.Contains(out, "Added textBlock at (0, 0)") {
		t.Errorf("first add = %q", out)
	}
	out = mustRun(t, cfg, "component", "add", id, "button", "--x", "0", "--y", "0")
	if strings.Contains(out, "at (0, 0)") {
		t.Errorf("overlapping drop was not displaced: %q", out)
	}

	mustRun(t, cfg, "page", "add", id)
	out = mustRun(t, cfg, "page", "list", id)
	if !strings.Contains(out, "* 0. Home") || !strings.Contains(out, "  1. New Page") {
		t.Errorf("page list = %q", out)
	}

	out = mustRun(t, cfg, "publish", id)
	if !strings.Contains(out, "index.html") || !strings.Contains(out, "new-page.html") {
		t.Errorf("publish = %q", out)
	}

	out = mustRun(t, cfg, "draft", "show", id)
	if !strings.Contains(out, "0. Home (2 components)") {
		t.Errorf("show = %q", out)
	}
}

func TestCLI_PageDeleteConfirmation(t *testing.T) {
	cfg := writeConfig(t)
	id := idFrom(t, mustRun(t, cfg, "draft", "create", "Demo"))
	mustRun(t, cfg, "component", "add", id, "textBlock")
	mustRun(t, cfg, "component", "add", id, "image")
	mustRun(t, cfg, "page", "add", id)

	out, err := runCLI(t, cfg, "n\n", "page", "delete", id, "0")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "[y/N]") || !strings.Contains(out, "Kept page 0") {
		t.Errorf("declined delete = %q", out)
	}

	out = mustRun(t, cfg, "page", "delete", id, "0", "--yes")
	if !strings.Contains(out, "Deleted page 0") {
		t.Errorf("confirmed delete = %q", out)
	}
	out = mustRun(t, cfg, "page", "list", id)
	if strings.Contains(out, "Home") {
		t.Errorf("Home still listed: %q", out)
	}

	out = mustRun(t, cfg, "page", "delete", id, "7")
	if !strings.Contains(out, "No page at index 7") {
		t.Errorf("out of range delete = %q", out)
	}
}

func TestCLI_Errors(t *testing.T) {
	cfg := writeConfig(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing draft", []string{"draft", "show", "nope"}},
		{"bad page index", []string{"page", "rename", "x", "-1", "Name"}},
		{"bad number", []string{"component", "move", "x", "c", "ten", "0"}},
		{"missing config", []string{"--config", "/does/not/exist.toml", "draft", "list"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, cfg, "", tt.args...); err == nil {
				t.Errorf("%v: expected error", tt.args)
			}
		})
	}
}

func TestCLI_Approvals(t *testing.T) {
	cfg := writeConfig(t)
	out := mustRun(t, cfg, "approvals", "list")
	if !strings.Contains(out, "Nothing waiting for approval") {
		t.Errorf("approvals list = %q", out)
	}
	if _, err := runCLI(t, cfg, "", "approvals", "approve", "nope"); err == nil {
		t.Error("approving an unknown id should fail")
	}
}
