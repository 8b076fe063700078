package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.Storage.Driver != DriverSQLite {
		t.Errorf("driver = %q", c.Storage.Driver)
	}
	if want := filepath.Join(c.DataDir, "sitebuilder.db"); c.Storage.DSN != want {
		t.Errorf("dsn = %q, want %q", c.Storage.DSN, want)
	}
	if want := filepath.Join(c.DataDir, "public"); c.Publish.OutputDir != want {
		t.Errorf("output dir = %q, want %q", c.Publish.OutputDir, want)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(`
data_dir = "/srv/site"

[storage]
driver = "postgres"
dsn = "postgres://localhost/site?sslmode=disable"

[publish]

[[publish.schedule]]
draft_id = "d1"
cron = "@hourly"

[[publish.schedule]]
draft_id = "d2"
cron = "*/5 * * * *"

[log]
level = "debug"
`))
	if err != nil {
		t.Fatal(err)
	}
	if c.Storage.Driver != DriverPostgres || !strings.HasPrefix(c.Storage.DSN, "postgres://") {
		t.Errorf("storage = %+v", c.Storage)
	}
	if c.Publish.OutputDir != filepath.Join("/srv/site", "public") {
		t.Errorf("output dir = %q", c.Publish.OutputDir)
	}
	if len(c.Publish.Schedule) != 2 || c.Publish.Schedule[1].DraftID != "d2" {
		t.Errorf("schedule = %+v", c.Publish.Schedule)
	}
	if c.LogLevel() != log.DebugLevel {
		t.Errorf("level = %v", c.LogLevel())
	}
	if c.Preview.Addr != "127.0.0.1:8080" {
		t.Errorf("preview addr default lost: %q", c.Preview.Addr)
	}
}

func TestParse_SQLiteDSNFollowsDataDir(t *testing.T) {
	c, err := Parse([]byte(`data_dir = "/tmp/sb"`))
	if err != nil {
		t.Fatal(err)
	}
	if c.Storage.DSN != filepath.Join("/tmp/sb", "sitebuilder.db") {
		t.Errorf("dsn = %q", c.Storage.DSN)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		toml string
		want string
	}{
		{"unknown driver", `[storage]
driver = "oracle"`, "unknown storage driver"},
		{"postgres without dsn", `[storage]
driver = "postgres"`, "storage.dsn is required"},
		{"mongo without database", `[storage]
driver = "mongodb"
dsn = "mongodb://localhost"
database = ""`, "storage.database"},
		{"empty draft id", `[[publish.schedule]]
cron = "@daily"`, "draft_id is empty"},
		{"bad cron", `[[publish.schedule]]
draft_id = "d"
cron = "every tuesday"`, "invalid cron"},
		{"bad level", `[log]
level = "loud"`, "log.level"},
		{"bad toml", `[storage`, "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.toml")
	if _, err := Load(missing, true); err != nil {
		t.Errorf("optional missing file: %v", err)
	}
	if _, err := Load(missing, false); err == nil {
		t.Error("expected error for required missing file")
	}

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[log]\nlevel = \"warn\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if c.LogLevel() != log.WarnLevel {
		t.Errorf("level = %v", c.LogLevel())
	}
}
