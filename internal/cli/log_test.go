package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
		{"info at warn level", log.WarnLevel, func(l *log.Logger) { l.Info("test") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("logged = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	ctx := context.Background()
	if loggerFromContext(ctx) != log.Default() {
		t.Error("empty context should fall back to log.Default()")
	}

	logger := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if loggerFromContext(withLogger(ctx, logger)) != logger {
		t.Error("loggerFromContext did not return the attached logger")
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Published 2 page(s)")
	if !strings.Contains(buf.String(), "Published 2 page(s) (") {
		t.Errorf("output = %q", buf.String())
	}
}
