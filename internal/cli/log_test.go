package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level     log.Level
		wantLines int
	}{
		{level: log.DebugLevel, wantLines: 3},
		{level: log.InfoLevel, wantLines: 2},
		{level: log.WarnLevel, wantLines: 1},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			l := newLogger(&buf, tt.level)
			l.Debug("cache miss", "key", "apod:today")
			l.Info("fetched")
			l.Warn("retrying", "attempt", 2)

			if got := strings.Count(buf.String(), "\n"); got != tt.wantLines {
				t.Errorf("%d lines at %s, want %d:\n%s", got, tt.level, tt.wantLines, buf.String())
			}
		})
	}
}

func TestNewLogger_Timestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("listening")

	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(buf.String()) {
		t.Errorf("line %q does not start with HH:MM:SS.ms", buf.String())
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.DebugLevel)).done("fetched 25 photos")

	out := buf.String()
	if !regexp.MustCompile(`fetched 25 photos \(\d+(ms|s)\)`).MatchString(out) {
		t.Errorf("progress output = %q, want message and elapsed time", out)
	}
}

func TestProgress_QuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("fetched")
	if buf.Len() != 0 {
		t.Errorf("progress at info level wrote %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("empty context should yield log.Default()")
	}

	custom := newLogger(&bytes.Buffer{}, log.InfoLevel)
	ctx := withLogger(context.Background(), custom)
	if loggerFromContext(ctx) != custom {
		t.Error("loggerFromContext did not return the attached logger")
	}
}
