package xslog

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := map[string]Level{
		"debug": LevelDebug,
		"INFO":  LevelInfo,
		" warn": LevelWarn,
		"error": LevelError,
		"":      Default,
	}
	for in, want := range tests {
		got, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("Parse(%q) = %s, want %s", in, got, want)
		}
	}
	if _, err := Parse("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNewLoggerFiltersByLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, LevelWarn)
	logger.Info("hidden")
	logger.Warn("shown", File("ride.fit"), Count(3))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be filtered: %s", out)
	}
	if !strings.Contains(out, `"file":"ride.fit"`) || !strings.Contains(out, `"count":3`) {
		t.Fatalf("missing attributes: %s", out)
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	if FromContext(context.Background()) != slog.Default() {
		t.Fatal("expected default logger without one in context")
	}
	logger := Discard()
	if FromContext(WithLogger(context.Background(), logger)) != logger {
		t.Fatal("expected logger stored in context")
	}
}
