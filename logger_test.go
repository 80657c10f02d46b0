package main

import (
	"context"
	"log/slog"
	"testing"
)

func TestNewLoggerRespectsLevel(t *testing.T) {
	l := NewLogger(slog.LevelWarn)
	if l.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("info should be disabled at warn level")
	}
	if !l.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("error should be enabled at warn level")
	}
}
