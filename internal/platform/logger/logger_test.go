// Package logger_test contains tests for the logger package
package logger_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/yachaflex/yachaflex-api/internal/config"
	"github.com/yachaflex/yachaflex-api/internal/platform/logger"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input  string
		want   slog.Level
		wantOK bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"Warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := logger.ParseLevel(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseLevel(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSetupWithWriter(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	buf := &logger.TestLogBuffer{}
	l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "warn"}, buf)
	if err != nil {
		t.Fatalf("SetupWithWriter returned error: %v", err)
	}
	if l == nil {
		t.Fatal("Expected a logger")
	}

	l.Info("filtered out")
	l.Warn("kept", "component", "test")

	logger.AssertLogContains(t, buf, "kept")
	logger.AssertLogField(t, buf, "component", "test")

	entries, err := buf.GetLogEntries()
	if err != nil {
		t.Fatalf("Failed to parse entries: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected 1 entry at warn level, got %d", len(entries))
	}

	slog.Error("via default")
	logger.AssertLogContains(t, buf, "via default")
}

func TestContextLogger(t *testing.T) {
	ctx := context.Background()

	if _, ok := logger.FromContext(ctx); ok {
		t.Error("Expected no logger in empty context")
	}
	if logger.FromContextOrDefault(ctx, nil) != slog.Default() {
		t.Error("Expected default logger fallback")
	}
	fallback := slog.New(slog.NewJSONHandler(io.Discard, nil))
	if logger.FromContextOrDefault(ctx, fallback) != fallback {
		t.Error("Expected explicit fallback logger")
	}

	l, buf := logger.GetTestLogger(t)
	ctx = logger.WithLogger(ctx, l.With("trace_id", "abc"))

	got, ok := logger.FromContext(ctx)
	if !ok {
		t.Fatal("Expected logger in context")
	}
	got.Info("hello")
	logger.AssertLogField(t, buf, "trace_id", "abc")

	if logger.WithLogger(ctx, nil) != ctx {
		t.Error("WithLogger(nil) should return the context unchanged")
	}
}
