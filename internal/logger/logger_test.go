package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestNewProvidesJSONLogger(t *testing.T) {
	l := New()
	if l == nil {
		t.Fatal("expected logger, got nil")
	}

	if !l.Enabled(context.Background(), slog.LevelInfo) {
		t.Errorf("expected info level to be enabled")
	}
	if l.Enabled(context.Background(), slog.LevelDebug) {
		t.Errorf("did not expect debug level to be enabled")
	}

	if _, ok := l.Handler().(*slog.JSONHandler); !ok {
		t.Fatalf("expected JSON handler, got %T", l.Handler())
	}
}

func TestLevelFromEnv(t *testing.T) {
	cases := []struct {
		value string
		want  slog.Level
	}{
		{value: "debug", want: slog.LevelDebug},
		{value: "WARN", want: slog.LevelWarn},
		{value: "error", want: slog.LevelError},
		{value: "", want: slog.LevelInfo},
		{value: "nonsense", want: slog.LevelInfo},
	}
	for _, tc := range cases {
		t.Run("level "+tc.value, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tc.value)
			if got := levelFromEnv(); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
