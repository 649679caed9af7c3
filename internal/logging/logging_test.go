package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestContextRoundTrip(t *testing.T) {
	logger := slog.Default().With("request_id", "abc")
	ctx := ContextWithLogger(context.Background(), logger)

	if FromContext(ctx) != logger {
		t.Fatal("expected the logger stored in the context")
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	if FromContext(context.Background()) != slog.Default() {
		t.Fatal("expected slog.Default when the context carries no logger")
	}
	if ContextWithLogger(context.Background(), nil) == nil {
		t.Fatal("nil logger must keep the original context")
	}
}
