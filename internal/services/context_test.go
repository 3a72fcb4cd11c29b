package services_test

import (
	"context"
	"testing"

	"github.com/revathi-prasad/ai-builders-podcast/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithSessionID(ctx, "sess-1")
	ctx = services.WithEpisodeID(ctx, "ep03_hindi")
	ctx = services.WithLanguage(ctx, "hindi")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.SessionIDFromContext(ctx); !ok || id != "sess-1" {
		t.Fatalf("unexpected session id: %v %v", id, ok)
	}
	if id, ok := services.EpisodeIDFromContext(ctx); !ok || id != "ep03_hindi" {
		t.Fatalf("unexpected episode id: %v %v", id, ok)
	}
	if lang, ok := services.LanguageFromContext(ctx); !ok || lang != "hindi" {
		t.Fatalf("unexpected language: %v %v", lang, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithEpisodeID(ctx, "")
	ctx = services.WithLanguage(ctx, "")
	if _, ok := services.EpisodeIDFromContext(ctx); ok {
		t.Fatal("expected no episode id")
	}
	if _, ok := services.LanguageFromContext(ctx); ok {
		t.Fatal("expected no language")
	}
}
