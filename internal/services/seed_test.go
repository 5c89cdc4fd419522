package services

import (
	"context"
	"testing"

	"github.com/lexibridge/lexibridge-backend/internal/data/repos"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/dbctx"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/logger"
)

func TestSeedIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	log := logger.NewNop()
	questionRepo := repos.NewQuestionRepo(db, log)
	questions, feed := newQuestionService(t, db, nil)
	seed := NewSeedService(log, questionRepo, questions)

	if err := seed.Run(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	first, err := questionRepo.Count(dbctx.From(context.Background()))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if first == 0 {
		t.Fatalf("expected seeded questions")
	}

	// Every seeded detail enters the change feed.
	for i := int64(0); i < first; i++ {
		drainChange(t, feed)
	}

	if err := seed.Run(context.Background()); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	second, err := questionRepo.Count(dbctx.From(context.Background()))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if second != first {
		t.Fatalf("seed must not duplicate: %d vs %d", second, first)
	}
}
