package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lexibridge/lexibridge-backend/internal/audiopipeline"
	types "github.com/lexibridge/lexibridge-backend/internal/domain"
	"github.com/lexibridge/lexibridge-backend/internal/data/repos"
	apperrors "github.com/lexibridge/lexibridge-backend/internal/pkg/errors"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/logger"
)

type fakeAudioObjectStore struct {
	mu       sync.Mutex
	prefixes []string
}

func (f *fakeAudioObjectStore) DeletePrefix(_ context.Context, prefix string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefixes = append(f.prefixes, prefix)
	return nil
}

func newQuestionService(t *testing.T, db *gorm.DB, store AudioObjectStore) (QuestionService, *audiopipeline.ChangeFeed) {
	t.Helper()
	log := logger.NewNop()
	feed := audiopipeline.NewChangeFeed(log, 16)
	questionRepo := repos.NewQuestionRepo(db, log)
	detailRepo := repos.NewQuestionDetailRepo(db, log)
	detailService := NewQuestionDetailService(db, log, detailRepo, feed)
	return NewQuestionService(db, log, questionRepo, detailRepo, detailService, store, feed), feed
}

func TestQuestionCreateMakesDetail(t *testing.T) {
	db := newTestDB(t)
	svc, feed := newQuestionService(t, db, nil)

	question, detail, err := svc.Create(context.Background(), QuestionCreateInput{
		Title:         "How to Build a House in Australia",
		Category:      types.CategoryHousing,
		DisplayNumber: "0001",
		Introduction:  "Intro",
		Dialogs: []types.DialogTurn{
			{ID: "d1", OriginalText: "Hallo", Translation: "Hello"},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if detail.QuestionID != question.ID {
		t.Fatalf("detail not linked: %v vs %v", detail.QuestionID, question.ID)
	}
	if detail.Title != question.Title || detail.Category != question.Category {
		t.Fatalf("detail must mirror catalog fields")
	}

	change := drainChange(t, feed)
	if change.DetailID != detail.ID || change.After == nil {
		t.Fatalf("create must publish the new detail: %+v", change)
	}
	if len(change.After.Dialogs) != 1 {
		t.Fatalf("snapshot missing dialogs: %+v", change.After)
	}
}

func TestQuestionCreateValidatesCategory(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newQuestionService(t, db, nil)

	_, _, err := svc.Create(context.Background(), QuestionCreateInput{
		Title:    "Bad",
		Category: types.QuestionCategory("cooking"),
	})
	if err == nil {
		t.Fatalf("expected error for unknown category")
	}
}

func TestQuestionListFiltersByCategory(t *testing.T) {
	db := newTestDB(t)
	svc, feed := newQuestionService(t, db, nil)

	for _, in := range []QuestionCreateInput{
		{Title: "A", Category: types.CategoryHousing},
		{Title: "B", Category: types.CategoryLegal},
		{Title: "C", Category: types.CategoryHousing},
	} {
		if _, _, err := svc.Create(context.Background(), in); err != nil {
			t.Fatalf("create %q: %v", in.Title, err)
		}
		drainChange(t, feed)
	}

	all, err := svc.List(context.Background(), "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(all))
	}

	housing, err := svc.List(context.Background(), types.CategoryHousing)
	if err != nil {
		t.Fatalf("list housing: %v", err)
	}
	if len(housing) != 2 {
		t.Fatalf("expected 2 housing questions, got %d", len(housing))
	}

	if _, err := svc.List(context.Background(), types.QuestionCategory("cooking")); err == nil {
		t.Fatalf("expected error for unknown category filter")
	}
}

func TestQuestionUpdateFields(t *testing.T) {
	db := newTestDB(t)
	svc, feed := newQuestionService(t, db, nil)

	question, _, err := svc.Create(context.Background(), QuestionCreateInput{
		Title:    "Old",
		Category: types.CategoryMedical,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	drainChange(t, feed)

	examTip := true
	updated, err := svc.Update(context.Background(), question.ID, QuestionUpdate{IsExamTip: &examTip})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.IsExamTip {
		t.Fatalf("expected exam tip flag set")
	}
	if updated.Title != "Old" {
		t.Fatalf("title must survive partial update")
	}
}

func TestQuestionDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	store := &fakeAudioObjectStore{}
	svc, feed := newQuestionService(t, db, store)

	question, detail, err := svc.Create(context.Background(), QuestionCreateInput{
		Title:    "Doomed",
		Category: types.CategoryLegal,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	drainChange(t, feed)

	if err := svc.Delete(context.Background(), question.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.GetByID(context.Background(), question.ID); err != apperrors.ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	change := drainChange(t, feed)
	if change.DetailID != detail.ID || change.After != nil {
		t.Fatalf("delete must publish detail removal: %+v", change)
	}

	if len(store.prefixes) != 1 || store.prefixes[0] != "auto_audio/"+detail.ID.String()+"/" {
		t.Fatalf("expected audio cleanup for detail prefix, got %v", store.prefixes)
	}
}

func TestQuestionDeleteMissing(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newQuestionService(t, db, nil)

	if err := svc.Delete(context.Background(), uuid.New()); err != apperrors.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
