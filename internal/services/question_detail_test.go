package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lexibridge/lexibridge-backend/internal/audiopipeline"
	types "github.com/lexibridge/lexibridge-backend/internal/domain"
	"github.com/lexibridge/lexibridge-backend/internal/data/repos"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/logger"
)

// newTestDB opens an in-memory database with the content tables created by
// hand; the production DDL leans on postgres defaults sqlite cannot parse.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	ddl := []string{
		`CREATE TABLE question (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			is_exam_tip BOOLEAN NOT NULL DEFAULT 0,
			uploaded_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE question_detail (
			id TEXT PRIMARY KEY,
			question_id TEXT NOT NULL,
			display_number TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			introduction TEXT NOT NULL DEFAULT '',
			introduction_audio TEXT NOT NULL DEFAULT '',
			dialogs TEXT NOT NULL DEFAULT '[]',
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE app_user (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE user_token (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE user_role (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE,
			role TEXT NOT NULL DEFAULT 'user',
			created_at DATETIME,
			updated_at DATETIME
		)`,
	}
	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	return db
}

func newDetailService(t *testing.T, db *gorm.DB) (QuestionDetailService, *audiopipeline.ChangeFeed) {
	t.Helper()
	log := logger.NewNop()
	feed := audiopipeline.NewChangeFeed(log, 16)
	repo := repos.NewQuestionDetailRepo(db, log)
	return NewQuestionDetailService(db, log, repo, feed), feed
}

func drainChange(t *testing.T, feed *audiopipeline.ChangeFeed) audiopipeline.DocumentChange {
	t.Helper()
	select {
	case change := <-feed.Changes():
		return change
	case <-time.After(time.Second):
		t.Fatalf("expected a change on the feed")
		return audiopipeline.DocumentChange{}
	}
}

func TestDetailCreatePublishesChange(t *testing.T) {
	db := newTestDB(t)
	svc, feed := newDetailService(t, db)

	detail, err := svc.Create(context.Background(), &types.QuestionDetail{
		QuestionID:   uuid.New(),
		Title:        "Housing",
		Category:     types.CategoryHousing,
		Introduction: "Intro",
		Dialogs: types.EncodeDialogs([]types.DialogTurn{
			{ID: "d1", OriginalText: "Hallo", Translation: "Hello"},
		}),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if detail.ID == uuid.Nil {
		t.Fatalf("expected assigned id")
	}

	change := drainChange(t, feed)
	if change.DetailID != detail.ID {
		t.Fatalf("change id = %v, want %v", change.DetailID, detail.ID)
	}
	if change.Before != nil || change.After == nil {
		t.Fatalf("create change must be nil->snapshot")
	}
	if change.After.Introduction != "Intro" || len(change.After.Dialogs) != 1 {
		t.Fatalf("unexpected snapshot: %+v", change.After)
	}
}

func TestDetailUpdateMergesFields(t *testing.T) {
	db := newTestDB(t)
	svc, feed := newDetailService(t, db)

	detail, err := svc.Create(context.Background(), &types.QuestionDetail{
		QuestionID:    uuid.New(),
		DisplayNumber: "0001",
		Title:         "Before",
		Category:      types.CategoryHousing,
		Introduction:  "Old intro",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	drainChange(t, feed)

	newTitle := "After"
	updated, err := svc.Update(context.Background(), detail.ID, QuestionDetailUpdate{
		Title: &newTitle,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "After" {
		t.Fatalf("title = %q", updated.Title)
	}
	if updated.DisplayNumber != "0001" || updated.Introduction != "Old intro" {
		t.Fatalf("untouched fields must survive: %+v", updated)
	}

	change := drainChange(t, feed)
	if change.Before == nil || change.After == nil {
		t.Fatalf("update change must carry both snapshots")
	}
}

func TestDetailUpdateRejectsBadCategory(t *testing.T) {
	db := newTestDB(t)
	svc, feed := newDetailService(t, db)

	detail, err := svc.Create(context.Background(), &types.QuestionDetail{QuestionID: uuid.New()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	drainChange(t, feed)

	bad := types.QuestionCategory("cooking")
	if _, err := svc.Update(context.Background(), detail.ID, QuestionDetailUpdate{Category: &bad}); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}

func TestMergeAudioWritesOnlyAudioFields(t *testing.T) {
	db := newTestDB(t)
	svc, feed := newDetailService(t, db)

	detail, err := svc.Create(context.Background(), &types.QuestionDetail{
		QuestionID:   uuid.New(),
		Title:        "Kept title",
		Introduction: "Kept intro",
		Dialogs: types.EncodeDialogs([]types.DialogTurn{
			{ID: "d1", OriginalText: "Hallo", Translation: "Hello"},
		}),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	drainChange(t, feed)

	introURL := "https://storage.googleapis.com/b/auto_audio/x/introduction.mp3"
	err = svc.MergeAudio(context.Background(), detail.ID, audiopipeline.MergePatch{
		IntroductionAudio: &introURL,
		Dialogs: []types.DialogTurn{
			{ID: "d1", OriginalText: "Hallo", DialogAudio: "u1", Translation: "Hello", TranslationAudio: "u2"},
		},
	})
	if err != nil {
		t.Fatalf("merge audio: %v", err)
	}

	reloaded, err := svc.GetByID(context.Background(), detail.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.IntroductionAudio != introURL {
		t.Fatalf("introduction audio = %q", reloaded.IntroductionAudio)
	}
	if reloaded.Title != "Kept title" || reloaded.Introduction != "Kept intro" {
		t.Fatalf("merge must not touch text columns: %+v", reloaded)
	}
	turns := reloaded.DecodeDialogs()
	if len(turns) != 1 || turns[0].DialogAudio != "u1" || turns[0].TranslationAudio != "u2" {
		t.Fatalf("unexpected dialogs after merge: %+v", turns)
	}
	if turns[0].OriginalText != "Hallo" || turns[0].Translation != "Hello" {
		t.Fatalf("merge must preserve turn texts: %+v", turns[0])
	}

	// The merge write itself re-enters the feed.
	change := drainChange(t, feed)
	if change.After == nil || change.After.IntroductionAudio != introURL {
		t.Fatalf("merge must republish the updated snapshot")
	}
}

func TestMergeAudioMissingDetailIsNoop(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newDetailService(t, db)

	url := "https://example.com/a.mp3"
	err := svc.MergeAudio(context.Background(), uuid.New(), audiopipeline.MergePatch{IntroductionAudio: &url})
	if err != nil {
		t.Fatalf("merge against missing detail must not fail: %v", err)
	}
}

func TestDetailDeletePublishesDeletion(t *testing.T) {
	db := newTestDB(t)
	svc, feed := newDetailService(t, db)

	questionID := uuid.New()
	detail, err := svc.Create(context.Background(), &types.QuestionDetail{QuestionID: questionID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	drainChange(t, feed)

	if err := svc.DeleteByQuestionID(context.Background(), questionID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	change := drainChange(t, feed)
	if change.DetailID != detail.ID || change.After != nil {
		t.Fatalf("delete change must carry nil After: %+v", change)
	}
}
