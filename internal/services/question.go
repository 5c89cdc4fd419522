package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lexibridge/lexibridge-backend/internal/audiopipeline"
	types "github.com/lexibridge/lexibridge-backend/internal/domain"
	"github.com/lexibridge/lexibridge-backend/internal/data/repos"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/dbctx"
	apperrors "github.com/lexibridge/lexibridge-backend/internal/pkg/errors"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/logger"
)

// AudioObjectStore is the slice of the storage client the question service
// needs for cleanup. May be nil when the bucket is not configured.
type AudioObjectStore interface {
	DeletePrefix(ctx context.Context, prefix string) error
}

// QuestionCreateInput creates a catalog entry together with its content
// record in one transaction.
type QuestionCreateInput struct {
	Title         string
	Category      types.QuestionCategory
	IsExamTip     bool
	DisplayNumber string
	Introduction  string
	Dialogs       []types.DialogTurn
}

type QuestionUpdate struct {
	Title     *string
	Category  *types.QuestionCategory
	IsExamTip *bool
}

type QuestionService interface {
	Create(ctx context.Context, in QuestionCreateInput) (*types.Question, *types.QuestionDetail, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Question, error)
	List(ctx context.Context, category types.QuestionCategory) ([]*types.Question, error)
	Update(ctx context.Context, id uuid.UUID, upd QuestionUpdate) (*types.Question, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type questionService struct {
	db            *gorm.DB
	log           *logger.Logger
	questionRepo  repos.QuestionRepo
	detailRepo    repos.QuestionDetailRepo
	detailService QuestionDetailService
	audioStore    AudioObjectStore
	feed          *audiopipeline.ChangeFeed
}

func NewQuestionService(
	db *gorm.DB,
	log *logger.Logger,
	questionRepo repos.QuestionRepo,
	detailRepo repos.QuestionDetailRepo,
	detailService QuestionDetailService,
	audioStore AudioObjectStore,
	feed *audiopipeline.ChangeFeed,
) QuestionService {
	return &questionService{
		db:            db,
		log:           log.With("service", "QuestionService"),
		questionRepo:  questionRepo,
		detailRepo:    detailRepo,
		detailService: detailService,
		audioStore:    audioStore,
		feed:          feed,
	}
}

func (s *questionService) Create(ctx context.Context, in QuestionCreateInput) (*types.Question, *types.QuestionDetail, error) {
	if in.Title == "" || !types.ValidCategory(in.Category) {
		return nil, nil, apperrors.ErrInvalidArgument
	}

	question := &types.Question{
		Title:      in.Title,
		Category:   in.Category,
		IsExamTip:  in.IsExamTip,
		UploadedAt: time.Now().UTC(),
	}
	var detail *types.QuestionDetail

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		created, err := s.questionRepo.Create(dbc, []*types.Question{question})
		if err != nil {
			return fmt.Errorf("create question: %w", err)
		}
		question = created[0]

		detail = &types.QuestionDetail{
			QuestionID:    question.ID,
			DisplayNumber: in.DisplayNumber,
			Title:         in.Title,
			Category:      in.Category,
			Introduction:  in.Introduction,
			Dialogs:       types.EncodeDialogs(in.Dialogs),
		}
		createdDetails, err := s.detailRepo.Create(dbc, []*types.QuestionDetail{detail})
		if err != nil {
			return fmt.Errorf("create question detail: %w", err)
		}
		detail = createdDetails[0]
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	// Published after commit so the trigger worker reads committed rows.
	if s.feed != nil {
		s.feed.Publish(audiopipeline.DocumentChange{
			DetailID: detail.ID,
			After:    audiopipeline.SnapshotFromDetail(detail),
		})
	}
	return question, detail, nil
}

func (s *questionService) GetByID(ctx context.Context, id uuid.UUID) (*types.Question, error) {
	question, err := s.questionRepo.GetByID(dbctx.From(ctx), id)
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	if question == nil {
		return nil, apperrors.ErrNotFound
	}
	return question, nil
}

// List returns the catalog newest first; an empty category means all.
func (s *questionService) List(ctx context.Context, category types.QuestionCategory) ([]*types.Question, error) {
	if category == "" {
		return s.questionRepo.List(dbctx.From(ctx))
	}
	if !types.ValidCategory(category) {
		return nil, apperrors.ErrInvalidArgument
	}
	return s.questionRepo.ListByCategory(dbctx.From(ctx), category)
}

func (s *questionService) Update(ctx context.Context, id uuid.UUID, upd QuestionUpdate) (*types.Question, error) {
	question, err := s.questionRepo.GetByID(dbctx.From(ctx), id)
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	if question == nil {
		return nil, apperrors.ErrNotFound
	}

	updates := map[string]interface{}{}
	if upd.Title != nil {
		updates["title"] = *upd.Title
	}
	if upd.Category != nil {
		if !types.ValidCategory(*upd.Category) {
			return nil, apperrors.ErrInvalidArgument
		}
		updates["category"] = *upd.Category
	}
	if upd.IsExamTip != nil {
		updates["is_exam_tip"] = *upd.IsExamTip
	}
	if len(updates) == 0 {
		return question, nil
	}
	if err := s.questionRepo.UpdateFields(dbctx.From(ctx), id, updates); err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}
	return s.questionRepo.GetByID(dbctx.From(ctx), id)
}

// Delete removes the question, its detail, and the detail's generated audio
// objects. Audio cleanup is best effort: orphaned objects cost storage, not
// correctness.
func (s *questionService) Delete(ctx context.Context, id uuid.UUID) error {
	question, err := s.questionRepo.GetByID(dbctx.From(ctx), id)
	if err != nil {
		return fmt.Errorf("get question: %w", err)
	}
	if question == nil {
		return apperrors.ErrNotFound
	}

	detail, err := s.detailRepo.GetByQuestionID(dbctx.From(ctx), id)
	if err != nil {
		return fmt.Errorf("get question detail: %w", err)
	}

	if err := s.detailService.DeleteByQuestionID(ctx, id); err != nil {
		return err
	}
	if err := s.questionRepo.Delete(dbctx.From(ctx), id); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}

	if detail != nil && s.audioStore != nil {
		prefix := fmt.Sprintf("auto_audio/%s/", detail.ID)
		if err := s.audioStore.DeletePrefix(ctx, prefix); err != nil {
			s.log.Warn("Audio cleanup failed", "question_id", id, "prefix", prefix, "error", err)
		}
	}
	return nil
}
