package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lexibridge/lexibridge-backend/internal/audiopipeline"
	types "github.com/lexibridge/lexibridge-backend/internal/domain"
	"github.com/lexibridge/lexibridge-backend/internal/data/repos"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/dbctx"
	apperrors "github.com/lexibridge/lexibridge-backend/internal/pkg/errors"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/logger"
)

// QuestionDetailUpdate is a partial update: nil members leave the column
// untouched. Dialogs, when non-nil, replaces the whole sequence.
type QuestionDetailUpdate struct {
	DisplayNumber *string
	Title         *string
	Category      *types.QuestionCategory
	Introduction  *string
	Dialogs       []types.DialogTurn
}

// QuestionDetailService owns question detail writes. Every write, its own
// audio merges included, is published to the change feed so the trigger
// worker sees it; this is what lets the pipeline observe its own merge and
// settle.
type QuestionDetailService interface {
	Create(ctx context.Context, detail *types.QuestionDetail) (*types.QuestionDetail, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.QuestionDetail, error)
	GetByQuestionID(ctx context.Context, questionID uuid.UUID) (*types.QuestionDetail, error)
	Update(ctx context.Context, id uuid.UUID, upd QuestionDetailUpdate) (*types.QuestionDetail, error)
	MergeAudio(ctx context.Context, detailID uuid.UUID, patch audiopipeline.MergePatch) error
	DeleteByQuestionID(ctx context.Context, questionID uuid.UUID) error
}

type questionDetailService struct {
	db         *gorm.DB
	log        *logger.Logger
	detailRepo repos.QuestionDetailRepo
	feed       *audiopipeline.ChangeFeed
}

func NewQuestionDetailService(
	db *gorm.DB,
	log *logger.Logger,
	detailRepo repos.QuestionDetailRepo,
	feed *audiopipeline.ChangeFeed,
) QuestionDetailService {
	return &questionDetailService{
		db:         db,
		log:        log.With("service", "QuestionDetailService"),
		detailRepo: detailRepo,
		feed:       feed,
	}
}

func (s *questionDetailService) publish(id uuid.UUID, before, after *types.QuestionDetail) {
	if s.feed == nil {
		return
	}
	s.feed.Publish(audiopipeline.DocumentChange{
		DetailID: id,
		Before:   audiopipeline.SnapshotFromDetail(before),
		After:    audiopipeline.SnapshotFromDetail(after),
	})
}

func (s *questionDetailService) Create(ctx context.Context, detail *types.QuestionDetail) (*types.QuestionDetail, error) {
	if detail == nil {
		return nil, apperrors.ErrInvalidArgument
	}
	if detail.Dialogs == nil {
		detail.Dialogs = types.EncodeDialogs(nil)
	}
	created, err := s.detailRepo.Create(dbctx.From(ctx), []*types.QuestionDetail{detail})
	if err != nil {
		return nil, fmt.Errorf("create question detail: %w", err)
	}
	s.publish(created[0].ID, nil, created[0])
	return created[0], nil
}

func (s *questionDetailService) GetByID(ctx context.Context, id uuid.UUID) (*types.QuestionDetail, error) {
	detail, err := s.detailRepo.GetByID(dbctx.From(ctx), id)
	if err != nil {
		return nil, fmt.Errorf("get question detail: %w", err)
	}
	if detail == nil {
		return nil, apperrors.ErrNotFound
	}
	return detail, nil
}

func (s *questionDetailService) GetByQuestionID(ctx context.Context, questionID uuid.UUID) (*types.QuestionDetail, error) {
	detail, err := s.detailRepo.GetByQuestionID(dbctx.From(ctx), questionID)
	if err != nil {
		return nil, fmt.Errorf("get question detail: %w", err)
	}
	if detail == nil {
		return nil, apperrors.ErrNotFound
	}
	return detail, nil
}

func (s *questionDetailService) Update(ctx context.Context, id uuid.UUID, upd QuestionDetailUpdate) (*types.QuestionDetail, error) {
	before, err := s.detailRepo.GetByID(dbctx.From(ctx), id)
	if err != nil {
		return nil, fmt.Errorf("get question detail: %w", err)
	}
	if before == nil {
		return nil, apperrors.ErrNotFound
	}

	updates := map[string]interface{}{}
	if upd.DisplayNumber != nil {
		updates["display_number"] = *upd.DisplayNumber
	}
	if upd.Title != nil {
		updates["title"] = *upd.Title
	}
	if upd.Category != nil {
		if !types.ValidCategory(*upd.Category) {
			return nil, apperrors.ErrInvalidArgument
		}
		updates["category"] = *upd.Category
	}
	if upd.Introduction != nil {
		updates["introduction"] = *upd.Introduction
	}
	if upd.Dialogs != nil {
		updates["dialogs"] = types.EncodeDialogs(upd.Dialogs)
	}
	if len(updates) == 0 {
		return before, nil
	}

	if err := s.detailRepo.UpdateFields(dbctx.From(ctx), id, updates); err != nil {
		return nil, fmt.Errorf("update question detail: %w", err)
	}
	after, err := s.detailRepo.GetByID(dbctx.From(ctx), id)
	if err != nil {
		return nil, fmt.Errorf("reload question detail: %w", err)
	}
	s.publish(id, before, after)
	return after, nil
}

// MergeAudio writes synthesized audio URLs back onto a detail without
// touching any other column, then republishes the write. On the republished
// change every tasked field has audio, so the worker plans nothing and the
// loop terminates.
func (s *questionDetailService) MergeAudio(ctx context.Context, detailID uuid.UUID, patch audiopipeline.MergePatch) error {
	if patch.Empty() {
		return nil
	}
	before, err := s.detailRepo.GetByID(dbctx.From(ctx), detailID)
	if err != nil {
		return fmt.Errorf("get question detail: %w", err)
	}
	if before == nil {
		// Deleted between trigger and merge; nothing to write.
		return nil
	}

	updates := map[string]interface{}{}
	if patch.IntroductionAudio != nil {
		updates["introduction_audio"] = *patch.IntroductionAudio
	}
	if patch.Dialogs != nil {
		updates["dialogs"] = types.EncodeDialogs(patch.Dialogs)
	}
	if err := s.detailRepo.UpdateFields(dbctx.From(ctx), detailID, updates); err != nil {
		return fmt.Errorf("merge audio: %w", err)
	}

	after, err := s.detailRepo.GetByID(dbctx.From(ctx), detailID)
	if err != nil {
		return fmt.Errorf("reload question detail: %w", err)
	}
	s.publish(detailID, before, after)
	return nil
}

func (s *questionDetailService) DeleteByQuestionID(ctx context.Context, questionID uuid.UUID) error {
	before, err := s.detailRepo.GetByQuestionID(dbctx.From(ctx), questionID)
	if err != nil {
		return fmt.Errorf("get question detail: %w", err)
	}
	if before == nil {
		return nil
	}
	if err := s.detailRepo.DeleteByQuestionID(dbctx.From(ctx), questionID); err != nil {
		return fmt.Errorf("delete question detail: %w", err)
	}
	s.publish(before.ID, before, nil)
	return nil
}
