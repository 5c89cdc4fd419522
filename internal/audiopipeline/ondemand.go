package audiopipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	types "github.com/lexibridge/lexibridge-backend/internal/domain"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/logger"
)

// ErrSynthesisUnavailable means the speech provider credential is not
// configured. The trigger path degrades silently in that case; the on-demand
// path surfaces it to the caller as a precondition failure.
var ErrSynthesisUnavailable = errors.New("speech synthesis is not configured")

// GenerateDialogInput mirrors one dialog turn of the on-demand payload.
type GenerateDialogInput struct {
	ID           string `json:"id"`
	OriginalText string `json:"originalText"`
	Translation  string `json:"translation"`
}

// GenerateRequest is the on-demand payload. The texts are authoritative: no
// stored document is consulted, and synthesis runs unconditionally for every
// non-empty text. DocID only anchors the storage keys; when omitted a
// time-based one is generated so keys stay deterministic within the call.
type GenerateRequest struct {
	DocID        string                `json:"docId"`
	Introduction string                `json:"introduction"`
	Dialogs      []GenerateDialogInput `json:"dialogs"`
}

type GenerateDialogResult struct {
	ID               string  `json:"id"`
	DialogAudio      *string `json:"dialogAudio"`
	TranslationAudio *string `json:"translationAudio"`
}

// GenerateResponse mirrors the request shape with each text's sibling audio
// URL filled in, null where the corresponding text was empty.
type GenerateResponse struct {
	IntroductionAudio *string                `json:"introductionAudio"`
	Dialogs           []GenerateDialogResult `json:"dialogs"`
}

// OnDemandService synthesizes audio for caller-supplied texts and returns the
// URLs without persisting anything; saving the result is the caller's job.
type OnDemandService interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
}

type onDemandService struct {
	log   *logger.Logger
	synth Synthesizer
	store AudioStore
}

// NewOnDemandService accepts nil synth/store: Generate then fails with
// ErrSynthesisUnavailable instead of the process failing to start.
func NewOnDemandService(log *logger.Logger, synth Synthesizer, store AudioStore) OnDemandService {
	return &onDemandService{
		log:   log.With("service", "OnDemandAudioService"),
		synth: synth,
		store: store,
	}
}

func (s *onDemandService) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	if s.synth == nil || s.store == nil {
		return GenerateResponse{}, ErrSynthesisUnavailable
	}

	docID := req.DocID
	if blank(docID) {
		docID = fmt.Sprintf("adhoc_%d", time.Now().UnixNano())
	}

	// The payload carries no audio fields, so planning over it naturally
	// tasks every non-empty text: the unconditional-regeneration contract
	// falls out of the shared policy.
	snap := Snapshot{
		Introduction: req.Introduction,
		Dialogs:      make([]types.DialogTurn, len(req.Dialogs)),
	}
	for i, d := range req.Dialogs {
		snap.Dialogs[i] = types.DialogTurn{
			ID:           d.ID,
			OriginalText: d.OriginalText,
			Translation:  d.Translation,
		}
	}

	tasks := PlanTasks(docID, snap)

	resp := GenerateResponse{
		Dialogs: make([]GenerateDialogResult, len(req.Dialogs)),
	}
	for i, d := range req.Dialogs {
		resp.Dialogs[i] = GenerateDialogResult{ID: d.ID}
	}
	if len(tasks) == 0 {
		return resp, nil
	}

	// Unlike the trigger path, any failure here aborts the whole call:
	// an interactive caller wants to see the error and retry.
	results := make([]TaskResult, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range tasks {
		g.Go(func() error {
			res, err := runTask(gctx, s.synth, s.store, t)
			if err != nil && !errors.Is(err, errNoAudio) {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return GenerateResponse{}, err
	}

	for _, res := range results {
		if res.PublicURL == "" {
			continue
		}
		u := res.PublicURL
		switch res.Task.Field.Kind {
		case FieldIntroduction:
			resp.IntroductionAudio = &u
		case FieldDialogOriginal:
			if res.Task.Field.Index < len(resp.Dialogs) {
				resp.Dialogs[res.Task.Field.Index].DialogAudio = &u
			}
		case FieldDialogTranslation:
			if res.Task.Field.Index < len(resp.Dialogs) {
				resp.Dialogs[res.Task.Field.Index].TranslationAudio = &u
			}
		}
	}

	return resp, nil
}
