package audiopipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	types "github.com/lexibridge/lexibridge-backend/internal/domain"
)

// Synthesizer produces MP3 audio for a text. Blank text yields (nil, nil).
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// AudioStore persists audio bytes under a deterministic key and returns the
// internal object address plus a public URL.
type AudioStore interface {
	Store(ctx context.Context, key string, audio []byte) (objectKey string, publicURL string, err error)
}

// taskTimeout bounds one synthesize+store round trip so a hanging provider
// call cannot stall the whole fan-in for the platform's full request budget.
const taskTimeout = 60 * time.Second

var errNoAudio = errors.New("no audio produced")

// TaskResult is a settled synthesis task: audio persisted, addresses known.
type TaskResult struct {
	Task      Task
	ObjectKey string
	PublicURL string
}

func runTask(ctx context.Context, synth Synthesizer, store AudioStore, t Task) (TaskResult, error) {
	ctx, cancel := context.WithTimeout(ctx, taskTimeout)
	defer cancel()

	audio, err := synth.Synthesize(ctx, t.Text)
	if err != nil {
		return TaskResult{}, fmt.Errorf("synthesize %q: %w", t.ObjectKey, err)
	}
	if len(audio) == 0 {
		return TaskResult{}, errNoAudio
	}

	objectKey, publicURL, err := store.Store(ctx, t.ObjectKey, audio)
	if err != nil {
		return TaskResult{}, fmt.Errorf("store %q: %w", t.ObjectKey, err)
	}
	if publicURL == "" {
		return TaskResult{}, fmt.Errorf("store %q: no public URL", t.ObjectKey)
	}

	return TaskResult{Task: t, ObjectKey: objectKey, PublicURL: publicURL}, nil
}

// MergePatch is a non-destructive partial update: nil members leave the
// corresponding column untouched. Dialogs, when non-nil, replaces the whole
// sequence; the store has no element-level array patch.
type MergePatch struct {
	IntroductionAudio *string
	Dialogs           []types.DialogTurn
}

func (p MergePatch) Empty() bool {
	return p.IntroductionAudio == nil && p.Dialogs == nil
}

// buildPatch folds settled task results into a patch against snap. Dialog
// results splice their URLs into a copy of the full sequence, preserving every
// other turn field byte for byte.
func buildPatch(snap Snapshot, results []TaskResult) MergePatch {
	var patch MergePatch
	var dialogs []types.DialogTurn

	ensureDialogs := func() {
		if dialogs == nil {
			dialogs = make([]types.DialogTurn, len(snap.Dialogs))
			copy(dialogs, snap.Dialogs)
		}
	}

	for _, res := range results {
		switch res.Task.Field.Kind {
		case FieldIntroduction:
			u := res.PublicURL
			patch.IntroductionAudio = &u
		case FieldDialogOriginal:
			if res.Task.Field.Index < len(snap.Dialogs) {
				ensureDialogs()
				dialogs[res.Task.Field.Index].DialogAudio = res.PublicURL
			}
		case FieldDialogTranslation:
			if res.Task.Field.Index < len(snap.Dialogs) {
				ensureDialogs()
				dialogs[res.Task.Field.Index].TranslationAudio = res.PublicURL
			}
		}
	}

	patch.Dialogs = dialogs
	return patch
}
