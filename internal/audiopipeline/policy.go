package audiopipeline

import (
	"fmt"
	"strings"

	types "github.com/lexibridge/lexibridge-backend/internal/domain"
)

type FieldKind string

const (
	FieldIntroduction      FieldKind = "introduction"
	FieldDialogOriginal    FieldKind = "dialog_original"
	FieldDialogTranslation FieldKind = "dialog_translation"
)

// FieldRef addresses one narratable text field within a question detail.
// Index is the 0-based position in the dialog sequence; unused for the
// introduction.
type FieldRef struct {
	Kind  FieldKind
	Index int
}

// Task is one unit of pending synthesis work: a text field whose sibling
// audio field is still empty.
type Task struct {
	Field     FieldRef
	Text      string
	ObjectKey string
}

// Snapshot is the pipeline's view of a question detail: just the narratable
// text fields and their sibling audio fields.
type Snapshot struct {
	Introduction      string
	IntroductionAudio string
	Dialogs           []types.DialogTurn
}

func SnapshotFromDetail(d *types.QuestionDetail) *Snapshot {
	if d == nil {
		return nil
	}
	return &Snapshot{
		Introduction:      d.Introduction,
		IntroductionAudio: d.IntroductionAudio,
		Dialogs:           d.DecodeDialogs(),
	}
}

// ObjectKey derives the storage key for a field. Keys are deterministic per
// (document, field) so a re-run addresses the same object: overwrites are
// idempotent at the storage layer. Dialog keys are 1-based.
func ObjectKey(docID string, f FieldRef) string {
	switch f.Kind {
	case FieldDialogOriginal:
		return fmt.Sprintf("auto_audio/%s/dialog_%d_original.mp3", docID, f.Index+1)
	case FieldDialogTranslation:
		return fmt.Sprintf("auto_audio/%s/dialog_%d_translation.mp3", docID, f.Index+1)
	default:
		return fmt.Sprintf("auto_audio/%s/introduction.mp3", docID)
	}
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// PlanTasks decides which fields need synthesis: text present, audio absent.
// It never re-tasks a field whose audio is already set, even when the text has
// since changed; forced regeneration goes through the on-demand endpoint.
func PlanTasks(docID string, snap Snapshot) []Task {
	var tasks []Task

	if !blank(snap.Introduction) && blank(snap.IntroductionAudio) {
		f := FieldRef{Kind: FieldIntroduction}
		tasks = append(tasks, Task{Field: f, Text: snap.Introduction, ObjectKey: ObjectKey(docID, f)})
	}

	for i, turn := range snap.Dialogs {
		if !blank(turn.OriginalText) && blank(turn.DialogAudio) {
			f := FieldRef{Kind: FieldDialogOriginal, Index: i}
			tasks = append(tasks, Task{Field: f, Text: turn.OriginalText, ObjectKey: ObjectKey(docID, f)})
		}
		if !blank(turn.Translation) && blank(turn.TranslationAudio) {
			f := FieldRef{Kind: FieldDialogTranslation, Index: i}
			tasks = append(tasks, Task{Field: f, Text: turn.Translation, ObjectKey: ObjectKey(docID, f)})
		}
	}

	return tasks
}
