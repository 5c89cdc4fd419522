package audiopipeline

import (
	"testing"

	types "github.com/lexibridge/lexibridge-backend/internal/domain"
)

func TestObjectKeyPaths(t *testing.T) {
	cases := []struct {
		field FieldRef
		want  string
	}{
		{FieldRef{Kind: FieldIntroduction}, "auto_audio/doc1/introduction.mp3"},
		{FieldRef{Kind: FieldDialogOriginal, Index: 0}, "auto_audio/doc1/dialog_1_original.mp3"},
		{FieldRef{Kind: FieldDialogTranslation, Index: 0}, "auto_audio/doc1/dialog_1_translation.mp3"},
		{FieldRef{Kind: FieldDialogOriginal, Index: 4}, "auto_audio/doc1/dialog_5_original.mp3"},
	}
	for _, c := range cases {
		if got := ObjectKey("doc1", c.field); got != c.want {
			t.Fatalf("ObjectKey(%+v) = %q, want %q", c.field, got, c.want)
		}
	}
}

func TestPlanTasksSkipsBlankAndFilled(t *testing.T) {
	snap := Snapshot{
		Introduction:      "Welcome to the housing office.",
		IntroductionAudio: "https://example.com/intro.mp3",
		Dialogs: []types.DialogTurn{
			{ID: "d1", OriginalText: "Guten Tag.", Translation: "Hello."},
			{ID: "d2", OriginalText: "   ", Translation: "Filled", TranslationAudio: "https://example.com/t2.mp3"},
			{ID: "d3", OriginalText: "Danke.", DialogAudio: "https://example.com/o3.mp3", Translation: ""},
		},
	}

	tasks := PlanTasks("doc1", snap)
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d: %+v", len(tasks), tasks)
	}
	if tasks[0].ObjectKey != "auto_audio/doc1/dialog_1_original.mp3" || tasks[0].Text != "Guten Tag." {
		t.Fatalf("unexpected first task: %+v", tasks[0])
	}
	if tasks[1].ObjectKey != "auto_audio/doc1/dialog_1_translation.mp3" || tasks[1].Text != "Hello." {
		t.Fatalf("unexpected second task: %+v", tasks[1])
	}
}

func TestPlanTasksEmptySnapshot(t *testing.T) {
	if tasks := PlanTasks("doc1", Snapshot{}); len(tasks) != 0 {
		t.Fatalf("expected no tasks for empty snapshot, got %d", len(tasks))
	}
}

func TestPlanTasksDoesNotRetaskChangedText(t *testing.T) {
	// Edited text with stale audio still counts as filled: regeneration is
	// an explicit on-demand action, not a trigger side effect.
	snap := Snapshot{
		Introduction:      "Edited introduction",
		IntroductionAudio: "https://example.com/stale.mp3",
	}
	if tasks := PlanTasks("doc1", snap); len(tasks) != 0 {
		t.Fatalf("expected no tasks for filled audio, got %d", len(tasks))
	}
}

func TestSnapshotFromDetail(t *testing.T) {
	if SnapshotFromDetail(nil) != nil {
		t.Fatalf("expected nil snapshot for nil detail")
	}

	dialogs := types.EncodeDialogs([]types.DialogTurn{
		{ID: "d1", OriginalText: "Hallo", Translation: "Hello"},
	})
	detail := &types.QuestionDetail{
		Introduction:      "Intro",
		IntroductionAudio: "url",
		Dialogs:           dialogs,
	}

	snap := SnapshotFromDetail(detail)
	if snap.Introduction != "Intro" || snap.IntroductionAudio != "url" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if len(snap.Dialogs) != 1 || snap.Dialogs[0].OriginalText != "Hallo" {
		t.Fatalf("unexpected dialogs: %+v", snap.Dialogs)
	}
}
