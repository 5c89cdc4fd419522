package audiopipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/lexibridge/lexibridge-backend/internal/pkg/logger"
)

// DocumentMerger applies an audio merge patch to a stored question detail.
// Implementations must republish the resulting write to the change feed so
// the worker observes its own merge and converges.
type DocumentMerger interface {
	MergeAudio(ctx context.Context, detailID uuid.UUID, patch MergePatch) error
}

// TriggerWorker reacts to every question detail write: it plans synthesis
// tasks for text fields lacking audio, fans them out concurrently, and merges
// the resulting URLs back. Each per-field failure is logged and dropped;
// a trigger invocation never fails as a whole.
//
// The merge write re-enters the feed; on that second pass PlanTasks finds the
// audio fields populated and plans nothing, so the pipeline converges in one
// extra round trip.
type TriggerWorker struct {
	log     *logger.Logger
	synth   Synthesizer
	store   AudioStore
	details DocumentMerger
	feed    *ChangeFeed

	wg sync.WaitGroup
}

func NewTriggerWorker(log *logger.Logger, synth Synthesizer, store AudioStore, details DocumentMerger, feed *ChangeFeed) *TriggerWorker {
	return &TriggerWorker{
		log:     log.With("component", "TriggerWorker"),
		synth:   synth,
		store:   store,
		details: details,
		feed:    feed,
	}
}

// Start consumes the change feed until ctx is canceled.
func (w *TriggerWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case change := <-w.feed.Changes():
				w.Handle(ctx, change)
			}
		}
	}()
}

// Wait blocks until the consume loop has exited.
func (w *TriggerWorker) Wait() {
	w.wg.Wait()
}

// Handle processes one document change end to end.
func (w *TriggerWorker) Handle(ctx context.Context, change DocumentChange) {
	if change.After == nil {
		// Deleted: nothing to synthesize.
		return
	}

	tasks := PlanTasks(change.DetailID.String(), *change.After)
	if len(tasks) == 0 {
		return
	}

	results := w.runAll(ctx, tasks)
	if len(results) == 0 {
		// Every task failed or produced nothing: no write at all.
		return
	}

	patch := buildPatch(*change.After, results)
	if patch.Empty() {
		return
	}
	if err := w.details.MergeAudio(ctx, change.DetailID, patch); err != nil {
		w.log.Error("Audio merge failed", "detail_id", change.DetailID, "error", err)
	}
}

// runAll fans the tasks out concurrently and waits for all of them to settle.
// Failures are dropped; surviving results come back in task order.
func (w *TriggerWorker) runAll(ctx context.Context, tasks []Task) []TaskResult {
	settled := make([]*TaskResult, len(tasks))

	var wg sync.WaitGroup
	for i, t := range tasks {
		wg.Add(1)
		go func(i int, t Task) {
			defer wg.Done()
			res, err := runTask(ctx, w.synth, w.store, t)
			if err != nil {
				if !errors.Is(err, errNoAudio) {
					w.log.Warn("Synthesis task failed",
						"object_key", t.ObjectKey,
						"error", err,
					)
				}
				return
			}
			settled[i] = &res
		}(i, t)
	}
	wg.Wait()

	results := make([]TaskResult, 0, len(tasks))
	for _, res := range settled {
		if res != nil {
			results = append(results, *res)
		}
	}
	return results
}
