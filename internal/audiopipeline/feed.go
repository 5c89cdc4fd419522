package audiopipeline

import (
	"github.com/google/uuid"

	"github.com/lexibridge/lexibridge-backend/internal/pkg/logger"
)

// DocumentChange is one write to the question detail collection, delivered as
// a before/after pair. A nil After means the document was deleted; a nil
// Before means it was created.
type DocumentChange struct {
	DetailID uuid.UUID
	Before   *Snapshot
	After    *Snapshot
}

// ChangeFeed delivers detail writes to the trigger worker. Publishing never
// blocks the writer: when the buffer is full the change is dropped and logged,
// and the field simply stays without audio until the next write.
type ChangeFeed struct {
	log *logger.Logger
	ch  chan DocumentChange
}

func NewChangeFeed(log *logger.Logger, buffer int) *ChangeFeed {
	if buffer <= 0 {
		buffer = 64
	}
	return &ChangeFeed{
		log: log.With("component", "ChangeFeed"),
		ch:  make(chan DocumentChange, buffer),
	}
}

func (f *ChangeFeed) Publish(change DocumentChange) {
	select {
	case f.ch <- change:
	default:
		f.log.Warn("Change feed full, dropping change", "detail_id", change.DetailID)
	}
}

func (f *ChangeFeed) Changes() <-chan DocumentChange {
	return f.ch
}
