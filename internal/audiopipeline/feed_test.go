package audiopipeline

import (
	"testing"

	"github.com/google/uuid"

	"github.com/lexibridge/lexibridge-backend/internal/pkg/logger"
)

func TestPublishNeverBlocks(t *testing.T) {
	feed := NewChangeFeed(logger.NewNop(), 2)

	// Fill the buffer, then overflow it; the extra publishes are dropped
	// instead of blocking the writer.
	for i := 0; i < 5; i++ {
		feed.Publish(DocumentChange{DetailID: uuid.New()})
	}

	delivered := 0
	for {
		select {
		case <-feed.Changes():
			delivered++
			continue
		default:
		}
		break
	}
	if delivered != 2 {
		t.Fatalf("expected buffer-sized delivery, got %d", delivered)
	}
}

func TestNewChangeFeedDefaultBuffer(t *testing.T) {
	feed := NewChangeFeed(logger.NewNop(), 0)
	if cap(feed.ch) != 64 {
		t.Fatalf("expected default buffer 64, got %d", cap(feed.ch))
	}
}
