package app

import (
	"github.com/lexibridge/lexibridge-backend/internal/clients/gcp"
	"github.com/lexibridge/lexibridge-backend/internal/clients/openai"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/logger"
)

type Clients struct {
	Speech      openai.SpeechClient
	AudioBucket gcp.AudioBucketService
}

// wireClients treats the speech and storage credentials as optional: without
// them the service still serves the catalog, the trigger worker stays off,
// and the on-demand endpoint reports the missing precondition.
func wireClients(log *logger.Logger) Clients {
	log.Info("Wiring clients...")

	var clients Clients

	speech, err := openai.NewSpeechClient(log)
	if err != nil {
		log.Warn("Speech client unavailable, audio pipeline disabled", "error", err)
	} else {
		clients.Speech = speech
	}

	bucket, err := gcp.NewAudioBucketService(log)
	if err != nil {
		log.Warn("Audio bucket unavailable, audio pipeline disabled", "error", err)
	} else {
		clients.AudioBucket = bucket
	}

	return clients
}

// PipelineReady reports whether both halves of the synthesis path exist.
func (c Clients) PipelineReady() bool {
	return c.Speech != nil && c.AudioBucket != nil
}
