package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lexibridge/lexibridge-backend/internal/pkg/httpx"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/logger"
)

// SpeechClient is the narration synthesis client used by the audio pipeline.
// Output encoding is fixed to MP3.
type SpeechClient interface {
	// Synthesize converts text to MP3 audio bytes. Blank (whitespace-only)
	// text returns (nil, nil): there is nothing to narrate, not an error.
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type speechClient struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	voice      string
	httpClient *http.Client

	maxRetries int
}

func NewSpeechClient(log *logger.Logger) (SpeechClient, error) {
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}

	baseURL := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	model := strings.TrimSpace(os.Getenv("OPENAI_TTS_MODEL"))
	if model == "" {
		model = "gpt-4o-mini-tts"
	}

	voice := strings.TrimSpace(os.Getenv("OPENAI_TTS_VOICE"))
	if voice == "" {
		voice = "alloy"
	}

	timeoutSec := 120
	if v := os.Getenv("OPENAI_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	maxRetries := 3
	if v := os.Getenv("OPENAI_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	return &speechClient{
		log:        log.With("service", "SpeechClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		voice:      voice,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

type speechHTTPError struct {
	StatusCode int
	Body       string
}

func (e *speechHTTPError) Error() string {
	return fmt.Sprintf("openai speech http %d: %s", e.StatusCode, e.Body)
}

func (e *speechHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

type speechRequest struct {
	Model  string `json:"model"`
	Voice  string `json:"voice"`
	Input  string `json:"input"`
	Format string `json:"format"`
}

func (c *speechClient) doOnce(ctx context.Context, body speechRequest) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/audio/speech", &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &speechHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *speechClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	req := speechRequest{
		Model:  c.model,
		Voice:  c.voice,
		Input:  text,
		Format: "mp3",
	}

	backoff := 1 * time.Second
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, req)
		if err == nil {
			if len(raw) == 0 {
				return nil, fmt.Errorf("openai speech: empty audio response")
			}
			return raw, nil
		}

		if !httpx.IsRetryableError(err) {
			return nil, err
		}
		if attempt == c.maxRetries {
			return nil, err
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, 10*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)

		c.log.Warn("Speech request retrying",
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		time.Sleep(sleepFor)
		backoff *= 2
	}

	return nil, fmt.Errorf("unreachable retry loop")
}
