package gcp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/lexibridge/lexibridge-backend/internal/pkg/logger"
)

// AudioBucketService persists synthesized narration audio. Uploads are
// single-shot (non-resumable) MPEG-audio writes; objects are made publicly
// readable on a best-effort basis and addressed by a plain storage URL, not a
// signed one.
type AudioBucketService interface {
	// Store uploads audio under key and returns the internal object address
	// (gs://...) and the public URL. A failed make-public does not fail the
	// write; the canonical address is still returned.
	Store(ctx context.Context, key string, audio []byte) (objectKey string, publicURL string, err error)
	DeletePrefix(ctx context.Context, prefix string) error
	PublicURL(key string) string
}

type audioBucketService struct {
	log           *logger.Logger
	storageClient *storage.Client
	bucketName    string
}

func NewAudioBucketService(log *logger.Logger) (AudioBucketService, error) {
	serviceLog := log.With("service", "AudioBucketService")

	bucketName := strings.TrimSpace(os.Getenv("AUDIO_GCS_BUCKET_NAME"))
	if bucketName == "" {
		return nil, fmt.Errorf("missing env var AUDIO_GCS_BUCKET_NAME")
	}

	ctx := context.Background()
	opts := ClientOptionsFromEnv()
	opts = append(opts, option.WithScopes(storage.ScopeFullControl))
	stClient, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &audioBucketService{
		log:           serviceLog,
		storageClient: stClient,
		bucketName:    bucketName,
	}, nil
}

func (bs *audioBucketService) Store(ctx context.Context, key string, audio []byte) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	obj := bs.storageClient.Bucket(bs.bucketName).Object(key)

	w := obj.NewWriter(ctx)
	w.ContentType = "audio/mpeg"
	// ChunkSize 0 forces a single-request upload instead of a resumable session.
	w.ChunkSize = 0
	if _, err := io.Copy(w, bytes.NewReader(audio)); err != nil {
		_ = w.Close()
		return "", "", fmt.Errorf("failed to write audio to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", "", fmt.Errorf("failed to close GCS writer: %w", err)
	}

	// Best-effort: a private object still has a valid canonical address.
	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		bs.log.Warn("Failed to make audio object public", "key", key, "error", err)
	}

	objectKey := fmt.Sprintf("gs://%s/%s", bs.bucketName, key)
	return objectKey, bs.PublicURL(key), nil
}

func (bs *audioBucketService) listKeys(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	it := bs.storageClient.Bucket(bs.bucketName).Objects(ctx, &storage.Query{Prefix: prefix})
	out := []string{}
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, attrs.Name)
	}
	return out, nil
}

func (bs *audioBucketService) DeletePrefix(ctx context.Context, prefix string) error {
	keys, err := bs.listKeys(ctx, prefix)
	if err != nil {
		return err
	}
	for _, k := range keys {
		dctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		if err := bs.storageClient.Bucket(bs.bucketName).Object(k).Delete(dctx); err != nil {
			bs.log.Warn("Failed to delete audio object", "key", k, "error", err)
		}
		cancel()
	}
	return nil
}

func (bs *audioBucketService) PublicURL(key string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bs.bucketName, url.PathEscape(key))
}
