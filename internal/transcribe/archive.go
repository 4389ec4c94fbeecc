package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"landing_backend/platform/config"
	"landing_backend/platform/logger"
)

// Archive keeps the raw recordings in object storage so transcripts can
// be audited later. Archival is best-effort: a storage outage never
// fails the transcription request.
type Archive struct {
	client *minio.Client
	bucket string
	log    *logger.Logger
}

func NewArchive(cfg config.StorageConfig, log *logger.Logger) (*Archive, error) {
	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &Archive{
		client: client,
		bucket: cfg.GetMinioBucketRecordings(),
		log:    log,
	}, nil
}

// EnsureBucket creates the recordings bucket when missing.
func (a *Archive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
		}
	}
	return nil
}

// Store uploads a recording. A nil Archive drops it silently.
func (a *Archive) Store(ctx context.Context, data []byte, contentType string) {
	if a == nil {
		return
	}

	objectName := fmt.Sprintf("%s/%s.wav", time.Now().UTC().Format("2006/01/02"), uuid.NewString())
	_, err := a.client.PutObject(ctx, a.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		a.log.Error("failed to archive recording", "object", objectName, "error", err.Error())
		return
	}
	a.log.Info("recording archived", "object", objectName, "bytes", len(data))
}
