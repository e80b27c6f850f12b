package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tribeshub/backend/internal/errdef"
	"github.com/tribeshub/backend/pkg/config"
)

// NewS3AttachmentStore creates the attachment store backed by an S3 bucket.
// Uploaded objects are addressed under the configured public base URL.
func NewS3AttachmentStore(logger *slog.Logger, uploader S3Uploader, c config.Config) *S3AttachmentStore {
	return &S3AttachmentStore{
		logger:    logger,
		uploader:  uploader,
		bucket:    c.S3.Bucket,
		publicURL: strings.TrimSuffix(c.S3.PublicURL, "/"),
	}
}

func NewS3Uploader(ctx context.Context, region string) (S3Uploader, error) {
	cfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %v", err)
	}
	return manager.NewUploader(s3.NewFromConfig(cfg)), nil
}

type S3Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type S3AttachmentStore struct {
	logger    *slog.Logger
	uploader  S3Uploader
	bucket    string
	publicURL string
}

// Upload stores body under key and returns the public URL of the object. A
// failed upload surfaces as an unavailable dependency so the caller can abort
// the whole operation.
func (s *S3AttachmentStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	s.logger.InfoContext(ctx, "Uploading attachment", "bucket", s.bucket, "key", key)

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errdef.NewUnavailable("failed to upload attachment: %v", err)
	}

	return fmt.Sprintf("%s/%s", s.publicURL, key), nil
}
