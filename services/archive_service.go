package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"pg-portal/config"
)

// Archiver stores a rendered report and returns where it can be fetched.
type Archiver interface {
	Archive(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// S3Archiver uploads reports to the configured bucket.
type S3Archiver struct {
	uploader *manager.Uploader
	bucket   string
	region   string
}

// NewS3Archiver builds an archiver from config.AWSConfig. Returns a nil Archiver when no bucket is configured.
func NewS3Archiver() Archiver {
	if !config.ArchiveEnabled() {
		return nil
	}
	client := s3.NewFromConfig(config.AWSConfig)
	return &S3Archiver{
		uploader: manager.NewUploader(client),
		bucket:   config.AWSBucketName,
		region:   config.AWSConfig.Region,
	}
}

func (a *S3Archiver) Archive(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	}

	if _, err := a.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucket, a.region, key), nil
}
