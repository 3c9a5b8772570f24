package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/harentsoaR/folio-api/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// NewBackend builds the object backend selected by cfg.Driver.
func NewBackend(ctx context.Context, cfg config.MediaConfig) (ObjectBackend, error) {
	switch cfg.Driver {
	case "minio":
		return NewMinIOBackend(ctx, cfg)
	case "s3":
		return NewS3Backend(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown media driver %q", cfg.Driver)
	}
}

type MinIOBackend struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinIOBackend connects to MinIO and creates the bucket when it does not exist yet.
func NewMinIOBackend(ctx context.Context, cfg config.MediaConfig) (*MinIOBackend, error) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	b := &MinIOBackend{client: client, bucket: cfg.Bucket, publicURL: cfg.PublicURL}
	if b.publicURL == "" {
		scheme := "http"
		if cfg.MinIOUseSSL {
			scheme = "https"
		}
		b.publicURL = scheme + "://" + cfg.MinIOEndpoint
	}
	if err := b.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *MinIOBackend) EnsureBucket(ctx context.Context) error {
	exists, err := b.client.BucketExists(ctx, b.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := b.client.MakeBucket(ctx, b.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", b.bucket, err)
		}
	}
	return nil
}

func (b *MinIOBackend) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	_, err := b.client.PutObject(ctx, b.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file %s: %w", key, err)
	}
	return b.publicURL + "/" + b.bucket + "/" + key, nil
}

type S3Backend struct {
	uploader  *manager.Uploader
	bucket    string
	publicURL string
}

// NewS3Backend uses the default AWS credential chain. A custom S3_ENDPOINT switches to path style addressing.
func NewS3Backend(ctx context.Context, cfg config.MediaConfig) (*S3Backend, error) {
	awsConf, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(cfg.S3Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := strings.TrimRight(cfg.S3Endpoint, "/")
	client := s3.NewFromConfig(awsConf, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := cfg.PublicURL
	switch {
	case publicURL != "":
	case endpoint != "":
		publicURL = endpoint + "/" + cfg.Bucket
	default:
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.S3Region)
	}

	return &S3Backend{
		uploader:  manager.NewUploader(client),
		bucket:    cfg.Bucket,
		publicURL: publicURL,
	}, nil
}

func (b *S3Backend) Put(ctx context.Context, key, contentType string, r io.Reader, _ int64) (string, error) {
	_, err := b.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file %s: %w", key, err)
	}
	return b.publicURL + "/" + key, nil
}
