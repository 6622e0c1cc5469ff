package infra

import (
	"bytes"
	"context"
	"fmt"

	appcfg "fleetpoints/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// BlobStore wraps an S3-compatible object store. It keeps the originals of
// uploaded import files and serves reward / avatar images.
type BlobStore struct {
	client *s3.Client
	bucket string
	region string
	// baseURL is the public prefix returned to clients for stored objects.
	baseURL string
}

func NewBlobStore(cfg *appcfg.Config) (*BlobStore, error) {
	opts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.BlobRegion),
		awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.BlobKey, cfg.BlobSecret, ""),
		),
	}

	loaded, err := awscfg.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("blobstore: load config: %w", err)
	}

	client := s3.NewFromConfig(loaded, func(o *s3.Options) {
		if cfg.BlobEndpoint != "" {
			// S3-compatible providers (Spaces, MinIO) need an explicit endpoint.
			o.BaseEndpoint = aws.String(cfg.BlobEndpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := cfg.BlobEndpoint
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.BlobBucket, cfg.BlobRegion)
	} else {
		baseURL = fmt.Sprintf("%s/%s", baseURL, cfg.BlobBucket)
	}

	return &BlobStore{
		client:  client,
		bucket:  cfg.BlobBucket,
		region:  cfg.BlobRegion,
		baseURL: baseURL,
	}, nil
}

// Put stores a named byte blob and returns its retrieval URL.
func (b *BlobStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("blobstore: put %s: %w", key, err)
	}
	return fmt.Sprintf("%s/%s", b.baseURL, key), nil
}

// Delete removes an object; missing keys are not an error.
func (b *BlobStore) Delete(ctx context.Context, key string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("blobstore: delete %s: %w", key, err)
	}
	return nil
}
