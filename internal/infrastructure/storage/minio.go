package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/essence-team/essence-backend/internal/domain/entities"
	"github.com/essence-team/essence-backend/pkg/config"
)

// objectRefScheme prefixes internal object references. The reference form is
// stable across deployments because stored records carry it.
const objectRefScheme = "s3://"

// MinIOClient wraps blob store operations for audio artifacts and activity
// logs. Buckets are created on startup when missing.
type MinIOClient struct {
	client *minio.Client
}

// NewMinIOClient creates a new MinIO client and ensures the configured
// buckets exist
func NewMinIOClient(cfg *config.StorageConfig) (*MinIOClient, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	client := &MinIOClient{client: minioClient}

	ctx := context.Background()
	for _, bucket := range []string{cfg.AudioBucket, cfg.ActivityBucket} {
		if err := client.ensureBucket(ctx, bucket); err != nil {
			return nil, fmt.Errorf("failed to initialize bucket %s: %w", bucket, err)
		}
	}

	return client, nil
}

func (m *MinIOClient) ensureBucket(ctx context.Context, bucket string) error {
	exists, err := m.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// Put uploads data and returns the internal object reference
func (m *MinIOClient) Put(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	reader := bytes.NewReader(data)
	_, err := m.client.PutObject(ctx, bucket, key, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	return BuildObjectRef(bucket, key), nil
}

// PresignedGet resolves an internal object reference into a time-limited
// read-capable URL
func (m *MinIOClient) PresignedGet(ctx context.Context, ref string, expiry time.Duration) (string, error) {
	bucket, key, err := ParseObjectRef(ref)
	if err != nil {
		return "", err
	}

	url, err := m.client.PresignedGetObject(ctx, bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return url.String(), nil
}

// BuildObjectRef assembles the internal reference for a stored object
func BuildObjectRef(bucket, key string) string {
	return objectRefScheme + bucket + "/" + key
}

// ParseObjectRef splits an internal object reference into bucket and key.
// References that are not in s3://bucket/key form fail resolution.
func ParseObjectRef(ref string) (bucket, key string, err error) {
	if !strings.HasPrefix(ref, objectRefScheme) {
		return "", "", entities.ErrInvalidObjectRef
	}
	rest := strings.TrimPrefix(ref, objectRefScheme)
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", entities.ErrInvalidObjectRef
	}
	return parts[0], parts[1], nil
}
