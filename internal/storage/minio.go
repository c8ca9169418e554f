package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioClient stores objects in a MinIO (or other S3-compatible) bucket.
type MinioClient struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

// NewMinioClient builds the client without touching the network; call
// EnsureBucket once at startup.
func NewMinioClient(endpoint, accessKey, secretKey, bucket, publicBaseURL string, useSSL bool) (*MinioClient, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: "us-east-1",
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinioClient{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

// EnsureBucket creates the bucket if needed and makes its objects publicly readable,
// so the URLs handed out by GetPublicURL resolve.
func (m *MinioClient) EnsureBucket(ctx context.Context) (created bool, err error) {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return false, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return false, fmt.Errorf("create bucket %q: %w", m.bucket, err)
		}
	}

	if err := m.client.SetBucketPolicy(ctx, m.bucket, publicReadPolicy(m.bucket)); err != nil {
		return !exists, fmt.Errorf("set bucket policy: %w", err)
	}
	return !exists, nil
}

func (m *MinioClient) ObjectExists(ctx context.Context, key string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("stat object %q: %w", key, err)
	}
	return true, nil
}

func (m *MinioClient) Upload(ctx context.Context, key string, data []byte, contentType string) (*UploadResult, error) {
	info, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("put object %q: %w", key, err)
	}

	return &UploadResult{
		URL:  m.GetPublicURL(key),
		ETag: info.ETag,
	}, nil
}

func (m *MinioClient) GetPublicURL(key string) string {
	return joinURL(m.publicBaseURL, key)
}

func (m *MinioClient) Delete(ctx context.Context, key string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %q: %w", key, err)
	}
	return nil
}

// publicReadPolicy allows anonymous GET on every object in bucket.
func publicReadPolicy(bucket string) string {
	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Effect":    "Allow",
				"Principal": map[string][]string{"AWS": {"*"}},
				"Action":    []string{"s3:GetObject"},
				"Resource":  []string{fmt.Sprintf("arn:aws:s3:::%s/*", bucket)},
			},
		},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}
