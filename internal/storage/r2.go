package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// R2Client stores objects through the S3 API. It works against Cloudflare R2
// and any other S3-compatible endpoint.
type R2Client struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

func NewR2Client(ctx context.Context, accessKeyID, secretAccessKey, bucket, endpoint, publicBaseURL string) (*R2Client, error) {
	creds := credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(creds),
		config.WithRegion("auto"), // R2 uses "auto" as region
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &R2Client{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

// ObjectExists checks if an object exists in the bucket
func (r *R2Client) ObjectExists(ctx context.Context, key string) (bool, error) {
	_, err := r.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("head object %q: %w", key, err)
	}
	return true, nil
}

// Upload writes data under key with the given content type
func (r *R2Client) Upload(ctx context.Context, key string, data []byte, contentType string) (*UploadResult, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		Metadata: map[string]string{
			"source": "cutout",
		},
	}

	result, err := r.client.PutObject(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("put object %q: %w", key, err)
	}

	return &UploadResult{
		URL:  r.GetPublicURL(key),
		ETag: aws.ToString(result.ETag),
	}, nil
}

// GetPublicURL returns the public CDN URL for the given key
func (r *R2Client) GetPublicURL(key string) string {
	return joinURL(r.publicBaseURL, key)
}

// Delete removes an object from the bucket
func (r *R2Client) Delete(ctx context.Context, key string) error {
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %q: %w", key, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	// HEAD responses carry no body, so some endpoints only surface the status code
	msg := err.Error()
	return strings.Contains(msg, "StatusCode: 404") || strings.Contains(msg, "NotFound")
}
