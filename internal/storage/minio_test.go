package storage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMinioClientPublicURL(t *testing.T) {
	client, err := NewMinioClient("localhost:9000", "minio", "minio123", "processed-images", "http://localhost:9000/processed-images/", false)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/processed-images/processed/a.png", client.GetPublicURL("processed/a.png"))
}

func TestPublicReadPolicy(t *testing.T) {
	var policy struct {
		Statement []struct {
			Effect   string   `json:"Effect"`
			Action   []string `json:"Action"`
			Resource []string `json:"Resource"`
		} `json:"Statement"`
	}
	require.NoError(t, json.Unmarshal([]byte(publicReadPolicy("processed-images")), &policy))

	require.Len(t, policy.Statement, 1)
	assert.Equal(t, "Allow", policy.Statement[0].Effect)
	assert.Equal(t, []string{"s3:GetObject"}, policy.Statement[0].Action)
	assert.Equal(t, []string{"arn:aws:s3:::processed-images/*"}, policy.Statement[0].Resource)
}
