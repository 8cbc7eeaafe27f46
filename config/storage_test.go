package config

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresignUpload(t *testing.T) {
	client := s3.New(s3.Options{
		Region:      "ap-northeast-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
	})
	storage := &S3Config{Client: client, BucketName: "price-sheets"}

	raw, err := storage.PresignUpload(context.Background(), "price-sheets/user-1.csv", 15*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Contains(t, u.Host, "price-sheets")
	assert.Equal(t, "/price-sheets/user-1.csv", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
}
