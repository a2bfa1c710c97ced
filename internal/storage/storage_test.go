package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/studio-site/internal/config"
)

type putFunc func(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)

func (f putFunc) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	return f(ctx, in, optFns...)
}

var testCfg = config.StorageConfig{
	Bucket:          "media",
	Endpoint:        "https://proj.supabase.co/storage/v1/s3",
	Region:          "us-east-1",
	AccessKeyID:     "key",
	SecretAccessKey: "secret",
	PublicBaseURL:   "https://proj.supabase.co/storage/v1/object/public/media/",
	Prefix:          "/uploads/",
}

func fixedClock() func() time.Time {
	t := time.UnixMilli(1700000000123)
	return func() time.Time { return t }
}

func TestUpload(t *testing.T) {
	var got *s3.PutObjectInput
	var body string
	u := newUploader(putFunc(func(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		got = in
		b, _ := io.ReadAll(in.Body)
		body = string(b)
		return &s3.PutObjectOutput{}, nil
	}), testCfg)
	u.now = fixedClock()

	url, err := u.Upload(context.Background(), "Hero Image.JPG", "image/jpeg", strings.NewReader("pixels"))
	require.NoError(t, err)
	assert.Equal(t, "https://proj.supabase.co/storage/v1/object/public/media/uploads/1700000000123-Hero-Image.JPG", url)
	assert.Equal(t, "media", aws.ToString(got.Bucket))
	assert.Equal(t, "uploads/1700000000123-Hero-Image.JPG", aws.ToString(got.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(got.ContentType))
	assert.Equal(t, "pixels", body)
}

func TestUpload_SameMillisecond(t *testing.T) {
	var keys []string
	u := newUploader(putFunc(func(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		keys = append(keys, aws.ToString(in.Key))
		return &s3.PutObjectOutput{}, nil
	}), testCfg)
	u.now = fixedClock()

	for i := 0; i < 2; i++ {
		_, err := u.Upload(context.Background(), "a.png", "", strings.NewReader("x"))
		require.NoError(t, err)
	}
	require.Len(t, keys, 2)
	assert.NotEqual(t, keys[0], keys[1])
}

func TestUpload_Errors(t *testing.T) {
	_, err := (&Uploader{}).Upload(context.Background(), "a.png", "", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrStorageNotConfigured)

	u, err := New(context.Background(), config.StorageConfig{Bucket: "media"})
	require.NoError(t, err)
	assert.False(t, u.Configured())

	failing := newUploader(putFunc(func(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, errors.New("connection reset")
	}), testCfg)
	_, err = failing.Upload(context.Background(), "a.png", "", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUpload)
	assert.Contains(t, err.Error(), "connection reset")

	denied := newUploader(putFunc(func(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, &smithy.GenericAPIError{Code: "AccessDenied", Message: "bucket policy"}
	}), testCfg)
	_, err = denied.Upload(context.Background(), "a.png", "", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUpload)
	var apiErr smithy.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "AccessDenied", apiErr.ErrorCode())
}

func TestPublicBase(t *testing.T) {
	assert.Equal(t, "http://minio:9000/media", publicBase(config.StorageConfig{Bucket: "media", Endpoint: "http://minio:9000/"}))
	assert.Equal(t, "https://media.s3.eu-west-1.amazonaws.com", publicBase(config.StorageConfig{Bucket: "media", Region: "eu-west-1"}))
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"photo.jpg":          "photo.jpg",
		"../../etc/passwd":   "passwd",
		`C:\Users\me\a b.png`: "a-b.png",
		"café.png":           "caf-.png",
		"...":                "file",
		"":                   "file",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeFilename(in), in)
	}
}
