// Package storage puts uploaded media into an S3-compatible bucket (S3, R2,
// MinIO or Supabase storage) and returns the public URL of the object.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/iliyamo/studio-site/internal/config"
	"github.com/iliyamo/studio-site/internal/utils"
)

var (
	// ErrStorageNotConfigured is returned when bucket or credentials are missing.
	ErrStorageNotConfigured = errors.New("storage not configured")
	// ErrUpload wraps any failure reported by the object store.
	ErrUpload = errors.New("upload failed")
)

// putter is the part of the S3 client the uploader needs.
type putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader stores objects under <prefix>/<unix-millis>-<name>.
type Uploader struct {
	client  putter
	bucket  string
	prefix  string
	baseURL string
	now     func() time.Time

	mu       sync.Mutex
	lastMill int64
}

// New builds an Uploader from configuration.  An unconfigured storage
// yields an Uploader whose Upload always returns ErrStorageNotConfigured.
func New(ctx context.Context, cfg config.StorageConfig) (*Uploader, error) {
	if !cfg.Configured() {
		return &Uploader{}, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		// a failed upload is reported to the admin, never retried
		awsconfig.WithRetryMaxAttempts(1),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newUploader(client, cfg), nil
}

func newUploader(client putter, cfg config.StorageConfig) *Uploader {
	return &Uploader{
		client:  client,
		bucket:  cfg.Bucket,
		prefix:  strings.Trim(cfg.Prefix, "/"),
		baseURL: publicBase(cfg),
		now:     time.Now,
	}
}

// publicBase is the URL objects are reachable under, without trailing slash.
func publicBase(cfg config.StorageConfig) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	}
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

// Configured reports whether uploads can succeed at all.
func (u *Uploader) Configured() bool { return u != nil && u.client != nil }

// Upload stores body and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	if !u.Configured() {
		return "", ErrStorageNotConfigured
	}
	key := u.key(filename)
	in := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := u.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}
	return u.baseURL + "/" + key, nil
}

// key builds the object key.  Two uploads in the same millisecond get a
// random suffix so neither overwrites the other.
func (u *Uploader) key(filename string) string {
	ms := u.now().UnixMilli()
	stamp := strconv.FormatInt(ms, 10)

	u.mu.Lock()
	clash := ms == u.lastMill
	u.lastMill = ms
	u.mu.Unlock()
	if clash {
		if suffix, err := utils.RandomHex(3); err == nil {
			stamp += "-" + suffix
		}
	}

	name := stamp + "-" + SanitizeFilename(filename)
	if u.prefix == "" {
		return name
	}
	return u.prefix + "/" + name
}

// SanitizeFilename keeps letters, digits, dot, dash and underscore; every
// other rune becomes a dash.  Directory parts are dropped.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	out := strings.Trim(b.String(), ".-")
	if out == "" {
		return "file"
	}
	return out
}
