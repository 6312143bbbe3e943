// Package storage wraps the S3 object store holding prompt preview images and
// generated images. Deletions are best-effort cleanup triggered by permanent
// entity deletes.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"promptadmin-backend-go/internal/config"
)

// ObjectStore is the minimal object-storage surface the services need.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	DeleteByURL(ctx context.Context, rawURL string) error
	Has(ctx context.Context, key string) (bool, error)
}

// s3Store implements ObjectStore against a single configured bucket.
type s3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Store builds an ObjectStore from application config. Static credentials
// take precedence; otherwise the default AWS credential chain is used.
func NewS3Store(ctx context.Context, appConfig *config.Config) (ObjectStore, error) {
	if appConfig == nil {
		return nil, errors.New("NewS3Store: appConfig cannot be nil")
	}

	var client *s3.Client
	if appConfig.AWSAccessKeyID != "" && appConfig.AWSSecretAccessKey != "" {
		cred := credentials.NewStaticCredentialsProvider(
			appConfig.AWSAccessKeyID,
			appConfig.AWSSecretAccessKey,
			"",
		)
		client = s3.New(s3.Options{
			Credentials: cred,
			Region:      appConfig.AWSRegion,
		})
	} else {
		cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(appConfig.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client = s3.NewFromConfig(cfg)
	}

	return &s3Store{client: client, bucket: appConfig.S3Bucket}, nil
}

func (s *s3Store) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to put object '%s': %w", key, err)
	}
	return nil
}

func (s *s3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete object '%s': %w", key, err)
	}
	return nil
}

// DeleteByURL deletes the object a stored asset URL points to. URLs that do
// not parse to a usable key are ignored.
func (s *s3Store) DeleteByURL(ctx context.Context, rawURL string) error {
	key, ok := KeyFromURL(rawURL)
	if !ok {
		return nil
	}
	return s.Delete(ctx, key)
}

func (s *s3Store) Has(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

// KeyFromURL extracts the object key from a stored asset URL. Returns false
// for empty or unparseable URLs.
func KeyFromURL(rawURL string) (string, bool) {
	if rawURL == "" {
		return "", false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	key := strings.TrimPrefix(parsed.Path, "/")
	if key == "" {
		return "", false
	}
	return key, true
}
