package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"socialplay/internal/config"
)

const cacheControl = "public, max-age=31536000, immutable"

// R2Store uploads media to a Cloudflare R2 bucket through its S3-compatible API.
type R2Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewR2Store constructs an S3 client pointed at the account's R2 endpoint.
func NewR2Store(ctx context.Context, cfg *config.Config) (*R2Store, error) {
	if !cfg.R2Enabled() {
		return nil, fmt.Errorf("missing Cloudflare R2 configuration")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config for r2: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &R2Store{
		client:    client,
		bucket:    cfg.R2BucketName,
		publicURL: strings.TrimSuffix(cfg.R2PublicURL, "/"),
	}, nil
}

func (s *R2Store) Put(ctx context.Context, kind, name string, body io.Reader, contentType string) (string, error) {
	key, err := objectKey(kind, name)
	if err != nil {
		return "", err
	}

	// The S3 signer needs a seekable body.
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read media: %w", err)
	}

	input := &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		CacheControl: aws.String(cacheControl),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("upload to r2: %w", err)
	}
	return key, nil
}

func (s *R2Store) Delete(ctx context.Context, key string) error {
	if _, _, err := splitKey(key); err != nil {
		return err
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete from r2: %w", err)
	}
	return nil
}

func (s *R2Store) URL(key string) string {
	return s.publicURL + "/" + key
}
