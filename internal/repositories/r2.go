package repositories

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rohits-web03/chatterbox/internal/config"
)

// R2ImageStore uploads images to an S3-compatible bucket (Cloudflare R2 by
// default) and hands back their public URL.
type R2ImageStore struct {
	client        *s3.Client
	bucket        string
	endpoint      string
	publicBaseURL string
}

// NewR2ImageStore initializes the client using static credentials and the
// account endpoint, or cfg.Endpoint when set.
func NewR2ImageStore(cfg config.R2Config) (*R2ImageStore, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("r2: bucket and account id or endpoint are required")
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	}

	awsCfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Region:      cfg.Region,
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	log.Println("Successfully initialized R2 client")

	return &R2ImageStore{
		client:        client,
		bucket:        cfg.BucketName,
		endpoint:      endpoint,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// Upload stores body under key and returns the object's public URL.
func (s *R2ImageStore) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.PublicURL(key), nil
}

// PublicURL uses the configured public base (custom domain or r2.dev) and
// falls back to the path-style bucket URL.
func (s *R2ImageStore) PublicURL(key string) string {
	base := s.publicBaseURL
	if base == "" {
		base = s.endpoint + "/" + s.bucket
	}
	return base + "/" + strings.TrimLeft(key, "/")
}
