package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-marketplace/internal/logging"
)

// S3API is the subset of the S3 client used by Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Config struct {
	Region          string
	Bucket          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

// NewS3Client builds a client from static credentials. Endpoint is set for
// S3-compatible stores (R2, MinIO) and switches to path-style addressing.
func NewS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

type Store struct {
	client  S3API
	bucket  string
	baseURL string
	logger  *zap.Logger
}

// NewStore returns a store that is disabled when bucket is empty.
func NewStore(client S3API, cfg S3Config, logger *zap.Logger) *Store {
	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" && cfg.Bucket != "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &Store{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: base,
		logger:  logging.OrNop(logger),
	}
}

func (s *Store) Enabled() bool {
	return s != nil && s.bucket != "" && s.client != nil
}

// PutServiceImage uploads a webp image and returns its public URL.
func (s *Store) PutServiceImage(ctx context.Context, serviceID string, data []byte) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("media: storage not configured")
	}

	key := fmt.Sprintf("services/%s.webp", serviceID)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String("image/webp"),
		CacheControl: aws.String("public, max-age=86400"),
	})
	if err != nil {
		return "", fmt.Errorf("media: s3 put %s: %w", key, err)
	}

	s.logger.Info("service image stored",
		zap.String("service_id", serviceID),
		zap.String("key", key),
		zap.Int("bytes", len(data)),
	)
	return s.baseURL + "/" + key, nil
}
