// Package s3 stores account avatars in an S3-compatible bucket.
package s3

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/shopit/storefront/internal/core/domain"
	"github.com/shopit/storefront/internal/core/ports"
)

const (
	keyPrefix    = "avatars/"
	msgBadAvatar = "Avatar must be a base64 encoded image"
	maxAvatar    = 5 << 20
)

// Config selects the bucket. Endpoint is set for MinIO and other
// S3-compatible servers; empty means AWS.
type Config struct {
	Region    string
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// objectAPI is the subset of the S3 client the store calls.
type objectAPI interface {
	PutObject(ctx context.Context, in *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *awss3.DeleteObjectInput, optFns ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error)
}

type AvatarStore struct {
	client  objectAPI
	bucket  string
	baseURL string
	newKey  func() string
}

var _ ports.AvatarStore = (*AvatarStore)(nil)

// New builds an S3 client from cfg. Static credentials are used when both
// keys are set, otherwise the default AWS credential chain applies.
func New(ctx context.Context, cfg Config) (*AvatarStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newAvatarStore(client, cfg), nil
}

func newAvatarStore(client objectAPI, cfg Config) *AvatarStore {
	return &AvatarStore{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: publicBaseURL(cfg),
		newKey:  func() string { return keyPrefix + uuid.NewString() + ".jpg" },
	}
}

// publicBaseURL is the prefix object URLs are built on.
func publicBaseURL(cfg Config) string {
	if cfg.Endpoint != "" {
		return strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

// Upload decodes a data:image/...;base64 URL and stores it under a fresh key.
func (s *AvatarStore) Upload(ctx context.Context, dataURL string) (domain.Avatar, error) {
	contentType, body, err := decodeDataURL(dataURL)
	if err != nil {
		return domain.Avatar{}, err
	}

	key := s.newKey()
	_, err = s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return domain.Avatar{}, fmt.Errorf("put avatar %s: %w", key, err)
	}
	return domain.Avatar{PublicID: key, URL: s.baseURL + "/" + key}, nil
}

func (s *AvatarStore) Delete(ctx context.Context, publicID string) error {
	_, err := s.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("delete avatar %s: %w", publicID, err)
	}
	return nil
}

func decodeDataURL(dataURL string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, domain.Validation(msgBadAvatar)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, domain.Validation(msgBadAvatar)
	}
	contentType, ok := strings.CutSuffix(meta, ";base64")
	if !ok || !strings.HasPrefix(contentType, "image/") {
		return "", nil, domain.Validation(msgBadAvatar)
	}

	body, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(body) == 0 {
		return "", nil, domain.Validation(msgBadAvatar)
	}
	if len(body) > maxAvatar {
		return "", nil, domain.Validation("Avatar image cannot exceed 5MB")
	}
	return contentType, body, nil
}
