package imagestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// Image kinds accepted for companies.
const (
	KindLogo    = "logo"
	KindHero    = "hero"
	KindGallery = "gallery"
)

var (
	ErrDisabled    = errors.New("image uploads are disabled")
	ErrInvalidKind = errors.New("unknown image kind")
)

// Uploader is what the admin screens need from the store.
type Uploader interface {
	Upload(ctx context.Context, companyID uint, kind string, r io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, objectKey string) error
}

// UploadResult describes a stored image.
type UploadResult struct {
	ObjectKey string
	URL       string
	Size      int64
}

// Client stores normalized company images in an S3 compatible bucket.
type Client struct {
	s3Client *s3.Client
	config   *Config
}

func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	if !cfg.IsEnabled() {
		return nil, ErrDisabled
	}

	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	client := &Client{s3Client: s3Client, config: cfg}

	if _, err := s3Client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.BucketName)}); err != nil {
		return nil, fmt.Errorf("bucket %s not accessible: %w", cfg.BucketName, err)
	}

	log.Infof("[ImageStore] Successfully initialized S3 client for bucket: %s", cfg.BucketName)
	return client, nil
}

func validKind(kind string) bool {
	switch kind {
	case KindLogo, KindHero, KindGallery:
		return true
	}
	return false
}

// Upload normalizes the image and puts it under the company prefix.
func (c *Client) Upload(ctx context.Context, companyID uint, kind string, r io.Reader) (*UploadResult, error) {
	if !validKind(kind) {
		return nil, ErrInvalidKind
	}

	data, err := Normalize(r)
	if err != nil {
		return nil, err
	}

	objectKey := c.config.ObjectKey(companyID, kind, uuid.NewString())
	_, err = c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.config.BucketName),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String("image/jpeg"),
		ContentLength: aws.Int64(int64(len(data))),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
		Metadata: map[string]string{
			"company-id":    fmt.Sprintf("%d", companyID),
			"upload-source": "localpros-admin",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	log.Infof("[ImageStore] Uploaded s3://%s/%s (%d bytes)", c.config.BucketName, objectKey, len(data))
	return &UploadResult{
		ObjectKey: objectKey,
		URL:       c.config.PublicURL(objectKey),
		Size:      int64(len(data)),
	}, nil
}

func (c *Client) Delete(ctx context.Context, objectKey string) error {
	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.config.BucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from S3: %w", err)
	}

	log.Infof("[ImageStore] Deleted s3://%s/%s", c.config.BucketName, objectKey)
	return nil
}
