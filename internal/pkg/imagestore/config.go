package imagestore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ManuelReschke/LocalPros/internal/pkg/env"
)

// Config holds the object storage settings for uploaded company images.
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	PublicBaseURL   string
	Enabled         bool
}

// LoadConfig loads the storage configuration from environment variables.
func LoadConfig() (*Config, error) {
	config := &Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "us-west-001"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		PublicBaseURL:   strings.TrimRight(env.GetEnv("S3_PUBLIC_BASE_URL", ""), "/"),
		Enabled:         env.GetEnvBool("S3_UPLOADS_ENABLED", false),
	}

	if config.Enabled {
		if config.AccessKeyID == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID is required when uploads are enabled")
		}
		if config.SecretAccessKey == "" {
			return nil, errors.New("S3_SECRET_ACCESS_KEY is required when uploads are enabled")
		}
		if config.BucketName == "" {
			return nil, errors.New("S3_BUCKET_NAME is required when uploads are enabled")
		}
	}

	return config, nil
}

func (c *Config) IsEnabled() bool {
	return c != nil && c.Enabled
}

// ObjectKey builds the key for a company image: companies/<id>/<kind>-<uuid>.jpg
func (c *Config) ObjectKey(companyID uint, kind, id string) string {
	return fmt.Sprintf("companies/%d/%s-%s.jpg", companyID, kind, id)
}

// PublicURL returns the browser-facing URL of an object.
func (c *Config) PublicURL(objectKey string) string {
	base := c.PublicBaseURL
	if base == "" {
		switch {
		case c.EndpointURL != "":
			base = strings.TrimRight(c.EndpointURL, "/") + "/" + c.BucketName
		default:
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", c.BucketName, c.Region)
		}
	}
	return base + "/" + strings.TrimLeft(objectKey, "/")
}
