package avatar

import (
	"errors"
	"fmt"

	"github.com/notestackapp/notestack/internal/pkg/env"
)

// Config holds the S3 target for imported provider avatars.
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // optional for S3-compatible services
	Enabled         bool
}

// LoadConfig reads the avatar storage configuration from the environment.
func LoadConfig() (*Config, error) {
	config := &Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "us-east-1"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		Enabled:         env.GetEnv("AVATAR_IMPORT_ENABLED", "false") == "true",
	}

	if config.Enabled {
		if config.AccessKeyID == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID is required when avatar import is enabled")
		}
		if config.SecretAccessKey == "" {
			return nil, errors.New("S3_SECRET_ACCESS_KEY is required when avatar import is enabled")
		}
		if config.BucketName == "" {
			return nil, errors.New("S3_BUCKET_NAME is required when avatar import is enabled")
		}
	}

	return config, nil
}

// ObjectKey returns the bucket key for a user's avatar.
func (c *Config) ObjectKey(userID uint) string {
	return fmt.Sprintf("avatars/%d.jpg", userID)
}
