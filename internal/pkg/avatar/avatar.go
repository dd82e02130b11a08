package avatar

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2/log"
)

// Avatars are normalized to a square thumbnail before upload.
const thumbnailSize = 256

const downloadLimit = 10 << 20 // provider images past 10 MiB are rejected

// Client imports provider profile images into object storage.
type Client struct {
	s3Client *s3.Client
	config   *Config
	http     *http.Client
}

// NewClient builds the avatar import client, or returns nil when the import
// is disabled; callers fall back to the raw provider URL.
func NewClient(cfg *Config) (*Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
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
		}
	})

	return &Client{
		s3Client: s3Client,
		config:   cfg,
		http:     &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// Import downloads the provider image, normalizes it and stores it under
// the user's avatar key. Returns the stored object key.
func (c *Client) Import(ctx context.Context, userID uint, imageURL string) (string, error) {
	raw, err := c.download(ctx, imageURL)
	if err != nil {
		return "", err
	}

	normalized, err := normalize(raw)
	if err != nil {
		return "", fmt.Errorf("failed to process avatar: %w", err)
	}

	key := c.config.ObjectKey(userID)
	_, err = c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(normalized),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	log.Infof("[Avatar] imported avatar for user %d (%d bytes)", userID, len(normalized))
	return key, nil
}

func (c *Client) download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download avatar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("avatar download returned status %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, downloadLimit))
}

// normalize decodes, square-crops and resizes the image, re-encoding as
// JPEG regardless of the source format.
func normalize(raw []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	thumb := imaging.Fill(img, thumbnailSize, thumbnailSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
