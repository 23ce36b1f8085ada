package storage

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"collabboard/internal/pkg/logx"
)

const snapshotContentType = "application/octet-stream"

// s3Client implements board.SnapshotArchive against S3-compatible storage.
type s3Client struct {
	cfg      ServiceConfig
	s3Client *s3.Client
	uploader *manager.Uploader
}

// newS3Client initializes the S3 client using a custom configuration that supports S3-compatible endpoints.
func newS3Client(cfg ServiceConfig) (*s3Client, error) {
	// Load Configuration
	sdkCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)),
		config.WithRegion("auto"),
	)
	if err != nil {
		logx.Error(err, "Failed to load AWS SDK config")
		return nil, errors.New("failed to initialize S3 client configuration")
	}

	// Create S3 Client with Custom Endpoint Resolver.
	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = true
	})

	return &s3Client{
		cfg:      cfg,
		s3Client: client,
		uploader: manager.NewUploader(client),
	}, nil
}

// snapshotKey maps a room name to its object key.
func snapshotKey(room string) string {
	return "snapshots/" + room
}

// PutSnapshot uploads a room's snapshot blob, overwriting any previous one.
func (c *s3Client) PutSnapshot(ctx context.Context, room, blob string) error {
	key := snapshotKey(room)
	contentType := snapshotContentType

	_, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      &c.cfg.S3BucketName,
		Key:         &key,
		Body:        strings.NewReader(blob),
		ContentType: &contentType,
	})
	if err != nil {
		logx.Error(err, "S3 snapshot upload failed", "room", room)
		return errors.New("failed to upload snapshot")
	}

	return nil
}

// GetSnapshot fetches a room's archived snapshot blob; a missing object is not
// an error and returns the empty string.
func (c *s3Client) GetSnapshot(ctx context.Context, room string) (string, error) {
	key := snapshotKey(room)

	resp, err := c.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &c.cfg.S3BucketName,
		Key:    &key,
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return "", nil
		}
		logx.Error(err, "S3 snapshot fetch failed", "room", room)
		return "", errors.New("failed to fetch snapshot")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.New("failed to read snapshot body")
	}

	return string(data), nil
}
