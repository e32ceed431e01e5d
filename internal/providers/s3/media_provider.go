package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/olla-del-barrio/dish-sync/internal/adapter"
	"github.com/olla-del-barrio/dish-sync/internal/logger"
	mediaprovider "github.com/olla-del-barrio/dish-sync/internal/media/provider"
)

const (
	S3_PROVIDER_NAME = "s3"
)

// Config holds configuration for S3-compatible storage
type Config struct {
	Bucket string
	// PublicBaseURL is the origin objects are served from; the bucket and key are appended
	PublicBaseURL string
}

// mediaProvider implements mediaprovider.Provider over an S3-compatible object store
type mediaProvider struct {
	client adapter.ObjectStoreClient
	config *Config
}

// NewMediaProvider creates a new S3-compatible storage provider
func NewMediaProvider(client adapter.ObjectStoreClient, config *Config) mediaprovider.Provider {
	return &mediaProvider{
		client: client,
		config: config,
	}
}

// Name returns the provider name
func (p *mediaProvider) Name() string {
	return S3_PROVIDER_NAME
}

// Upload puts the object; S3 overwrites an existing key
func (p *mediaProvider) Upload(ctx context.Context, objectPath string, reader io.Reader, size int64, contentType string) (*mediaprovider.UploadResult, error) {
	key := strings.TrimLeft(objectPath, "/")
	if key == "" {
		return nil, fmt.Errorf("empty object path")
	}

	if err := p.client.PutObject(ctx, p.config.Bucket, key, reader, size, contentType); err != nil {
		return nil, fmt.Errorf("failed to put object: %w", err)
	}

	logger.DebugCtx(ctx, "Uploaded object to S3",
		zap.String("bucket", p.config.Bucket),
		zap.String("key", key),
		zap.Int64("size", size),
	)

	return &mediaprovider.UploadResult{
		Path:        key,
		PublicURL:   p.PublicURL(key),
		Size:        size,
		ContentType: contentType,
	}, nil
}

// PublicURL returns {public_base_url}/{bucket}/{key}
func (p *mediaProvider) PublicURL(objectPath string) string {
	segments := strings.Split(strings.TrimLeft(objectPath, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}

	return fmt.Sprintf("%s/%s/%s",
		strings.TrimRight(p.config.PublicBaseURL, "/"), url.PathEscape(p.config.Bucket), strings.Join(segments, "/"))
}
