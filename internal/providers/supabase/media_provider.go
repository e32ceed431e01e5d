package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/olla-del-barrio/dish-sync/internal/adapter"
	"github.com/olla-del-barrio/dish-sync/internal/logger"
	mediaprovider "github.com/olla-del-barrio/dish-sync/internal/media/provider"
)

const (
	SUPABASE_PROVIDER_NAME = "supabase"

	// cacheControl is sent with uploads; objects are overwritten in place, so it stays short
	cacheControl = "max-age=3600"

	maxErrorBodySize = 4 * 1024
)

// Config holds configuration for Supabase Storage
type Config struct {
	// URL is the project URL, e.g. https://<project>.supabase.co
	URL string
	// ServiceRoleKey authenticates uploads; it bypasses row level security
	ServiceRoleKey string
	// Bucket is a public bucket
	Bucket string
}

// storageError is the error body returned by the storage API
type storageError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// mediaProvider implements mediaprovider.Provider over the Supabase Storage HTTP API
type mediaProvider struct {
	httpClient adapter.HTTPClient
	config     *Config
	baseURL    string
}

// NewMediaProvider creates a new Supabase Storage provider
func NewMediaProvider(httpClient adapter.HTTPClient, config *Config) mediaprovider.Provider {
	return &mediaProvider{
		httpClient: httpClient,
		config:     config,
		baseURL:    strings.TrimRight(config.URL, "/"),
	}
}

// Name returns the provider name
func (p *mediaProvider) Name() string {
	return SUPABASE_PROVIDER_NAME
}

// Upload posts the object with x-upsert so an existing object at the same path is replaced
func (p *mediaProvider) Upload(ctx context.Context, objectPath string, reader io.Reader, size int64, contentType string) (*mediaprovider.UploadResult, error) {
	objectPath = strings.TrimLeft(objectPath, "/")
	if objectPath == "" {
		return nil, fmt.Errorf("empty object path")
	}

	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", p.baseURL, url.PathEscape(p.config.Bucket), escapePath(objectPath))
	headers := map[string]string{
		"Authorization": "Bearer " + p.config.ServiceRoleKey,
		"apikey":        p.config.ServiceRoleKey,
		"Content-Type":  contentType,
		"Cache-Control": cacheControl,
		"x-upsert":      "true",
	}

	resp, err := p.httpClient.PostResponse(ctx, uploadURL, headers, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload object: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.WarnCtx(ctx, "failed to close response body", zap.Error(err))
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("failed to upload object: status %d: %s", resp.StatusCode, readStorageError(resp.Body))
	}

	logger.DebugCtx(ctx, "Uploaded object to Supabase Storage",
		zap.String("bucket", p.config.Bucket),
		zap.String("path", objectPath),
		zap.Int64("size", size),
	)

	return &mediaprovider.UploadResult{
		Path:        objectPath,
		PublicURL:   p.PublicURL(objectPath),
		Size:        size,
		ContentType: contentType,
	}, nil
}

// PublicURL returns the public bucket URL of objectPath
func (p *mediaProvider) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		p.baseURL, url.PathEscape(p.config.Bucket), escapePath(strings.TrimLeft(objectPath, "/")))
}

// escapePath escapes each segment of an object path, keeping the separators
func escapePath(objectPath string) string {
	segments := strings.Split(objectPath, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

func readStorageError(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBodySize))
	if err != nil || len(data) == 0 {
		return "empty response"
	}

	var se storageError
	if err := json.Unmarshal(data, &se); err == nil && (se.Error != "" || se.Message != "") {
		return strings.TrimSpace(se.Error + " " + se.Message)
	}
	return strings.TrimSpace(string(data))
}
