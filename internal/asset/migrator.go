package asset

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/olla-del-barrio/dish-sync/internal/domain"
	"github.com/olla-del-barrio/dish-sync/internal/downloader"
	"github.com/olla-del-barrio/dish-sync/internal/logger"
	mediaprovider "github.com/olla-del-barrio/dish-sync/internal/media/provider"
)

// Config holds the migrator limits
type Config struct {
	// MaxAssetSize is the largest body accepted, in bytes; 0 disables the check
	MaxAssetSize int64
}

// Migrator copies assets from transient source URLs to durable storage
//
//go:generate mockgen -source=migrator.go -destination=../mocks/asset_migrator.go -package=mocks -mock_names=Migrator=MockAssetMigrator
type Migrator interface {
	// Migrate downloads transientURL and stores it under {sourceID}/{filename}, returning the durable URL.
	// An empty transientURL returns nil without any request.
	// Errors wrap domain.ErrAssetMigrationFailed and come with a nil URL.
	Migrate(ctx context.Context, transientURL, sourceID, filename string) (*string, error)
}

type migrator struct {
	config     Config
	downloader downloader.Downloader
	provider   mediaprovider.Provider
}

// NewMigrator creates a new asset migrator
func NewMigrator(cfg Config, dl downloader.Downloader, provider mediaprovider.Provider) Migrator {
	return &migrator{
		config:     cfg,
		downloader: dl,
		provider:   provider,
	}
}

func (m *migrator) Migrate(ctx context.Context, transientURL, sourceID, filename string) (*string, error) {
	transientURL = strings.TrimSpace(transientURL)
	if transientURL == "" {
		return nil, nil
	}

	objectPath, err := ObjectPath(sourceID, filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAssetMigrationFailed, err)
	}

	result, err := m.downloader.Download(ctx, transientURL)
	if err != nil {
		return nil, fmt.Errorf("%w: download: %w", domain.ErrAssetMigrationFailed, err)
	}
	defer func() {
		if err := result.Close(); err != nil {
			logger.WarnCtx(ctx, "failed to close download", zap.Error(err))
		}
	}()

	data, err := result.ReadAll(m.config.MaxAssetSize)
	if err != nil {
		return nil, fmt.Errorf("%w: download: %w", domain.ErrAssetMigrationFailed, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: download: empty body", domain.ErrAssetMigrationFailed)
	}

	contentType := detectContentType(data, result.ContentType())

	uploaded, err := m.provider.Upload(ctx, objectPath, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: upload to %s: %w", domain.ErrAssetMigrationFailed, m.provider.Name(), err)
	}

	publicURL := uploaded.PublicURL
	if publicURL == "" {
		publicURL = m.provider.PublicURL(objectPath)
	}

	logger.DebugCtx(ctx, "Migrated asset",
		zap.String("sourceID", sourceID),
		zap.String("path", objectPath),
		zap.String("contentType", contentType),
		zap.Int("size", len(data)),
	)

	return &publicURL, nil
}

// ObjectPath returns the deterministic storage path of a record's asset: {sourceID}/{base name of filename or cover.jpg}
func ObjectPath(sourceID, filename string) (string, error) {
	sourceID = strings.TrimSpace(sourceID)
	if sourceID == "" || strings.ContainsAny(sourceID, `/\`) || sourceID == "." || sourceID == ".." {
		return "", fmt.Errorf("invalid source id %q", sourceID)
	}

	name := strings.TrimSpace(strings.ReplaceAll(filename, "\\", "/"))
	if name != "" {
		name = path.Base(name)
	}
	if name == "" || name == "." || name == ".." || name == "/" {
		name = domain.DefaultAssetFilename
	}

	return sourceID + "/" + name, nil
}

// detectContentType sniffs the bytes and falls back to the declared header when sniffing is inconclusive
func detectContentType(data []byte, declared string) string {
	detected := mimetype.Detect(data)
	if detected != nil && !detected.Is("application/octet-stream") && !detected.Is("text/plain") {
		return detected.String()
	}

	if declared != "" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
			return mediaType
		}
	}

	if detected != nil {
		return detected.String()
	}
	return "application/octet-stream"
}
