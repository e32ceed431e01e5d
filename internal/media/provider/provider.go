package mediaprovider

import (
	"context"
	"io"
)

// UploadResult represents the result of uploading an object to a provider
type UploadResult struct {
	// Path is the object path inside the provider's bucket
	Path string
	// PublicURL is the stable URL the object is served from
	PublicURL string
	// Size is the number of bytes written
	Size int64
	// ContentType is the MIME type stored with the object
	ContentType string
}

// Provider defines the interface for durable object storage providers
//
//go:generate mockgen -source=provider.go -destination=../../mocks/media_provider.go -package=mocks -mock_names=Provider=MockMediaProvider
type Provider interface {
	// Upload writes the object at objectPath, replacing any object already there
	Upload(ctx context.Context, objectPath string, reader io.Reader, size int64, contentType string) (*UploadResult, error)

	// PublicURL returns the stable URL of objectPath. It makes no request.
	PublicURL(objectPath string) string

	// Name returns the provider name
	Name() string
}
