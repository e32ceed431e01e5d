package adapter

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStoreClient defines an interface for S3-compatible object operations to enable mocking
//
//go:generate mockgen -source=minio.go -destination=../mocks/minio.go -package=mocks -mock_names=ObjectStoreClient=MockObjectStoreClient
type ObjectStoreClient interface {
	// PutObject writes an object, replacing any existing object under the same key
	PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) error

	// BucketExists reports whether the bucket is reachable with the configured credentials
	BucketExists(ctx context.Context, bucket string) (bool, error)
}

// RealObjectStoreClient implements ObjectStoreClient using minio-go
type RealObjectStoreClient struct {
	client *minio.Client
}

// NewObjectStoreClient creates a new minio-go backed client.
// endpoint is a host[:port] without scheme.
func NewObjectStoreClient(endpoint, accessKeyID, secretAccessKey, region string, useSSL bool) (ObjectStoreClient, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	return &RealObjectStoreClient{client: client}, nil
}

// PutObject writes an object, replacing any existing object under the same key
func (c *RealObjectStoreClient) PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) error {
	_, err := c.client.PutObject(ctx, bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// BucketExists reports whether the bucket is reachable with the configured credentials
func (c *RealObjectStoreClient) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return c.client.BucketExists(ctx, bucket)
}
