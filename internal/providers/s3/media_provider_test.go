package s3_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olla-del-barrio/dish-sync/internal/mocks"
	"github.com/olla-del-barrio/dish-sync/internal/providers/s3"
)

func TestMediaProvider_Upload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockObjectStoreClient(ctrl)
	provider := s3.NewMediaProvider(mockClient, &s3.Config{
		Bucket:        "dishes",
		PublicBaseURL: "https://cdn.example.com/",
	})

	payload := []byte("jpeg bytes")
	mockClient.EXPECT().
		PutObject(gomock.Any(), "dishes", "page-1/cover.jpg", gomock.Any(), int64(len(payload)), "image/jpeg").
		DoAndReturn(func(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) error {
			data, err := io.ReadAll(reader)
			require.NoError(t, err)
			assert.Equal(t, payload, data)
			return nil
		}).
		Times(1)

	result, err := provider.Upload(context.Background(), "/page-1/cover.jpg", bytes.NewReader(payload), int64(len(payload)), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "page-1/cover.jpg", result.Path)
	assert.Equal(t, "https://cdn.example.com/dishes/page-1/cover.jpg", result.PublicURL)
	assert.Equal(t, s3.S3_PROVIDER_NAME, provider.Name())
}

func TestMediaProvider_Upload_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockObjectStoreClient(ctrl)
	provider := s3.NewMediaProvider(mockClient, &s3.Config{Bucket: "dishes", PublicBaseURL: "https://cdn.example.com"})

	mockClient.EXPECT().
		PutObject(gomock.Any(), "dishes", "page-1/cover.jpg", gomock.Any(), int64(1), "image/jpeg").
		Return(errors.New("AccessDenied")).
		Times(1)

	result, err := provider.Upload(context.Background(), "page-1/cover.jpg", bytes.NewReader([]byte("x")), 1, "image/jpeg")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "AccessDenied")
}

func TestMediaProvider_PublicURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := s3.NewMediaProvider(mocks.NewMockObjectStoreClient(ctrl), &s3.Config{
		Bucket:        "dishes",
		PublicBaseURL: "https://minio.local:9000",
	})

	assert.Equal(t, "https://minio.local:9000/dishes/page-1/mole%20poblano.png", provider.PublicURL("page-1/mole poblano.png"))
}
