package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	neturl "net/url"

	"go.uber.org/zap"

	"github.com/olla-del-barrio/dish-sync/internal/adapter"
	"github.com/olla-del-barrio/dish-sync/internal/logger"
)

// ErrTooLarge is returned by ReadAll when the body exceeds the given limit
var ErrTooLarge = errors.New("download exceeds size limit")

type DownloadResult struct {
	reader      io.ReadCloser
	contentType string
	size        int64
}

// NewDownloadResult wraps an already-open body
func NewDownloadResult(reader io.ReadCloser, contentType string, size int64) *DownloadResult {
	return &DownloadResult{
		reader:      reader,
		contentType: contentType,
		size:        size,
	}
}

// ContentType returns the content type of the downloaded file
func (d *DownloadResult) ContentType() string {
	return d.contentType
}

// ReadAll reads the whole body into memory.
// A limit <= 0 disables the size check.
func (d *DownloadResult) ReadAll(limit int64) ([]byte, error) {
	if limit > 0 && d.size > limit {
		return nil, fmt.Errorf("%w: declared %d bytes, limit %d", ErrTooLarge, d.size, limit)
	}

	var r io.Reader = d.reader
	if limit > 0 {
		// One extra byte tells an exact-size body apart from an oversized one
		r = io.LimitReader(d.reader, limit+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: limit %d", ErrTooLarge, limit)
	}

	return data, nil
}

// Close closes the underlying reader
func (d *DownloadResult) Close() error {
	if d.reader != nil {
		return d.reader.Close()
	}
	return nil
}

// Downloader defines the interface for downloading media files
//
//go:generate mockgen -source=downloader.go -destination=../mocks/downloader.go -package=mocks -mock_names=Downloader=MockDownloader
type Downloader interface {
	// Download downloads a file from a URL and returns a streaming reader
	Download(ctx context.Context, url string) (*DownloadResult, error)
}

type downloader struct {
	httpClient adapter.HTTPClient
}

func NewDownloader(httpClient adapter.HTTPClient) Downloader {
	return &downloader{
		httpClient: httpClient,
	}
}

// Download downloads a file from a URL and returns a streaming reader.
// Signed source URLs carry credentials in the query string, so only the host is
// logged or reported in errors.
func (d *downloader) Download(ctx context.Context, url string) (*DownloadResult, error) {
	resp, err := d.httpClient.GetResponse(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download from %s: %w", hostOf(url), withoutURL(err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if err := resp.Body.Close(); err != nil {
			logger.WarnCtx(ctx, "failed to close response body", zap.Error(err))
		}
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	contentLength := resp.ContentLength

	logger.DebugCtx(ctx, "Download started",
		zap.String("host", hostOf(url)),
		zap.String("contentType", contentType),
		zap.Int64("contentLength", contentLength),
	)

	return &DownloadResult{
		reader:      resp.Body,
		contentType: contentType,
		size:        contentLength,
	}, nil
}

// hostOf returns the host part of rawURL, or an empty string when it cannot be parsed
func hostOf(rawURL string) string {
	u, err := neturl.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// withoutURL strips the *url.Error layer, which embeds the full request URL
func withoutURL(err error) error {
	var urlErr *neturl.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
