package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/knearme/portfolio-service/pkg/portfolio"
)

// Store is a filesystem implementation of the portfolio.PhotoStore interface
type Store struct {
	baseDir   string
	urlPrefix string
}

// Config options for the filesystem photo store
type Config struct {
	BaseDir   string // Base directory for storing image files
	URLPrefix string // Optional URL prefix for upload/download/preview URLs
}

// New creates a new filesystem photo store
func New(config Config) (portfolio.PhotoStore, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Store{
		baseDir:   config.BaseDir,
		urlPrefix: config.URLPrefix,
	}, nil
}

// GetPhotoMeta retrieves metadata for a photo on the filesystem
func (s *Store) GetPhotoMeta(ctx context.Context, key string) (*portfolio.PhotoMeta, error) {
	filePath := filepath.Join(s.baseDir, key)

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, errors.New("photo not found")
	} else if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	// Sniff the content type from the first bytes
	contentType := "application/octet-stream"
	if file, err := os.Open(filePath); err == nil {
		defer file.Close()
		buffer := make([]byte, 512)
		if n, err := file.Read(buffer); err == nil {
			contentType = http.DetectContentType(buffer[:n])
		}
	}

	return &portfolio.PhotoMeta{
		Key:         key,
		Size:        info.Size(),
		ContentType: contentType,
		UpdatedAt:   info.ModTime(),
		Metadata:    map[string]string{"content_type": contentType},
	}, nil
}

// GetUploadURL returns a URL for uploading a photo
func (s *Store) GetUploadURL(ctx context.Context, key string) (string, error) {
	if s.urlPrefix == "" {
		return "", errors.New("direct upload required for filesystem store")
	}
	return fmt.Sprintf("%s/upload/%s", s.urlPrefix, key), nil
}

// Upload writes a photo directly to the filesystem
func (s *Store) Upload(ctx context.Context, key string, reader io.Reader) error {
	filePath := filepath.Join(s.baseDir, key)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// UploadWithParams writes a photo with additional parameters.
// The filesystem store doesn't record the MIME type, it's sniffed on read.
func (s *Store) UploadWithParams(ctx context.Context, reader io.Reader, params portfolio.UploadParams) error {
	return s.Upload(ctx, params.Key, reader)
}

// GetDownloadURL returns a URL for downloading a photo
func (s *Store) GetDownloadURL(ctx context.Context, key string, downloadFilename string) (string, error) {
	if s.urlPrefix == "" {
		return "", errors.New("direct download required for filesystem store")
	}

	if downloadFilename != "" {
		return fmt.Sprintf("%s/download/%s?filename=%s", s.urlPrefix, key, url.QueryEscape(downloadFilename)), nil
	}
	return fmt.Sprintf("%s/download/%s", s.urlPrefix, key), nil
}

// GetPreviewURL returns a URL for inline display of a photo
func (s *Store) GetPreviewURL(ctx context.Context, key string) (string, error) {
	if s.urlPrefix == "" {
		return "", errors.New("direct preview required for filesystem store")
	}
	return fmt.Sprintf("%s/preview/%s", s.urlPrefix, key), nil
}

// Download opens a photo from the filesystem
func (s *Store) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	filePath := filepath.Join(s.baseDir, key)

	file, err := os.Open(filePath)
	if os.IsNotExist(err) {
		return nil, errors.New("photo not found")
	} else if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Delete removes a photo from the filesystem
func (s *Store) Delete(ctx context.Context, key string) error {
	filePath := filepath.Join(s.baseDir, key)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return errors.New("photo not found")
	}

	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	s.cleanupEmptyDirectories(filepath.Dir(filePath))

	return nil
}

// cleanupEmptyDirectories removes empty directories up to baseDir
func (s *Store) cleanupEmptyDirectories(dir string) {
	if dir == s.baseDir {
		return
	}

	if entries, err := os.ReadDir(dir); err == nil && len(entries) == 0 {
		if os.Remove(dir) == nil {
			s.cleanupEmptyDirectories(filepath.Dir(dir))
		}
	}
}
