package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/knearme/portfolio-service/pkg/portfolio"
)

// Store is an in-memory implementation of the portfolio.PhotoStore interface.
// Intended for tests and local development.
type Store struct {
	mu        sync.RWMutex
	photos    map[string][]byte
	mimeTypes map[string]string
}

// New creates a new in-memory photo store
func New() portfolio.PhotoStore {
	return &Store{
		photos:    make(map[string][]byte),
		mimeTypes: make(map[string]string),
	}
}

// GetPhotoMeta retrieves metadata for a stored photo
func (s *Store) GetPhotoMeta(ctx context.Context, key string) (*portfolio.PhotoMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, exists := s.photos[key]
	if !exists {
		return nil, errors.New("photo not found")
	}

	mimeType := s.mimeTypes[key]
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return &portfolio.PhotoMeta{
		Key:         key,
		Size:        int64(len(data)),
		ContentType: mimeType,
		Metadata:    map[string]string{"mime_type": mimeType},
	}, nil
}

// GetUploadURL returns a URL for uploading a photo.
// The in-memory store doesn't use URLs.
func (s *Store) GetUploadURL(ctx context.Context, key string) (string, error) {
	return "", errors.New("direct upload required for memory store")
}

// Upload stores a photo directly
func (s *Store) Upload(ctx context.Context, key string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.photos[key] = data
	if _, exists := s.mimeTypes[key]; !exists {
		s.mimeTypes[key] = "application/octet-stream"
	}
	return nil
}

// UploadWithParams stores a photo with an explicit MIME type
func (s *Store) UploadWithParams(ctx context.Context, reader io.Reader, params portfolio.UploadParams) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.photos[params.Key] = data
	s.mimeTypes[params.Key] = params.MimeType
	return nil
}

// GetDownloadURL returns a URL for downloading a photo.
// The in-memory store doesn't use URLs.
func (s *Store) GetDownloadURL(ctx context.Context, key string, downloadFilename string) (string, error) {
	return "", errors.New("direct download required for memory store")
}

// GetPreviewURL returns a URL for inline display of a photo
func (s *Store) GetPreviewURL(ctx context.Context, key string) (string, error) {
	return "", errors.New("direct preview required for memory store")
}

// Download retrieves a photo directly
func (s *Store) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, exists := s.photos[key]
	if !exists {
		return nil, errors.New("photo not found")
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes a photo
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.photos[key]; !exists {
		return errors.New("photo not found")
	}

	delete(s.photos, key)
	delete(s.mimeTypes, key)
	return nil
}
