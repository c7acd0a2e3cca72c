package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore persists objects on disk under a base directory. It is the development
// stand-in for the S3 backend; URLs are signed tokens served back through the API.
type LocalStore struct {
	baseDir string
	signer  *SignedURLSigner
	urlBase string
}

// NewLocalStore ensures the base directory exists and returns a handle.
func NewLocalStore(baseDir string, signer *SignedURLSigner, urlBase string) (*LocalStore, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	if urlBase == "" {
		urlBase = "/api/v1/files"
	}
	return &LocalStore{baseDir: baseDir, signer: signer, urlBase: strings.TrimRight(urlBase, "/")}, nil
}

// Put writes the given bytes under key.
func (s *LocalStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	path := s.resolve(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare upload directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return s.URL(key), nil
}

// Get returns the stored bytes for key.
func (s *LocalStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.resolve(key))
	if err != nil {
		return nil, fmt.Errorf("read upload file: %w", err)
	}
	return data, nil
}

// Delete removes a stored file if present.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.resolve(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete upload file: %w", err)
	}
	return nil
}

// URL returns a signed download URL for the key.
func (s *LocalStore) URL(key string) string {
	if s.signer == nil {
		return fmt.Sprintf("%s/%s", s.urlBase, key)
	}
	token, _, err := s.signer.Generate(key)
	if err != nil {
		return fmt.Sprintf("%s/%s", s.urlBase, key)
	}
	return fmt.Sprintf("%s/%s", s.urlBase, token)
}

func (s *LocalStore) resolve(key string) string {
	clean := filepath.Clean("/" + key)
	return filepath.Join(s.baseDir, clean)
}
