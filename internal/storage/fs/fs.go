// Package fs is the local-filesystem implementation of the object-storage
// contract: exam files live under a root directory keyed by their
// catalog path, retrieval urls are served by a static file route or an
// fronting proxy.
package fs

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/examchan-dev/examchan/internal/service"
)

type Storage struct {
	rootPath  string
	urlPrefix string
}

// Ensure Storage struct implements the interface at compile time.
var _ service.FileStorage = (*Storage)(nil)

func New(rootPath, urlPrefix string) (*Storage, error) {
	// Use filepath.Clean to prevent path traversal issues like "files/../"
	p := filepath.Clean(rootPath)

	if err := os.MkdirAll(p, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root storage directory %s: %w", p, err)
	}

	return &Storage{rootPath: p, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

// Store writes the file under its key, creating intermediate directories
// lazily. The content type is accepted for contract compatibility; the
// filesystem has no use for it.
func (s *Storage) Store(data io.Reader, key string, contentType string) error {
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create subdirectories: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, data); err != nil {
		os.Remove(fullPath) // Best effort, ignore error here.
		return fmt.Errorf("failed to copy file data: %w", err)
	}
	return nil
}

// Delete removes the file. A key that is already gone is not an error.
func (s *Storage) Delete(key string) error {
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// RetrievalURL returns the url a client fetches the file from.
func (s *Storage) RetrievalURL(key string) (string, error) {
	if _, err := s.resolve(key); err != nil {
		return "", err
	}

	escaped := make([]string, 0, 4)
	for _, part := range strings.Split(key, "/") {
		escaped = append(escaped, url.PathEscape(part))
	}
	return s.urlPrefix + "/" + strings.Join(escaped, "/"), nil
}

// resolve maps a key onto the root, rejecting traversal outside it.
func (s *Storage) resolve(key string) (string, error) {
	fullPath := filepath.Join(s.rootPath, filepath.Clean("/"+key))
	if !strings.HasPrefix(fullPath, s.rootPath+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid file key %q", key)
	}
	return fullPath, nil
}
