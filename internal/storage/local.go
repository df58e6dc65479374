package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore keeps media on disk under a root directory. Files are never
// overwritten.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{root: root}, nil
}

// Root returns the directory served under /uploads.
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) Put(ctx context.Context, kind, name string, body io.Reader, contentType string) (string, error) {
	key, err := objectKey(kind, name)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s dir: %w", kind, err)
	}

	dst := filepath.Join(dir, name)
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("write media file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("close media file: %w", err)
	}

	return key, nil
}

// Delete removes a stored file. A key that no longer exists is not an error.
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	kind, name, err := splitKey(key)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.root, kind, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove media file: %w", err)
	}
	return nil
}

func (s *LocalStore) URL(key string) string {
	return "/uploads/" + key
}
