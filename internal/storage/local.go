package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore writes images under a directory served statically by the API.
type LocalStore struct {
	dir          string
	publicPrefix string
}

// NewLocalStore ensures dir exists.
func NewLocalStore(dir, publicPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, publicPrefix: "/" + strings.Trim(publicPrefix, "/")}, nil
}

// Dir is the directory images are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(ctx context.Context, name, _ string, r io.Reader, _ int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	object := ObjectName(name)
	dst, err := os.Create(filepath.Join(s.dir, object))
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return path.Join(s.publicPrefix, object), nil
}

func (s *LocalStore) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	object := strings.TrimPrefix(url, s.publicPrefix+"/")
	if object == url || object == "" || strings.ContainsAny(object, "/\\") {
		return fmt.Errorf("not a local upload: %s", url)
	}
	if err := os.Remove(filepath.Join(s.dir, object)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}
