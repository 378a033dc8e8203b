package local

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Storage writes hosted images under baseDir and serves them from baseURL.
type Storage struct {
	baseDir string
	baseURL string
}

func NewStorage(baseDir, baseURL string) (*Storage, error) {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		return nil, fmt.Errorf("local media dir is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}

	return &Storage{
		baseDir: baseDir,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}, nil
}

func (s *Storage) BaseDir() string {
	return s.baseDir
}

// Save writes data to namespace/name and returns its public URL.
func (s *Storage) Save(ctx context.Context, namespace, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rel, err := cleanRelativePath(namespace, name)
	if err != nil {
		return "", err
	}
	target := filepath.Join(s.baseDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}

	return s.publicURL(rel), nil
}

func (s *Storage) publicURL(rel string) string {
	segments := strings.Split(rel, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return s.baseURL + "/" + strings.Join(segments, "/")
}

func cleanRelativePath(namespace, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	rel := path.Clean(path.Join("/", strings.TrimSpace(namespace), name))
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid storage path %q", rel)
	}
	return rel, nil
}
