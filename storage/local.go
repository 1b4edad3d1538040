package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type LocalDiskUploaderConfig struct {
	// BaseDir is the directory files are written into, e.g. public/uploads.
	BaseDir string
	// PublicBasePath is the URL path the directory is served under, e.g. /uploads.
	PublicBasePath string
}

type localDiskUploader struct {
	baseDir        string
	publicBasePath string
}

func NewLocalDiskUploader(cfg LocalDiskUploaderConfig) (FileUploader, error) {
	if cfg.BaseDir == "" || cfg.PublicBasePath == "" {
		return nil, errors.New("invalid local disk uploader configuration: all fields are required")
	}

	if err := os.MkdirAll(cfg.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", cfg.BaseDir, err)
	}

	return &localDiskUploader{
		baseDir:        cfg.BaseDir,
		publicBasePath: strings.TrimSuffix(cfg.PublicBasePath, "/"),
	}, nil
}

func (u *localDiskUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	// Keys are generated server-side, but never trust them as paths.
	name := filepath.Base(key)
	path := filepath.Join(u.baseDir, name)

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file %s: %w", path, err)
	}

	if _, err := io.Copy(file, reader); err != nil {
		file.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to write upload file %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("failed to close upload file %s: %w", path, err)
	}

	return &UploadResult{
		Key:      name,
		Location: u.GetPublicURL(name),
	}, nil
}

func (u *localDiskUploader) Delete(ctx context.Context, key string) error {
	path := filepath.Join(u.baseDir, filepath.Base(key))
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete upload file %s: %w", path, err)
	}
	return nil
}

func (u *localDiskUploader) GetPublicURL(key string) string {
	if key == "" {
		return ""
	}
	return u.publicBasePath + "/" + filepath.Base(key)
}
