package storage

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"path/filepath"
	"time"
)

type UploadResult struct {
	Key      string
	Location string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// GenerateKey builds a unique object key of the form
// <unix-ms>-<random><ext>, keeping only the extension of the original name.
func GenerateKey(originalName string) string {
	ext := filepath.Ext(originalName)
	return fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), rand.Int63n(1_000_000_000), ext)
}
