package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Uploader persists an uploaded blob and returns a URL clients can render.
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// S3Uploader adapts S3Store to the Uploader contract.
type S3Uploader struct {
	Store *S3Store
}

func (u S3Uploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	return u.Store.Put(ctx, key, data, contentType)
}

// FileUploader writes blobs through the local FileStore and serves them
// under the configured public base URL. Used when object storage is not
// configured, typically in development.
type FileUploader struct {
	Store   *FileStore
	BaseURL string
}

func (u FileUploader) Upload(ctx context.Context, key string, data []byte, _ string) (string, error) {
	cleanKey, err := u.Store.Write(ctx, key, data)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(u.BaseURL, "/") + "/" + cleanKey, nil
}

// AvatarFallbackURL builds the third-party generated-avatar URL handed back
// when no storage backend can take the upload.
func AvatarFallbackURL(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Mentor Hood"
	}
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=random", url.QueryEscape(name))
}
