// Package storage, yüklenen dosyalar (avatar, kurs kapağı) için nesne deposu
// soyutlamasıdır. İki backend vardır: yerel disk ve S3 uyumlu depolama.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
)

// Storage, yükleme servisinin bağımlı olduğu interface.
type Storage interface {
	// Put, nesneyi key altına yazar ve client'ın erişebileceği URL'i döner.
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	// Delete, nesneyi siler. Olmayan nesne hata değildir.
	Delete(ctx context.Context, key string) error
}

// Options, New'un backend seçimi için ihtiyaç duyduğu ayarlar.
type Options struct {
	Driver string // "local" veya "s3"

	LocalDir     string
	LocalBaseURL string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string
}

// New, Options.Driver'a göre backend oluşturur.
func New(ctx context.Context, opts Options) (Storage, error) {
	switch opts.Driver {
	case "", "local":
		return NewLocal(opts.LocalDir, opts.LocalBaseURL)
	case "s3":
		return NewS3(ctx, opts)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", opts.Driver)
	}
}

// cleanKey, key'i path traversal'a karşı normalize eder: "../a/b" → "a/b".
func cleanKey(key string) (string, error) {
	cleaned := strings.TrimPrefix(path.Clean("/"+key), "/")
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	return cleaned, nil
}
