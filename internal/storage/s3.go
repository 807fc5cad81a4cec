// Package storage re-uploads retrieved assets to an S3-compatible bucket.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/avlukashin/pikgrab/internal/alerts"
	"github.com/avlukashin/pikgrab/internal/config"
	"github.com/avlukashin/pikgrab/internal/util"
)

type Client struct {
	mc        *minio.Client
	bucket    string
	publicURL string
}

// New builds a client from the loaded config. Returns nil (with a warning)
// when object storage isn't configured; the pipeline then degrades to
// thumbnail-only responses.
func New() *Client {
	if config.S3Endpoint == "" || config.S3AccessKey == "" {
		log.Println("[Upload] WARNING: S3 not configured, uploads disabled")
		return nil
	}

	mc, err := minio.New(config.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.S3AccessKey, config.S3SecretKey, ""),
		Secure: config.S3UseSSL,
	})
	if err != nil {
		log.Printf("[Upload] failed to init S3 client: %v", err)
		return nil
	}

	return &Client{
		mc:        mc,
		bucket:    config.S3Bucket,
		publicURL: config.S3PublicURL,
	}
}

// Upload PUTs the bytes under a collision-free key and returns the public
// content-delivery URL, or "" on any failure. The URL is derived from the
// configured public base, never from credentials.
func (c *Client) Upload(ctx context.Context, data []byte, title, format string) string {
	if c == nil || len(data) == 0 {
		return ""
	}

	key := ObjectKey(title, format)
	_, err := c.mc.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: ContentTypeFor(format),
	})
	if err != nil {
		log.Printf("[Upload] PUT %s failed: %v", key, err)
		alerts.UploadFailed(key, err)
		return ""
	}

	log.Printf("[Upload] stored %s (%d bytes)", key, len(data))
	return c.publicURL + "/" + key
}

// ObjectKey builds a namespaced, slugged key with a short random suffix so
// identical titles never collide.
func ObjectKey(title, format string) string {
	id := uuid.New().String()[:8]
	ext := strings.ToLower(format)
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%s/%s-%s.%s", config.StoragePrefix, util.Slugify(title), id, ext)
}

// ContentTypeFor maps a format to its MIME type, defaulting to opaque binary.
func ContentTypeFor(format string) string {
	if mime, ok := config.FormatMIMEs[strings.ToUpper(format)]; ok {
		return mime
	}
	return "application/octet-stream"
}
