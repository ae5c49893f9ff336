package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"learnhub_portal/internal/config"
	"learnhub_portal/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// ContentProvider turns a stored object key into a URL the browser can
// fetch.
type ContentProvider interface {
	URL(ctx context.Context, key string) (string, error)
}

// LocalContentProvider serves content from a static path of this server.
type LocalContentProvider struct {
	BaseURL string
}

func (p *LocalContentProvider) URL(_ context.Context, key string) (string, error) {
	return strings.TrimSuffix(p.BaseURL, "/") + "/" + strings.TrimPrefix(key, "/"), nil
}

// MinioContentProvider hands out presigned GET URLs for a bucket.
type MinioContentProvider struct {
	Client *minio.Client
	Bucket string
	Expiry time.Duration
}

func NewMinioContentProvider(cfg *config.StorageConfig) (*MinioContentProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioContentProvider{Client: client, Bucket: cfg.MinioBucket, Expiry: cfg.PresignExpiry}, nil
}

func (p *MinioContentProvider) URL(ctx context.Context, key string) (string, error) {
	u, err := p.Client.PresignedGetObject(ctx, p.Bucket, strings.TrimPrefix(key, "/"), p.Expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return u.String(), nil
}

// StorageService resolves lesson content references and thumbnails.
type StorageService struct {
	Provider ContentProvider
}

func NewStorageService(cfg *config.Config) *StorageService {
	var provider ContentProvider
	if cfg.Storage.Content == config.ContentMinio {
		p, err := NewMinioContentProvider(&cfg.Storage)
		if err != nil {
			logger.Log.Error("MinIO unavailable, serving content locally", zap.Error(err))
		} else {
			provider = p
		}
	}
	if provider == nil {
		provider = &LocalContentProvider{BaseURL: cfg.Storage.LocalBaseURL}
	}
	return &StorageService{Provider: provider}
}

// ContentURL returns a fetchable URL for ref. Absolute URLs, "#" and
// empty references are returned unchanged; anything else is an object
// key for the configured provider.
func (s *StorageService) ContentURL(ctx context.Context, ref string) (string, error) {
	if ref == "" || ref == "#" {
		return ref, nil
	}
	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		return ref, nil
	}
	return s.Provider.URL(ctx, ref)
}
