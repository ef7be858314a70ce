package services

import (
	"context"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"chlsync/internal/config"
)

// ArchiveService keeps a copy of every exported file in object storage for
// audit and reprocessing. Delivery never depends on it.
type ArchiveService interface {
	StoreExport(ctx context.Context, name, content string) error
	EnsureBucketExists(ctx context.Context) error
}

type minioArchive struct {
	client *minio.Client
	bucket string
}

func NewArchiveService(cfg config.ArchiveConfig) (ArchiveService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioArchive{client: client, bucket: cfg.Bucket}, nil
}

func (m *minioArchive) StoreExport(ctx context.Context, name, content string) error {
	reader := strings.NewReader(content)
	_, err := m.client.PutObject(ctx, m.bucket, name, reader, int64(len(content)), minio.PutObjectOptions{
		ContentType: "text/plain",
	})
	return err
}

func (m *minioArchive) EnsureBucketExists(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	}
	return nil
}
