package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/mindshard/mindshard-server/common/config"
)

// Client mirrors adapter bundles to object storage. Walrus stays the source
// of truth; the mirror gives clients a plain HTTPS download path.
type Client interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64,
		opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

func NewMinio(cfg *config.Config) (Client, error) {
	client, err := minio.New(cfg.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3.AccessKeyID, cfg.S3.AccessKeySecret, ""),
		Secure: cfg.S3.EnableSSL,
		Region: cfg.S3.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init s3 client, error:%w", err)
	}
	return client, nil
}

// MirrorBundle stores a validated bundle under bundles/<manifest hash>.zip.
func MirrorBundle(ctx context.Context, client Client, bucket, manifestHash string, reader io.Reader, size int64) (string, error) {
	objectName := "bundles/" + manifestHash + ".zip"
	_, err := client.PutObject(ctx, bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: "application/zip",
	})
	if err != nil {
		return "", fmt.Errorf("failed to mirror bundle to s3, error:%w", err)
	}
	return objectName, nil
}

// DownloadURL presigns a read link for a mirrored bundle.
func DownloadURL(ctx context.Context, client Client, bucket, objectName string, expires time.Duration) (string, error) {
	u, err := client.PresignedGetObject(ctx, bucket, objectName, expires, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign bundle url, error:%w", err)
	}
	return u.String(), nil
}
