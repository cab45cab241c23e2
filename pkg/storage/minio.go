package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIO stores objects on a MinIO server through minio-go.
type MinIO struct {
	client *minio.Client
	cfg    Config
}

// NewMinIO creates a MinIO backend. cfg.Endpoint is the server host:port.
func NewMinIO(cfg Config) (*MinIO, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Endpoint == "" {
		return nil, ErrInvalidConfig
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &MinIO{client: client, cfg: cfg}, nil
}

// EnsureBucket creates the bucket when it does not exist.
func (m *MinIO) EnsureBucket(ctx context.Context) error {
	ok, err := m.client.BucketExists(ctx, m.cfg.Bucket)
	if err != nil {
		return wrapMinioError(err, ErrUploadFailed)
	}
	if ok {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.cfg.Bucket, minio.MakeBucketOptions{Region: m.cfg.Region}); err != nil {
		return wrapMinioError(err, ErrUploadFailed)
	}
	return nil
}

func (m *MinIO) Put(ctx context.Context, r io.Reader, size int64, opts ...Option) (*Object, error) {
	o := applyPut(opts)

	contentType := o.contentType
	if contentType == "" {
		contentType, r = DetectContentType(r)
	}

	key := ObjectKey(contentType, opts...)

	// minio-go streams unknown sizes (-1) as multipart uploads.
	info, err := m.client.PutObject(ctx, m.cfg.Bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, wrapMinioError(err, ErrUploadFailed)
	}
	return &Object{Key: key, ContentType: contentType, Size: info.Size}, nil
}

func (m *MinIO) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if _, err := m.client.StatObject(ctx, m.cfg.Bucket, key, minio.StatObjectOptions{}); err != nil {
		return nil, wrapMinioError(err, ErrNotFound)
	}
	obj, err := m.client.GetObject(ctx, m.cfg.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, wrapMinioError(err, ErrNotFound)
	}
	return obj, nil
}

func (m *MinIO) Delete(ctx context.Context, key string) error {
	if err := m.client.RemoveObject(ctx, m.cfg.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return wrapMinioError(err, ErrDeleteFailed)
	}
	return nil
}

func (m *MinIO) URL(ctx context.Context, key string, opts ...URLOption) (string, error) {
	o := applyURL(opts)
	if m.cfg.PublicURL != "" && o.downloadName == "" {
		return publicURL(m.cfg.PublicURL, key), nil
	}

	params := url.Values{}
	if o.downloadName != "" {
		params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", o.downloadName))
	}
	u, err := m.client.PresignedGetObject(ctx, m.cfg.Bucket, key, o.expiry, params)
	if err != nil {
		return "", wrapMinioError(err, ErrPresignFailed)
	}
	return u.String(), nil
}

var _ Storage = (*MinIO)(nil)
