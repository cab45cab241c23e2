package storage

import (
	"context"
	"io"
	"time"
)

// Storage is an object store holding uploaded files.
type Storage interface {
	// Put stores size bytes read from r. A negative size means unknown.
	Put(ctx context.Context, r io.Reader, size int64, opts ...Option) (*Object, error)

	// Get opens the object for reading. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object.
	Delete(ctx context.Context, key string) error

	// URL returns a pre-signed GET URL, or the public URL when Config.PublicURL is set.
	URL(ctx context.Context, key string, opts ...URLOption) (string, error)
}

// Object describes a stored file.
type Object struct {
	Key         string
	ContentType string
	Size        int64
}

// Backend names a Storage implementation.
type Backend string

const (
	BackendS3    Backend = "s3"
	BackendMinIO Backend = "minio"
)

// Config holds object storage settings, parsed from the environment with
// caarlos0/env.
type Config struct {
	Backend   Backend `env:"STORAGE_BACKEND" envDefault:"s3" yaml:"backend"`
	Bucket    string  `env:"STORAGE_BUCKET,required" yaml:"bucket"`
	AccessKey string  `env:"STORAGE_ACCESS_KEY,required" yaml:"access_key"`
	SecretKey string  `env:"STORAGE_SECRET_KEY,required" yaml:"secret_key"`
	Region    string  `env:"STORAGE_REGION" envDefault:"us-east-1" yaml:"region"`

	// Endpoint is a custom S3 endpoint URL, or the host:port of a MinIO server.
	Endpoint string `env:"STORAGE_ENDPOINT" yaml:"endpoint"`

	// PublicURL is a CDN prefix; when set URL returns unsigned links under it.
	PublicURL string `env:"STORAGE_PUBLIC_URL" yaml:"public_url"`

	PathStyle bool `env:"STORAGE_PATH_STYLE" yaml:"path_style"`
	UseSSL    bool `env:"STORAGE_USE_SSL" envDefault:"true" yaml:"use_ssl"`
}

const (
	DefaultRegion    = "us-east-1"
	DefaultURLExpiry = 15 * time.Minute
)

func (c *Config) validate() error {
	if c.Bucket == "" || c.AccessKey == "" || c.SecretKey == "" {
		return ErrInvalidConfig
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	return nil
}

// New returns the backend selected by cfg.Backend.
func New(cfg Config) (Storage, error) {
	switch cfg.Backend {
	case BackendS3, "":
		return NewS3(cfg)
	case BackendMinIO:
		return NewMinIO(cfg)
	default:
		return nil, ErrUnknownBackend
	}
}
