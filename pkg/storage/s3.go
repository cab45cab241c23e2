package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3 stores objects in an S3 bucket through aws-sdk-go-v2.
type S3 struct {
	client    *s3.Client
	presigner *s3.PresignClient
	cfg       Config
}

// NewS3 creates an S3 backend. Endpoint and PathStyle point it at an
// S3-compatible service.
func NewS3(cfg Config) (*S3, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	client := s3.New(s3.Options{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
	}, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		}
	})

	return &S3{client: client, presigner: s3.NewPresignClient(client), cfg: cfg}, nil
}

func (s *S3) Put(ctx context.Context, r io.Reader, size int64, opts ...Option) (*Object, error) {
	o := applyPut(opts)

	// PutObject signs the payload, which needs a seekable body.
	body, seekable := r.(io.ReadSeeker)
	if !seekable || size < 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
		body, size = bytes.NewReader(data), int64(len(data))
	}

	contentType := o.contentType
	if contentType == "" {
		var err error
		if contentType, err = sniff(body); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
	}

	key := ObjectKey(contentType, opts...)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return nil, wrapS3Error(err, ErrUploadFailed)
	}

	return &Object{Key: key, ContentType: contentType, Size: size}, nil
}

func (s *S3) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, wrapS3Error(err, ErrNotFound)
	}
	return out.Body, nil
}

func (s *S3) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return wrapS3Error(err, ErrDeleteFailed)
	}
	return nil
}

func (s *S3) URL(ctx context.Context, key string, opts ...URLOption) (string, error) {
	o := applyURL(opts)
	if s.cfg.PublicURL != "" && o.downloadName == "" {
		return publicURL(s.cfg.PublicURL, key), nil
	}

	input := &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}
	if o.downloadName != "" {
		input.ResponseContentDisposition = aws.String(fmt.Sprintf("attachment; filename=%q", o.downloadName))
	}

	req, err := s.presigner.PresignGetObject(ctx, input, func(po *s3.PresignOptions) {
		po.Expires = o.expiry
	})
	if err != nil {
		return "", wrapS3Error(err, ErrPresignFailed)
	}
	return req.URL, nil
}

// sniff detects the content type and rewinds rs.
func sniff(rs io.ReadSeeker) (string, error) {
	ct, _ := DetectContentType(io.LimitReader(rs, sniffLen))
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return ct, nil
}

func publicURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + key
}

var _ Storage = (*S3)(nil)
