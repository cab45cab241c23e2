package storage

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/minio/minio-go/v7"
)

var (
	ErrNotConfigured  = errors.New("storage: not configured")
	ErrInvalidConfig  = errors.New("storage: invalid configuration")
	ErrUnknownBackend = errors.New("storage: unknown backend")
	ErrNotFound       = errors.New("storage: file not found")
	ErrAccessDenied   = errors.New("storage: access denied")
	ErrUploadFailed   = errors.New("storage: upload failed")
	ErrDeleteFailed   = errors.New("storage: delete failed")
	ErrPresignFailed  = errors.New("storage: presign failed")
)

// wrapS3Error maps S3 API errors to the package sentinels. The original
// error is kept as text only.
func wrapS3Error(err, fallback error) error {
	var notFound *types.NoSuchKey
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return byCode(apiErr.ErrorCode(), err, fallback)
	}
	return fmt.Errorf("%w: %v", fallback, err)
}

func wrapMinioError(err, fallback error) error {
	return byCode(minio.ToErrorResponse(err).Code, err, fallback)
}

func byCode(code string, err, fallback error) error {
	switch code {
	case "NoSuchKey", "NotFound", "NoSuchBucket":
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case "AccessDenied", "Forbidden":
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	default:
		return fmt.Errorf("%w: %v", fallback, err)
	}
}
