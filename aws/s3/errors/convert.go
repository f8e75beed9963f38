package errors

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// apiCodes maps S3 error codes onto the package sentinels.
var apiCodes = map[string]error{
	"NoSuchBucket":            ErrBucketNotFound,
	"NoSuchKey":               ErrObjectNotFound,
	"NotFound":                ErrObjectNotFound,
	"BucketAlreadyExists":     ErrBucketAlreadyExists,
	"BucketAlreadyOwnedByYou": ErrBucketAlreadyExists,
	"BucketNotEmpty":          ErrBucketNotEmpty,
	"AccessDenied":            ErrAccessDenied,
	"AllAccessDisabled":       ErrAccessDenied,
	"InvalidBucketName":       ErrInvalidBucketName,
}

// FromAWS classifies an AWS SDK error. Known S3 error codes are wrapped with
// the matching sentinel so errors.Is works, and the original error stays in
// the chain so its message is preserved. Unknown errors are returned as is.
func FromAWS(err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	sentinel, ok := apiCodes[apiErr.ErrorCode()]
	if !ok || errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

// Code returns the S3 error code carried by err, or "" when err did not come
// from the service.
func Code(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
