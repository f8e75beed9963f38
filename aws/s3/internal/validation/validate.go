// Package validation provides input validation for bucket names, object keys,
// metadata and the local file names used by uploads and downloads.
//
// Inputs are validated before any request is sent so that obviously malformed
// requests fail fast with ErrInvalidBucketName, ErrInvalidObjectKey or
// ErrInvalidInput instead of a round trip to the service.
package validation

import (
	"fmt"
	"net"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ivandriy/AWSLab/aws/s3/errors"
)

const (
	minBucketNameLen = 3
	maxBucketNameLen = 63
	maxObjectKeyLen  = 1024
	maxMetaKeyLen    = 128
	maxMetaValueLen  = 2048
)

// ValidateBucketName validates that a bucket name is DNS-compliant according to S3 rules.
func ValidateBucketName(bucket string) error {
	switch {
	case bucket == "":
		return bucketError(bucket, "bucket name cannot be empty")
	case len(bucket) < minBucketNameLen || len(bucket) > maxBucketNameLen:
		return bucketError(bucket, "bucket name must be between 3 and 63 characters long")
	}

	for _, r := range bucket {
		if !isBucketRune(r) {
			return bucketError(bucket, "bucket name can only contain lowercase letters, numbers, dots, and hyphens")
		}
	}

	first, last := bucket[0], bucket[len(bucket)-1]
	if !isAlnum(first) || !isAlnum(last) {
		return bucketError(bucket, "bucket name must start and end with a letter or number")
	}
	if strings.Contains(bucket, "..") {
		return bucketError(bucket, "bucket name cannot contain two adjacent periods")
	}
	if ip := net.ParseIP(bucket); ip != nil && ip.To4() != nil {
		return bucketError(bucket, "bucket name cannot be formatted as an IP address")
	}
	if strings.HasPrefix(bucket, "xn--") || strings.HasSuffix(bucket, "-s3alias") {
		return bucketError(bucket, "bucket name uses a reserved prefix or suffix")
	}

	return nil
}

// ValidateObjectKey validates that an object key is acceptable to S3.
// Keys must be valid UTF-8 of at most 1024 bytes without control characters.
func ValidateObjectKey(key string) error {
	switch {
	case key == "":
		return keyError(key, "object key cannot be empty")
	case len(key) > maxObjectKeyLen:
		return keyError(key, "object key cannot exceed 1024 bytes")
	case !utf8.ValidString(key):
		return keyError(key, "object key must be valid UTF-8")
	case strings.IndexFunc(key, unicode.IsControl) >= 0:
		return keyError(key, "object key cannot contain control characters")
	}
	return nil
}

// ValidateFileName validates a name that is joined onto a local directory.
// The name must stay inside that directory once cleaned.
func ValidateFileName(name string) error {
	if name == "" {
		return errors.NewError("validateFileName", errors.ErrInvalidInput).
			WithMessage("file name cannot be empty")
	}

	cleaned := path.Clean(strings.ReplaceAll(name, `\`, "/"))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") || path.IsAbs(cleaned) {
		return errors.NewError("validateFileName", errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("file name %q escapes its directory", name))
	}
	if len(cleaned) >= 2 && cleaned[1] == ':' {
		return errors.NewError("validateFileName", errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("file name %q is a drive path", name))
	}

	return nil
}

// ValidateMetadata validates user metadata keys and values according to S3 rules.
func ValidateMetadata(metadata map[string]string) error {
	for key, value := range metadata {
		if key == "" {
			return metaError("metadata key cannot be empty")
		}
		if len(key) > maxMetaKeyLen {
			return metaError("metadata key cannot exceed 128 characters")
		}
		lower := strings.ToLower(key)
		if strings.HasPrefix(lower, "x-amz-") || strings.HasPrefix(lower, "aws:") {
			return metaError(fmt.Sprintf("metadata key %q uses a reserved prefix", key))
		}
		for _, r := range key {
			if r <= ' ' || r > '~' {
				return metaError("metadata key can only contain printable ASCII characters")
			}
		}
		if len(value) > maxMetaValueLen {
			return metaError("metadata value cannot exceed 2048 characters")
		}
		if strings.IndexFunc(value, func(r rune) bool { return !unicode.IsPrint(r) && r != '\t' }) >= 0 {
			return metaError("metadata value can only contain printable characters")
		}
	}
	return nil
}

func bucketError(bucket, msg string) error {
	return errors.NewError("validateBucketName", errors.ErrInvalidBucketName).
		WithBucket(bucket).
		WithMessage(msg)
}

func keyError(key, msg string) error {
	return errors.NewError("validateObjectKey", errors.ErrInvalidObjectKey).
		WithKey(key).
		WithMessage(msg)
}

func metaError(msg string) error {
	return errors.NewError("validateMetadata", errors.ErrInvalidInput).WithMessage(msg)
}

func isBucketRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' || r == '-'
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}
