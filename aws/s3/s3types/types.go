// Package s3types provides shared type definitions for the S3 module.
package s3types

import (
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/go-git/go-billy/v5"
)

// Object represents an S3 object with its basic metadata.
type Object struct {
	// Key is the S3 object key (path)
	Key string

	// Size is the object size in bytes
	Size int64

	// LastModified is when the object was last modified
	LastModified time.Time

	// ETag is the S3 entity tag for the object
	ETag string

	// StorageClass is the S3 storage class
	StorageClass string
}

// PublicAccessBlock is the bucket-level switchboard that denies public access
// regardless of object or bucket ACLs and policies.
type PublicAccessBlock struct {
	BlockPublicAcls       bool
	IgnorePublicAcls      bool
	BlockPublicPolicy     bool
	RestrictPublicBuckets bool
}

// SecurePublicAccessBlock returns a configuration with every flag enabled.
func SecurePublicAccessBlock() PublicAccessBlock {
	return PublicAccessBlock{
		BlockPublicAcls:       true,
		IgnorePublicAcls:      true,
		BlockPublicPolicy:     true,
		RestrictPublicBuckets: true,
	}
}

// Secure reports whether all four flags are enabled.
func (p PublicAccessBlock) Secure() bool {
	return p.BlockPublicAcls && p.IgnorePublicAcls && p.BlockPublicPolicy && p.RestrictPublicBuckets
}

// PresignedURL is a signed request that grants temporary access to one object.
type PresignedURL struct {
	// URL is the full signed URL
	URL string

	// Method is the HTTP method the signature covers
	Method string

	// Expires is the instant after which the service rejects the URL
	Expires time.Time
}

// UploadResult contains the result of an upload operation.
type UploadResult struct {
	// Key is the S3 object key that was uploaded
	Key string

	// Size is the size of the uploaded object in bytes
	Size int64

	// ContentType is the content type sent with the object
	ContentType string

	// ETag is the S3 entity tag for the uploaded object
	ETag string

	// Duration is how long the upload took
	Duration time.Duration
}

// DownloadResult contains the result of a download operation.
type DownloadResult struct {
	// Key is the S3 object key that was downloaded
	Key string

	// Path is the local file the object was written to
	Path string

	// Size is the number of bytes written
	Size int64

	// ETag is the S3 entity tag for the downloaded object
	ETag string

	// Duration is how long the download took
	Duration time.Duration
}

// DeleteResult contains the result of a batch delete operation.
type DeleteResult struct {
	// Deleted contains the keys the service reported as deleted
	Deleted []string

	// Errors contains per-key failures reported by the service
	Errors []DeleteError

	// Duration is how long the operation took
	Duration time.Duration
}

// DeleteError represents a per-key failure inside a batch delete.
type DeleteError struct {
	Key     string
	Code    string
	Message string
}

// ListResult contains one page of a list operation.
type ListResult struct {
	// Bucket is the listed bucket
	Bucket string

	// Objects contains the listed objects
	Objects []Object

	// IsTruncated indicates that more objects exist beyond this page
	IsTruncated bool

	// Duration is how long the operation took
	Duration time.Duration
}

// Keys returns the object keys in listing order.
func (r *ListResult) Keys() []string {
	keys := make([]string, 0, len(r.Objects))
	for _, obj := range r.Objects {
		keys = append(keys, obj.Key)
	}
	return keys
}

// Configuration types for functional options

// ClientConfig holds configuration for the S3 client.
type ClientConfig struct {
	Region          string
	Endpoint        string
	MaxRetries      int
	Timeout         time.Duration
	ForcePathStyle  bool
	AccessKeyID     string
	SecretAccessKey string
	CustomAWSConfig *aws.Config
	Filesystem      billy.Filesystem
	Logger          *slog.Logger
}

// UploadOptionConfig holds configuration for upload operations via functional options.
type UploadOptionConfig struct {
	ContentType string
	Metadata    map[string]string
}

// ListOptionConfig holds configuration for list operations via functional options.
type ListOptionConfig struct {
	Prefix  string
	MaxKeys int32
}

// BucketOptionConfig holds configuration for bucket operations via functional options.
type BucketOptionConfig struct {
	Region string
}

type (
	// Option is a functional option for configuring the S3 client.
	Option func(*ClientConfig)
	// UploadOption is a functional option for configuring S3 upload operations.
	UploadOption func(*UploadOptionConfig)
	// ListOption is a functional option for configuring S3 list operations.
	ListOption func(*ListOptionConfig)
	// BucketOption is a functional option for configuring S3 bucket operations.
	BucketOption func(*BucketOptionConfig)
)
