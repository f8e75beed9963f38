// Package driver runs basic storage operations against an object store and
// reports every outcome on a console transcript.
//
// Each operation handles its own failure: the error is printed as
// "Exception while <operation>: <message>", logged, and the call returns
// normally so that a sequence of operations always runs to the end.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/ivandriy/AWSLab/aws/s3"
	s3errors "github.com/ivandriy/AWSLab/aws/s3/errors"
	"github.com/ivandriy/AWSLab/aws/s3/s3types"
)

// Operation names used in error lines.
const (
	opCreateBucket      = "creating new bucket"
	opDeleteBucket      = "deleting bucket"
	opUploadFile        = "uploading file"
	opDownloadFile      = "downloading file"
	opListBucket        = "listing bucket"
	opDeleteFiles       = "deleting file"
	opCopyFile          = "copying file between buckets"
	opBlockPublicAccess = "blocking public access to bucket"
	opGenerateLink      = "generating download url"
)

// Driver performs storage operations and writes a human readable transcript.
// It is not safe for concurrent use; operations run one after another.
type Driver struct {
	storage     Storage
	out         io.Writer
	logger      *slog.Logger
	uploadDir   string
	downloadDir string
}

// New creates a Driver around storage.
func New(storage Storage, opts ...Option) *Driver {
	options := defaultOptions()
	applyOptions(options, opts)

	return &Driver{
		storage:     storage,
		out:         options.out,
		logger:      options.logger,
		uploadDir:   options.uploadDir,
		downloadDir: options.downloadDir,
	}
}

// CreateBucket creates bucket. When secure is set and creation succeeded the
// bucket's public access is blocked as well.
func (d *Driver) CreateBucket(ctx context.Context, bucket string, secure bool) {
	if err := d.storage.CreateBucket(ctx, bucket); err != nil {
		d.fail(ctx, opCreateBucket, err, "bucket", bucket)
		return
	}
	d.logDone(ctx, "bucket created", "bucket", bucket, "secure", secure)
	if secure {
		d.BlockPublicAccess(ctx, bucket)
	}
}

// DeleteBucket deletes bucket, which must be empty.
func (d *Driver) DeleteBucket(ctx context.Context, bucket string) {
	if err := d.storage.DeleteBucket(ctx, bucket); err != nil {
		d.fail(ctx, opDeleteBucket, err, "bucket", bucket)
		return
	}
	d.logDone(ctx, "bucket deleted", "bucket", bucket)
}

// UploadFile uploads <upload dir>/fileName to bucket under the key fileName.
// A fileName reaching outside the upload directory is reported as an error.
func (d *Driver) UploadFile(ctx context.Context, bucket, fileName string) {
	if err := s3.ValidateFileName(fileName); err != nil {
		d.fail(ctx, opUploadFile, err, "bucket", bucket, "key", fileName)
		return
	}
	result, err := d.storage.UploadFile(ctx, bucket, fileName, path.Join(d.uploadDir, fileName))
	if err != nil {
		d.fail(ctx, opUploadFile, err, "bucket", bucket, "key", fileName)
		return
	}
	d.logDone(ctx, "file uploaded", "bucket", bucket, "key", result.Key, "size", result.Size,
		"content_type", result.ContentType, "duration", result.Duration)
}

// DownloadFile downloads bucket/key to <download dir>/localName, replacing
// an existing file. Nothing is written when the service reports an error or
// localName reaches outside the download directory.
func (d *Driver) DownloadFile(ctx context.Context, bucket, localName, key string) {
	if err := s3.ValidateFileName(localName); err != nil {
		d.fail(ctx, opDownloadFile, err, "bucket", bucket, "key", key)
		return
	}
	result, err := d.storage.DownloadFile(ctx, bucket, key, path.Join(d.downloadDir, localName))
	if err != nil {
		d.fail(ctx, opDownloadFile, err, "bucket", bucket, "key", key)
		return
	}
	d.logDone(ctx, "file downloaded", "bucket", bucket, "key", key, "path", result.Path, "size", result.Size)
}

// ListBucket returns one page of bucket's objects. A failed listing is
// reported and returned as a Listing carrying the error.
func (d *Driver) ListBucket(ctx context.Context, bucket string) Listing {
	result, err := d.storage.List(ctx, bucket)
	if err != nil {
		d.fail(ctx, opListBucket, err, "bucket", bucket)
		return Listing{Bucket: bucket, Err: err}
	}
	return Listing{Bucket: bucket, Objects: result.Objects}
}

// ShowBucketContent prints the keys in bucket, or that it is empty, or that
// its content could not be listed.
func (d *Driver) ShowBucketContent(ctx context.Context, bucket string) {
	listing := d.ListBucket(ctx, bucket)
	switch {
	case !listing.OK():
		d.printf("Bucket [%s] content is unavailable\n", listing.Bucket)
	case listing.Empty():
		d.printf("Bucket [%s] is empty\n", listing.Bucket)
	default:
		d.printf("Show bucket [%s] content:\n", listing.Bucket)
		for _, key := range listing.Keys() {
			d.printf("%s\n", key)
		}
	}
}

// DeleteFiles deletes keys from bucket with a single batch request. Keys the
// service refuses to delete are reported one line each.
func (d *Driver) DeleteFiles(ctx context.Context, bucket string, keys []string) {
	result, err := d.storage.DeleteMany(ctx, bucket, keys)
	if err != nil {
		d.fail(ctx, opDeleteFiles, err, "bucket", bucket)
		return
	}
	for _, e := range result.Errors {
		d.fail(ctx, opDeleteFiles, fmt.Errorf("%s: %s: %s", e.Key, e.Code, e.Message), "bucket", bucket, "key", e.Key)
	}
	d.logDone(ctx, "files deleted", "bucket", bucket, "deleted", len(result.Deleted), "failed", len(result.Errors))
}

// CopyFile copies srcBucket/srcKey to dstBucket/dstKey on the service side.
func (d *Driver) CopyFile(ctx context.Context, srcBucket, dstBucket, srcKey, dstKey string) {
	if err := d.storage.Copy(ctx, srcBucket, srcKey, dstBucket, dstKey); err != nil {
		d.fail(ctx, opCopyFile, err, "bucket", srcBucket, "key", srcKey, "dst_bucket", dstBucket, "dst_key", dstKey)
		return
	}
	d.logDone(ctx, "file copied", "bucket", srcBucket, "key", srcKey, "dst_bucket", dstBucket, "dst_key", dstKey)
}

// BlockPublicAccess enables all four public access block flags on bucket.
func (d *Driver) BlockPublicAccess(ctx context.Context, bucket string) {
	if err := d.storage.PutPublicAccessBlock(ctx, bucket, s3types.SecurePublicAccessBlock()); err != nil {
		d.fail(ctx, opBlockPublicAccess, err, "bucket", bucket)
		return
	}
	d.logDone(ctx, "public access blocked", "bucket", bucket)
}

// GenerateDownloadLink prints a presigned URL that downloads bucket/key until
// expire has elapsed. A negative expire is reported as an error.
func (d *Driver) GenerateDownloadLink(ctx context.Context, bucket, key string, expire time.Duration) {
	link, err := d.storage.PresignGet(ctx, bucket, key, expire)
	if err != nil {
		d.fail(ctx, opGenerateLink, err, "bucket", bucket, "key", key)
		return
	}
	d.printf("Pre-signed url for bucket [%s] with key %s is: %s\n", bucket, key, link.URL)
	d.logDone(ctx, "download link generated", "bucket", bucket, "key", key, "expires", link.Expires)
}

func (d *Driver) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(d.out, format, args...)
}

func (d *Driver) fail(ctx context.Context, op string, err error, attrs ...any) {
	d.printf("Exception while %s: %s\n", op, err)
	if d.logger == nil {
		return
	}
	attrs = append([]any{"op", op, "error", err}, attrs...)
	var opErr *s3errors.Error
	if errors.As(err, &opErr) && opErr.ServiceCode() != "" {
		attrs = append(attrs, "code", opErr.ServiceCode())
	}
	d.logger.ErrorContext(ctx, "operation failed", attrs...)
}

func (d *Driver) logDone(ctx context.Context, msg string, attrs ...any) {
	if d.logger != nil {
		d.logger.InfoContext(ctx, msg, attrs...)
	}
}
