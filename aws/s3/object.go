package s3

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ivandriy/AWSLab/aws/s3/errors"
	"github.com/ivandriy/AWSLab/aws/s3/internal/operations/download"
	"github.com/ivandriy/AWSLab/aws/s3/internal/operations/upload"
	"github.com/ivandriy/AWSLab/aws/s3/internal/validation"
	"github.com/ivandriy/AWSLab/aws/s3/s3types"
)

const (
	// maxDeleteKeys is the S3 limit on keys per DeleteObjects request.
	maxDeleteKeys = 1000
	maxListKeys   = 1000
)

// ValidateFileName fails with ErrInvalidInput unless name stays inside the
// directory it is joined onto. Absolute paths and names climbing out with
// ".." are rejected.
func ValidateFileName(name string) error {
	return validation.ValidateFileName(name)
}

// UploadFile uploads the local file at path as bucket/key in a single request.
// The path is resolved on the client filesystem and may not leave its root.
// The content type is
// detected from the file unless WithContentType is given.
//
// Errors:
//   - ErrInvalidInput: If bucket or path is empty or metadata is invalid
//   - ErrInvalidObjectKey: If key is invalid
//   - ErrBucketNotFound: If the bucket does not exist
//   - Filesystem errors when the file cannot be opened
func (c *Client) UploadFile(
	ctx context.Context,
	bucket, key, path string,
	opts ...s3types.UploadOption,
) (*s3types.UploadResult, error) {
	if bucket == "" {
		return nil, errors.NewError("uploadFile", errors.ErrInvalidInput).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, errors.NewObjectError("uploadFile", bucket, key, err)
	}
	if path == "" {
		return nil, errors.NewObjectError("uploadFile", bucket, key, errors.ErrInvalidInput).
			WithMessage("file path cannot be empty")
	}
	if err := validation.ValidateFileName(path); err != nil {
		return nil, errors.NewObjectError("uploadFile", bucket, key, err)
	}

	config := &s3types.UploadOptionConfig{}
	for _, opt := range opts {
		opt(config)
	}
	if err := validation.ValidateMetadata(config.Metadata); err != nil {
		return nil, errors.NewObjectError("uploadFile", bucket, key, err)
	}

	startTime := time.Now()
	c.logStart(ctx, "uploading file", "op", "uploadFile", "bucket", bucket, "key", key, "path", path)

	info, err := c.fs.Stat(path)
	if err != nil {
		c.logFailure(ctx, "failed to stat file", err, "op", "uploadFile", "bucket", bucket, "key", key)
		return nil, errors.NewObjectError("uploadFile", bucket, key, err)
	}
	if info.IsDir() {
		return nil, errors.NewObjectError("uploadFile", bucket, key, errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("%s is a directory", path))
	}

	file, err := c.fs.Open(path)
	if err != nil {
		c.logFailure(ctx, "failed to open file", err, "op", "uploadFile", "bucket", bucket, "key", key)
		return nil, errors.NewObjectError("uploadFile", bucket, key, err)
	}
	defer file.Close()

	if config.ContentType == "" {
		config.ContentType = upload.DetectContentType(file, path)
	}

	result, err := upload.New(c.s3Client).Upload(ctx, bucket, key, file, info.Size(), config, startTime)
	if err != nil {
		c.logFailure(ctx, "failed to upload file", err, "op", "uploadFile", "bucket", bucket, "key", key)
		return nil, err
	}
	return result, nil
}

// DownloadFile downloads bucket/key to the local file at path, replacing any
// existing content. The directory containing path must exist and path may
// not leave the filesystem root. No local file
// is touched when the service reports an error.
func (c *Client) DownloadFile(ctx context.Context, bucket, key, path string) (*s3types.DownloadResult, error) {
	if bucket == "" {
		return nil, errors.NewError("downloadFile", errors.ErrInvalidInput).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, errors.NewObjectError("downloadFile", bucket, key, err)
	}
	if path == "" {
		return nil, errors.NewObjectError("downloadFile", bucket, key, errors.ErrInvalidInput).
			WithMessage("file path cannot be empty")
	}
	if err := validation.ValidateFileName(path); err != nil {
		return nil, errors.NewObjectError("downloadFile", bucket, key, err)
	}

	c.logStart(ctx, "downloading file", "op", "downloadFile", "bucket", bucket, "key", key, "path", path)
	result, err := download.New(c.s3Client).DownloadFile(ctx, c.fs, bucket, key, path, time.Now())
	if err != nil {
		c.logFailure(ctx, "failed to download file", err, "op", "downloadFile", "bucket", bucket, "key", key)
		return nil, err
	}
	return result, nil
}

// List returns a single page of objects in bucket, at most 1000 unless
// WithMaxKeys asks for fewer. IsTruncated reports whether more exist.
func (c *Client) List(ctx context.Context, bucket string, opts ...s3types.ListOption) (*s3types.ListResult, error) {
	if bucket == "" {
		return nil, errors.NewError("list", errors.ErrInvalidInput).
			WithMessage("bucket name cannot be empty")
	}

	config := &s3types.ListOptionConfig{MaxKeys: maxListKeys}
	for _, opt := range opts {
		opt(config)
	}

	startTime := time.Now()
	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		MaxKeys: aws.Int32(config.MaxKeys),
	}
	if config.Prefix != "" {
		input.Prefix = aws.String(config.Prefix)
	}

	c.logStart(ctx, "listing bucket", "op", "list", "bucket", bucket, "prefix", config.Prefix)
	output, err := c.s3Client.ListObjectsV2(ctx, input)
	if err != nil {
		c.logFailure(ctx, "failed to list bucket", err, "op", "list", "bucket", bucket)
		return nil, errors.NewBucketError("list", bucket, errors.FromAWS(err))
	}

	result := &s3types.ListResult{
		Bucket:      bucket,
		Objects:     make([]s3types.Object, 0, len(output.Contents)),
		IsTruncated: aws.ToBool(output.IsTruncated),
		Duration:    time.Since(startTime),
	}
	for _, obj := range output.Contents {
		result.Objects = append(result.Objects, s3types.Object{
			Key:          aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			LastModified: aws.ToTime(obj.LastModified),
			ETag:         aws.ToString(obj.ETag),
			StorageClass: string(obj.StorageClass),
		})
	}
	return result, nil
}

// DeleteMany deletes keys from bucket in one request. S3 accepts at most
// 1000 keys per request. A nil error means the request succeeded; keys the
// service could not delete are listed in the result's Errors.
func (c *Client) DeleteMany(ctx context.Context, bucket string, keys []string) (*s3types.DeleteResult, error) {
	if bucket == "" {
		return nil, errors.NewError("deleteMany", errors.ErrInvalidInput).
			WithMessage("bucket name cannot be empty")
	}
	if len(keys) == 0 {
		return nil, errors.NewBucketError("deleteMany", bucket, errors.ErrInvalidInput).
			WithMessage("keys cannot be empty")
	}
	if len(keys) > maxDeleteKeys {
		return nil, errors.NewBucketError("deleteMany", bucket, errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("too many keys: maximum is %d per request", maxDeleteKeys))
	}

	ids := make([]types.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		if key == "" {
			return nil, errors.NewBucketError("deleteMany", bucket, errors.ErrInvalidInput).
				WithMessage("empty key in keys slice")
		}
		ids = append(ids, types.ObjectIdentifier{Key: aws.String(key)})
	}

	startTime := time.Now()
	c.logStart(ctx, "deleting objects", "op", "deleteMany", "bucket", bucket, "count", len(keys))
	output, err := c.s3Client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &types.Delete{Objects: ids},
	})
	if err != nil {
		c.logFailure(ctx, "failed to delete objects", err, "op", "deleteMany", "bucket", bucket)
		return nil, errors.NewBucketError("deleteMany", bucket, errors.FromAWS(err))
	}

	result := &s3types.DeleteResult{Duration: time.Since(startTime)}
	for _, deleted := range output.Deleted {
		result.Deleted = append(result.Deleted, aws.ToString(deleted.Key))
	}
	for _, e := range output.Errors {
		result.Errors = append(result.Errors, s3types.DeleteError{
			Key:     aws.ToString(e.Key),
			Code:    aws.ToString(e.Code),
			Message: aws.ToString(e.Message),
		})
	}
	return result, nil
}

// Copy copies srcBucket/srcKey to dstBucket/dstKey on the service side.
// Copying an object onto itself is rejected.
func (c *Client) Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	if srcBucket == "" || dstBucket == "" {
		return errors.NewError("copy", errors.ErrInvalidInput).
			WithKey(srcKey).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(srcKey); err != nil {
		return errors.NewObjectError("copy", srcBucket, srcKey, err)
	}
	if err := validation.ValidateObjectKey(dstKey); err != nil {
		return errors.NewObjectError("copy", dstBucket, dstKey, err)
	}
	if srcBucket == dstBucket && srcKey == dstKey {
		return errors.NewObjectError("copy", srcBucket, srcKey, errors.ErrInvalidInput).
			WithMessage("cannot copy object to itself")
	}

	c.logStart(ctx, "copying object", "op", "copy",
		"bucket", srcBucket, "key", srcKey, "dst_bucket", dstBucket, "dst_key", dstKey)
	_, err := c.s3Client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(dstBucket),
		Key:        aws.String(dstKey),
		CopySource: aws.String(srcBucket + "/" + url.PathEscape(srcKey)),
	})
	if err != nil {
		c.logFailure(ctx, "failed to copy object", err, "op", "copy", "bucket", srcBucket, "key", srcKey)
		return errors.NewObjectError("copy", dstBucket, dstKey, errors.FromAWS(err)).
			WithMessage("failed to copy from " + srcBucket + "/" + srcKey)
	}
	return nil
}
