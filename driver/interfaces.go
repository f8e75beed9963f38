package driver

import (
	"context"
	"time"

	"github.com/ivandriy/AWSLab/aws/s3/s3types"
)

// Storage defines the storage operations the driver performs.
// *s3.Client from aws/s3 satisfies it.
type Storage interface {
	CreateBucket(ctx context.Context, bucket string, opts ...s3types.BucketOption) error
	DeleteBucket(ctx context.Context, bucket string) error
	PutPublicAccessBlock(ctx context.Context, bucket string, cfg s3types.PublicAccessBlock) error
	UploadFile(ctx context.Context, bucket, key, path string, opts ...s3types.UploadOption) (*s3types.UploadResult, error)
	DownloadFile(ctx context.Context, bucket, key, path string) (*s3types.DownloadResult, error)
	List(ctx context.Context, bucket string, opts ...s3types.ListOption) (*s3types.ListResult, error)
	DeleteMany(ctx context.Context, bucket string, keys []string) (*s3types.DeleteResult, error)
	Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error
	PresignGet(ctx context.Context, bucket, key string, ttl time.Duration) (*s3types.PresignedURL, error)
}
