package s3

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ivandriy/AWSLab/aws/s3/errors"
	"github.com/ivandriy/AWSLab/aws/s3/internal/validation"
	"github.com/ivandriy/AWSLab/aws/s3/s3types"
)

// CreateBucket creates a new S3 bucket.
// The bucket is created in the client region unless WithBucketRegion is
// given. us-east-1 takes no location constraint.
//
// Errors:
//   - ErrInvalidBucketName: If the name breaks S3 naming rules
//   - ErrBucketAlreadyExists: If the name is taken, including by the caller
//   - ErrAccessDenied: If the credentials lack permission to create buckets
func (c *Client) CreateBucket(ctx context.Context, bucket string, opts ...s3types.BucketOption) error {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return errors.NewBucketError("createBucket", bucket, err)
	}

	config := &s3types.BucketOptionConfig{Region: c.region}
	for _, opt := range opts {
		opt(config)
	}

	input := &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
	}
	if config.Region != "" && config.Region != DefaultRegion {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(config.Region),
		}
	}

	c.logStart(ctx, "creating bucket", "op", "createBucket", "bucket", bucket, "region", config.Region)
	if _, err := c.s3Client.CreateBucket(ctx, input); err != nil {
		c.logFailure(ctx, "failed to create bucket", err, "op", "createBucket", "bucket", bucket)
		return errors.NewBucketError("createBucket", bucket, errors.FromAWS(err))
	}
	return nil
}

// DeleteBucket deletes an S3 bucket. The bucket must be empty.
//
// Errors:
//   - ErrBucketNotFound: If the bucket does not exist
//   - ErrBucketNotEmpty: If objects remain in the bucket
func (c *Client) DeleteBucket(ctx context.Context, bucket string) error {
	if bucket == "" {
		return errors.NewError("deleteBucket", errors.ErrInvalidInput).
			WithMessage("bucket name cannot be empty")
	}

	c.logStart(ctx, "deleting bucket", "op", "deleteBucket", "bucket", bucket)
	if _, err := c.s3Client.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: aws.String(bucket)}); err != nil {
		c.logFailure(ctx, "failed to delete bucket", err, "op", "deleteBucket", "bucket", bucket)
		return errors.NewBucketError("deleteBucket", bucket, errors.FromAWS(err))
	}
	return nil
}

// PutPublicAccessBlock replaces the public access block of bucket with cfg.
// Use s3types.SecurePublicAccessBlock to deny all public access.
func (c *Client) PutPublicAccessBlock(ctx context.Context, bucket string, cfg s3types.PublicAccessBlock) error {
	if bucket == "" {
		return errors.NewError("putPublicAccessBlock", errors.ErrInvalidInput).
			WithMessage("bucket name cannot be empty")
	}

	input := &s3.PutPublicAccessBlockInput{
		Bucket: aws.String(bucket),
		PublicAccessBlockConfiguration: &types.PublicAccessBlockConfiguration{
			BlockPublicAcls:       aws.Bool(cfg.BlockPublicAcls),
			IgnorePublicAcls:      aws.Bool(cfg.IgnorePublicAcls),
			BlockPublicPolicy:     aws.Bool(cfg.BlockPublicPolicy),
			RestrictPublicBuckets: aws.Bool(cfg.RestrictPublicBuckets),
		},
	}

	c.logStart(ctx, "setting public access block", "op", "putPublicAccessBlock", "bucket", bucket, "secure", cfg.Secure())
	if _, err := c.s3Client.PutPublicAccessBlock(ctx, input); err != nil {
		c.logFailure(ctx, "failed to set public access block", err, "op", "putPublicAccessBlock", "bucket", bucket)
		return errors.NewBucketError("putPublicAccessBlock", bucket, errors.FromAWS(err))
	}
	return nil
}

// GetPublicAccessBlock returns the public access block of bucket.
// A bucket that never had one set yields a service error with code
// NoSuchPublicAccessBlockConfiguration.
func (c *Client) GetPublicAccessBlock(ctx context.Context, bucket string) (s3types.PublicAccessBlock, error) {
	if bucket == "" {
		return s3types.PublicAccessBlock{}, errors.NewError("getPublicAccessBlock", errors.ErrInvalidInput).
			WithMessage("bucket name cannot be empty")
	}

	output, err := c.s3Client.GetPublicAccessBlock(ctx, &s3.GetPublicAccessBlockInput{Bucket: aws.String(bucket)})
	if err != nil {
		return s3types.PublicAccessBlock{}, errors.NewBucketError("getPublicAccessBlock", bucket, errors.FromAWS(err))
	}

	cfg := output.PublicAccessBlockConfiguration
	if cfg == nil {
		return s3types.PublicAccessBlock{}, nil
	}
	return s3types.PublicAccessBlock{
		BlockPublicAcls:       aws.ToBool(cfg.BlockPublicAcls),
		IgnorePublicAcls:      aws.ToBool(cfg.IgnorePublicAcls),
		BlockPublicPolicy:     aws.ToBool(cfg.BlockPublicPolicy),
		RestrictPublicBuckets: aws.ToBool(cfg.RestrictPublicBuckets),
	}, nil
}
