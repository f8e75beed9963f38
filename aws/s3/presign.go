package s3

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ivandriy/AWSLab/aws/s3/errors"
	"github.com/ivandriy/AWSLab/aws/s3/internal/validation"
	"github.com/ivandriy/AWSLab/aws/s3/s3types"
)

// MinPresignTTL is the shortest validity a presigned URL is signed for.
const MinPresignTTL = time.Second

// PresignGet returns a URL that downloads bucket/key without credentials
// until ttl elapses. Signing happens locally; no request is sent and the
// object need not exist.
//
// A negative ttl is rejected with ErrInvalidInput. A zero ttl is signed for
// MinPresignTTL, because the SDK reads zero as its 15 minute default.
func (c *Client) PresignGet(ctx context.Context, bucket, key string, ttl time.Duration) (*s3types.PresignedURL, error) {
	if bucket == "" {
		return nil, errors.NewError("presignGet", errors.ErrInvalidInput).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, errors.NewObjectError("presignGet", bucket, key, err)
	}
	if ttl < 0 {
		return nil, errors.NewObjectError("presignGet", bucket, key, errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("expiry must not be negative, got %s", ttl))
	}
	if ttl < MinPresignTTL {
		ttl = MinPresignTTL
	}
	if c.presigner == nil {
		return nil, errors.NewObjectError("presignGet", bucket, key, errors.ErrInvalidInput).
			WithMessage("client has no presigner")
	}

	c.logStart(ctx, "presigning download", "op", "presignGet", "bucket", bucket, "key", key, "ttl", ttl)
	signedAt := time.Now().UTC()
	req, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignOptions) {
		o.Expires = ttl
	})
	if err != nil {
		c.logFailure(ctx, "failed to presign download", err, "op", "presignGet", "bucket", bucket, "key", key)
		return nil, errors.NewObjectError("presignGet", bucket, key, err)
	}

	return &s3types.PresignedURL{
		URL:     req.URL,
		Method:  req.Method,
		Expires: signedAt.Add(ttl),
	}, nil
}
