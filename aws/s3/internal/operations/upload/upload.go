// Package upload handles S3 object upload operations.
//
// Files are sent with a single PutObject request. The body must be seekable so
// the SDK can compute payload checksums and retry without buffering the file.
package upload

import (
	"context"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"

	"github.com/ivandriy/AWSLab/aws/s3/errors"
	"github.com/ivandriy/AWSLab/aws/s3/internal/s3api"
	"github.com/ivandriy/AWSLab/aws/s3/s3types"
)

// DefaultContentType is used when neither sniffing nor the extension yields a type.
const DefaultContentType = "application/octet-stream"

// Uploader handles S3 upload operations.
type Uploader struct {
	s3Client s3api.S3API
}

// New creates a new Uploader instance.
func New(s3Client s3api.S3API) *Uploader {
	return &Uploader{
		s3Client: s3Client,
	}
}

// Upload sends body as the object bucket/key in a single request.
// An empty config.ContentType is filled in by DetectContentType.
func (u *Uploader) Upload(
	ctx context.Context,
	bucket, key string,
	body io.ReadSeeker,
	size int64,
	config *s3types.UploadOptionConfig,
	startTime time.Time,
) (*s3types.UploadResult, error) {
	contentType := config.ContentType
	if contentType == "" {
		contentType = DetectContentType(body, key)
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	}
	if len(config.Metadata) > 0 {
		input.Metadata = config.Metadata
	}

	output, err := u.s3Client.PutObject(ctx, input)
	if err != nil {
		return nil, errors.NewObjectError("upload", bucket, key, errors.FromAWS(err))
	}

	return &s3types.UploadResult{
		Key:         key,
		Size:        size,
		ContentType: contentType,
		ETag:        aws.ToString(output.ETag),
		Duration:    time.Since(startTime),
	}, nil
}

// DetectContentType sniffs the content type of r and rewinds it. When the
// content is not recognised the extension of name decides, and
// DefaultContentType is the last resort.
func DetectContentType(r io.ReadSeeker, name string) string {
	detected := ""
	if mt, err := mimetype.DetectReader(r); err == nil && mt != nil {
		detected = mt.String()
	}
	// Rewind regardless of the outcome; the body is sent from the start.
	_, _ = r.Seek(0, io.SeekStart)

	if detected != "" && !strings.HasPrefix(detected, DefaultContentType) {
		return detected
	}

	if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}
	return DefaultContentType
}
