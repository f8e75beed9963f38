// Package download handles S3 object download operations.
//
// Objects are streamed from the response body into a file on a go-billy
// filesystem, so neither side holds the whole object in memory.
package download

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-git/go-billy/v5"

	"github.com/ivandriy/AWSLab/aws/s3/errors"
	"github.com/ivandriy/AWSLab/aws/s3/internal/s3api"
	"github.com/ivandriy/AWSLab/aws/s3/s3types"
)

// Downloader handles S3 download operations.
type Downloader struct {
	s3Client s3api.S3API
}

// New creates a new Downloader instance.
func New(s3Client s3api.S3API) *Downloader {
	return &Downloader{
		s3Client: s3Client,
	}
}

// Download streams the object bucket/key into w.
func (d *Downloader) Download(ctx context.Context, bucket, key string, w io.Writer) (int64, string, error) {
	output, err := d.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, "", errors.NewObjectError("download", bucket, key, errors.FromAWS(err))
	}
	defer output.Body.Close()

	n, err := io.Copy(w, output.Body)
	if err != nil {
		return n, "", errors.NewObjectError("download", bucket, key, err)
	}
	return n, aws.ToString(output.ETag), nil
}

// DownloadFile downloads bucket/key to path on fsys, truncating an existing
// file. The parent directory of path must already exist; it is never created.
// The object is streamed through Download; the local file is only opened once
// the service has answered successfully and the first bytes arrive.
func (d *Downloader) DownloadFile(
	ctx context.Context,
	fsys billy.Filesystem,
	bucket, key, path string,
	startTime time.Time,
) (result *s3types.DownloadResult, err error) {
	if dir := filepath.Dir(path); dir != "." {
		info, statErr := fsys.Stat(dir)
		if statErr != nil {
			return nil, errors.NewObjectError("downloadFile", bucket, key,
				fmt.Errorf("download directory %s: %w", dir, statErr))
		}
		if !info.IsDir() {
			return nil, errors.NewObjectError("downloadFile", bucket, key,
				fmt.Errorf("download directory %s is not a directory", dir))
		}
	}

	dst := &lazyFile{fsys: fsys, path: path}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			result = nil
			err = errors.NewObjectError("downloadFile", bucket, key, closeErr)
		}
	}()

	n, etag, err := d.Download(ctx, bucket, key, dst)
	if err != nil {
		return nil, err
	}
	// An empty object never writes, so the file is created here.
	if openErr := dst.open(); openErr != nil {
		return nil, errors.NewObjectError("downloadFile", bucket, key, openErr)
	}

	return &s3types.DownloadResult{
		Key:      key,
		Path:     path,
		Size:     n,
		ETag:     etag,
		Duration: time.Since(startTime),
	}, nil
}

// lazyFile creates and truncates its file on the first write.
type lazyFile struct {
	fsys billy.Filesystem
	path string
	file billy.File
}

func (l *lazyFile) open() error {
	if l.file != nil {
		return nil
	}
	f, err := l.fsys.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	l.file = f
	return nil
}

func (l *lazyFile) Write(p []byte) (int, error) {
	if err := l.open(); err != nil {
		return 0, err
	}
	return l.file.Write(p)
}

func (l *lazyFile) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
