package download

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	s3errors "github.com/ivandriy/AWSLab/aws/s3/errors"
	"github.com/ivandriy/AWSLab/aws/s3/internal/testutil"
)

func TestDownloader_Download(t *testing.T) {
	mock := &testutil.MockS3Client{
		GetObjectFunc: func(_ context.Context, input *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			assert.Equal(t, "test-bucket", aws.ToString(input.Bucket))
			assert.Equal(t, "test-key", aws.ToString(input.Key))
			return testutil.CreateGetObjectOutput([]byte("streamed content")), nil
		},
	}

	var buf bytes.Buffer
	n, etag, err := New(mock).Download(context.Background(), "test-bucket", "test-key", &buf)

	require.NoError(t, err)
	assert.Equal(t, int64(16), n)
	assert.Equal(t, "streamed content", buf.String())
	assert.Equal(t, testutil.CalculateETag([]byte("streamed content")), etag)
}

func TestDownloader_DownloadFile(t *testing.T) {
	content := []byte("object body")

	tests := []struct {
		name      string
		files     map[string][]byte
		dirs      []string
		path      string
		getErr    error
		wantErr   bool
		wantErrIs error
		wantGet   int
	}{
		{
			name:    "writes new file",
			dirs:    []string{"download"},
			path:    "download/file1.txt",
			wantGet: 1,
		},
		{
			name:    "overwrites existing longer file",
			files:   map[string][]byte{"download/file1.txt": []byte("previous content that is much longer")},
			path:    "download/file1.txt",
			wantGet: 1,
		},
		{
			name:    "missing directory is not created",
			path:    "download/file1.txt",
			wantErr: true,
			wantGet: 0,
		},
		{
			name:    "parent is a file",
			files:   map[string][]byte{"download": []byte("not a dir")},
			path:    "download/file1.txt",
			wantErr: true,
			wantGet: 0,
		},
		{
			name:      "service error leaves no file",
			dirs:      []string{"download"},
			path:      "download/file1.txt",
			getErr:    &awstypes.NoSuchKey{Message: aws.String("missing")},
			wantErr:   true,
			wantErrIs: s3errors.ErrObjectNotFound,
			wantGet:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := testutil.NewMemFS(t, tt.files, tt.dirs...)
			mock := &testutil.MockS3Client{
				GetObjectFunc: func(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
					if tt.getErr != nil {
						return nil, tt.getErr
					}
					return testutil.CreateGetObjectOutput(content), nil
				},
			}

			result, err := New(mock).DownloadFile(
				context.Background(), fsys, "test-bucket", "file1.txt", tt.path, time.Now(),
			)
			assert.Equal(t, tt.wantGet, mock.CallCount("GetObject"))

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, result)
				if tt.wantErrIs != nil {
					assert.ErrorIs(t, err, tt.wantErrIs)
				}
				if _, statErr := fsys.Stat(tt.path); statErr == nil && tt.files[tt.path] == nil {
					t.Fatalf("file %s must not exist after a failed download", tt.path)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(len(content)), result.Size)
			assert.Equal(t, tt.path, result.Path)
			assert.Equal(t, content, testutil.ReadFile(t, fsys, tt.path))
		})
	}
}

func TestDownloader_DownloadFile_EmptyObjectTruncates(t *testing.T) {
	fsys := testutil.NewMemFS(t, map[string][]byte{"download/file1.txt": []byte("stale content")})
	mock := &testutil.MockS3Client{
		GetObjectFunc: func(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			return testutil.CreateGetObjectOutput(nil), nil
		},
	}

	result, err := New(mock).DownloadFile(
		context.Background(), fsys, "test-bucket", "file1.txt", "download/file1.txt", time.Now(),
	)

	require.NoError(t, err)
	assert.Zero(t, result.Size)
	assert.Equal(t, testutil.CalculateETag(nil), result.ETag)
	assert.Empty(t, testutil.ReadFile(t, fsys, "download/file1.txt"))
}

func TestDownloader_DownloadFile_EmptyObjectCreatesFile(t *testing.T) {
	fsys := testutil.NewMemFS(t, nil, "download")
	mock := &testutil.MockS3Client{
		GetObjectFunc: func(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			return testutil.CreateGetObjectOutput([]byte{}), nil
		},
	}

	_, err := New(mock).DownloadFile(
		context.Background(), fsys, "test-bucket", "file1.txt", "download/empty.txt", time.Now(),
	)

	require.NoError(t, err)
	info, err := fsys.Stat("download/empty.txt")
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}
