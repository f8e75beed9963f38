package upload

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	s3errors "github.com/ivandriy/AWSLab/aws/s3/errors"
	"github.com/ivandriy/AWSLab/aws/s3/internal/testutil"
	"github.com/ivandriy/AWSLab/aws/s3/s3types"
)

func TestUploader_Upload(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		key         string
		config      *s3types.UploadOptionConfig
		mockFunc    func(*testing.T, *testutil.MockS3Client)
		wantType    string
		wantErr     bool
		wantErrIs   error
		errContains string
	}{
		{
			name:    "explicit content type",
			content: "Hello, World!",
			key:     "test-key",
			config:  &s3types.UploadOptionConfig{ContentType: "text/plain"},
			mockFunc: func(t *testing.T, m *testutil.MockS3Client) {
				m.PutObjectFunc = func(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
					assert.Equal(t, "test-bucket", aws.ToString(input.Bucket))
					assert.Equal(t, "test-key", aws.ToString(input.Key))
					assert.Equal(t, "text/plain", aws.ToString(input.ContentType))
					assert.Equal(t, int64(13), aws.ToInt64(input.ContentLength))

					body, err := io.ReadAll(input.Body)
					require.NoError(t, err)
					assert.Equal(t, "Hello, World!", string(body))

					return &s3.PutObjectOutput{ETag: aws.String(`"etag"`)}, nil
				}
			},
			wantType: "text/plain",
		},
		{
			name:    "detected content type keeps body intact",
			content: `{"a":1}`,
			key:     "data.json",
			config:  &s3types.UploadOptionConfig{},
			mockFunc: func(t *testing.T, m *testutil.MockS3Client) {
				m.PutObjectFunc = func(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
					body, err := io.ReadAll(input.Body)
					require.NoError(t, err)
					assert.Equal(t, `{"a":1}`, string(body))
					return &s3.PutObjectOutput{}, nil
				}
			},
			wantType: "application/json",
		},
		{
			name:    "metadata is forwarded",
			content: "test content",
			key:     "test-key",
			config: &s3types.UploadOptionConfig{
				ContentType: "text/plain",
				Metadata:    map[string]string{"author": "test"},
			},
			mockFunc: func(t *testing.T, m *testutil.MockS3Client) {
				m.PutObjectFunc = func(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
					assert.Equal(t, "test", input.Metadata["author"])
					return &s3.PutObjectOutput{}, nil
				}
			},
			wantType: "text/plain",
		},
		{
			name:    "missing bucket is classified",
			content: "x",
			key:     "test-key",
			config:  &s3types.UploadOptionConfig{ContentType: "text/plain"},
			mockFunc: func(_ *testing.T, m *testutil.MockS3Client) {
				m.PutObjectFunc = func(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
					return nil, &awstypes.NoSuchBucket{Message: aws.String("no bucket")}
				}
			},
			wantErr:     true,
			wantErrIs:   s3errors.ErrBucketNotFound,
			errContains: "s3.upload test-bucket/test-key",
		},
		{
			name:    "generic failure passes through",
			content: "x",
			key:     "test-key",
			config:  &s3types.UploadOptionConfig{ContentType: "text/plain"},
			mockFunc: func(_ *testing.T, m *testutil.MockS3Client) {
				m.PutObjectFunc = func(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
					return nil, errors.New("connection reset")
				}
			},
			wantErr:     true,
			errContains: "connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &testutil.MockS3Client{}
			tt.mockFunc(t, mock)

			result, err := New(mock).Upload(
				context.Background(), "test-bucket", tt.key,
				strings.NewReader(tt.content), int64(len(tt.content)),
				tt.config, time.Now(),
			)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, result)
				if tt.wantErrIs != nil {
					assert.ErrorIs(t, err, tt.wantErrIs)
				}
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tt.key, result.Key)
			assert.Equal(t, int64(len(tt.content)), result.Size)
			assert.True(t, strings.HasPrefix(result.ContentType, tt.wantType), result.ContentType)
			assert.Equal(t, 1, mock.CallCount("PutObject"))
		})
	}
}

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		file    string
		want    string
	}{
		{name: "png by content", content: []byte("\x89PNG\r\n\x1a\n0000"), file: "image.bin", want: "image/png"},
		{name: "pdf by content", content: []byte("%PDF-1.4\n"), file: "doc", want: "application/pdf"},
		{name: "plain text", content: []byte("just some words"), file: "file1.txt", want: "text/plain"},
		{name: "binary falls back to extension", content: []byte{0x00, 0x01, 0x02, 0x03}, file: "style.css", want: "text/css"},
		{name: "unknown binary", content: []byte{0x00, 0x01, 0x02, 0x03}, file: "blob", want: DefaultContentType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := strings.NewReader(string(tt.content))
			got := DetectContentType(r, tt.file)
			assert.True(t, strings.HasPrefix(got, tt.want), "got %q, want prefix %q", got, tt.want)

			rest, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.content, rest, "reader must be rewound")
		})
	}
}
