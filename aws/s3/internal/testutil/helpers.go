package testutil

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
)

// GenerateRandomData generates random bytes of the specified size.
func GenerateRandomData(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(rand.Intn(256))
	}
	return data
}

// GenerateTestBucketName returns a DNS-compliant bucket name that is unique
// enough for parallel integration runs.
func GenerateTestBucketName(prefix string) string {
	name := fmt.Sprintf("%s-%d-%d", strings.ToLower(prefix), time.Now().UnixNano(), rand.Intn(10000))
	if len(name) > 63 {
		name = name[:63]
	}
	return strings.TrimRight(name, "-.")
}

// CalculateETag calculates the ETag S3 returns for a single-part upload.
func CalculateETag(data []byte) string {
	h := md5.Sum(data)
	return fmt.Sprintf(`"%x"`, h)
}

// APIError builds a service error with the given code, as the SDK surfaces it.
func APIError(code, message string) error {
	return &smithy.GenericAPIError{Code: code, Message: message}
}

// CreateTestObject creates an S3 listing entry.
func CreateTestObject(key string, size int64, lastModified time.Time) types.Object {
	return types.Object{
		Key:          aws.String(key),
		Size:         aws.Int64(size),
		LastModified: aws.Time(lastModified),
		ETag:         aws.String(CalculateETag([]byte(key))),
		StorageClass: types.ObjectStorageClassStandard,
	}
}

// CreateListObjectsV2Output creates a single, untruncated listing page.
func CreateListObjectsV2Output(bucket string, keys ...string) *s3.ListObjectsV2Output {
	out := &s3.ListObjectsV2Output{
		Name:        aws.String(bucket),
		KeyCount:    aws.Int32(int32(len(keys))),
		IsTruncated: aws.Bool(false),
	}
	for _, key := range keys {
		out.Contents = append(out.Contents, CreateTestObject(key, int64(len(key)), time.Now()))
	}
	return out
}

// CreateGetObjectOutput creates a GetObjectOutput streaming data.
func CreateGetObjectOutput(data []byte) *s3.GetObjectOutput {
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: aws.Int64(int64(len(data))),
		ETag:          aws.String(CalculateETag(data)),
		LastModified:  aws.Time(time.Now()),
	}
}

// NewMemFS returns an in-memory filesystem holding files, keyed by path.
// Directories listed in dirs are created empty.
func NewMemFS(t *testing.T, files map[string][]byte, dirs ...string) billy.Filesystem {
	t.Helper()
	fsys := memfs.New()
	for _, dir := range dirs {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	for path, data := range files {
		if err := util.WriteFile(fsys, path, data, 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return fsys
}

// ReadFile reads path from fsys, failing the test on error.
func ReadFile(t *testing.T, fsys billy.Filesystem, path string) []byte {
	t.Helper()
	data, err := util.ReadFile(fsys, path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}
