package testutil

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

type memObject struct {
	data         []byte
	contentType  string
	metadata     map[string]string
	lastModified time.Time
}

type memBucket struct {
	objects     map[string]*memObject
	accessBlock *types.PublicAccessBlockConfiguration
}

// MemoryStore is the state behind NewMemoryS3. It mimics the S3 semantics the
// module relies on: bucket lifecycle, single-page listing, batch delete,
// server-side copy and public access blocks.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*memBucket
	now     func() time.Time
}

// NewMemoryS3 returns a MockS3Client whose operations are served by an
// in-memory store. Individual Func fields may still be overridden to inject
// failures.
func NewMemoryS3() (*MockS3Client, *MemoryStore) {
	store := &MemoryStore{
		buckets: make(map[string]*memBucket),
		now:     time.Now,
	}
	return &MockS3Client{
		CreateBucketFunc:         store.createBucket,
		DeleteBucketFunc:         store.deleteBucket,
		PutPublicAccessBlockFunc: store.putPublicAccessBlock,
		GetPublicAccessBlockFunc: store.getPublicAccessBlock,
		PutObjectFunc:            store.putObject,
		GetObjectFunc:            store.getObject,
		DeleteObjectsFunc:        store.deleteObjects,
		CopyObjectFunc:           store.copyObject,
		ListObjectsV2Func:        store.listObjectsV2,
	}, store
}

// HasBucket reports whether bucket exists.
func (s *MemoryStore) HasBucket(bucket string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.buckets[bucket]
	return ok
}

// Buckets returns the existing bucket names, sorted.
func (s *MemoryStore) Buckets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.buckets))
	for name := range s.buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Object returns a copy of the stored content of bucket/key.
func (s *MemoryStore) Object(bucket, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[bucket]
	if !ok {
		return nil, false
	}
	obj, ok := b.objects[key]
	if !ok {
		return nil, false
	}
	return bytes.Clone(obj.data), true
}

// ContentType returns the content type stored with bucket/key.
func (s *MemoryStore) ContentType(bucket, key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.buckets[bucket]; ok {
		if obj, ok := b.objects[key]; ok {
			return obj.contentType
		}
	}
	return ""
}

// PublicAccessBlock returns the public access block of bucket, if one was set.
func (s *MemoryStore) PublicAccessBlock(bucket string) (types.PublicAccessBlockConfiguration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[bucket]
	if !ok || b.accessBlock == nil {
		return types.PublicAccessBlockConfiguration{}, false
	}
	return *b.accessBlock, true
}

func (s *MemoryStore) bucket(name string) (*memBucket, error) {
	b, ok := s.buckets[name]
	if !ok {
		return nil, &types.NoSuchBucket{Message: aws.String("The specified bucket does not exist")}
	}
	return b, nil
}

func (s *MemoryStore) createBucket(
	_ context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options),
) (*s3.CreateBucketOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := aws.ToString(in.Bucket)
	if _, ok := s.buckets[name]; ok {
		return nil, &types.BucketAlreadyOwnedByYou{
			Message: aws.String("Your previous request to create the named bucket succeeded and you already own it."),
		}
	}
	s.buckets[name] = &memBucket{objects: make(map[string]*memObject)}
	return &s3.CreateBucketOutput{Location: aws.String("/" + name)}, nil
}

func (s *MemoryStore) deleteBucket(
	_ context.Context, in *s3.DeleteBucketInput, _ ...func(*s3.Options),
) (*s3.DeleteBucketOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := aws.ToString(in.Bucket)
	b, err := s.bucket(name)
	if err != nil {
		return nil, err
	}
	if len(b.objects) > 0 {
		return nil, &smithy.GenericAPIError{
			Code:    "BucketNotEmpty",
			Message: "The bucket you tried to delete is not empty",
		}
	}
	delete(s.buckets, name)
	return &s3.DeleteBucketOutput{}, nil
}

func (s *MemoryStore) putPublicAccessBlock(
	_ context.Context, in *s3.PutPublicAccessBlockInput, _ ...func(*s3.Options),
) (*s3.PutPublicAccessBlockOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucket(aws.ToString(in.Bucket))
	if err != nil {
		return nil, err
	}
	if in.PublicAccessBlockConfiguration == nil {
		return nil, &smithy.GenericAPIError{Code: "MalformedXML", Message: "missing configuration"}
	}
	cfg := *in.PublicAccessBlockConfiguration
	b.accessBlock = &cfg
	return &s3.PutPublicAccessBlockOutput{}, nil
}

func (s *MemoryStore) getPublicAccessBlock(
	_ context.Context, in *s3.GetPublicAccessBlockInput, _ ...func(*s3.Options),
) (*s3.GetPublicAccessBlockOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucket(aws.ToString(in.Bucket))
	if err != nil {
		return nil, err
	}
	if b.accessBlock == nil {
		return nil, &smithy.GenericAPIError{
			Code:    "NoSuchPublicAccessBlockConfiguration",
			Message: "The public access block configuration was not found",
		}
	}
	cfg := *b.accessBlock
	return &s3.GetPublicAccessBlockOutput{PublicAccessBlockConfiguration: &cfg}, nil
}

func (s *MemoryStore) putObject(
	_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	var data []byte
	if in.Body != nil {
		var err error
		if data, err = io.ReadAll(in.Body); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucket(aws.ToString(in.Bucket))
	if err != nil {
		return nil, err
	}
	b.objects[aws.ToString(in.Key)] = &memObject{
		data:         data,
		contentType:  aws.ToString(in.ContentType),
		metadata:     in.Metadata,
		lastModified: s.now(),
	}
	return &s3.PutObjectOutput{ETag: aws.String(CalculateETag(data))}, nil
}

func (s *MemoryStore) getObject(
	_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options),
) (*s3.GetObjectOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucket(aws.ToString(in.Bucket))
	if err != nil {
		return nil, err
	}
	obj, ok := b.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}
	out := CreateGetObjectOutput(bytes.Clone(obj.data))
	out.ContentType = aws.String(obj.contentType)
	out.LastModified = aws.Time(obj.lastModified)
	return out, nil
}

func (s *MemoryStore) deleteObjects(
	_ context.Context, in *s3.DeleteObjectsInput, _ ...func(*s3.Options),
) (*s3.DeleteObjectsOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucket(aws.ToString(in.Bucket))
	if err != nil {
		return nil, err
	}
	out := &s3.DeleteObjectsOutput{}
	if in.Delete == nil {
		return out, nil
	}
	for _, id := range in.Delete.Objects {
		key := aws.ToString(id.Key)
		// S3 reports absent keys as deleted.
		delete(b.objects, key)
		out.Deleted = append(out.Deleted, types.DeletedObject{Key: aws.String(key)})
	}
	return out, nil
}

func (s *MemoryStore) copyObject(
	_ context.Context, in *s3.CopyObjectInput, _ ...func(*s3.Options),
) (*s3.CopyObjectOutput, error) {
	srcBucket, srcKey, ok := strings.Cut(strings.TrimPrefix(aws.ToString(in.CopySource), "/"), "/")
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "InvalidArgument", Message: "invalid copy source"}
	}
	if unescaped, err := url.PathUnescape(srcKey); err == nil {
		srcKey = unescaped
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	src, err := s.bucket(srcBucket)
	if err != nil {
		return nil, err
	}
	obj, ok := src.objects[srcKey]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}
	dst, err := s.bucket(aws.ToString(in.Bucket))
	if err != nil {
		return nil, err
	}
	now := s.now()
	dst.objects[aws.ToString(in.Key)] = &memObject{
		data:         bytes.Clone(obj.data),
		contentType:  obj.contentType,
		metadata:     obj.metadata,
		lastModified: now,
	}
	return &s3.CopyObjectOutput{
		CopyObjectResult: &types.CopyObjectResult{
			ETag:         aws.String(CalculateETag(obj.data)),
			LastModified: aws.Time(now),
		},
	}, nil
}

func (s *MemoryStore) listObjectsV2(
	_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options),
) (*s3.ListObjectsV2Output, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucket(aws.ToString(in.Bucket))
	if err != nil {
		return nil, err
	}

	prefix := aws.ToString(in.Prefix)
	keys := make([]string, 0, len(b.objects))
	for key := range b.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	maxKeys := int(aws.ToInt32(in.MaxKeys))
	if maxKeys <= 0 || maxKeys > 1000 {
		maxKeys = 1000
	}
	truncated := len(keys) > maxKeys
	if truncated {
		keys = keys[:maxKeys]
	}

	out := &s3.ListObjectsV2Output{
		Name:        in.Bucket,
		Prefix:      in.Prefix,
		KeyCount:    aws.Int32(int32(len(keys))),
		IsTruncated: aws.Bool(truncated),
	}
	for _, key := range keys {
		obj := b.objects[key]
		out.Contents = append(out.Contents, CreateTestObject(key, int64(len(obj.data)), obj.lastModified))
	}
	return out, nil
}
