package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"bucket and key", NewObjectError("uploadFile", "bkt", "a.txt", base), "s3.uploadFile bkt/a.txt: boom"},
		{"bucket only", NewBucketError("createBucket", "bkt", base), "s3.createBucket bucket bkt: boom"},
		{"key only", NewError("validateObjectKey", base).WithKey("a.txt"), "s3.validateObjectKey object a.txt: boom"},
		{"bare", NewError("list", base), "s3.list: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, base)
		})
	}
}

func TestError_WithMessage(t *testing.T) {
	err := NewError("copy", ErrInvalidInput).WithBucket("bkt").WithMessage("cannot copy object to itself")

	assert.True(t, IsInvalidInput(err))
	assert.Equal(t, "s3.copy bucket bkt: cannot copy object to itself: s3: invalid input", err.Error())
}

func TestFromAWS(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"typed no such bucket", &types.NoSuchBucket{Message: strPtr("gone")}, ErrBucketNotFound},
		{"typed no such key", &types.NoSuchKey{}, ErrObjectNotFound},
		{"typed already exists", &types.BucketAlreadyExists{}, ErrBucketAlreadyExists},
		{"owned by you", &smithy.GenericAPIError{Code: "BucketAlreadyOwnedByYou"}, ErrBucketAlreadyExists},
		{"not empty", &smithy.GenericAPIError{Code: "BucketNotEmpty"}, ErrBucketNotEmpty},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, ErrAccessDenied},
		{"wrapped", fmt.Errorf("operation error S3: %w", &smithy.GenericAPIError{Code: "NoSuchBucket"}), ErrBucketNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromAWS(tt.err)
			assert.ErrorIs(t, got, tt.sentinel)
			assert.ErrorIs(t, got, tt.err)
			assert.Contains(t, got.Error(), tt.err.Error())
		})
	}
}

func TestFromAWS_Passthrough(t *testing.T) {
	assert.NoError(t, FromAWS(nil))

	plain := errors.New("dial tcp: connection refused")
	assert.Same(t, plain, FromAWS(plain))

	unknown := &smithy.GenericAPIError{Code: "SlowDown"}
	assert.Equal(t, error(unknown), FromAWS(unknown))
	assert.Equal(t, "SlowDown", Code(unknown))
	assert.Empty(t, Code(plain))
}

func TestError_ServiceCode(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "classified service error",
			err:  NewBucketError("deleteBucket", "firstbucketnamehere", FromAWS(&smithy.GenericAPIError{Code: "BucketNotEmpty"})),
			want: "BucketNotEmpty",
		},
		{
			name: "typed SDK error",
			err:  NewObjectError("downloadFile", "bkt", "file1.txt", FromAWS(&types.NoSuchKey{Message: strPtr("missing")})),
			want: "NoSuchKey",
		},
		{
			name: "validation failure",
			err:  NewError("presignGet", ErrInvalidInput).WithMessage("expiry must not be negative"),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.ServiceCode())
		})
	}
}

func strPtr(s string) *string { return &s }
