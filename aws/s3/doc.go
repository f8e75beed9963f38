// Package s3 wraps the AWS SDK v2 S3 client with the bucket and object
// operations of a basic storage workflow: bucket lifecycle, public access
// blocking, single-request upload and download of local files, single-page
// listing, batch delete, server-side copy and presigned downloads.
//
// Local files are read from and written to a go-billy filesystem, the
// working directory by default. Errors are *errors.Error values that wrap a
// sentinel where the service error code is recognised, so callers can test
// them with errors.Is.
//
// Example usage:
//
//	client, err := s3.New(ctx, s3.WithRegion("eu-west-1"))
//	if err != nil {
//	    return err
//	}
//
//	if err := client.CreateBucket(ctx, "my-bucket"); err != nil {
//	    return err
//	}
//	_, err = client.UploadFile(ctx, "my-bucket", "file.txt", "upload/file.txt")
package s3
