package s3

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/ivandriy/AWSLab/aws/s3/errors"
	"github.com/ivandriy/AWSLab/aws/s3/internal/s3api"
	"github.com/ivandriy/AWSLab/aws/s3/s3types"
)

// DefaultRegion is used when neither options nor the SDK chain supply a region.
const DefaultRegion = "us-east-1"

// Client represents an S3 client with configurable options.
// A Client is safe for concurrent use once constructed.
type Client struct {
	// s3Client is the underlying AWS SDK S3 client
	s3Client s3api.S3API

	// presigner signs requests without sending them
	presigner s3api.Presigner

	// region is the region requests are sent to
	region string

	// fs is the filesystem local files are read from and written to
	fs billy.Filesystem

	// logger records operations; nil disables logging
	logger *slog.Logger
}

// New creates a new S3 client with the provided options.
// Credentials come from the default AWS chain unless WithStaticCredentials
// or WithAWSConfig is given. Local paths resolve against the working
// directory unless WithFilesystem is given.
//
// Example:
//
//	client, err := s3.New(ctx,
//	    s3.WithRegion("eu-west-1"),
//	    s3.WithLogger(slog.Default()),
//	)
func New(ctx context.Context, opts ...s3types.Option) (*Client, error) {
	if ctx == nil {
		return nil, errors.NewError("client initialization", fmt.Errorf("context cannot be nil"))
	}

	clientCfg := &s3types.ClientConfig{
		MaxRetries: 3,
	}
	for _, opt := range opts {
		opt(clientCfg)
	}

	var cfg aws.Config
	if clientCfg.CustomAWSConfig != nil {
		cfg = clientCfg.CustomAWSConfig.Copy()
	} else {
		var loadOpts []func(*config.LoadOptions) error
		if clientCfg.AccessKeyID != "" {
			loadOpts = append(loadOpts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(clientCfg.AccessKeyID, clientCfg.SecretAccessKey, ""),
			))
		}
		var err error
		cfg, err = config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, errors.NewError("client initialization", err)
		}
	}

	if clientCfg.Region != "" {
		cfg.Region = clientCfg.Region
	} else if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	if clientCfg.MaxRetries > 0 {
		cfg.RetryMaxAttempts = clientCfg.MaxRetries
	}

	var s3Opts []func(*s3.Options)
	if clientCfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}
	if clientCfg.Endpoint != "" {
		endpoint := clientCfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}
	if clientCfg.Timeout > 0 {
		httpClient := awshttp.NewBuildableClient().WithTimeout(clientCfg.Timeout)
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	}

	s3Client := s3.NewFromConfig(cfg, s3Opts...)

	filesystem := clientCfg.Filesystem
	if filesystem == nil {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.NewError("client initialization", err)
		}
		filesystem = osfs.New(wd)
	}

	return &Client{
		s3Client:  s3Client,
		presigner: s3.NewPresignClient(s3Client),
		region:    cfg.Region,
		fs:        filesystem,
		logger:    clientCfg.Logger,
	}, nil
}

// NewWithClient creates a client around an existing S3API implementation.
// presigner may be nil, in which case PresignGet fails. Only the
// WithFilesystem, WithLogger and WithRegion options are honoured.
func NewWithClient(s3Client s3api.S3API, presigner s3api.Presigner, opts ...s3types.Option) *Client {
	clientCfg := &s3types.ClientConfig{}
	for _, opt := range opts {
		opt(clientCfg)
	}

	region := clientCfg.Region
	if region == "" {
		region = DefaultRegion
	}
	filesystem := clientCfg.Filesystem
	if filesystem == nil {
		filesystem = osfs.New(".")
	}

	return &Client{
		s3Client:  s3Client,
		presigner: presigner,
		region:    region,
		fs:        filesystem,
		logger:    clientCfg.Logger,
	}
}

// Region returns the region the client sends requests to.
func (c *Client) Region() string {
	return c.region
}

// Filesystem returns the filesystem local paths are resolved against.
func (c *Client) Filesystem() billy.Filesystem {
	return c.fs
}

func (c *Client) logStart(ctx context.Context, msg string, attrs ...any) {
	if c.logger != nil {
		c.logger.InfoContext(ctx, msg, attrs...)
	}
}

func (c *Client) logFailure(ctx context.Context, msg string, err error, attrs ...any) {
	if c.logger != nil {
		c.logger.ErrorContext(ctx, msg, append(attrs, "error", err)...)
	}
}
