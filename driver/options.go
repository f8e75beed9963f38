package driver

import (
	"io"
	"log/slog"
	"os"
)

const (
	// DefaultUploadDir is the directory files are uploaded from.
	DefaultUploadDir = "upload"
	// DefaultDownloadDir is the directory files are downloaded into.
	DefaultDownloadDir = "download"
)

// driverOptions holds configuration options for the Driver.
type driverOptions struct {
	out         io.Writer
	logger      *slog.Logger
	uploadDir   string
	downloadDir string
}

// Option is a functional option for configuring the Driver.
type Option func(*driverOptions)

// WithOutput sets where the console transcript is written. Default is stdout.
func WithOutput(out io.Writer) Option {
	return func(opts *driverOptions) {
		if out != nil {
			opts.out = out
		}
	}
}

// WithLogger configures the driver with a structured logger.
// If logger is nil, logging will be disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *driverOptions) {
		opts.logger = logger
	}
}

// WithUploadDir sets the directory, relative to the storage filesystem root,
// that UploadFile reads from.
func WithUploadDir(dir string) Option {
	return func(opts *driverOptions) {
		opts.uploadDir = dir
	}
}

// WithDownloadDir sets the directory, relative to the storage filesystem
// root, that DownloadFile writes into. The directory is never created.
func WithDownloadDir(dir string) Option {
	return func(opts *driverOptions) {
		opts.downloadDir = dir
	}
}

func defaultOptions() *driverOptions {
	return &driverOptions{
		out:         os.Stdout,
		uploadDir:   DefaultUploadDir,
		downloadDir: DefaultDownloadDir,
	}
}

func applyOptions(opts *driverOptions, options []Option) {
	for _, option := range options {
		option(opts)
	}
}
