// Package config loads program settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ivandriy/AWSLab/aws/s3"
	"github.com/ivandriy/AWSLab/aws/s3/s3types"
	"github.com/ivandriy/AWSLab/driver"
)

// Environment variables read by Load.
const (
	EnvFirstBucket    = "S3BASICS_FIRST_BUCKET"
	EnvSecondBucket   = "S3BASICS_SECOND_BUCKET"
	EnvFirstFile      = "S3BASICS_FIRST_FILE"
	EnvSecondFile     = "S3BASICS_SECOND_FILE"
	EnvLinkTTL        = "S3BASICS_LINK_TTL"
	EnvLogLevel       = "S3BASICS_LOG_LEVEL"
	EnvEndpoint       = "S3_ENDPOINT"
	EnvRegion         = "S3_REGION"
	EnvForcePathStyle = "S3_FORCE_PATH_STYLE"
	EnvAccessKey      = "S3_ACCESS_KEY"
	EnvSecretKey      = "S3_SECRET_KEY"
)

// DefaultLogLevel keeps the log stream quiet unless something fails.
const DefaultLogLevel = slog.LevelWarn

type (
	// S3 holds storage client settings. Empty values defer to the AWS SDK
	// default chain.
	S3 struct {
		Endpoint        string
		Region          string
		ForcePathStyle  bool
		AccessKeyID     string
		SecretAccessKey string
	}

	// Config is the complete program configuration.
	Config struct {
		Scenario driver.Scenario
		S3       S3
		LogLevel slog.Level
	}
)

// LoadDotEnv sets variables from the dotenv file at path without overriding
// variables already present. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load reads the configuration from the environment. Unset variables take
// their defaults; malformed values are errors.
func Load() (Config, error) {
	cfg := Config{
		Scenario: driver.Scenario{
			FirstBucket:  getEnv(EnvFirstBucket, driver.DefaultFirstBucket),
			SecondBucket: getEnv(EnvSecondBucket, driver.DefaultSecondBucket),
			FirstFile:    getEnv(EnvFirstFile, driver.DefaultFirstFile),
			SecondFile:   getEnv(EnvSecondFile, driver.DefaultSecondFile),
			LinkTTL:      driver.DefaultLinkTTL,
		},
		S3: S3{
			Endpoint:        getEnv(EnvEndpoint, ""),
			Region:          getEnv(EnvRegion, ""),
			AccessKeyID:     getEnv(EnvAccessKey, ""),
			SecretAccessKey: getEnv(EnvSecretKey, ""),
		},
		LogLevel: DefaultLogLevel,
	}

	var errs []error
	if v := getEnv(EnvLinkTTL, ""); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvLinkTTL, err))
		}
		cfg.Scenario.LinkTTL = ttl
	}
	if v := getEnv(EnvForcePathStyle, ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvForcePathStyle, err))
		}
		cfg.S3.ForcePathStyle = b
	}
	if v := getEnv(EnvLogLevel, ""); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(strings.ToUpper(v))); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvLogLevel, err))
		}
	}
	if (cfg.S3.AccessKeyID == "") != (cfg.S3.SecretAccessKey == "") {
		errs = append(errs, fmt.Errorf("%s and %s must be set together", EnvAccessKey, EnvSecretKey))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ClientOptions translates the storage settings into client options.
func (c S3) ClientOptions() []s3types.Option {
	var opts []s3types.Option
	if c.Region != "" {
		opts = append(opts, s3.WithRegion(c.Region))
	}
	if c.Endpoint != "" {
		opts = append(opts, s3.WithEndpoint(c.Endpoint))
	}
	if c.ForcePathStyle {
		opts = append(opts, s3.WithForcePathStyle(true))
	}
	if c.AccessKeyID != "" {
		opts = append(opts, s3.WithStaticCredentials(c.AccessKeyID, c.SecretAccessKey))
	}
	return opts
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
