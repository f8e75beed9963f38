package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivandriy/AWSLab/driver"
)

var allEnv = []string{
	EnvFirstBucket, EnvSecondBucket, EnvFirstFile, EnvSecondFile, EnvLinkTTL, EnvLogLevel,
	EnvEndpoint, EnvRegion, EnvForcePathStyle, EnvAccessKey, EnvSecretKey,
}

// clearEnv blanks every variable Load reads; empty values count as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allEnv {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, driver.DefaultScenario(), cfg.Scenario)
	assert.Equal(t, S3{}, cfg.S3)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Empty(t, cfg.S3.ClientOptions())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvFirstBucket, "alpha-bucket")
	t.Setenv(EnvSecondBucket, "beta-bucket")
	t.Setenv(EnvFirstFile, "a.png")
	t.Setenv(EnvSecondFile, "b.pdf")
	t.Setenv(EnvLinkTTL, "2m")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvEndpoint, "http://localhost:4566")
	t.Setenv(EnvRegion, "eu-west-1")
	t.Setenv(EnvForcePathStyle, "true")
	t.Setenv(EnvAccessKey, "test")
	t.Setenv(EnvSecretKey, "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, driver.Scenario{
		FirstBucket:  "alpha-bucket",
		SecondBucket: "beta-bucket",
		FirstFile:    "a.png",
		SecondFile:   "b.pdf",
		LinkTTL:      2 * time.Minute,
	}, cfg.Scenario)
	assert.Equal(t, S3{
		Endpoint:        "http://localhost:4566",
		Region:          "eu-west-1",
		ForcePathStyle:  true,
		AccessKeyID:     "test",
		SecretAccessKey: "secret",
	}, cfg.S3)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Len(t, cfg.S3.ClientOptions(), 4)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "bad duration",
			env:     map[string]string{EnvLinkTTL: "soon"},
			wantErr: EnvLinkTTL,
		},
		{
			name:    "bad bool",
			env:     map[string]string{EnvForcePathStyle: "maybe"},
			wantErr: EnvForcePathStyle,
		},
		{
			name:    "bad level",
			env:     map[string]string{EnvLogLevel: "loud"},
			wantErr: EnvLogLevel,
		},
		{
			name:    "access key without secret",
			env:     map[string]string{EnvAccessKey: "test"},
			wantErr: "must be set together",
		},
		{
			name:    "secret without access key",
			env:     map[string]string{EnvSecretKey: "secret"},
			wantErr: "must be set together",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_NegativeTTLIsKept(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLinkTTL, "-5s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, -5*time.Second, cfg.Scenario.LinkTTL)
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
	})

	t.Run("sets unset variables only", func(t *testing.T) {
		clearEnv(t)
		require.NoError(t, os.Unsetenv(EnvFirstBucket))
		t.Setenv(EnvSecondBucket, "from-env")

		path := filepath.Join(t.TempDir(), ".env")
		content := EnvFirstBucket + "=from-file\n" + EnvSecondBucket + "=ignored\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		require.NoError(t, LoadDotEnv(path))

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "from-file", cfg.Scenario.FirstBucket)
		assert.Equal(t, "from-env", cfg.Scenario.SecondBucket)
	})
}
