package driver

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioFiles() map[string]string {
	return map[string]string{
		DefaultFirstFile:  "first file\n",
		DefaultSecondFile: "second file\n",
	}
}

func TestDefaultScenario(t *testing.T) {
	s := DefaultScenario()
	assert.Equal(t, "firstbucketnamehere", s.FirstBucket)
	assert.Equal(t, "secondbucketnamehere", s.SecondBucket)
	assert.Equal(t, "file1.txt", s.FirstFile)
	assert.Equal(t, "file2.txt", s.SecondFile)
	assert.Equal(t, 30*time.Second, s.LinkTTL)
}

func TestScenario_Steps(t *testing.T) {
	s := Scenario{FirstBucket: "a", SecondBucket: "b", FirstFile: "f1", SecondFile: "f2", LinkTTL: time.Second}

	var titles []string
	for _, step := range s.Steps() {
		titles = append(titles, step.Title)
		assert.NotNil(t, step.Run)
	}
	assert.Equal(t, []string{
		"Creating new bucket [a]:",
		"Uploading files to [a]:",
		"Generate download link for file f1 from bucket [a]:",
		"Downloading files from [a]:",
		"Creating second bucket [b]:",
		"Copying files from bucket [a] to second bucket [b]:",
		"Deleting files from [a]:",
		"Deleting files from [b]:",
		"Deleting bucket [a]:",
		"Deleting bucket [b]:",
	}, titles)
}

func TestDriver_Run(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, scenarioFiles())

	fx.driver.Run(ctx, DefaultScenario())

	assert.Empty(t, fx.storage.buckets, "no bucket may survive the scenario")

	lines := fx.lines()
	require.Len(t, lines, 20)
	assert.Equal(t, []string{
		"Creating new bucket [firstbucketnamehere]:",
		"Uploading files to [firstbucketnamehere]:",
		"Show bucket [firstbucketnamehere] content:",
		"file1.txt",
		"file2.txt",
		"Generate download link for file file1.txt from bucket [firstbucketnamehere]:",
	}, lines[:6])
	assert.True(t, strings.HasPrefix(lines[6],
		"Pre-signed url for bucket [firstbucketnamehere] with key file1.txt is: https://"), lines[6])
	assert.Equal(t, []string{
		"Downloading files from [firstbucketnamehere]:",
		"Creating second bucket [secondbucketnamehere]:",
		"Copying files from bucket [firstbucketnamehere] to second bucket [secondbucketnamehere]:",
		"Show bucket [secondbucketnamehere] content:",
		"file1.txt",
		"file2.txt",
		"Deleting files from [firstbucketnamehere]:",
		"Bucket [firstbucketnamehere] is empty",
		"Deleting files from [secondbucketnamehere]:",
		"Bucket [secondbucketnamehere] is empty",
		"Deleting bucket [firstbucketnamehere]:",
		"Deleting bucket [secondbucketnamehere]:",
		"Scenario complete",
	}, lines[7:20])

	for _, name := range []string{DefaultFirstFile, DefaultSecondFile} {
		got, err := fx.fsys.Open(DefaultDownloadDir + "/" + name)
		require.NoError(t, err)
		require.NoError(t, got.Close())
	}
	assert.Equal(t, 1, fx.storage.count("PutPublicAccessBlock"))
	assert.Equal(t, 2, fx.storage.count("DeleteMany"))
}

func TestDriver_Run_ContinuesAfterFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fixture)
	}{
		{
			name: "first bucket cannot be created",
			setup: func(fx *fixture) {
				fx.storage.fail["CreateBucket"] = errors.New("AccessDenied: Access Denied")
			},
		},
		{
			name: "every listing fails",
			setup: func(fx *fixture) {
				fx.storage.fail["List"] = errors.New("InternalError: try again")
			},
		},
		{
			name: "upload files are missing",
			setup: func(fx *fixture) {
				require.NoError(t, fx.fsys.Remove(DefaultUploadDir+"/"+DefaultFirstFile))
				require.NoError(t, fx.fsys.Remove(DefaultUploadDir+"/"+DefaultSecondFile))
			},
		},
		{
			name: "download directory is missing",
			setup: func(fx *fixture) {
				fx.storage.fail["DownloadFile"] = errors.New("download directory download: file does not exist")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t, scenarioFiles())
			tt.setup(fx)
			s := DefaultScenario()

			require.NotPanics(t, func() {
				fx.driver.Run(context.Background(), s)
			})

			out := fx.out.String()
			for _, step := range s.Steps() {
				assert.Contains(t, out, step.Title+"\n")
			}
			assert.True(t, strings.HasSuffix(out, "Scenario complete\n"))
			assert.Contains(t, out, "Exception while ")
			assert.Empty(t, fx.storage.buckets)
		})
	}
}

func TestDriver_Run_ExistingBucketIsReported(t *testing.T) {
	fx := newFixture(t, scenarioFiles())
	require.NoError(t, fx.storage.CreateBucket(context.Background(), DefaultFirstBucket))

	fx.driver.Run(context.Background(), DefaultScenario())

	lines := fx.lines()
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "Creating new bucket [firstbucketnamehere]:", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Exception while creating new bucket: "), lines[1])
	assert.Empty(t, fx.storage.buckets)
}
