package driver

import (
	"context"
	"fmt"
	"time"
)

// Defaults for the basic operations scenario.
const (
	DefaultFirstBucket  = "firstbucketnamehere"
	DefaultSecondBucket = "secondbucketnamehere"
	DefaultFirstFile    = "file1.txt"
	DefaultSecondFile   = "file2.txt"
	DefaultLinkTTL      = 30 * time.Second
)

// Scenario names the buckets and files the basic operations run against.
type Scenario struct {
	FirstBucket  string
	SecondBucket string
	FirstFile    string
	SecondFile   string
	LinkTTL      time.Duration
}

// DefaultScenario returns the scenario with the default names.
func DefaultScenario() Scenario {
	return Scenario{
		FirstBucket:  DefaultFirstBucket,
		SecondBucket: DefaultSecondBucket,
		FirstFile:    DefaultFirstFile,
		SecondFile:   DefaultSecondFile,
		LinkTTL:      DefaultLinkTTL,
	}
}

// Step is one titled stage of a scenario.
type Step struct {
	Title string
	Run   func(ctx context.Context, d *Driver)
}

// Steps returns the stages of the scenario in execution order. Both buckets
// and the objects in them are gone once every step succeeded.
func (s Scenario) Steps() []Step {
	a, b := s.FirstBucket, s.SecondBucket
	files := []string{s.FirstFile, s.SecondFile}

	return []Step{
		{
			Title: fmt.Sprintf("Creating new bucket [%s]:", a),
			Run: func(ctx context.Context, d *Driver) {
				d.CreateBucket(ctx, a, false)
			},
		},
		{
			Title: fmt.Sprintf("Uploading files to [%s]:", a),
			Run: func(ctx context.Context, d *Driver) {
				for _, f := range files {
					d.UploadFile(ctx, a, f)
				}
				d.ShowBucketContent(ctx, a)
			},
		},
		{
			Title: fmt.Sprintf("Generate download link for file %s from bucket [%s]:", s.FirstFile, a),
			Run: func(ctx context.Context, d *Driver) {
				d.GenerateDownloadLink(ctx, a, s.FirstFile, s.LinkTTL)
			},
		},
		{
			Title: fmt.Sprintf("Downloading files from [%s]:", a),
			Run: func(ctx context.Context, d *Driver) {
				for _, f := range files {
					d.DownloadFile(ctx, a, f, f)
				}
			},
		},
		{
			Title: fmt.Sprintf("Creating second bucket [%s]:", b),
			Run: func(ctx context.Context, d *Driver) {
				d.CreateBucket(ctx, b, true)
			},
		},
		{
			Title: fmt.Sprintf("Copying files from bucket [%s] to second bucket [%s]:", a, b),
			Run: func(ctx context.Context, d *Driver) {
				for _, f := range files {
					d.CopyFile(ctx, a, b, f, f)
				}
				d.ShowBucketContent(ctx, b)
			},
		},
		{
			Title: fmt.Sprintf("Deleting files from [%s]:", a),
			Run: func(ctx context.Context, d *Driver) {
				d.DeleteFiles(ctx, a, files)
				d.ShowBucketContent(ctx, a)
			},
		},
		{
			Title: fmt.Sprintf("Deleting files from [%s]:", b),
			Run: func(ctx context.Context, d *Driver) {
				d.DeleteFiles(ctx, b, files)
				d.ShowBucketContent(ctx, b)
			},
		},
		{
			Title: fmt.Sprintf("Deleting bucket [%s]:", a),
			Run: func(ctx context.Context, d *Driver) {
				d.DeleteBucket(ctx, a)
			},
		},
		{
			Title: fmt.Sprintf("Deleting bucket [%s]:", b),
			Run: func(ctx context.Context, d *Driver) {
				d.DeleteBucket(ctx, b)
			},
		},
	}
}

// Run executes every step of s in order, printing each title first. A failed
// step never stops the ones after it.
func (d *Driver) Run(ctx context.Context, s Scenario) {
	for i, step := range s.Steps() {
		d.printf("%s\n", step.Title)
		if d.logger != nil {
			d.logger.InfoContext(ctx, "running step", "step", i+1, "title", step.Title)
		}
		step.Run(ctx, d)
	}
	d.printf("Scenario complete\n")
}
