// Command s3basics walks through the basic object storage operations against
// S3 or an S3-compatible endpoint and prints a transcript of each step.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ivandriy/AWSLab/aws/s3"
	"github.com/ivandriy/AWSLab/config"
	"github.com/ivandriy/AWSLab/driver"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "s3basics: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	opts := append(cfg.S3.ClientOptions(), s3.WithLogger(logger.With("component", "s3")))
	client, err := s3.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("creating s3 client: %w", err)
	}
	logger.DebugContext(ctx, "client ready", "region", client.Region(), "endpoint", cfg.S3.Endpoint)

	d := driver.New(client,
		driver.WithOutput(os.Stdout),
		driver.WithLogger(logger.With("component", "driver")),
	)
	d.Run(ctx, cfg.Scenario)
	return nil
}
