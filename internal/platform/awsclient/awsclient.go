// Package awsclient centralizes AWS SDK configuration for the S3, Textract
// and Rekognition clients so every adapter resolves region, credentials and
// endpoint overrides the same way.
package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Options selects the region and, for local stacks (MinIO, LocalStack),
// static credentials and a base endpoint override.
type Options struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Load resolves an aws.Config from the environment plus the given options.
// Static credentials are applied only when both halves are present; otherwise
// the default provider chain runs.
func Load(ctx context.Context, opts Options) (aws.Config, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

// S3Options returns the per-client options the S3 constructors need for an
// endpoint override. Path-style addressing is required by MinIO.
func S3Options(opts Options) func(*s3.Options) {
	return func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	}
}
