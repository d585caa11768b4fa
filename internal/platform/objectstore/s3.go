// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package objectstore builds the S3 client used for staged uploads.

The client talks to AWS S3 or any S3-compatible endpoint (MinIO, LocalStack).
Every call is bounded by an HTTP timeout and is attempted exactly once; a
failed storage call is reported to the caller, never retried behind its back.
*/
package objectstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const headBucketTimeout = 3 * time.Second

// Options configures [NewS3Client].
type Options struct {
	Region string
	// AccessKeyID and SecretAccessKey select static credentials; when empty
	// the default AWS credential chain is used.
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint targets an S3-compatible service and switches to path-style addressing.
	Endpoint string
	// Timeout bounds each HTTP round trip to the store.
	Timeout time.Duration
}

// NewS3Client loads the AWS configuration and returns an S3 client.
func NewS3Client(ctx context.Context, opts Options, logger *slog.Logger) (*s3.Client, error) {
	loadOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }),
		awsconfig.WithHTTPClient(awshttp.NewBuildableClient().WithTimeout(opts.Timeout)),
	}

	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		provider := credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(provider))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("objectstore: failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	logger.Info("s3_client_configured",
		slog.String("region", opts.Region),
		slog.Bool("custom_endpoint", opts.Endpoint != ""),
		slog.Bool("static_credentials", opts.AccessKeyID != ""),
		slog.Duration("timeout", opts.Timeout),
	)

	return client, nil
}

// BucketHeader is the subset of the S3 API used by [Ping].
type BucketHeader interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Ping verifies that bucket exists and is reachable with the configured credentials.
func Ping(ctx context.Context, client BucketHeader, bucket string) error {
	pingCtx, cancel := context.WithTimeout(ctx, headBucketTimeout)
	defer cancel()

	if _, err := client.HeadBucket(pingCtx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err != nil {
		return fmt.Errorf("objectstore: head bucket %s failed: %w", bucket, err)
	}
	return nil
}
