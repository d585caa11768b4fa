// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/apperr"
)

// errCodeNoSuchUpload is what S3 answers for an upload id that was already
// completed, aborted or never existed.
const errCodeNoSuchUpload = "NoSuchUpload"

// multipartAPI is the subset of *s3.Client used by [S3Provider].
type multipartAPI interface {
	CreateMultipartUpload(ctx context.Context, params *s3.CreateMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error)
	CompleteMultipartUpload(ctx context.Context, params *s3.CompleteMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error)
	AbortMultipartUpload(ctx context.Context, params *s3.AbortMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error)
}

// partPresigner is the subset of *s3.PresignClient used by [S3Provider].
type partPresigner interface {
	PresignUploadPart(ctx context.Context, params *s3.UploadPartInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Provider implements [Provider] on an S3 bucket.
type S3Provider struct {
	client    multipartAPI
	presigner partPresigner
	bucket    string
	logger    *slog.Logger
}

// NewS3Provider constructs a new [S3Provider].
func NewS3Provider(client *s3.Client, bucket string, logger *slog.Logger) *S3Provider {
	return &S3Provider{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
		logger:    logger,
	}
}

func (provider *S3Provider) Bucket() string { return provider.bucket }

func (provider *S3Provider) CreateMultipartUpload(ctx context.Context, key, contentType string, metadata map[string]string) (string, error) {
	out, err := provider.client.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket:      aws.String(provider.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Metadata:    metadata,
	})
	if err != nil {
		return "", provider.classify(ctx, "create multipart upload", key, "", err)
	}
	if out.UploadId == nil || *out.UploadId == "" {
		return "", apperr.UploadProvider(fmt.Errorf("s3: create multipart upload for %s returned no upload id", key))
	}
	return *out.UploadId, nil
}

func (provider *S3Provider) PresignUploadPart(ctx context.Context, key, uploadID string, partNumber int, expires time.Duration) (string, error) {
	req, err := provider.presigner.PresignUploadPart(ctx, &s3.UploadPartInput{
		Bucket:     aws.String(provider.bucket),
		Key:        aws.String(key),
		UploadId:   aws.String(uploadID),
		PartNumber: aws.Int32(int32(partNumber)),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", provider.classify(ctx, "presign upload part", key, uploadID, err)
	}
	return req.URL, nil
}

func (provider *S3Provider) CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []CompletedPart) (*CompletedUpload, error) {
	completed := make([]types.CompletedPart, 0, len(parts))
	for _, part := range parts {
		completed = append(completed, types.CompletedPart{
			ETag:       aws.String(part.ETag),
			PartNumber: aws.Int32(int32(part.PartNumber)),
		})
	}

	out, err := provider.client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(provider.bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
		MultipartUpload: &types.CompletedMultipartUpload{
			Parts: completed,
		},
	})
	if err != nil {
		return nil, provider.classify(ctx, "complete multipart upload", key, uploadID, err)
	}

	return &CompletedUpload{
		Location: aws.ToString(out.Location),
		Bucket:   provider.bucket,
		Key:      key,
		ETag:     aws.ToString(out.ETag),
	}, nil
}

func (provider *S3Provider) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	_, err := provider.client.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(provider.bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
	})
	if err != nil {
		return provider.classify(ctx, "abort multipart upload", key, uploadID, err)
	}
	return nil
}

// classify maps an S3 failure onto the error taxonomy and logs the detail
// that the client will not see.
func (provider *S3Provider) classify(ctx context.Context, action, key, uploadID string, err error) error {
	cause := fmt.Errorf("s3: failed to %s: %w", action, err)

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		provider.logger.WarnContext(ctx, "s3_call_failed",
			slog.String("action", action),
			slog.String("key", key),
			slog.String("upload_id", uploadID),
			slog.String("error_code", apiErr.ErrorCode()),
			slog.String("error_message", apiErr.ErrorMessage()),
		)
		if apiErr.ErrorCode() == errCodeNoSuchUpload {
			return apperr.UploadSessionClosed(uploadID, cause)
		}
	}
	return apperr.UploadProvider(cause)
}
