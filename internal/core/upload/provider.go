// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upload

import (
	"context"
	"time"
)

// Provider is the object store side of a multipart upload.
//
// Implementations return [apperr.AppError] values: UPLOAD_SESSION_CLOSED when
// the store no longer knows the upload id, UPLOAD_PROVIDER_ERROR otherwise.
// Calls are attempted once and never retried.
type Provider interface {
	// Bucket names the bucket every session lives in.
	Bucket() string

	CreateMultipartUpload(ctx context.Context, key, contentType string, metadata map[string]string) (uploadID string, err error)
	PresignUploadPart(ctx context.Context, key, uploadID string, partNumber int, expires time.Duration) (url string, err error)
	// CompleteMultipartUpload expects parts sorted by part number with quoted ETags.
	CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []CompletedPart) (*CompletedUpload, error)
	AbortMultipartUpload(ctx context.Context, key, uploadID string) error
}
