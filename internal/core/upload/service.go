// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upload

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/apperr"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/constants"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/ctxutil"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/validate"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/pkg/uuid"
)

// # Service Layer

// Service validates upload requests and forwards them to the [Provider].
type Service struct {
	provider Provider
	ledger   SessionLedger
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs a new [Service]. The ledger may be nil, in which
// case every follow-up call goes straight to the provider.
func NewService(provider Provider, ledger SessionLedger, logger *slog.Logger) *Service {
	return &Service{
		provider: provider,
		ledger:   ledger,
		logger:   logger,
		now:      time.Now,
	}
}

// # Session Operations

/*
InitiateUpload opens a multipart session for one audio file.

Description: The filename is reduced to its base name and validated. The
object key is "uploads/<random uuid>-<filename>", so two sessions for the
same file never share a key. The original name and the caller are stored as
object metadata.

Returns:
  - *Session: upload_id, key and bucket
  - error: VALIDATION_ERROR or UPLOAD_PROVIDER_ERROR
*/
func (service *Service) InitiateUpload(ctx context.Context, input InitiateInput) (*Session, error) {
	filename, err := SanitizeFilename(input.Filename)
	if err != nil {
		return nil, err
	}
	contentType, err := resolveContentType(input.ContentType)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s%s-%s", constants.UploadKeyPrefix, uuid.Random(), filename)
	caller := ctxutil.CallerID(ctx)

	metadata := map[string]string{MetaOriginalFilename: filename}
	if caller != "" {
		metadata[MetaUploadedBy] = caller
	}

	uploadID, err := service.provider.CreateMultipartUpload(ctx, key, contentType, metadata)
	if err != nil {
		return nil, err
	}

	if service.ledger != nil {
		record := SessionRecord{UploadID: uploadID, Key: key, ContentType: contentType, OpenedBy: caller}
		if err := service.ledger.Open(ctx, record); err != nil {
			service.ledgerFailed(ctx, "open", uploadID, err)
		}
	}

	service.logger.InfoContext(ctx, "upload_initiated",
		slog.String("upload_id", uploadID),
		slog.String("key", key),
		slog.String("content_type", contentType),
	)

	return &Session{UploadID: uploadID, Key: key, Bucket: service.provider.Bucket()}, nil
}

/*
PresignPart issues a URL for uploading one part directly to the store.

Description: expires_in is in seconds and defaults to one hour. The reply
carries the absolute expiry so clients can refresh before it lapses.

Returns:
  - *PresignedPart: URL, part number and expiry
  - error: VALIDATION_ERROR, UPLOAD_SESSION_CLOSED or UPLOAD_PROVIDER_ERROR
*/
func (service *Service) PresignPart(ctx context.Context, input PresignInput) (*PresignedPart, error) {
	expiresIn := constants.DefaultPresignExpiry
	if input.ExpiresIn != nil {
		expiresIn = *input.ExpiresIn
	}

	validator := &validate.Validator{}
	validateSessionRef(validator, input.Key, input.UploadID)
	validator.Range(FieldPartNumber, int64(input.PartNumber), constants.MinPartNumber, constants.MaxPartNumber)
	validator.Range(FieldExpiresIn, int64(expiresIn), constants.MinPresignExpiry, constants.MaxPresignExpiry)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.checkSession(ctx, input.Key, input.UploadID); err != nil {
		return nil, err
	}

	expires := time.Duration(expiresIn) * time.Second
	issuedAt := service.now()

	url, err := service.provider.PresignUploadPart(ctx, input.Key, input.UploadID, input.PartNumber, expires)
	if err != nil {
		return nil, err
	}

	return &PresignedPart{
		PresignedURL: url,
		PartNumber:   input.PartNumber,
		ExpiresAt:    issuedAt.Add(expires).UTC().Truncate(time.Second),
	}, nil
}

/*
CompleteUpload assembles the uploaded parts into the final object.

Description: The part list is checked and sorted locally; a list that is not
exactly {1..N} or carries a malformed ETag never reaches the store. The
store's location and ETag are returned unmodified.

Returns:
  - *CompletedUpload: location, bucket, key and etag
  - error: VALIDATION_ERROR, UPLOAD_SESSION_CLOSED or UPLOAD_PROVIDER_ERROR
*/
func (service *Service) CompleteUpload(ctx context.Context, input CompleteInput) (*CompletedUpload, error) {
	validator := &validate.Validator{}
	validateSessionRef(validator, input.Key, input.UploadID)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	parts, err := NormalizeParts(input.Parts)
	if err != nil {
		return nil, err
	}

	if err := service.checkSession(ctx, input.Key, input.UploadID); err != nil {
		return nil, err
	}

	result, err := service.provider.CompleteMultipartUpload(ctx, input.Key, input.UploadID, parts)
	if err != nil {
		return nil, err
	}

	service.closeSession(ctx, input.UploadID, input.Key, StateCompleted)

	service.logger.InfoContext(ctx, "upload_completed",
		slog.String("upload_id", input.UploadID),
		slog.String("key", input.Key),
		slog.Int("parts", len(parts)),
	)

	return result, nil
}

/*
AbortUpload discards a session and the parts uploaded so far.

Description: Aborting a session that already ended is reported as
UPLOAD_SESSION_CLOSED rather than silently accepted.

Returns:
  - *AbortResult: confirmation
  - error: VALIDATION_ERROR, UPLOAD_SESSION_CLOSED or UPLOAD_PROVIDER_ERROR
*/
func (service *Service) AbortUpload(ctx context.Context, input AbortInput) (*AbortResult, error) {
	validator := &validate.Validator{}
	validateSessionRef(validator, input.Key, input.UploadID)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.checkSession(ctx, input.Key, input.UploadID); err != nil {
		return nil, err
	}

	if err := service.provider.AbortMultipartUpload(ctx, input.Key, input.UploadID); err != nil {
		return nil, err
	}

	service.closeSession(ctx, input.UploadID, input.Key, StateAborted)

	service.logger.InfoContext(ctx, "upload_aborted",
		slog.String("upload_id", input.UploadID),
		slog.String("key", input.Key),
	)

	return &AbortResult{
		Status:   string(StateAborted),
		Message:  fmt.Sprintf("Upload %s has been successfully aborted", input.UploadID),
		UploadID: input.UploadID,
	}, nil
}

// # Ledger Helpers

// checkSession refuses calls on sessions the ledger knows to be finished or
// bound to another key. Ledger outages are logged and the call proceeds.
func (service *Service) checkSession(ctx context.Context, key, uploadID string) error {
	if service.ledger == nil {
		return nil
	}

	record, found, err := service.ledger.Lookup(ctx, uploadID)
	if err != nil {
		service.ledgerFailed(ctx, "lookup", uploadID, err)
		return nil
	}
	if !found {
		return nil
	}

	if record.Key != "" && record.Key != key {
		return validate.FieldError(FieldKey, "Key does not belong to this upload")
	}
	if record.State.Terminal() {
		return apperr.UploadSessionClosed(uploadID, fmt.Errorf("upload session already %s", record.State))
	}
	return nil
}

func (service *Service) closeSession(ctx context.Context, uploadID, key string, state SessionState) {
	if service.ledger == nil {
		return
	}
	if err := service.ledger.Close(ctx, uploadID, key, state); err != nil {
		service.ledgerFailed(ctx, "close", uploadID, err)
	}
}

func (service *Service) ledgerFailed(ctx context.Context, action, uploadID string, err error) {
	service.logger.WarnContext(ctx, "upload_ledger_unavailable",
		slog.String("action", action),
		slog.String("upload_id", uploadID),
		slog.Any("error", err),
	)
}
