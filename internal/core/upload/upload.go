// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package upload mediates staged (multipart) uploads of chapter audio.

The service never touches file bytes. A client opens a session, asks for one
presigned URL per part, sends the bytes straight to the object store, and
finally submits the part list for completion (or aborts the session).

	initiate ─► presign-part (×N) ─► complete
	    │              │
	    └──────────────┴────────────► abort

Every check on the part list runs locally before the store is contacted.
*/
package upload

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/constants"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/validate"
)

const (
	FieldFilename    = "filename"
	FieldContentType = "content_type"
	FieldKey         = "key"
	FieldUploadID    = "upload_id"
	FieldPartNumber  = "part_number"
	FieldExpiresIn   = "expires_in"
	FieldParts       = "parts"
)

// maxKeyLength is the object key limit of S3.
const maxKeyLength = 1024

// Metadata keys stored on the uploaded object.
const (
	MetaOriginalFilename = "original_filename"
	MetaUploadedBy       = "uploaded_by"
)

// AllowedContentTypes lists the audio MIME types accepted at initiation.
var AllowedContentTypes = []string{
	"audio/mpeg",
	"audio/mp3",
	"audio/wav",
	"audio/aac",
	"audio/ogg",
	"audio/flac",
	"audio/m4a",
}

var (
	filenamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
	etagPattern     = regexp.MustCompile(`^[a-fA-F0-9]{32}(-\d+)?$`)
)

// # Domain Types

// Session is the handle returned by a successful initiation.
type Session struct {
	UploadID string `json:"upload_id"`
	Key      string `json:"key"`
	Bucket   string `json:"bucket"`
}

// PresignedPart is a time-limited URL for uploading one part.
type PresignedPart struct {
	PresignedURL string    `json:"presigned_url"`
	PartNumber   int       `json:"part_number"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// CompletedPart identifies one uploaded part. The JSON names follow the
// S3 CompleteMultipartUpload vocabulary that clients already hold.
type CompletedPart struct {
	ETag       string `json:"ETag"`
	PartNumber int    `json:"PartNumber"`
}

// CompletedUpload describes the assembled object.
type CompletedUpload struct {
	Location string `json:"location"`
	Bucket   string `json:"bucket"`
	Key      string `json:"key"`
	ETag     string `json:"etag"`
}

// AbortResult confirms an abort.
type AbortResult struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	UploadID string `json:"upload_id"`
}

// # Inputs

type InitiateInput struct {
	Filename    string
	ContentType string
}

type PresignInput struct {
	Key        string
	UploadID   string
	PartNumber int
	// ExpiresIn is in seconds; nil selects the default.
	ExpiresIn *int
}

type CompleteInput struct {
	Key      string
	UploadID string
	Parts    []CompletedPart
}

type AbortInput struct {
	Key      string
	UploadID string
}

// # Validation

/*
SanitizeFilename reduces a client supplied name to its base name and checks it.

Description: Anything up to the last '/' or '\' is dropped, so directory
components never reach the object key.

Returns:
  - string: the base name
  - error: VALIDATION_ERROR when the base name is empty, too long or carries
    characters outside [A-Za-z0-9._-]
*/
func SanitizeFilename(raw string) (string, error) {
	name := raw
	if idx := strings.LastIndexAny(name, `/\`); idx >= 0 {
		name = name[idx+1:]
	}

	switch {
	case strings.TrimSpace(name) == "":
		return "", validate.FieldError(FieldFilename, "Filename cannot be empty")
	case len(name) > constants.MaxFilenameLength:
		return "", validate.FieldError(FieldFilename,
			fmt.Sprintf("Filename too long (max %d characters)", constants.MaxFilenameLength))
	case !filenamePattern.MatchString(name):
		return "", validate.FieldError(FieldFilename,
			"Filename contains invalid characters. Only alphanumeric, dots, hyphens, and underscores allowed")
	}
	return name, nil
}

// resolveContentType applies the default and checks the allow-list.
func resolveContentType(contentType string) (string, error) {
	if contentType == "" {
		return constants.DefaultContentType, nil
	}
	for _, allowed := range AllowedContentTypes {
		if contentType == allowed {
			return contentType, nil
		}
	}
	return "", validate.FieldError(FieldContentType,
		"Unsupported content type. Allowed: "+strings.Join(AllowedContentTypes, ", "))
}

// NormalizeETag strips surrounding whitespace and quotes, checks the hex
// form (with the optional "-N" multipart suffix) and returns it quoted.
func NormalizeETag(raw string) (string, error) {
	etag := strings.TrimSpace(raw)
	etag = strings.Trim(etag, `"`)
	etag = strings.TrimSpace(etag)
	if !etagPattern.MatchString(etag) {
		return "", fmt.Errorf("invalid ETag format: %q", raw)
	}
	return `"` + etag + `"`, nil
}

/*
NormalizeParts validates a completion part list and returns it in upload order.

Description: The part numbers must be exactly {1..N} for N parts, in any
submission order. Every ETag is canonicalized by [NormalizeETag].

Returns:
  - []CompletedPart: a sorted copy with quoted ETags
  - error: VALIDATION_ERROR describing the first problem found
*/
func NormalizeParts(parts []CompletedPart) ([]CompletedPart, error) {
	if len(parts) == 0 {
		return nil, validate.FieldError(FieldParts, "At least one part is required")
	}

	normalized := make([]CompletedPart, 0, len(parts))
	seen := make(map[int]struct{}, len(parts))
	for _, part := range parts {
		if part.PartNumber < constants.MinPartNumber || part.PartNumber > constants.MaxPartNumber {
			return nil, validate.FieldError(FieldParts, fmt.Sprintf("Part number must be between %d and %d",
				constants.MinPartNumber, constants.MaxPartNumber))
		}
		if _, dup := seen[part.PartNumber]; dup {
			return nil, validate.FieldError(FieldParts, fmt.Sprintf("Duplicate part number %d", part.PartNumber))
		}
		seen[part.PartNumber] = struct{}{}

		etag, err := NormalizeETag(part.ETag)
		if err != nil {
			return nil, validate.FieldError(FieldParts, fmt.Sprintf("Part %d: %s", part.PartNumber, err.Error()))
		}
		normalized = append(normalized, CompletedPart{ETag: etag, PartNumber: part.PartNumber})
	}

	sort.Slice(normalized, func(i, j int) bool {
		return normalized[i].PartNumber < normalized[j].PartNumber
	})

	// Distinct numbers starting at 1 are exactly {1..N} when the largest is N.
	if normalized[len(normalized)-1].PartNumber != len(normalized) {
		return nil, validate.FieldError(FieldParts, "Parts must be sequential starting from 1")
	}
	return normalized, nil
}

// validateSessionRef checks the key and upload_id carried by every
// follow-up call. Keys outside the upload prefix are refused so a presign
// can never address an arbitrary object in the bucket.
func validateSessionRef(validator *validate.Validator, key, uploadID string) {
	validator.Required(FieldKey, key)
	validator.Required(FieldUploadID, uploadID)
	if key != "" {
		validator.Custom(FieldKey, !strings.HasPrefix(key, constants.UploadKeyPrefix),
			"Key must be an upload key issued by /upload/initiate")
		validator.Custom(FieldKey, len(key) > maxKeyLength,
			fmt.Sprintf("Maximum %d bytes", maxKeyLength))
	}
}
