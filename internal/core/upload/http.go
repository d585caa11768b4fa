// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upload

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/request"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer for staged uploads.
type Handler struct {
	service *Service
}

// NewHandler constructs a new upload [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the /upload endpoints behind guard.
func (handler *Handler) RegisterRoutes(router chi.Router, guard func(http.Handler) http.Handler) {
	router.Route("/upload", func(upload chi.Router) {
		upload.Use(guard)
		upload.Post("/initiate", handler.InitiateUpload)
		upload.Post("/presign-part", handler.PresignPart)
		upload.Post("/complete", handler.CompleteUpload)
		upload.Post("/abort", handler.AbortUpload)
	})
}

type initiateRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

/*
POST /upload/initiate.

Response:
  - 201: Session: {upload_id, key, bucket}
  - 400: ErrValidation: Bad filename or content type
  - 500: UPLOAD_PROVIDER_ERROR
*/
func (handler *Handler) InitiateUpload(writer http.ResponseWriter, request *http.Request) {
	var input initiateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.InitiateUpload(request.Context(), InitiateInput{
		Filename:    input.Filename,
		ContentType: input.ContentType,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, session)
}

type presignRequest struct {
	Key        string `json:"key"`
	UploadID   string `json:"upload_id"`
	PartNumber int    `json:"part_number"`
	ExpiresIn  *int   `json:"expires_in"`
}

/*
POST /upload/presign-part.

Request:
  - expires_in: int seconds (60..604800, default 3600)

Response:
  - 200: PresignedPart: {presigned_url, part_number, expires_at}
  - 400: ErrValidation
  - 409: UPLOAD_SESSION_CLOSED
*/
func (handler *Handler) PresignPart(writer http.ResponseWriter, request *http.Request) {
	var input presignRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	part, err := handler.service.PresignPart(request.Context(), PresignInput{
		Key:        input.Key,
		UploadID:   input.UploadID,
		PartNumber: input.PartNumber,
		ExpiresIn:  input.ExpiresIn,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, part)
}

type completeRequest struct {
	Key      string          `json:"key"`
	UploadID string          `json:"upload_id"`
	Parts    []CompletedPart `json:"parts"`
}

/*
POST /upload/complete.

Request:
  - parts: [{ETag, PartNumber}] covering 1..N in any order

Response:
  - 200: CompletedUpload: {location, bucket, key, etag}
  - 400: ErrValidation: Gaps, duplicates or malformed ETags
  - 409: UPLOAD_SESSION_CLOSED
*/
func (handler *Handler) CompleteUpload(writer http.ResponseWriter, request *http.Request) {
	var input completeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.CompleteUpload(request.Context(), CompleteInput{
		Key:      input.Key,
		UploadID: input.UploadID,
		Parts:    input.Parts,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

type abortRequest struct {
	Key      string `json:"key"`
	UploadID string `json:"upload_id"`
}

/*
POST /upload/abort.

Response:
  - 200: AbortResult: {status, message, upload_id}
  - 409: UPLOAD_SESSION_CLOSED: The session already ended
*/
func (handler *Handler) AbortUpload(writer http.ResponseWriter, request *http.Request) {
	var input abortRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.AbortUpload(request.Context(), AbortInput{
		Key:      input.Key,
		UploadID: input.UploadID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}
