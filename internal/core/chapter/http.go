// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/apperr"
	requestutil "github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/request"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/respond"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/validate"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for chapter management.
type Handler struct {
	service *Service
}

// NewHandler constructs a new chapter [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the /chapters endpoints. Mutating routes are wrapped
// in guard, which enforces authentication when it is enabled.
func (handler *Handler) RegisterRoutes(router chi.Router, guard func(http.Handler) http.Handler) {
	router.Route("/chapters", func(chapters chi.Router) {
		chapters.Get("/", handler.ListChapters)
		chapters.Get("/book/{bookID}", handler.ListBookChapters)
		chapters.Get("/{id}", handler.GetChapter)

		chapters.Group(func(write chi.Router) {
			write.Use(guard)
			write.Post("/", handler.CreateChapter)
			write.Patch("/{id}", handler.UpdateChapter)
			write.Put("/{id}", handler.UpdateChapter)
			write.Delete("/{id}", handler.DeleteChapter)
		})
	})
}

// # Chapter Retrieval

/*
GET /chapters/.

Description: Returns a page of chapters ordered by book and sequence.

Request:
  - skip: int (default 0)
  - limit: int (1..1000, default 100)
  - book_id: int (optional filter)

Response:
  - 200: []Chapter, total in X-Total-Count
  - 400: ErrValidation: Bad paging or filter values
*/
func (handler *Handler) ListChapters(writer http.ResponseWriter, request *http.Request) {
	page, err := pagination.FromRequest(request)
	if err != nil {
		var perr *pagination.Error
		if errors.As(err, &perr) {
			err = validate.FieldError(perr.Param, perr.Message)
		}
		respond.Error(writer, request, err)
		return
	}

	bookID, present, err := requestutil.QueryInt64(request, FieldBookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if present && bookID <= 0 {
		respond.Error(writer, request, validate.FieldError(FieldBookID, "Must be a positive integer"))
		return
	}

	chapters, total, err := handler.service.ListChapters(request.Context(), ListFilter{BookID: bookID}, page.Skip, page.Limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.List(writer, chapters, total)
}

/*
GET /chapters/{id}.

Response:
  - 200: Chapter
  - 400: ErrValidation: Non-numeric id
  - 404: ErrNotFound: Chapter not found
*/
func (handler *Handler) GetChapter(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.PositiveIDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapter, found, err := handler.service.GetChapter(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if !found {
		respond.Error(writer, request, apperr.NotFound("Chapter"))
		return
	}

	respond.OK(writer, chapter)
}

/*
GET /chapters/book/{bookID}.

Response:
  - 200: []Chapter ordered by sequence (empty for unknown books)
  - 400: ErrValidation: Non-numeric book id
*/
func (handler *Handler) ListBookChapters(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.PositiveIDParam(request, "bookID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapters, err := handler.service.ListBookChapters(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.List(writer, chapters, len(chapters))
}

// # Chapter Mutation

// createChapterRequest defines the inbound JSON schema for chapter creation.
type createChapterRequest struct {
	BookID   int64   `json:"book_id"`
	Title    string  `json:"title"`
	Sequence int     `json:"sequence"`
	FileURL  *string `json:"file_url"`
	Status   Status  `json:"status"`
}

/*
POST /chapters/.

Response:
  - 201: Chapter: Created record
  - 400: ErrValidation / DUPLICATE_SEQUENCE
*/
func (handler *Handler) CreateChapter(writer http.ResponseWriter, request *http.Request) {
	var input createChapterRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapter, err := handler.service.CreateChapter(request.Context(), CreateInput{
		BookID:   input.BookID,
		Title:    input.Title,
		Sequence: input.Sequence,
		FileURL:  input.FileURL,
		Status:   input.Status,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, chapter)
}

// updateChapterRequest defines the inbound JSON schema for partial updates.
type updateChapterRequest struct {
	BookID   *int64  `json:"book_id"`
	Title    *string `json:"title"`
	Sequence *int    `json:"sequence"`
	FileURL  *string `json:"file_url"`
	Status   *Status `json:"status"`
}

/*
PATCH /chapters/{id} (PUT is accepted as an alias).

Description: Only the fields present in the body change.

Response:
  - 200: Chapter: Updated record
  - 400: ErrValidation / DUPLICATE_SEQUENCE
  - 404: ErrNotFound: Chapter not found
*/
func (handler *Handler) UpdateChapter(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.PositiveIDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateChapterRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapter, err := handler.service.UpdateChapter(request.Context(), id, UpdateInput{
		BookID:   input.BookID,
		Title:    input.Title,
		Sequence: input.Sequence,
		FileURL:  input.FileURL,
		Status:   input.Status,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, chapter)
}

/*
DELETE /chapters/{id}.

Response:
  - 204: Deleted
  - 400: CHAPTER_UPLOADED: Chapter audio is in the uploaded state
  - 404: ErrNotFound: Chapter not found
*/
func (handler *Handler) DeleteChapter(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.PositiveIDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteChapter(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
