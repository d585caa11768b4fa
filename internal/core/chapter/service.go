// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/apperr"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/constants"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/validate"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/pkg/textnorm"
)

const (
	FieldBookID   = "book_id"
	FieldTitle    = "title"
	FieldSequence = "sequence"
	FieldFileURL  = "file_url"
	FieldStatus   = "status"
)

// # Service Layer

// Service orchestrates the business rules for chapters.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// # Chapter Operations

/*
CreateChapter validates and stores a new chapter.

Description: The title is trimmed and NFC normalized before its length is
checked. An empty file_url is stored as null. The sequence must be free in
the book.

Returns:
  - *Chapter: the stored record with ID and timestamps
  - error: VALIDATION_ERROR, DUPLICATE_SEQUENCE or DATABASE_ERROR
*/
func (service *Service) CreateChapter(ctx context.Context, input CreateInput) (*Chapter, error) {
	chapter := &Chapter{
		BookID:   input.BookID,
		Title:    textnorm.Clean(input.Title),
		Sequence: input.Sequence,
		FileURL:  normalizeFileURL(input.FileURL),
		Status:   input.Status,
	}
	if chapter.Status == "" {
		chapter.Status = StatusPending
	}

	validator := &validate.Validator{}
	validateBookID(validator, chapter.BookID)
	validateTitle(validator, chapter.Title)
	validateSequence(validator, chapter.Sequence)
	validateFileURL(validator, chapter.FileURL)
	validateStatus(validator, chapter.Status)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.ensureSequenceFree(ctx, chapter.BookID, chapter.Sequence, 0); err != nil {
		return nil, err
	}

	if err := service.repo.Create(ctx, chapter); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "chapter_created",
		slog.Int64("chapter_id", chapter.ID),
		slog.Int64("book_id", chapter.BookID),
		slog.Int("sequence", chapter.Sequence),
	)

	return chapter, nil
}

/*
GetChapter returns the chapter with the given id.

Absence is reported through the boolean, not as an error.
*/
func (service *Service) GetChapter(ctx context.Context, id int64) (*Chapter, bool, error) {
	if id <= 0 {
		return nil, false, validate.FieldError("id", "Must be a positive integer")
	}
	return service.repo.FindByID(ctx, id)
}

/*
ListChapters returns a page of chapters ordered by (book_id, sequence).

Returns:
  - []*Chapter: the page
  - int: total matching chapters
*/
func (service *Service) ListChapters(ctx context.Context, filter ListFilter, skip, limit int) ([]*Chapter, int, error) {
	validator := &validate.Validator{}
	validator.Custom(FieldBookID, filter.BookID < 0, "Must be a positive integer")
	validator.Custom("skip", skip < 0, "Must be a non-negative integer")
	validator.Range("limit", int64(limit), 1, constants.MaxPageLimit)
	if err := validator.Err(); err != nil {
		return nil, 0, err
	}

	return service.repo.List(ctx, filter, skip, limit)
}

// ListBookChapters returns every chapter of a book ordered by sequence.
func (service *Service) ListBookChapters(ctx context.Context, bookID int64) ([]*Chapter, error) {
	if bookID <= 0 {
		return nil, validate.FieldError(FieldBookID, "Must be a positive integer")
	}
	return service.repo.ListByBook(ctx, bookID)
}

/*
UpdateChapter applies a partial update.

Description: Existence is checked first, so an unknown id is NOT_FOUND even
when the payload is also invalid. Only supplied fields are validated and
changed. The sequence rule is re-checked when the (book_id, sequence) slot
changes, ignoring the chapter itself.

Returns:
  - *Chapter: the updated record
  - error: NOT_FOUND, VALIDATION_ERROR, DUPLICATE_SEQUENCE or DATABASE_ERROR
*/
func (service *Service) UpdateChapter(ctx context.Context, id int64, input UpdateInput) (*Chapter, error) {
	chapter, found, err := service.GetChapter(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.NotFound("Chapter")
	}

	previousBook, previousSequence := chapter.BookID, chapter.Sequence
	validator := &validate.Validator{}

	if input.BookID != nil {
		chapter.BookID = *input.BookID
		validateBookID(validator, chapter.BookID)
	}
	if input.Title != nil {
		chapter.Title = textnorm.Clean(*input.Title)
		validateTitle(validator, chapter.Title)
	}
	if input.Sequence != nil {
		chapter.Sequence = *input.Sequence
		validateSequence(validator, chapter.Sequence)
	}
	if input.FileURL != nil {
		chapter.FileURL = normalizeFileURL(input.FileURL)
		validateFileURL(validator, chapter.FileURL)
	}
	if input.Status != nil {
		chapter.Status = *input.Status
		validateStatus(validator, chapter.Status)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if chapter.BookID != previousBook || chapter.Sequence != previousSequence {
		if err := service.ensureSequenceFree(ctx, chapter.BookID, chapter.Sequence, chapter.ID); err != nil {
			return nil, err
		}
	}

	if err := service.repo.Update(ctx, chapter); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "chapter_updated",
		slog.Int64("chapter_id", chapter.ID),
		slog.String("status", string(chapter.Status)),
	)

	return chapter, nil
}

/*
DeleteChapter removes a chapter.

Returns:
  - error: NOT_FOUND if absent, CHAPTER_UPLOADED while its audio is in the
    uploaded state
*/
func (service *Service) DeleteChapter(ctx context.Context, id int64) error {
	chapter, found, err := service.GetChapter(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return apperr.NotFound("Chapter")
	}

	if chapter.Status == StatusUploaded {
		return apperr.BusinessRule("CHAPTER_UPLOADED",
			"Cannot delete uploaded chapters. Please change status first.")
	}

	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}

	service.logger.InfoContext(ctx, "chapter_deleted",
		slog.Int64("chapter_id", id),
		slog.Int64("book_id", chapter.BookID),
	)

	return nil
}

// # Internal Helpers

func (service *Service) ensureSequenceFree(ctx context.Context, bookID int64, sequence int, selfID int64) error {
	existing, found, err := service.repo.FindBySequence(ctx, bookID, sequence)
	if err != nil {
		return err
	}
	if found && existing.ID != selfID {
		return duplicateSequence(bookID, sequence)
	}
	return nil
}

func normalizeFileURL(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func validateBookID(validator *validate.Validator, bookID int64) {
	validator.Positive(FieldBookID, bookID)
}

func validateTitle(validator *validate.Validator, title string) {
	length := utf8.RuneCountInString(title)
	switch {
	case textnorm.IsBlank(title):
		validator.Custom(FieldTitle, true, "Chapter title cannot be empty")
	case length < constants.MinTitleLength:
		validator.Custom(FieldTitle, true, "Chapter title must be at least 3 characters long")
	case length > constants.MaxTitleLength:
		validator.Custom(FieldTitle, true, "Chapter title must be at most 200 characters long")
	}
}

func validateSequence(validator *validate.Validator, sequence int) {
	validator.Range(FieldSequence, int64(sequence), 1, math.MaxInt32)
}

func validateFileURL(validator *validate.Validator, fileURL *string) {
	if fileURL == nil {
		return
	}
	validator.MaxLen(FieldFileURL, *fileURL, constants.MaxFileURLLength)
	validator.URL(FieldFileURL, *fileURL)
}

func validateStatus(validator *validate.Validator, status Status) {
	allowed := make([]string, len(Statuses))
	for i, s := range Statuses {
		allowed[i] = string(s)
	}
	validator.OneOf(FieldStatus, string(status), allowed...)
}
