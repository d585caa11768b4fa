// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package chapter manages the chapter records of narrated books.

A chapter belongs to a book, occupies a unique sequence slot within it and
tracks the processing state of its audio file:

	pending → uploaded → processed → completed

Chapters in the uploaded state cannot be deleted.
*/
package chapter

import (
	"fmt"
	"time"

	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/apperr"
)

// Status is the processing state of a chapter's audio.
type Status string

const (
	StatusPending   Status = "pending"
	StatusUploaded  Status = "uploaded"
	StatusProcessed Status = "processed"
	StatusCompleted Status = "completed"
)

// Statuses lists every valid [Status] in lifecycle order.
var Statuses = []Status{StatusPending, StatusUploaded, StatusProcessed, StatusCompleted}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Chapter is a stored chapter record.
type Chapter struct {
	ID        int64     `json:"id"`
	BookID    int64     `json:"book_id"`
	Title     string    `json:"title"`
	Sequence  int       `json:"sequence"`
	FileURL   *string   `json:"file_url"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateInput carries the fields of a new chapter.
type CreateInput struct {
	BookID   int64
	Title    string
	Sequence int
	FileURL  *string
	// Status defaults to pending when empty.
	Status Status
}

// UpdateInput carries a partial update; nil fields are left unchanged.
// A FileURL pointing at "" clears the stored URL.
type UpdateInput struct {
	BookID   *int64
	Title    *string
	Sequence *int
	FileURL  *string
	Status   *Status
}

// ListFilter narrows a chapter listing.
type ListFilter struct {
	// BookID restricts the listing to one book when non-zero.
	BookID int64
}

func duplicateSequence(bookID int64, sequence int) *apperr.AppError {
	return apperr.BusinessRule("DUPLICATE_SEQUENCE",
		fmt.Sprintf("Sequence %d already exists for book %d", sequence, bookID))
}
