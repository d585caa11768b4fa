// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import "context"

// # Chapter Data Access

// Repository defines the data access contract for chapters.
type Repository interface {

	/*
		Create inserts a chapter and fills in its ID and timestamps.

		Returns:
		  - error: DUPLICATE_SEQUENCE business rule error if the book already
		    has a chapter at that sequence, database error otherwise
	*/
	Create(ctx context.Context, chapter *Chapter) error

	/*
		FindByID returns the chapter with the given ID.

		Returns:
		  - *Chapter, true: the chapter exists
		  - nil, false: no such chapter (not an error)
	*/
	FindByID(ctx context.Context, id int64) (*Chapter, bool, error)

	// FindBySequence returns the chapter occupying (bookID, sequence), if any.
	FindBySequence(ctx context.Context, bookID int64, sequence int) (*Chapter, bool, error)

	/*
		List returns a page of chapters ordered by book and sequence.

		Returns:
		  - []*Chapter: the page
		  - int: total chapters matching the filter, ignoring skip/limit
	*/
	List(ctx context.Context, filter ListFilter, skip, limit int) ([]*Chapter, int, error)

	// ListByBook returns every chapter of a book ordered by sequence.
	ListByBook(ctx context.Context, bookID int64) ([]*Chapter, error)

	/*
		Update writes the mutable fields of chapter and refreshes UpdatedAt.

		Returns:
		  - error: NOT_FOUND if the row vanished, DUPLICATE_SEQUENCE on a
		    sequence clash
	*/
	Update(ctx context.Context, chapter *Chapter) error

	// Delete removes the chapter. Returns NOT_FOUND if the row vanished.
	Delete(ctx context.Context, id int64) error
}
