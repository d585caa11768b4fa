// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/apperr"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/database/schema"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/dberr"
)

// # PostgreSQL Repository

// chapterRepository implements [Repository] using pgx.
type chapterRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed chapter store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &chapterRepository{pool: pool}
}

var table = schema.Chapters

// scanChapter hydrates a chapter from a row selected with table.Columns().
func scanChapter(row pgx.Row, extra ...any) (*Chapter, error) {
	var chapter Chapter
	var status string

	dest := append([]any{
		&chapter.ID,
		&chapter.BookID,
		&chapter.Title,
		&chapter.Sequence,
		&chapter.FileURL,
		&status,
		&chapter.CreatedAt,
		&chapter.UpdatedAt,
	}, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	chapter.Status = Status(status)
	return &chapter, nil
}

/*
Create inserts a chapter and reads back the generated identity and timestamps.

The (book_id, sequence) unique constraint is the final arbiter of the sequence
rule; a violation surfaces as the same business rule error the service raises.
*/
func (repository *chapterRepository) Create(ctx context.Context, chapter *Chapter) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5::text::%s)
		RETURNING %s, %s, %s
	`,
		table.Table,
		table.BookID, table.Title, table.Sequence, table.FileURL, table.Status,
		table.StatusType,
		table.ID, table.CreatedAt, table.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		chapter.BookID,
		chapter.Title,
		chapter.Sequence,
		chapter.FileURL,
		string(chapter.Status),
	).Scan(&chapter.ID, &chapter.CreatedAt, &chapter.UpdatedAt)

	if err != nil {
		if dberr.IsUniqueViolation(err, table.UniqueBookSequence) {
			return duplicateSequence(chapter.BookID, chapter.Sequence)
		}
		return dberr.Wrap(err, "create chapter")
	}

	return nil
}

// FindByID returns the chapter with the given ID, or (nil, false) if there is none.
func (repository *chapterRepository) FindByID(ctx context.Context, id int64) (*Chapter, bool, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		table.Columns(), table.Table, table.ID)

	return repository.findOne(ctx, "find chapter by id", query, id)
}

// FindBySequence returns the chapter occupying the slot, or (nil, false).
func (repository *chapterRepository) FindBySequence(ctx context.Context, bookID int64, sequence int) (*Chapter, bool, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		table.Columns(), table.Table, table.BookID, table.Sequence)

	return repository.findOne(ctx, "find chapter by sequence", query, bookID, sequence)
}

func (repository *chapterRepository) findOne(ctx context.Context, action, query string, args ...any) (*Chapter, bool, error) {
	chapter, err := scanChapter(repository.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, false, nil
		}
		return nil, false, dberr.Wrap(err, action)
	}
	return chapter, true, nil
}

/*
List returns one page of chapters ordered by (book_id, sequence, id).

The total is computed with a window function in the same round trip. A page
past the end returns no rows to carry it, so the count is then fetched separately.
*/
func (repository *chapterRepository) List(ctx context.Context, filter ListFilter, skip, limit int) ([]*Chapter, int, error) {
	where := ""
	args := []any{}
	if filter.BookID != 0 {
		where = fmt.Sprintf("WHERE %s = $1", table.BookID)
		args = append(args, filter.BookID)
	}

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		%s
		ORDER BY %s ASC, %s ASC, %s ASC
		LIMIT $%d OFFSET $%d
	`,
		table.Columns(), table.Table, where,
		table.BookID, table.Sequence, table.ID,
		len(args)+1, len(args)+2,
	)
	args = append(args, limit, skip)

	rows, err := repository.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list chapters")
	}
	defer rows.Close()

	chapters := make([]*Chapter, 0)
	total := 0
	for rows.Next() {
		chapter, err := scanChapter(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan chapter")
		}
		chapters = append(chapters, chapter)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list chapters")
	}

	if len(chapters) == 0 && skip > 0 {
		countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, table.Table, where)
		if err := repository.pool.QueryRow(ctx, countQuery, args[:len(args)-2]...).Scan(&total); err != nil {
			return nil, 0, dberr.Wrap(err, "count chapters")
		}
	}

	return chapters, total, nil
}

// ListByBook returns every chapter of a book ordered by sequence.
func (repository *chapterRepository) ListByBook(ctx context.Context, bookID int64) ([]*Chapter, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC`,
		table.Columns(), table.Table, table.BookID, table.Sequence)

	rows, err := repository.pool.Query(ctx, query, bookID)
	if err != nil {
		return nil, dberr.Wrap(err, "list book chapters")
	}
	defer rows.Close()

	chapters := make([]*Chapter, 0)
	for rows.Next() {
		chapter, err := scanChapter(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan chapter")
		}
		chapters = append(chapters, chapter)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list book chapters")
	}

	return chapters, nil
}

// Update writes every mutable column and stamps updated_at.
func (repository *chapterRepository) Update(ctx context.Context, chapter *Chapter) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5::text::%s, %s = NOW()
		WHERE %s = $6
		RETURNING %s
	`,
		table.Table,
		table.BookID, table.Title, table.Sequence, table.FileURL, table.Status, table.StatusType, table.UpdatedAt,
		table.ID,
		table.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		chapter.BookID,
		chapter.Title,
		chapter.Sequence,
		chapter.FileURL,
		string(chapter.Status),
		chapter.ID,
	).Scan(&chapter.UpdatedAt)

	if err != nil {
		switch {
		case dberr.IsNoRows(err):
			return apperr.NotFound("Chapter")
		case dberr.IsUniqueViolation(err, table.UniqueBookSequence):
			return duplicateSequence(chapter.BookID, chapter.Sequence)
		}
		return dberr.Wrap(err, "update chapter")
	}

	return nil
}

// Delete removes a chapter row.
func (repository *chapterRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	result, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete chapter")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Chapter")
	}

	return nil
}
