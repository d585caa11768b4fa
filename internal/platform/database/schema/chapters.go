// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables, columns and constraints the repositories
// build their SQL from.
package schema

// ChaptersTable represents the 'chapters' table.
type ChaptersTable struct {
	Table     string
	ID        string
	BookID    string
	Title     string
	Sequence  string
	FileURL   string
	Status    string
	CreatedAt string
	UpdatedAt string

	// UniqueBookSequence is the constraint backing the per-book sequence rule.
	UniqueBookSequence string
	// StatusType is the Postgres enum type of the status column.
	StatusType string
}

// Chapters is the schema definition for the chapters table.
var Chapters = ChaptersTable{
	Table:     "chapters",
	ID:        "id",
	BookID:    "book_id",
	Title:     "title",
	Sequence:  "sequence",
	FileURL:   "file_url",
	Status:    "status",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",

	UniqueBookSequence: "chapters_book_id_sequence_key",
	StatusType:         "chapter_status",
}

// Columns returns the select list in the order the repository scans it.
// The status enum is read back as text.
func (t ChaptersTable) Columns() string {
	return t.ID + ", " + t.BookID + ", " + t.Title + ", " + t.Sequence + ", " +
		t.FileURL + ", " + t.Status + "::text, " + t.CreatedAt + ", " + t.UpdatedAt
}
