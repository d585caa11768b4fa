// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPgx5DSN(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@h:5432/db":   "pgx5://u:p@h:5432/db",
		"postgresql://u:p@h:5432/db": "pgx5://u:p@h:5432/db",
		"pgx5://u:p@h:5432/db":       "pgx5://u:p@h:5432/db",
	}
	for in, want := range tests {
		assert.Equal(t, want, toPgx5DSN(in))
	}
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(embedded, "sql/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(embedded, "sql/*.down.sql")
	require.NoError(t, err)

	require.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}

func TestChaptersSchema(t *testing.T) {
	up, err := fs.ReadFile(embedded, "sql/000001_create_chapters.up.sql")
	require.NoError(t, err)

	schema := string(up)
	assert.Contains(t, schema, "CONSTRAINT chapters_book_id_sequence_key UNIQUE (book_id, sequence)")
	assert.Contains(t, schema, "CREATE INDEX IF NOT EXISTS idx_chapters_book_id ON chapters(book_id)")
}
