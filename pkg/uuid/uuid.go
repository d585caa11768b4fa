// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates the identifiers the service mints itself.

  - Sortable (v7) for correlation ids, so log lines order by creation time.
  - Random (v4) for object keys, which must not reveal when they were made.
*/
package uuid

import "github.com/google/uuid"

// Sortable returns a new UUIDv7 string, falling back to v4 if the clock source fails.
func Sortable() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Random returns a new UUIDv4 string.
func Random() string {
	return uuid.NewString()
}
