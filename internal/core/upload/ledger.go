// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upload

import (
	"context"
	"time"
)

// SessionState is the lifecycle position of an upload session.
type SessionState string

const (
	StateInitiated SessionState = "initiated"
	StateCompleted SessionState = "completed"
	StateAborted   SessionState = "aborted"
)

// Terminal reports whether no further operation may be applied to the session.
func (state SessionState) Terminal() bool {
	return state == StateCompleted || state == StateAborted
}

// SessionRecord is what the ledger remembers about one upload id.
type SessionRecord struct {
	UploadID    string
	Key         string
	ContentType string
	State       SessionState
	OpenedBy    string
	UpdatedAt   time.Time
}

/*
SessionLedger remembers which upload sessions this service opened and how
they ended.

Description: The ledger lets a follow-up call on a finished session be
refused without a round trip to the object store, and ties each upload id to
the key it was issued for. It is advisory: records expire, and a session the
ledger does not know is still forwarded to the store, which stays the
authority.
*/
type SessionLedger interface {
	Open(ctx context.Context, record SessionRecord) error
	// Lookup returns false when the session is unknown or has expired.
	Lookup(ctx context.Context, uploadID string) (*SessionRecord, bool, error)
	Close(ctx context.Context, uploadID, key string, state SessionState) error
}
