// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upload

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/constants"
)

// Hash fields of a session record.
const (
	ledgerFieldKey         = "key"
	ledgerFieldContentType = "content_type"
	ledgerFieldState       = "state"
	ledgerFieldOpenedBy    = "opened_by"
	ledgerFieldUpdatedAt   = "updated_at"
)

// RedisSessionLedger implements [SessionLedger] with one Redis hash per session.
type RedisSessionLedger struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisSessionLedger creates a ledger whose records live for constants.UploadSessionTTL.
func NewRedisSessionLedger(client redis.Cmdable) *RedisSessionLedger {
	return &RedisSessionLedger{client: client, ttl: constants.UploadSessionTTL}
}

func sessionKey(uploadID string) string {
	return constants.RedisPrefixUploadSession + uploadID
}

/*
Open records a freshly initiated session.

Parameters:
  - ctx: context.Context
  - record: SessionRecord (State is forced to initiated)

Returns:
  - error: Storage failures
*/
func (ledger *RedisSessionLedger) Open(ctx context.Context, record SessionRecord) error {
	key := sessionKey(record.UploadID)

	_, err := ledger.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			ledgerFieldKey, record.Key,
			ledgerFieldContentType, record.ContentType,
			ledgerFieldState, string(StateInitiated),
			ledgerFieldOpenedBy, record.OpenedBy,
			ledgerFieldUpdatedAt, time.Now().UTC().Format(time.RFC3339),
		)
		pipe.Expire(ctx, key, ledger.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_upload_session_open_failed: %w", err)
	}

	return nil
}

/*
Lookup reads a session record.

Returns:
  - *SessionRecord: The record, nil when absent
  - bool: Whether the session is known
  - error: Connectivity errors
*/
func (ledger *RedisSessionLedger) Lookup(ctx context.Context, uploadID string) (*SessionRecord, bool, error) {
	fields, err := ledger.client.HGetAll(ctx, sessionKey(uploadID)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis_upload_session_lookup_failed: %w", err)
	}

	// HGETALL answers an empty map for a missing key.
	if len(fields) == 0 {
		return nil, false, nil
	}

	record := &SessionRecord{
		UploadID:    uploadID,
		Key:         fields[ledgerFieldKey],
		ContentType: fields[ledgerFieldContentType],
		State:       SessionState(fields[ledgerFieldState]),
		OpenedBy:    fields[ledgerFieldOpenedBy],
	}
	if updatedAt, err := time.Parse(time.RFC3339, fields[ledgerFieldUpdatedAt]); err == nil {
		record.UpdatedAt = updatedAt
	}

	return record, true, nil
}

/*
Close marks a session completed or aborted.

Description: The record is written even when Open never landed, so a later
call on the same upload id is still refused locally.

Returns:
  - error: Storage failures
*/
func (ledger *RedisSessionLedger) Close(ctx context.Context, uploadID, key string, state SessionState) error {
	redisKey := sessionKey(uploadID)

	_, err := ledger.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, redisKey,
			ledgerFieldKey, key,
			ledgerFieldState, string(state),
			ledgerFieldUpdatedAt, time.Now().UTC().Format(time.RFC3339),
		)
		pipe.Expire(ctx, redisKey, ledger.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_upload_session_close_failed: %w", err)
	}

	return nil
}
