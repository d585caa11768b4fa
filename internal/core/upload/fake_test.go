// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upload

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/apperr"
)

// fakeProvider is an in-memory [Provider] that records every call.
type fakeProvider struct {
	mu       sync.Mutex
	bucket   string
	sessions map[string]string // upload id -> key
	calls    []string
	nextID   int

	lastContentType string
	lastMetadata    map[string]string
	lastExpires     time.Duration
	lastParts       []CompletedPart

	failWith error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{bucket: "narrator-audio", sessions: map[string]string{}}
}

func (f *fakeProvider) record(call string) error {
	f.calls = append(f.calls, call)
	return f.failWith
}

func (f *fakeProvider) Bucket() string { return f.bucket }

func (f *fakeProvider) CreateMultipartUpload(_ context.Context, key, contentType string, metadata map[string]string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("create"); err != nil {
		return "", err
	}
	f.nextID++
	uploadID := fmt.Sprintf("upload-%d", f.nextID)
	f.sessions[uploadID] = key
	f.lastContentType = contentType
	f.lastMetadata = metadata
	return uploadID, nil
}

func (f *fakeProvider) PresignUploadPart(_ context.Context, key, uploadID string, partNumber int, expires time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("presign"); err != nil {
		return "", err
	}
	if _, ok := f.sessions[uploadID]; !ok {
		return "", apperr.UploadSessionClosed(uploadID, errors.New("NoSuchUpload"))
	}
	f.lastExpires = expires
	return fmt.Sprintf("https://%s.s3.example.com/%s?partNumber=%d&uploadId=%s", f.bucket, key, partNumber, uploadID), nil
}

func (f *fakeProvider) CompleteMultipartUpload(_ context.Context, key, uploadID string, parts []CompletedPart) (*CompletedUpload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("complete"); err != nil {
		return nil, err
	}
	if _, ok := f.sessions[uploadID]; !ok {
		return nil, apperr.UploadSessionClosed(uploadID, errors.New("NoSuchUpload"))
	}
	delete(f.sessions, uploadID)
	f.lastParts = parts
	return &CompletedUpload{
		Location: fmt.Sprintf("https://%s.s3.example.com/%s", f.bucket, key),
		Bucket:   f.bucket,
		Key:      key,
		ETag:     `"0123456789abcdef0123456789abcdef-2"`,
	}, nil
}

func (f *fakeProvider) AbortMultipartUpload(_ context.Context, _, uploadID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("abort"); err != nil {
		return err
	}
	if _, ok := f.sessions[uploadID]; !ok {
		return apperr.UploadSessionClosed(uploadID, errors.New("NoSuchUpload"))
	}
	delete(f.sessions, uploadID)
	return nil
}

// fakeLedger is an in-memory [SessionLedger].
type fakeLedger struct {
	mu       sync.Mutex
	records  map[string]SessionRecord
	failWith error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{records: map[string]SessionRecord{}}
}

func (f *fakeLedger) Open(_ context.Context, record SessionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	record.State = StateInitiated
	f.records[record.UploadID] = record
	return nil
}

func (f *fakeLedger) Lookup(_ context.Context, uploadID string) (*SessionRecord, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, false, f.failWith
	}
	record, ok := f.records[uploadID]
	if !ok {
		return nil, false, nil
	}
	return &record, true, nil
}

func (f *fakeLedger) Close(_ context.Context, uploadID, key string, state SessionState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	record := f.records[uploadID]
	record.UploadID = uploadID
	record.Key = key
	record.State = state
	f.records[uploadID] = record
	return nil
}
