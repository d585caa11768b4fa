// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/apperr"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/ctxutil"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/sec"
)

var keyPattern = regexp.MustCompile(`^uploads/[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}-chapter-01\.mp3$`)

func newTestService() (*Service, *fakeProvider, *fakeLedger) {
	provider := newFakeProvider()
	ledger := newFakeLedger()
	service := NewService(provider, ledger, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return service, provider, ledger
}

func requireType(t *testing.T, err error, errType string) *apperr.AppError {
	t.Helper()
	ae := apperr.As(err)
	require.NotNil(t, ae, "expected an AppError, got %v", err)
	assert.Equal(t, errType, ae.Type)
	return ae
}

func initiate(t *testing.T, service *Service) *Session {
	t.Helper()
	session, err := service.InitiateUpload(context.Background(), InitiateInput{Filename: "chapter-01.mp3"})
	require.NoError(t, err)
	return session
}

func validParts() []CompletedPart {
	return []CompletedPart{{ETag: etagB, PartNumber: 2}, {ETag: etagA, PartNumber: 1}}
}

func TestInitiateUpload(t *testing.T) {
	t.Run("builds a random key and records the session", func(t *testing.T) {
		service, provider, ledger := newTestService()

		session, err := service.InitiateUpload(context.Background(), InitiateInput{Filename: "books/7/chapter-01.mp3"})
		require.NoError(t, err)

		assert.Equal(t, "upload-1", session.UploadID)
		assert.Equal(t, "narrator-audio", session.Bucket)
		assert.Regexp(t, keyPattern, session.Key)
		assert.Equal(t, "audio/mpeg", provider.lastContentType)
		assert.Equal(t, "chapter-01.mp3", provider.lastMetadata[MetaOriginalFilename])
		assert.NotContains(t, provider.lastMetadata, MetaUploadedBy)

		record, found, err := ledger.Lookup(context.Background(), session.UploadID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, session.Key, record.Key)
		assert.Equal(t, StateInitiated, record.State)
	})

	t.Run("same filename never shares a key", func(t *testing.T) {
		service, _, _ := newTestService()
		first := initiate(t, service)
		second := initiate(t, service)
		assert.NotEqual(t, first.Key, second.Key)
		assert.NotEqual(t, first.UploadID, second.UploadID)
	})

	t.Run("stores the caller as metadata", func(t *testing.T) {
		service, provider, _ := newTestService()
		claims := &sec.AuthClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "narrator-9"}}
		ctx := ctxutil.WithAuthUser(context.Background(), claims)

		_, err := service.InitiateUpload(ctx, InitiateInput{Filename: "a.wav", ContentType: "audio/wav"})
		require.NoError(t, err)
		assert.Equal(t, "narrator-9", provider.lastMetadata[MetaUploadedBy])
		assert.Equal(t, "audio/wav", provider.lastContentType)
	})

	t.Run("invalid input never reaches the provider", func(t *testing.T) {
		service, provider, _ := newTestService()

		_, err := service.InitiateUpload(context.Background(), InitiateInput{Filename: "bad name.mp3"})
		requireType(t, err, apperr.TypeValidation)

		_, err = service.InitiateUpload(context.Background(), InitiateInput{Filename: "ok.mp3", ContentType: "text/plain"})
		requireType(t, err, apperr.TypeValidation)

		assert.Empty(t, provider.calls)
	})

	t.Run("provider failure is surfaced", func(t *testing.T) {
		service, provider, _ := newTestService()
		provider.failWith = apperr.UploadProvider(errors.New("access denied"))

		_, err := service.InitiateUpload(context.Background(), InitiateInput{Filename: "a.mp3"})
		ae := requireType(t, err, apperr.TypeUploadProvider)
		assert.Equal(t, http.StatusInternalServerError, ae.HTTPStatus)
	})

	t.Run("ledger outage does not fail the upload", func(t *testing.T) {
		service, _, ledger := newTestService()
		ledger.failWith = errors.New("connection refused")

		session, err := service.InitiateUpload(context.Background(), InitiateInput{Filename: "a.mp3"})
		require.NoError(t, err)
		assert.NotEmpty(t, session.UploadID)
	})
}

func seconds(n int) *int { return &n }

func TestPresignPart(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults expiry to one hour", func(t *testing.T) {
		service, provider, _ := newTestService()
		fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		service.now = func() time.Time { return fixed }
		session := initiate(t, service)

		part, err := service.PresignPart(ctx, PresignInput{Key: session.Key, UploadID: session.UploadID, PartNumber: 3})
		require.NoError(t, err)

		assert.Equal(t, 3, part.PartNumber)
		assert.Contains(t, part.PresignedURL, "partNumber=3")
		assert.Equal(t, time.Hour, provider.lastExpires)
		assert.True(t, fixed.Add(time.Hour).Equal(part.ExpiresAt), part.ExpiresAt)
	})

	t.Run("honours a custom expiry", func(t *testing.T) {
		service, provider, _ := newTestService()
		session := initiate(t, service)

		_, err := service.PresignPart(ctx, PresignInput{Key: session.Key, UploadID: session.UploadID, PartNumber: 1, ExpiresIn: seconds(600)})
		require.NoError(t, err)
		assert.Equal(t, 10*time.Minute, provider.lastExpires)
	})

	tests := []struct {
		name  string
		input PresignInput
	}{
		{"part zero", PresignInput{Key: "uploads/x", UploadID: "u", PartNumber: 0}},
		{"part above max", PresignInput{Key: "uploads/x", UploadID: "u", PartNumber: 10001}},
		{"explicit zero expiry", PresignInput{Key: "uploads/x", UploadID: "u", PartNumber: 1, ExpiresIn: seconds(0)}},
		{"negative expiry", PresignInput{Key: "uploads/x", UploadID: "u", PartNumber: 1, ExpiresIn: seconds(-1)}},
		{"expiry too short", PresignInput{Key: "uploads/x", UploadID: "u", PartNumber: 1, ExpiresIn: seconds(59)}},
		{"expiry too long", PresignInput{Key: "uploads/x", UploadID: "u", PartNumber: 1, ExpiresIn: seconds(604801)}},
		{"missing key", PresignInput{UploadID: "u", PartNumber: 1}},
		{"missing upload id", PresignInput{Key: "uploads/x", PartNumber: 1}},
		{"key outside upload prefix", PresignInput{Key: "private/report.pdf", UploadID: "u", PartNumber: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, provider, _ := newTestService()
			_, err := service.PresignPart(ctx, tt.input)
			requireType(t, err, apperr.TypeValidation)
			assert.Empty(t, provider.calls)
		})
	}

	t.Run("boundaries are accepted", func(t *testing.T) {
		service, _, _ := newTestService()
		session := initiate(t, service)

		for _, input := range []PresignInput{
			{Key: session.Key, UploadID: session.UploadID, PartNumber: 1, ExpiresIn: seconds(60)},
			{Key: session.Key, UploadID: session.UploadID, PartNumber: 10000, ExpiresIn: seconds(604800)},
		} {
			_, err := service.PresignPart(ctx, input)
			assert.NoError(t, err)
		}
	})
}

func TestCompleteUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("forwards sorted quoted parts and closes the session", func(t *testing.T) {
		service, provider, ledger := newTestService()
		session := initiate(t, service)

		result, err := service.CompleteUpload(ctx, CompleteInput{Key: session.Key, UploadID: session.UploadID, Parts: validParts()})
		require.NoError(t, err)

		assert.Equal(t, session.Key, result.Key)
		assert.Equal(t, "narrator-audio", result.Bucket)
		assert.Equal(t, `"0123456789abcdef0123456789abcdef-2"`, result.ETag)
		require.Len(t, provider.lastParts, 2)
		assert.Equal(t, CompletedPart{ETag: `"` + etagA + `"`, PartNumber: 1}, provider.lastParts[0])
		assert.Equal(t, CompletedPart{ETag: `"` + etagB + `"`, PartNumber: 2}, provider.lastParts[1])

		record, _, _ := ledger.Lookup(ctx, session.UploadID)
		assert.Equal(t, StateCompleted, record.State)
	})

	t.Run("bad part lists never reach the provider", func(t *testing.T) {
		service, provider, _ := newTestService()
		session := initiate(t, service)
		provider.calls = nil

		for _, parts := range [][]CompletedPart{
			nil,
			{{ETag: etagA, PartNumber: 1}, {ETag: etagB, PartNumber: 3}},
			{{ETag: etagA, PartNumber: 2}},
			{{ETag: etagA, PartNumber: 1}, {ETag: etagA, PartNumber: 1}},
			{{ETag: "xyz", PartNumber: 1}},
		} {
			_, err := service.CompleteUpload(ctx, CompleteInput{Key: session.Key, UploadID: session.UploadID, Parts: parts})
			requireType(t, err, apperr.TypeValidation)
		}
		assert.Empty(t, provider.calls)
	})

	t.Run("second completion is refused locally", func(t *testing.T) {
		service, provider, _ := newTestService()
		session := initiate(t, service)
		input := CompleteInput{Key: session.Key, UploadID: session.UploadID, Parts: validParts()}

		_, err := service.CompleteUpload(ctx, input)
		require.NoError(t, err)
		provider.calls = nil

		_, err = service.CompleteUpload(ctx, input)
		ae := requireType(t, err, apperr.TypeUploadProvider)
		assert.Equal(t, http.StatusConflict, ae.HTTPStatus)
		assert.Empty(t, provider.calls)
	})

	t.Run("key must match the session", func(t *testing.T) {
		service, provider, _ := newTestService()
		session := initiate(t, service)
		provider.calls = nil

		_, err := service.CompleteUpload(ctx, CompleteInput{Key: "uploads/other.mp3", UploadID: session.UploadID, Parts: validParts()})
		requireType(t, err, apperr.TypeValidation)
		assert.Empty(t, provider.calls)
	})

	t.Run("unknown sessions are left to the provider", func(t *testing.T) {
		service, provider, _ := newTestService()

		_, err := service.CompleteUpload(ctx, CompleteInput{Key: "uploads/x.mp3", UploadID: "ghost", Parts: validParts()})
		ae := requireType(t, err, apperr.TypeUploadProvider)
		assert.Equal(t, http.StatusConflict, ae.HTTPStatus)
		assert.Equal(t, []string{"complete"}, provider.calls)
	})

	t.Run("ledger outage falls back to the provider", func(t *testing.T) {
		service, _, ledger := newTestService()
		session := initiate(t, service)
		ledger.failWith = errors.New("timeout")

		_, err := service.CompleteUpload(ctx, CompleteInput{Key: session.Key, UploadID: session.UploadID, Parts: validParts()})
		require.NoError(t, err)
	})
}

func TestAbortUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("confirms the abort", func(t *testing.T) {
		service, _, ledger := newTestService()
		session := initiate(t, service)

		result, err := service.AbortUpload(ctx, AbortInput{Key: session.Key, UploadID: session.UploadID})
		require.NoError(t, err)

		assert.Equal(t, "aborted", result.Status)
		assert.Equal(t, session.UploadID, result.UploadID)
		assert.Equal(t, "Upload upload-1 has been successfully aborted", result.Message)

		record, _, _ := ledger.Lookup(ctx, session.UploadID)
		assert.Equal(t, StateAborted, record.State)
	})

	t.Run("abort after completion is reported", func(t *testing.T) {
		service, _, _ := newTestService()
		session := initiate(t, service)
		_, err := service.CompleteUpload(ctx, CompleteInput{Key: session.Key, UploadID: session.UploadID, Parts: validParts()})
		require.NoError(t, err)

		_, err = service.AbortUpload(ctx, AbortInput{Key: session.Key, UploadID: session.UploadID})
		ae := requireType(t, err, apperr.TypeUploadProvider)
		assert.Equal(t, "UPLOAD_SESSION_CLOSED", ae.Code)
	})

	t.Run("double abort without a ledger is reported by the provider", func(t *testing.T) {
		provider := newFakeProvider()
		service := NewService(provider, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
		session := initiate(t, service)

		_, err := service.AbortUpload(ctx, AbortInput{Key: session.Key, UploadID: session.UploadID})
		require.NoError(t, err)

		_, err = service.AbortUpload(ctx, AbortInput{Key: session.Key, UploadID: session.UploadID})
		ae := requireType(t, err, apperr.TypeUploadProvider)
		assert.Equal(t, http.StatusConflict, ae.HTTPStatus)
	})

	t.Run("presign after abort is refused", func(t *testing.T) {
		service, _, _ := newTestService()
		session := initiate(t, service)
		_, err := service.AbortUpload(ctx, AbortInput{Key: session.Key, UploadID: session.UploadID})
		require.NoError(t, err)

		_, err = service.PresignPart(ctx, PresignInput{Key: session.Key, UploadID: session.UploadID, PartNumber: 1})
		requireType(t, err, apperr.TypeUploadProvider)
	})
}
