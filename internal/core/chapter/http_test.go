// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/middleware"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/respond"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	service, _ := newTestService()
	router := chi.NewRouter()
	NewHandler(service).RegisterRoutes(router, middleware.Passthrough)
	return router
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func errorBody(t *testing.T, recorder *httptest.ResponseRecorder) respond.ErrorBody {
	t.Helper()
	var envelope respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope.Error
}

func TestHTTP_CreateAndFetch(t *testing.T) {
	router := newTestRouter(t)

	recorder := do(router, http.MethodPost, "/chapters/", `{"book_id":5,"title":"  My Chapter  ","sequence":1}`)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var created Chapter
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.Equal(t, "My Chapter", created.Title)
	assert.Equal(t, StatusPending, created.Status)

	recorder = do(router, http.MethodGet, "/chapters/1", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"file_url":null`)

	recorder = do(router, http.MethodGet, "/chapters/42", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "not_found_error", errorBody(t, recorder).Type)

	recorder = do(router, http.MethodGet, "/chapters/abc", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHTTP_CreateErrors(t *testing.T) {
	router := newTestRouter(t)

	require.Equal(t, http.StatusCreated, do(router, http.MethodPost, "/chapters", `{"book_id":5,"title":"First","sequence":1}`).Code)

	tests := []struct {
		name     string
		body     string
		wantType string
	}{
		{"duplicate sequence", `{"book_id":5,"title":"Again","sequence":1}`, "business_rule_error"},
		{"blank title", `{"book_id":5,"title":"   ","sequence":2}`, "validation_error"},
		{"malformed json", `{"book_id":`, "validation_error"},
		{"wrong type", `{"book_id":"five","title":"Intro","sequence":2}`, "validation_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := do(router, http.MethodPost, "/chapters/", tt.body)
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			body := errorBody(t, recorder)
			assert.Equal(t, tt.wantType, body.Type)
			assert.NotEmpty(t, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestHTTP_List(t *testing.T) {
	router := newTestRouter(t)
	for _, body := range []string{
		`{"book_id":5,"title":"Five two","sequence":2}`,
		`{"book_id":5,"title":"Five one","sequence":1}`,
		`{"book_id":7,"title":"Seven one","sequence":1}`,
	} {
		require.Equal(t, http.StatusCreated, do(router, http.MethodPost, "/chapters/", body).Code)
	}

	recorder := do(router, http.MethodGet, "/chapters/?book_id=5", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "2", recorder.Header().Get("X-Total-Count"))

	var chapters []Chapter
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &chapters))
	require.Len(t, chapters, 2)
	assert.Equal(t, 1, chapters[0].Sequence)
	assert.Equal(t, 2, chapters[1].Sequence)

	recorder = do(router, http.MethodGet, "/chapters/book/5", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &chapters))
	assert.Len(t, chapters, 2)

	recorder = do(router, http.MethodGet, "/chapters/book/404", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `[]`, recorder.Body.String())

	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodGet, "/chapters/?limit=5000", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodGet, "/chapters/?book_id=0", "").Code)
}

func TestHTTP_UpdateAndDelete(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(router, http.MethodPost, "/chapters/", `{"book_id":1,"title":"Intro","sequence":1,"status":"uploaded"}`).Code)

	recorder := do(router, http.MethodDelete, "/chapters/1", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "CHAPTER_UPLOADED", errorBody(t, recorder).Code)

	recorder = do(router, http.MethodPatch, "/chapters/1", `{"status":"processed"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"processed"`)
	assert.Contains(t, recorder.Body.String(), `"title":"Intro"`)

	assert.Equal(t, http.StatusNoContent, do(router, http.MethodDelete, "/chapters/1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodDelete, "/chapters/1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodPatch, "/chapters/1", `{"title":"Again"}`).Code)
}
