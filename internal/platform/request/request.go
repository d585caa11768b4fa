// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It hides chi's parameter extraction and the body decoding pattern so handlers
report malformed input the same way everywhere.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/validate"
)

// maxBodyBytes caps JSON bodies; the largest legitimate body is a completion
// request listing 10000 parts.
const maxBodyBytes = 2 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Returns validate.ErrInvalidJSON if the body is missing, too large or malformed.
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if request.Body == nil {
		return validate.ErrInvalidJSON
	}
	body := http.MaxBytesReader(nil, request.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
PositiveIDParam parses a named URL parameter as a positive integer id.
*/
func PositiveIDParam(request *http.Request, name string) (int64, error) {
	raw := chi.URLParam(request, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, validate.FieldError(name, "Must be a positive integer")
	}
	return id, nil
}

/*
QueryInt64 parses an optional integer query parameter.

Returns (0, false, nil) when the parameter is absent.
*/
func QueryInt64(request *http.Request, name string) (int64, bool, error) {
	raw := request.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, validate.FieldError(name, "Must be an integer")
	}
	return value, true, nil
}
