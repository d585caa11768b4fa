// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination parses the offset-based "skip" and "limit" query
// parameters used by list endpoints.
package pagination

import (
	"fmt"
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the page size when "limit" is omitted.
	DefaultLimit = 100
	// MaxLimit is the largest page size a client may request.
	MaxLimit = 1000
)

// Params holds a validated skip/limit pair.
type Params struct {
	Skip  int
	Limit int
}

// Error describes an out-of-range or malformed parameter.
type Error struct {
	Param   string
	Message string
}

func (e *Error) Error() string { return e.Param + ": " + e.Message }

// FromRequest parses "skip" (>= 0, default 0) and "limit" (1..MaxLimit,
// default DefaultLimit). Unlike silent clamping, bad values are reported so
// the client learns why its page looks wrong.
func FromRequest(r *http.Request) (Params, error) {
	query := r.URL.Query()

	skip, err := parseInt(query.Get("skip"), 0)
	if err != nil || skip < 0 {
		return Params{}, &Error{Param: "skip", Message: "Must be a non-negative integer"}
	}

	limit, err := parseInt(query.Get("limit"), DefaultLimit)
	if err != nil || limit < 1 || limit > MaxLimit {
		return Params{}, &Error{Param: "limit", Message: fmt.Sprintf("Must be between 1 and %d", MaxLimit)}
	}

	return Params{Skip: skip, Limit: limit}, nil
}

func parseInt(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
