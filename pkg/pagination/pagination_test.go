// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nthirumalaiah/rb-narrator-book-uploader/pkg/pagination"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		query   string
		want    pagination.Params
		wantErr string
	}{
		{query: "", want: pagination.Params{Skip: 0, Limit: 100}},
		{query: "skip=10&limit=5", want: pagination.Params{Skip: 10, Limit: 5}},
		{query: "limit=1000", want: pagination.Params{Skip: 0, Limit: 1000}},
		{query: "limit=1001", wantErr: "limit"},
		{query: "limit=0", wantErr: "limit"},
		{query: "skip=-1", wantErr: "skip"},
		{query: "skip=abc", wantErr: "skip"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := pagination.FromRequest(httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil))
			if tt.wantErr != "" {
				var perr *pagination.Error
				require.ErrorAs(t, err, &perr)
				assert.Equal(t, tt.wantErr, perr.Param)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
