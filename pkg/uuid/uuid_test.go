// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	googleuuid "github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nthirumalaiah/rb-narrator-book-uploader/pkg/uuid"
)

func TestVersions(t *testing.T) {
	sortable, err := googleuuid.Parse(uuid.Sortable())
	require.NoError(t, err)
	assert.Equal(t, googleuuid.Version(7), sortable.Version())

	random, err := googleuuid.Parse(uuid.Random())
	require.NoError(t, err)
	assert.Equal(t, googleuuid.Version(4), random.Version())

	assert.NotEqual(t, uuid.Random(), uuid.Random())
}
