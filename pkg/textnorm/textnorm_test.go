// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package textnorm_test

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/nthirumalaiah/rb-narrator-book-uploader/pkg/textnorm"
)

func TestClean(t *testing.T) {
	assert.Equal(t, "My Chapter", textnorm.Clean("  My Chapter  "))
	assert.Equal(t, "", textnorm.Clean(" \t\n "))

	decomposed := "Cafe\u0301"
	cleaned := textnorm.Clean(decomposed)
	assert.Equal(t, "Caf\u00e9", cleaned)
	assert.Equal(t, 4, utf8.RuneCountInString(cleaned))
}

func TestIsBlank(t *testing.T) {
	assert.True(t, textnorm.IsBlank(""))
	assert.True(t, textnorm.IsBlank("   \t"))
	assert.True(t, textnorm.IsBlank("\u00a0 \u200b"))
	assert.False(t, textnorm.IsBlank(" a "))
}
