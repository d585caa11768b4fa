// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/apperr"
)

// fakeRepository is an in-memory [Repository] that mimics the unique
// constraint of the real table.
type fakeRepository struct {
	mu       sync.Mutex
	nextID   int64
	chapters map[int64]Chapter
	failWith error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{chapters: make(map[int64]Chapter)}
}

func (f *fakeRepository) slotTaken(bookID int64, sequence int, selfID int64) bool {
	for id, c := range f.chapters {
		if id != selfID && c.BookID == bookID && c.Sequence == sequence {
			return true
		}
	}
	return false
}

func (f *fakeRepository) Create(_ context.Context, chapter *Chapter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	if f.slotTaken(chapter.BookID, chapter.Sequence, 0) {
		return duplicateSequence(chapter.BookID, chapter.Sequence)
	}
	f.nextID++
	now := time.Now().UTC()
	chapter.ID, chapter.CreatedAt, chapter.UpdatedAt = f.nextID, now, now
	f.chapters[chapter.ID] = *chapter
	return nil
}

func (f *fakeRepository) FindByID(_ context.Context, id int64) (*Chapter, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, false, f.failWith
	}
	c, ok := f.chapters[id]
	if !ok {
		return nil, false, nil
	}
	return &c, true, nil
}

func (f *fakeRepository) FindBySequence(_ context.Context, bookID int64, sequence int) (*Chapter, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.chapters {
		if c.BookID == bookID && c.Sequence == sequence {
			return &c, true, nil
		}
	}
	return nil, false, nil
}

func (f *fakeRepository) sorted(match func(Chapter) bool) []*Chapter {
	out := make([]*Chapter, 0)
	for _, c := range f.chapters {
		if match(c) {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BookID != out[j].BookID {
			return out[i].BookID < out[j].BookID
		}
		if out[i].Sequence != out[j].Sequence {
			return out[i].Sequence < out[j].Sequence
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (f *fakeRepository) List(_ context.Context, filter ListFilter, skip, limit int) ([]*Chapter, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, 0, f.failWith
	}
	all := f.sorted(func(c Chapter) bool { return filter.BookID == 0 || c.BookID == filter.BookID })
	if skip >= len(all) {
		return []*Chapter{}, len(all), nil
	}
	end := skip + limit
	if end > len(all) {
		end = len(all)
	}
	return all[skip:end], len(all), nil
}

func (f *fakeRepository) ListByBook(_ context.Context, bookID int64) ([]*Chapter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(c Chapter) bool { return c.BookID == bookID }), nil
}

func (f *fakeRepository) Update(_ context.Context, chapter *Chapter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.chapters[chapter.ID]; !ok {
		return apperr.NotFound("Chapter")
	}
	if f.slotTaken(chapter.BookID, chapter.Sequence, chapter.ID) {
		return duplicateSequence(chapter.BookID, chapter.Sequence)
	}
	chapter.UpdatedAt = time.Now().UTC()
	f.chapters[chapter.ID] = *chapter
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.chapters[id]; !ok {
		return apperr.NotFound("Chapter")
	}
	delete(f.chapters, id)
	return nil
}
