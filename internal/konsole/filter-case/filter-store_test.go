package filter_case

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Xenn-00/warteschlangen-meister/internal/abstraction/kv"
	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
	app_errors "github.com/Xenn-00/warteschlangen-meister/internal/errors"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

// memoryStore is an in-memory kv.Store for tests; failSet lets a test simulate
// a broken persistence layer.
type memoryStore struct {
	data    map[string][]byte
	failSet bool
	deletes int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]byte{}}
}

func (s *memoryStore) Get(key string) ([]byte, error) {
	raw, ok := s.data[key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return raw, nil
}

func (s *memoryStore) Set(key string, value []byte) error {
	if s.failSet {
		return errors.New("disk full")
	}
	s.data[key] = value
	return nil
}

func (s *memoryStore) Delete(key string) error {
	s.deletes++
	delete(s.data, key)
	return nil
}

func (s *memoryStore) Close() error { return nil }

func seedRecord(t *testing.T, store *memoryStore, filters entity.FilterCriteria, savedAt time.Time) {
	t.Helper()
	raw, err := json.Marshal(persistedFilters{Filters: filters, Timestamp: savedAt})
	assert.NoError(t, err)
	store.data[storageKey] = raw
}

// Test Happy path: a recent record survives a restart
func TestNewFilterStore_RestoresRecentRecord(t *testing.T) {
	store := newMemoryStore()
	saved := entity.FilterCriteria{
		Priority: []entity.AssignmentPriority{entity.PriorityHigh},
		Page:     3,
		PageSize: 25,
	}
	seedRecord(t, store, saved, time.Now().Add(-6*24*time.Hour))

	fs := NewFilterStore(store, nil, nil)

	assert.Equal(t, saved, fs.Load())
	assert.Zero(t, store.deletes)
}

// Test that a record older than 7 days is dropped, including the stored bytes
func TestNewFilterStore_ExpiredRecordIsDeleted(t *testing.T) {
	store := newMemoryStore()
	saved := entity.FilterCriteria{
		Aging: []entity.AgingBucket{entity.AgingStale},
		Page:  2,
	}
	seedRecord(t, store, saved, time.Now().Add(-8*24*time.Hour))

	fs := NewFilterStore(store, nil, nil)

	got := fs.Load()
	assert.Empty(t, got.Aging)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, DefaultPageSize, got.PageSize)

	// delete-on-read side effect
	assert.Equal(t, 1, store.deletes)
	_, ok := store.data[storageKey]
	assert.False(t, ok)
}

func TestNewFilterStore_CorruptRecordIsDeleted(t *testing.T) {
	store := newMemoryStore()
	store.data[storageKey] = []byte("{not json")

	fs := NewFilterStore(store, nil, nil)

	assert.Equal(t, defaultCriteria(), fs.Load())
	assert.Equal(t, 1, store.deletes)
}

// Test that facet changes reset the page while pure paging does not
func TestUpdate_ResetsPageOnFacetChange(t *testing.T) {
	store := newMemoryStore()
	fs := NewFilterStore(store, nil, nil)

	fs.Update(func(fc *entity.FilterCriteria) { fc.Page = 4 })
	assert.Equal(t, 4, fs.Load().Page)

	fs.Update(func(fc *entity.FilterCriteria) {
		fc.Priority = []entity.AssignmentPriority{entity.PriorityUrgent}
	})
	assert.Equal(t, 1, fs.Load().Page)

	fs.Update(func(fc *entity.FilterCriteria) { fc.Page = 7 })
	status := entity.AssignmentPending
	fs.Update(func(fc *entity.FilterCriteria) { fc.Status = &status })
	assert.Equal(t, 1, fs.Load().Page)
}

// Test write-through: every update lands in the store with a fresh timestamp
func TestUpdate_PersistsRecord(t *testing.T) {
	store := newMemoryStore()
	fs := NewFilterStore(store, nil, nil)

	fs.Update(func(fc *entity.FilterCriteria) {
		fc.Type = []entity.WorkItemType{entity.WorkItemDossier}
	})

	raw, ok := store.data[storageKey]
	assert.True(t, ok)

	var record persistedFilters
	assert.NoError(t, json.Unmarshal(raw, &record))
	assert.Equal(t, []entity.WorkItemType{entity.WorkItemDossier}, record.Filters.Type)
	assert.WithinDuration(t, time.Now(), record.Timestamp, time.Minute)
}

// Test that a broken persistence layer never reaches the caller
func TestUpdate_WriteFailureIsSwallowed(t *testing.T) {
	store := newMemoryStore()
	store.failSet = true
	fs := NewFilterStore(store, nil, nil)

	assert.NotPanics(t, func() {
		fs.Update(func(fc *entity.FilterCriteria) {
			fc.Priority = []entity.AssignmentPriority{entity.PriorityLow}
		})
	})

	// in-memory state moved on regardless
	assert.Equal(t, []entity.AssignmentPriority{entity.PriorityLow}, fs.Load().Priority)
}

func TestClear_ResetsAndSignals(t *testing.T) {
	store := newMemoryStore()
	signals := 0
	fs := NewFilterStore(store, nil, func() { signals++ })

	fs.Update(func(fc *entity.FilterCriteria) {
		fc.Aging = []entity.AgingBucket{entity.AgingWarning}
	})
	fs.Clear()

	assert.Equal(t, defaultCriteria(), fs.Load())
	assert.Equal(t, 2, signals)
	_, ok := store.data[storageKey]
	assert.False(t, ok)
}

func TestActiveCount(t *testing.T) {
	store := newMemoryStore()
	fs := NewFilterStore(store, nil, nil)

	assert.Equal(t, 0, fs.ActiveCount())

	me := "me"
	sort := entity.SortPriorityDesc
	fs.Update(func(fc *entity.FilterCriteria) {
		fc.Priority = []entity.AssignmentPriority{entity.PriorityHigh, entity.PriorityUrgent}
		fc.AssigneeID = &me
		fc.SortBy = &sort
		fc.Page = 9
		fc.PageSize = 10
	})

	// sortBy, page and pageSize never count as active facets
	assert.Equal(t, 2, fs.ActiveCount())
}

// Test remote sync: pull replaces local criteria, last-write-wins
func TestPullRemote_ReplacesLocalFilters(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	api := new(MockQueueAPI)

	fs := NewFilterStore(store, api, nil)
	fs.Update(func(fc *entity.FilterCriteria) {
		fc.Priority = []entity.AssignmentPriority{entity.PriorityLow}
	})

	remote := &entity.FilterCriteria{
		Type:     []entity.WorkItemType{entity.WorkItemTicket},
		Page:     1,
		PageSize: 20,
	}
	api.On("GetFilterPreferences", ctx).Return(remote, (*app_errors.AppError)(nil))

	fs.PullRemote(ctx)

	got := fs.Load()
	assert.Equal(t, []entity.WorkItemType{entity.WorkItemTicket}, got.Type)
	assert.Empty(t, got.Priority)

	api.AssertExpectations(t)
}

func TestPullRemote_FailureKeepsLocalFilters(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	api := new(MockQueueAPI)

	fs := NewFilterStore(store, api, nil)
	fs.Update(func(fc *entity.FilterCriteria) {
		fc.Priority = []entity.AssignmentPriority{entity.PriorityLow}
	})

	downErr := app_errors.NewAppError(503, app_errors.ErrInternal, "internal_error", errors.New("down"))
	api.On("GetFilterPreferences", ctx).Return((*entity.FilterCriteria)(nil), downErr)

	fs.PullRemote(ctx)

	assert.Equal(t, []entity.AssignmentPriority{entity.PriorityLow}, fs.Load().Priority)
	api.AssertExpectations(t)
}
