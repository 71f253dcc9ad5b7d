package filter_case

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/Xenn-00/warteschlangen-meister/internal/abstraction/kv"
	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
	"github.com/Xenn-00/warteschlangen-meister/internal/konsole/apiclient"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

const (
	storageKey = "warteschlange:filters"
	// Gespeicherte Filter älter als 7 Tage gelten als abgelaufen und werden
	// beim Lesen gelöscht, nicht erst beim nächsten Schreiben.
	filterExpiry = 7 * 24 * time.Hour

	DefaultPageSize = 50
)

// persistedFilters ist der Datensatz in der lokalen KV-Ablage.
type persistedFilters struct {
	Filters   entity.FilterCriteria `json:"filters"`
	Timestamp time.Time             `json:"timestamp"`
}

type FilterStore struct {
	mu       sync.Mutex
	store    kv.Store
	api      apiclient.QueueAPIContract
	now      func() time.Time
	onChange func()
	current  entity.FilterCriteria
}

func NewFilterStore(store kv.Store, api apiclient.QueueAPIContract, onChange func()) *FilterStore {
	fs := &FilterStore{
		store:    store,
		api:      api,
		now:      time.Now,
		onChange: onChange,
	}
	fs.current = fs.restore()

	return fs
}

func defaultCriteria() entity.FilterCriteria {
	return entity.FilterCriteria{
		Page:     1,
		PageSize: DefaultPageSize,
	}
}

// restore liest den persistierten Datensatz. Abgelaufene oder unlesbare
// Datensätze werden entfernt und durch die Defaults ersetzt.
func (fs *FilterStore) restore() entity.FilterCriteria {
	raw, err := fs.store.Get(storageKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			log.Error().Err(err).Msg("filter store: read failed, falling back to defaults")
		}
		return defaultCriteria()
	}

	var record persistedFilters
	if err := json.Unmarshal(raw, &record); err != nil {
		log.Error().Err(err).Msg("filter store: corrupt record, dropping it")
		fs.deleteRecord()
		return defaultCriteria()
	}

	if fs.now().Sub(record.Timestamp) > filterExpiry {
		log.Info().Time("saved_at", record.Timestamp).Msg("filter store: record expired, dropping it")
		fs.deleteRecord()
		return defaultCriteria()
	}

	if record.Filters.Page < 1 {
		record.Filters.Page = 1
	}
	if record.Filters.PageSize < 1 {
		record.Filters.PageSize = DefaultPageSize
	}

	return record.Filters
}

func (fs *FilterStore) Load() entity.FilterCriteria {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.current
}

// Update wendet mutate auf eine Kopie der aktuellen Kriterien an. Ändert sich
// ein Facet jenseits der Blätterung, springt die Seite zurück auf 1.
func (fs *FilterStore) Update(mutate func(*entity.FilterCriteria)) {
	fs.mu.Lock()

	next := fs.current
	mutate(&next)

	if !facetsEqual(fs.current, next) {
		next.Page = 1
	}
	if next.Page < 1 {
		next.Page = 1
	}
	if next.PageSize < 1 {
		next.PageSize = DefaultPageSize
	}

	fs.current = next
	fs.persist(next)
	fs.mu.Unlock()

	if fs.onChange != nil {
		fs.onChange()
	}
}

func (fs *FilterStore) Clear() {
	fs.mu.Lock()
	fs.current = defaultCriteria()
	fs.deleteRecord()
	fs.mu.Unlock()

	if fs.onChange != nil {
		fs.onChange()
	}
}

// ActiveCount zählt die gesetzten Facetten (Priority, Aging, Type, Assignee,
// Status). Blätterung und Sortierung schränken die Menge nicht ein und zählen nicht.
func (fs *FilterStore) ActiveCount() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	count := 0
	if len(fs.current.Priority) > 0 {
		count++
	}
	if len(fs.current.Aging) > 0 {
		count++
	}
	if len(fs.current.Type) > 0 {
		count++
	}
	if fs.current.AssigneeID != nil {
		count++
	}
	if fs.current.Status != nil {
		count++
	}

	return count
}

// PullRemote übernimmt die serverseitig gemerkten Kriterien (last-write-wins).
func (fs *FilterStore) PullRemote(ctx context.Context) {
	filters, err := fs.api.GetFilterPreferences(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("filter store: remote pull failed, keeping local filters")
		return
	}

	fs.Update(func(fc *entity.FilterCriteria) {
		*fc = *filters
	})
}

func (fs *FilterStore) PushRemote(ctx context.Context) {
	fs.mu.Lock()
	current := fs.current
	fs.mu.Unlock()

	if err := fs.api.SaveFilterPreferences(ctx, current); err != nil {
		log.Warn().Err(err).Msg("filter store: remote push failed")
	}
}

func (fs *FilterStore) persist(filters entity.FilterCriteria) {
	raw, err := json.Marshal(persistedFilters{Filters: filters, Timestamp: fs.now()})
	if err != nil {
		log.Error().Err(err).Msg("filter store: marshal failed")
		return
	}

	if err := fs.store.Set(storageKey, raw); err != nil {
		log.Error().Err(err).Msg("filter store: write failed")
	}
}

func (fs *FilterStore) deleteRecord() {
	if err := fs.store.Delete(storageKey); err != nil && !errors.Is(err, kv.ErrNotFound) {
		log.Error().Err(err).Msg("filter store: delete failed")
	}
}

// facetsEqual vergleicht alles außer Page/PageSize.
func facetsEqual(a, b entity.FilterCriteria) bool {
	return slices.Equal(a.Priority, b.Priority) &&
		slices.Equal(a.Aging, b.Aging) &&
		slices.Equal(a.Type, b.Type) &&
		ptrEqual(a.AssigneeID, b.AssigneeID) &&
		ptrEqual(a.Status, b.Status) &&
		ptrEqual(a.SortBy, b.SortBy)
}

func ptrEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
