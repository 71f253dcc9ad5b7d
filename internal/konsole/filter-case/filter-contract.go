package filter_case

import (
	"context"

	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
)

// FilterStoreContract verwaltet die Filterkriterien einer Konsolen-Session.
// Persistenzfehler werden geloggt und niemals an Aufrufer zurückgegeben:
// Filtern muss auch ohne funktionierende lokale Ablage möglich bleiben.
type FilterStoreContract interface {
	Load() entity.FilterCriteria
	Update(mutate func(*entity.FilterCriteria))
	Clear()
	ActiveCount() int
	PullRemote(ctx context.Context)
	PushRemote(ctx context.Context)
}
