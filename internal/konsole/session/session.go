package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Xenn-00/warteschlangen-meister/internal/abstraction/kv"
	queue_dto "github.com/Xenn-00/warteschlangen-meister/internal/dtos/queue-dto"
	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
	app_errors "github.com/Xenn-00/warteschlangen-meister/internal/errors"
	"github.com/Xenn-00/warteschlangen-meister/internal/feed"
	"github.com/Xenn-00/warteschlangen-meister/internal/konsole/apiclient"
	bulkjob_case "github.com/Xenn-00/warteschlangen-meister/internal/konsole/bulkjob-case"
	filter_case "github.com/Xenn-00/warteschlangen-meister/internal/konsole/filter-case"
	"github.com/Xenn-00/warteschlangen-meister/internal/konsole/notify"
	"github.com/Xenn-00/warteschlangen-meister/internal/konsole/queueview"
	"github.com/Xenn-00/warteschlangen-meister/internal/konsole/reconcile"
	reminder_case "github.com/Xenn-00/warteschlangen-meister/internal/konsole/reminder-case"
	selection_case "github.com/Xenn-00/warteschlangen-meister/internal/konsole/selection-case"
	"github.com/rs/zerolog/log"
)

// Session besitzt die gecachte Assignment-Liste und verdrahtet Filter,
// Auswahl, Reminder-Versand, Bulk-Jobs und Reconciliation. Die Liste wird
// lazy geladen und nach jeder Invalidierung beim nächsten Zugriff neu geholt.
type Session struct {
	api       apiclient.QueueAPIContract
	Filters   filter_case.FilterStoreContract
	Selection selection_case.SelectionContract
	Reminders reminder_case.ReminderDispatcherContract
	BulkJobs  bulkjob_case.BulkJobContract
	notifier  notify.Notifier

	mu         sync.Mutex
	cached     []entity.AssignmentEntity
	pagination queue_dto.PaginationInfo
	stale      bool

	cancel   context.CancelFunc
	teardown func()
}

func New(parent context.Context, api apiclient.QueueAPIContract, store kv.Store, subscriber feed.SubscriberContract, notifier notify.Notifier, pollInterval time.Duration) *Session {
	ctx, cancel := context.WithCancel(parent)

	s := &Session{
		api:      api,
		notifier: notifier,
		stale:    true,
		cancel:   cancel,
	}

	s.Filters = filter_case.NewFilterStore(store, api, s.Invalidate)
	s.Selection = selection_case.NewSelectionSet()
	s.Reminders = reminder_case.NewReminderDispatcher(api, func(string) { s.Invalidate() })
	s.BulkJobs = bulkjob_case.NewBulkJobOrchestrator(api, s.Selection, notifier, s.Invalidate, pollInterval)

	listener := reconcile.NewListener(s.Selection, notifier, s.Invalidate)
	events, teardown := subscriber.Subscribe(ctx)
	s.teardown = teardown
	go listener.Run(ctx, events)

	return s
}

// Invalidate markiert die gecachte Liste als veraltet. Der nächste Zugriff holt neu.
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
}

// Assignments liefert die Liste zu den aktiven Filterkriterien, aus dem Cache
// solange keine Invalidierung vorliegt.
func (s *Session) Assignments(ctx context.Context) ([]entity.AssignmentEntity, queue_dto.PaginationInfo, *app_errors.AppError) {
	s.mu.Lock()
	if !s.stale {
		cached, pagination := s.cached, s.pagination
		s.mu.Unlock()
		return cached, pagination, nil
	}
	s.mu.Unlock()

	resp, err := s.api.ListAssignments(ctx, s.Filters.Load())
	if err != nil {
		return nil, queue_dto.PaginationInfo{}, err
	}

	s.mu.Lock()
	s.cached = resp.Data
	s.pagination = resp.Pagination
	s.stale = false
	s.mu.Unlock()

	return resp.Data, resp.Pagination, nil
}

// View komponiert die Render-Sicht für den aktiven Typ-Tab.
func (s *Session) View(ctx context.Context, activeType *entity.WorkItemType) (queueview.View, *app_errors.AppError) {
	assignments, _, err := s.Assignments(ctx)
	if err != nil {
		return queueview.View{}, err
	}

	return queueview.Compose(assignments, activeType), nil
}

// ToggleSelection schaltet die Auswahl einer ID um. Läuft die Auswahl gegen
// die Obergrenze, bleibt sie unverändert und die Bedienperson bekommt genau
// eine Warnung.
func (s *Session) ToggleSelection(assignmentID string) selection_case.ToggleOutcome {
	outcome := s.Selection.Toggle(assignmentID)
	if outcome == selection_case.ToggleRejected {
		s.notifier.Notify(notify.LevelWarning, "selection.limit_reached", map[string]any{"max": selection_case.MaxSelection})
	}

	return outcome
}

// SelectAllVisible ersetzt die Auswahl durch die aktuelle Sicht (Präfix bis
// zur Obergrenze) und meldet abgeschnittene IDs einmalig.
func (s *Session) SelectAllVisible(ctx context.Context) *app_errors.AppError {
	assignments, _, err := s.Assignments(ctx)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.ID)
	}

	if truncated := s.Selection.SelectAll(ids); truncated > 0 {
		s.notifier.Notify(notify.LevelWarning, "selection.truncated", map[string]any{
			"max":       selection_case.MaxSelection,
			"truncated": truncated,
		})
	}

	return nil
}

// Remind verschickt einen Einzel-Reminder für ein Assignment aus der
// aktuellen Sicht.
func (s *Session) Remind(ctx context.Context, assignmentID string) *app_errors.AppError {
	assignment := s.lookup(assignmentID)
	if assignment == nil {
		return app_errors.NewAppError(http.StatusNotFound, app_errors.ErrAssignmentMissing, "assignment_not_found", nil)
	}

	return s.Reminders.Dispatch(ctx, assignment)
}

// SubmitBulk reicht die aktuelle Auswahl als Bulk-Reminder-Job ein. IDs, die
// inzwischen aus der Sicht verschwunden sind, fallen still raus; die
// Reconciliation hat sie in aller Regel ohnehin schon entfernt.
func (s *Session) SubmitBulk(ctx context.Context) (string, *app_errors.AppError) {
	ids := s.Selection.IDs()

	assignments := make([]entity.AssignmentEntity, 0, len(ids))
	for _, id := range ids {
		if a := s.lookup(id); a != nil {
			assignments = append(assignments, *a)
		}
	}

	return s.BulkJobs.Submit(ctx, assignments)
}

func (s *Session) lookup(assignmentID string) *entity.AssignmentEntity {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cached {
		if s.cached[i].ID == assignmentID {
			a := s.cached[i]
			return &a
		}
	}

	return nil
}

// Close beendet Reconciliation und Polling. Kein Polling-Loop und keine
// Feed-Subscription überlebt die Session.
func (s *Session) Close() {
	s.cancel()
	if s.teardown != nil {
		s.teardown()
	}
	log.Info().Msg("konsole session closed")
}
