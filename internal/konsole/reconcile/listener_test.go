package reconcile

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
	"github.com/Xenn-00/warteschlangen-meister/internal/konsole/notify"
	selection_case "github.com/Xenn-00/warteschlangen-meister/internal/konsole/selection-case"
	"github.com/stretchr/testify/assert"
)

type recordingNotifier struct {
	mu      sync.Mutex
	notices []string
}

func (n *recordingNotifier) Notify(level notify.Level, messageKey string, params map[string]any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, messageKey)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.notices)
}

func completedAssignment(id string) *entity.AssignmentEntity {
	assignee := "operator-2"
	return &entity.AssignmentEntity{
		ID:           id,
		WorkItemID:   "dossier-41",
		WorkItemType: entity.WorkItemDossier,
		AssigneeID:   &assignee,
		Status:       entity.AssignmentCompleted,
		Version:      7,
	}
}

// Test that a completion event removes the id from the selection and
// invalidates the cached list exactly once
func TestApply_TerminalUpdateRemovesSelectedID(t *testing.T) {
	selection := selection_case.NewSelectionSet()
	selection.Toggle("a-1")
	selection.Toggle("a-2")
	notifier := &recordingNotifier{}
	invalidations := 0

	l := NewListener(selection, notifier, func() { invalidations++ })

	l.Apply(entity.ChangeEvent{
		EventType: entity.ChangeUpdate,
		New:       completedAssignment("a-1"),
	})

	assert.False(t, selection.IsSelected("a-1"))
	assert.True(t, selection.IsSelected("a-2"))
	assert.Equal(t, 1, invalidations)
	assert.Equal(t, []string{"queue.item_left"}, notifier.notices)
}

// Test a cancellation event for an id that was never selected: still one
// notice, still one invalidation, selection untouched
func TestApply_TerminalUpdateForUnselectedID(t *testing.T) {
	selection := selection_case.NewSelectionSet()
	selection.Toggle("a-2")
	notifier := &recordingNotifier{}
	invalidations := 0

	l := NewListener(selection, notifier, func() { invalidations++ })

	cancelled := completedAssignment("a-9")
	cancelled.Status = entity.AssignmentCancelled
	l.Apply(entity.ChangeEvent{EventType: entity.ChangeUpdate, New: cancelled})

	assert.True(t, selection.IsSelected("a-2"))
	assert.Equal(t, 1, invalidations)
	assert.Equal(t, 1, notifier.count())
}

// Test non-terminal events: invalidate only, no selection mutation, no notice
func TestApply_NonTerminalEventsOnlyInvalidate(t *testing.T) {
	selection := selection_case.NewSelectionSet()
	selection.Toggle("a-1")
	notifier := &recordingNotifier{}
	invalidations := 0

	l := NewListener(selection, notifier, func() { invalidations++ })

	reassigned := completedAssignment("a-1")
	reassigned.Status = entity.AssignmentAssigned
	l.Apply(entity.ChangeEvent{EventType: entity.ChangeUpdate, New: reassigned})

	fresh := completedAssignment("a-3")
	fresh.Status = entity.AssignmentPending
	l.Apply(entity.ChangeEvent{EventType: entity.ChangeInsert, New: fresh})

	gone := completedAssignment("a-4")
	l.Apply(entity.ChangeEvent{EventType: entity.ChangeDelete, Old: gone})

	assert.True(t, selection.IsSelected("a-1"))
	assert.Equal(t, 3, invalidations)
	assert.Equal(t, 0, notifier.count())
}

// Test that Run consumes the feed until the channel closes
func TestRun_ConsumesUntilChannelCloses(t *testing.T) {
	selection := selection_case.NewSelectionSet()
	selection.Toggle("a-1")
	notifier := &recordingNotifier{}
	invalidations := 0

	l := NewListener(selection, notifier, func() { invalidations++ })

	events := make(chan entity.ChangeEvent, 2)
	done := make(chan struct{})
	go func() {
		l.Run(context.Background(), events)
		close(done)
	}()

	events <- entity.ChangeEvent{EventType: entity.ChangeUpdate, New: completedAssignment("a-1")}
	close(events)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop on channel close")
	}

	assert.False(t, selection.IsSelected("a-1"))
	assert.Equal(t, 1, invalidations)
}

// Test teardown via context
func TestRun_StopsOnContextCancel(t *testing.T) {
	selection := selection_case.NewSelectionSet()
	notifier := &recordingNotifier{}

	l := NewListener(selection, notifier, func() {})

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan entity.ChangeEvent)
	done := make(chan struct{})
	go func() {
		l.Run(ctx, events)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop on context cancel")
	}
}
