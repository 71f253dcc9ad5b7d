package bulkjob_case

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
	app_errors "github.com/Xenn-00/warteschlangen-meister/internal/errors"
	"github.com/Xenn-00/warteschlangen-meister/internal/konsole/notify"
	selection_case "github.com/Xenn-00/warteschlangen-meister/internal/konsole/selection-case"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testPollInterval = 5 * time.Millisecond

// recordingNotifier collects notices so tests can assert on them.
type recordingNotifier struct {
	mu      sync.Mutex
	notices []string
	params  []map[string]any
}

func (n *recordingNotifier) Notify(level notify.Level, messageKey string, params map[string]any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, messageKey)
	n.params = append(n.params, params)
}

func (n *recordingNotifier) keys() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.notices))
	copy(out, n.notices)
	return out
}

// countingSelection wraps the real set to count Clear calls.
type countingSelection struct {
	*selection_case.SelectionSet
	mu     sync.Mutex
	clears int
}

func (s *countingSelection) Clear() {
	s.mu.Lock()
	s.clears++
	s.mu.Unlock()
	s.SelectionSet.Clear()
}

func (s *countingSelection) clearCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears
}

func waitDone(t *testing.T, o *BulkJobOrchestrator) {
	t.Helper()
	select {
	case <-o.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("bulk job polling did not finish")
	}
}

func assignedTo(id, assignee string) entity.AssignmentEntity {
	return entity.AssignmentEntity{
		ID:         id,
		AssigneeID: &assignee,
		Status:     entity.AssignmentAssigned,
		AssignedAt: time.Now().Add(-80 * time.Hour),
	}
}

func unassigned(id string) entity.AssignmentEntity {
	return entity.AssignmentEntity{
		ID:     id,
		Status: entity.AssignmentPending,
	}
}

// Test Happy path including the skipped-count report
func TestSubmit_SkipsUnassignableAndReportsCount(t *testing.T) {
	ctx := context.Background()

	api := new(MockQueueAPI)
	selection := &countingSelection{SelectionSet: selection_case.NewSelectionSet()}
	notifier := &recordingNotifier{}
	invalidations := 0
	o := NewBulkJobOrchestrator(api, selection, notifier, func() { invalidations++ }, testPollInterval)

	assignments := []entity.AssignmentEntity{
		assignedTo("a-1", "operator-2"),
		unassigned("a-2"),
		assignedTo("a-3", "operator-3"),
		unassigned("a-4"),
	}

	api.On("SubmitBulkJob", ctx, []string{"a-1", "a-3"}).Return("job-1", (*app_errors.AppError)(nil))

	completed := &entity.BulkReminderJob{
		ID:              "job-1",
		Status:          entity.BulkJobCompleted,
		TotalItems:      2,
		ProcessedItems:  2,
		SuccessfulItems: 2,
	}
	api.On("GetBulkJobStatus", mock.Anything, "job-1").Return(completed, (*app_errors.AppError)(nil))

	jobID, err := o.Submit(ctx, assignments)

	assert.Nil(t, err)
	assert.Equal(t, "job-1", jobID)

	waitDone(t, o)

	assert.Contains(t, notifier.keys(), "bulk.skipped_items")
	assert.Contains(t, notifier.keys(), "bulk.completed")
	assert.Equal(t, 1, invalidations)

	api.AssertExpectations(t)
}

// Test a selection with nothing assignable: fails locally, no network
func TestSubmit_EmptySelection(t *testing.T) {
	ctx := context.Background()

	api := new(MockQueueAPI)
	selection := &countingSelection{SelectionSet: selection_case.NewSelectionSet()}
	notifier := &recordingNotifier{}
	o := NewBulkJobOrchestrator(api, selection, notifier, nil, testPollInterval)

	jobID, err := o.Submit(ctx, []entity.AssignmentEntity{unassigned("a-1"), unassigned("a-2")})

	assert.Empty(t, jobID)
	assert.NotNil(t, err)
	assert.Equal(t, 422, err.Code)
	assert.Equal(t, app_errors.ErrEmptySelection, err.Type)

	api.AssertNotCalled(t, "SubmitBulkJob", mock.Anything, mock.Anything)
	assert.False(t, o.InFlight())
}

// Test the single-flight rule
func TestSubmit_RejectedWhileJobInFlight(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := new(MockQueueAPI)
	selection := &countingSelection{SelectionSet: selection_case.NewSelectionSet()}
	notifier := &recordingNotifier{}
	o := NewBulkJobOrchestrator(api, selection, notifier, nil, time.Hour)

	api.On("SubmitBulkJob", ctx, []string{"a-1"}).Return("job-1", (*app_errors.AppError)(nil))

	_, err := o.Submit(ctx, []entity.AssignmentEntity{assignedTo("a-1", "operator-2")})
	assert.Nil(t, err)
	assert.True(t, o.InFlight())

	_, err = o.Submit(ctx, []entity.AssignmentEntity{assignedTo("a-1", "operator-2")})

	assert.NotNil(t, err)
	assert.Equal(t, 409, err.Code)
	assert.Equal(t, app_errors.ErrJobInFlight, err.Type)

	cancel()
	waitDone(t, o)
	assert.False(t, o.InFlight())
}

// Test that polling stops at the first terminal status and the selection is
// cleared exactly once
func TestPoll_StopsOnFirstTerminalAndClearsSelectionOnce(t *testing.T) {
	ctx := context.Background()

	api := new(MockQueueAPI)
	selection := &countingSelection{SelectionSet: selection_case.NewSelectionSet()}
	selection.Toggle("a-1")
	notifier := &recordingNotifier{}
	o := NewBulkJobOrchestrator(api, selection, notifier, nil, testPollInterval)

	api.On("SubmitBulkJob", ctx, []string{"a-1"}).Return("job-1", (*app_errors.AppError)(nil))

	running := &entity.BulkReminderJob{ID: "job-1", Status: entity.BulkJobRunning, TotalItems: 1}
	completed := &entity.BulkReminderJob{ID: "job-1", Status: entity.BulkJobCompleted, TotalItems: 1, ProcessedItems: 1, SuccessfulItems: 1}

	api.On("GetBulkJobStatus", mock.Anything, "job-1").Return(running, (*app_errors.AppError)(nil)).Twice()
	api.On("GetBulkJobStatus", mock.Anything, "job-1").Return(completed, (*app_errors.AppError)(nil)).Once()

	_, err := o.Submit(ctx, []entity.AssignmentEntity{assignedTo("a-1", "operator-2")})
	assert.Nil(t, err)

	waitDone(t, o)

	// no poll may happen after the terminal status was observed
	time.Sleep(4 * testPollInterval)
	api.AssertNumberOfCalls(t, "GetBulkJobStatus", 3)

	assert.Equal(t, 1, selection.clearCount())
	assert.Equal(t, 0, selection.Size())
}

// Test partial success: still a completion, reported as a mixed summary
func TestPoll_PartialSuccessReportsMixedSummary(t *testing.T) {
	ctx := context.Background()

	api := new(MockQueueAPI)
	selection := &countingSelection{SelectionSet: selection_case.NewSelectionSet()}
	notifier := &recordingNotifier{}
	o := NewBulkJobOrchestrator(api, selection, notifier, nil, testPollInterval)

	api.On("SubmitBulkJob", ctx, []string{"a-1", "a-2"}).Return("job-2", (*app_errors.AppError)(nil))

	partial := &entity.BulkReminderJob{
		ID:              "job-2",
		Status:          entity.BulkJobCompleted,
		TotalItems:      2,
		ProcessedItems:  2,
		SuccessfulItems: 1,
		FailedItems:     1,
	}
	api.On("GetBulkJobStatus", mock.Anything, "job-2").Return(partial, (*app_errors.AppError)(nil))

	_, err := o.Submit(ctx, []entity.AssignmentEntity{
		assignedTo("a-1", "operator-2"),
		assignedTo("a-2", "operator-3"),
	})
	assert.Nil(t, err)

	waitDone(t, o)

	keys := notifier.keys()
	assert.Contains(t, keys, "bulk.completed_partial")
	assert.NotContains(t, keys, "bulk.completed")
	assert.NotContains(t, keys, "bulk.failed")
	assert.Equal(t, 1, selection.clearCount())
}

// Test a hard failure: selection untouched so the operator can retry
func TestPoll_FailedJobKeepsSelection(t *testing.T) {
	ctx := context.Background()

	api := new(MockQueueAPI)
	selection := &countingSelection{SelectionSet: selection_case.NewSelectionSet()}
	selection.Toggle("a-1")
	notifier := &recordingNotifier{}
	o := NewBulkJobOrchestrator(api, selection, notifier, nil, testPollInterval)

	api.On("SubmitBulkJob", ctx, []string{"a-1"}).Return("job-3", (*app_errors.AppError)(nil))

	failed := &entity.BulkReminderJob{ID: "job-3", Status: entity.BulkJobFailed, TotalItems: 1}
	api.On("GetBulkJobStatus", mock.Anything, "job-3").Return(failed, (*app_errors.AppError)(nil))

	_, err := o.Submit(ctx, []entity.AssignmentEntity{assignedTo("a-1", "operator-2")})
	assert.Nil(t, err)

	waitDone(t, o)

	assert.Contains(t, notifier.keys(), "bulk.failed")
	assert.Equal(t, 0, selection.clearCount())
	assert.True(t, selection.IsSelected("a-1"))

	// the terminal status frees the session for the next submit
	assert.False(t, o.InFlight())
}

// Test that a vanished job record (expired TTL) ends the polling with a notice
func TestPoll_JobNotFoundEndsPolling(t *testing.T) {
	ctx := context.Background()

	api := new(MockQueueAPI)
	selection := &countingSelection{SelectionSet: selection_case.NewSelectionSet()}
	selection.Toggle("a-1")
	notifier := &recordingNotifier{}
	invalidations := 0
	o := NewBulkJobOrchestrator(api, selection, notifier, func() { invalidations++ }, testPollInterval)

	api.On("SubmitBulkJob", ctx, []string{"a-1"}).Return("job-5", (*app_errors.AppError)(nil))

	missing := app_errors.NewAppError(404, app_errors.ErrNotFound, "job_not_found", nil)
	api.On("GetBulkJobStatus", mock.Anything, "job-5").Return((*entity.BulkReminderJob)(nil), missing)

	_, err := o.Submit(ctx, []entity.AssignmentEntity{assignedTo("a-1", "operator-2")})
	assert.Nil(t, err)

	waitDone(t, o)

	// a 404 is final on the first sighting, not after retries
	api.AssertNumberOfCalls(t, "GetBulkJobStatus", 1)
	assert.Contains(t, notifier.keys(), "bulk.poll_failed")
	assert.Equal(t, 1, invalidations)

	// no terminal status seen: selection stays for a retry, session is free
	assert.Equal(t, 0, selection.clearCount())
	assert.True(t, selection.IsSelected("a-1"))
	assert.False(t, o.InFlight())
}

// Test that repeated poll errors give up instead of spinning forever
func TestPoll_GivesUpAfterConsecutiveErrors(t *testing.T) {
	ctx := context.Background()

	api := new(MockQueueAPI)
	selection := &countingSelection{SelectionSet: selection_case.NewSelectionSet()}
	selection.Toggle("a-1")
	notifier := &recordingNotifier{}
	o := NewBulkJobOrchestrator(api, selection, notifier, nil, testPollInterval)

	api.On("SubmitBulkJob", ctx, []string{"a-1"}).Return("job-6", (*app_errors.AppError)(nil))

	down := app_errors.NewAppError(500, app_errors.ErrInternal, "internal_error", nil)
	api.On("GetBulkJobStatus", mock.Anything, "job-6").Return((*entity.BulkReminderJob)(nil), down)

	_, err := o.Submit(ctx, []entity.AssignmentEntity{assignedTo("a-1", "operator-2")})
	assert.Nil(t, err)

	waitDone(t, o)

	api.AssertNumberOfCalls(t, "GetBulkJobStatus", maxPollFailures)
	assert.Contains(t, notifier.keys(), "bulk.poll_failed")
	assert.Equal(t, 0, selection.clearCount())
	assert.False(t, o.InFlight())
}

// Test that a transient error streak broken by a good poll does not abort
func TestPoll_ErrorStreakResetsOnSuccess(t *testing.T) {
	ctx := context.Background()

	api := new(MockQueueAPI)
	selection := &countingSelection{SelectionSet: selection_case.NewSelectionSet()}
	selection.Toggle("a-1")
	notifier := &recordingNotifier{}
	o := NewBulkJobOrchestrator(api, selection, notifier, nil, testPollInterval)

	api.On("SubmitBulkJob", ctx, []string{"a-1"}).Return("job-7", (*app_errors.AppError)(nil))

	down := app_errors.NewAppError(500, app_errors.ErrInternal, "internal_error", nil)
	running := &entity.BulkReminderJob{ID: "job-7", Status: entity.BulkJobRunning, TotalItems: 1}
	completed := &entity.BulkReminderJob{ID: "job-7", Status: entity.BulkJobCompleted, TotalItems: 1, ProcessedItems: 1, SuccessfulItems: 1}

	api.On("GetBulkJobStatus", mock.Anything, "job-7").Return((*entity.BulkReminderJob)(nil), down).Times(maxPollFailures - 1)
	api.On("GetBulkJobStatus", mock.Anything, "job-7").Return(running, (*app_errors.AppError)(nil)).Once()
	api.On("GetBulkJobStatus", mock.Anything, "job-7").Return((*entity.BulkReminderJob)(nil), down).Times(maxPollFailures - 1)
	api.On("GetBulkJobStatus", mock.Anything, "job-7").Return(completed, (*app_errors.AppError)(nil)).Once()

	_, err := o.Submit(ctx, []entity.AssignmentEntity{assignedTo("a-1", "operator-2")})
	assert.Nil(t, err)

	waitDone(t, o)

	keys := notifier.keys()
	assert.Contains(t, keys, "bulk.completed")
	assert.NotContains(t, keys, "bulk.poll_failed")
	assert.Equal(t, 1, selection.clearCount())
}
