package worker_handler

import (
	"context"
	"testing"
	"time"

	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
	app_errors "github.com/Xenn-00/warteschlangen-meister/internal/errors"
	worker_task "github.com/Xenn-00/warteschlangen-meister/internal/worker/tasks"
	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/time/rate"
)

func newTestHandler(ar *MockAssignmentRepo, jr *MockJobRepo, mailer *MockMailer, publisher *MockPublisher) *WorkerHander {
	return &WorkerHander{
		ar:         ar,
		jr:         jr,
		mailer:     mailer,
		publisher:  publisher,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		mailDomain: "example.test",
	}
}

func bulkTask(t *testing.T, jobID string, assignmentIDs []string) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(&worker_task.ProcessBulkRemindersPayload{
		JobID:         jobID,
		AssignmentIDs: assignmentIDs,
	})
	assert.NoError(t, err)
	return asynq.NewTask(worker_task.TaskProcessBulkReminders, payload)
}

// Test that an item losing the version race is counted failed without a mail
func TestProcessBulkReminders_VersionConflictMailsNothing(t *testing.T) {
	ctx := context.Background()

	ar := new(MockAssignmentRepo)
	jr := new(MockJobRepo)
	mailer := new(MockMailer)
	publisher := new(MockPublisher)
	wh := newTestHandler(ar, jr, mailer, publisher)

	assignee := "operator-4"
	assignment := &entity.AssignmentEntity{
		ID:           "0191b2c4-0000-7000-8000-00000000000a",
		WorkItemID:   "ticket-3",
		WorkItemType: entity.WorkItemTicket,
		AssigneeID:   &assignee,
		Priority:     entity.PriorityHigh,
		Status:       entity.AssignmentAssigned,
		AssignedAt:   time.Now().Add(-72 * time.Hour),
		Version:      2,
	}

	job := &entity.BulkReminderJob{ID: "job-1", Status: entity.BulkJobPending, TotalItems: 1}
	jr.On("GetJobByID", ctx, "job-1").Return(job, (*app_errors.AppError)(nil))
	jr.On("SaveJob", ctx, job).Return((*app_errors.AppError)(nil))

	ar.On("GetAssignmentByID", ctx, assignment.ID).Return(assignment, (*app_errors.AppError)(nil))
	conflict := app_errors.NewAppError(409, app_errors.ErrVersionConflict, "conflict.version", nil)
	ar.On("MarkReminderSent", ctx, assignment.ID, int64(2)).Return((*entity.AssignmentEntity)(nil), conflict)

	err := wh.ProcessBulkReminders()(ctx, bulkTask(t, "job-1", []string{assignment.ID}))

	assert.NoError(t, err)
	assert.Equal(t, entity.BulkJobCompleted, job.Status)
	assert.Equal(t, 1, job.FailedItems)
	assert.Equal(t, 0, job.SuccessfulItems)

	// whoever bumped the version already reminded; this item must stay silent
	mailer.AssertNotCalled(t, "SendAssignmentReminder", mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "PublishChange", mock.Anything, mock.Anything)
	ar.AssertExpectations(t)
}

// Test the happy path: commit first, then mail, then feed event
func TestProcessBulkReminders_SuccessMailsAfterCommit(t *testing.T) {
	ctx := context.Background()

	ar := new(MockAssignmentRepo)
	jr := new(MockJobRepo)
	mailer := new(MockMailer)
	publisher := new(MockPublisher)
	wh := newTestHandler(ar, jr, mailer, publisher)

	assignee := "operator-5"
	assignment := &entity.AssignmentEntity{
		ID:           "0191b2c4-0000-7000-8000-00000000000b",
		WorkItemID:   "dossier-8",
		WorkItemType: entity.WorkItemDossier,
		AssigneeID:   &assignee,
		Priority:     entity.PriorityUrgent,
		Status:       entity.AssignmentAssigned,
		AssignedAt:   time.Now().Add(-96 * time.Hour),
		Version:      1,
	}
	sentAt := time.Now()
	updated := &entity.AssignmentEntity{
		ID:                 assignment.ID,
		WorkItemID:         assignment.WorkItemID,
		WorkItemType:       assignment.WorkItemType,
		AssigneeID:         &assignee,
		Priority:           assignment.Priority,
		Status:             assignment.Status,
		AssignedAt:         assignment.AssignedAt,
		LastReminderSentAt: &sentAt,
		Version:            2,
	}

	job := &entity.BulkReminderJob{ID: "job-2", Status: entity.BulkJobPending, TotalItems: 1}
	jr.On("GetJobByID", ctx, "job-2").Return(job, (*app_errors.AppError)(nil))
	jr.On("SaveJob", ctx, job).Return((*app_errors.AppError)(nil))

	ar.On("GetAssignmentByID", ctx, assignment.ID).Return(assignment, (*app_errors.AppError)(nil))
	ar.On("MarkReminderSent", ctx, assignment.ID, int64(1)).Return(updated, (*app_errors.AppError)(nil))
	mailer.On("SendAssignmentReminder", assignment, "operator-5@example.test").Return(nil)
	publisher.On("PublishChange", ctx, mock.Anything).Return(nil)

	err := wh.ProcessBulkReminders()(ctx, bulkTask(t, "job-2", []string{assignment.ID}))

	assert.NoError(t, err)
	assert.Equal(t, entity.BulkJobCompleted, job.Status)
	assert.Equal(t, 1, job.SuccessfulItems)
	assert.Equal(t, 0, job.FailedItems)

	ar.AssertExpectations(t)
	mailer.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

// Test that a terminal job record is never reprocessed
func TestProcessBulkReminders_TerminalJobIsIdempotent(t *testing.T) {
	ctx := context.Background()

	ar := new(MockAssignmentRepo)
	jr := new(MockJobRepo)
	mailer := new(MockMailer)
	publisher := new(MockPublisher)
	wh := newTestHandler(ar, jr, mailer, publisher)

	job := &entity.BulkReminderJob{ID: "job-3", Status: entity.BulkJobCompleted, TotalItems: 2}
	jr.On("GetJobByID", ctx, "job-3").Return(job, (*app_errors.AppError)(nil))

	err := wh.ProcessBulkReminders()(ctx, bulkTask(t, "job-3", []string{"a-1", "a-2"}))

	assert.NoError(t, err)
	ar.AssertNotCalled(t, "GetAssignmentByID", mock.Anything, mock.Anything)
	mailer.AssertNotCalled(t, "SendAssignmentReminder", mock.Anything, mock.Anything)
}
