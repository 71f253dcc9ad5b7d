package queue_case

import (
	"context"
	"testing"
	"time"

	queue_dto "github.com/Xenn-00/warteschlangen-meister/internal/dtos/queue-dto"
	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
	app_errors "github.com/Xenn-00/warteschlangen-meister/internal/errors"
	worker_task "github.com/Xenn-00/warteschlangen-meister/internal/worker/tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Test Happy path: unassignable ids are dropped server-side as well
func TestSubmitBulkReminders_Success(t *testing.T) {
	ctx := context.Background()

	repo := new(MockAssignmentRepo)
	jobs := new(MockJobRepo)
	taskQueue := new(MockTaskQueue)
	service := &QueueService{
		repo:      repo,
		jobs:      jobs,
		taskQueue: taskQueue,
	}

	assignee := "operator-2"
	ids := []string{
		"0191b2c4-0000-7000-8000-000000000001",
		"0191b2c4-0000-7000-8000-000000000002",
	}
	assignments := []entity.AssignmentEntity{
		{ID: ids[0], AssigneeID: &assignee, Status: entity.AssignmentAssigned, AssignedAt: time.Now().Add(-80 * time.Hour)},
		{ID: ids[1], AssigneeID: nil, Status: entity.AssignmentPending, AssignedAt: time.Now().Add(-30 * time.Hour)},
	}

	repo.On("ListAssignmentsByIDs", ctx, ids).Return(assignments, (*app_errors.AppError)(nil))

	jobs.On("SaveJob", ctx, mock.MatchedBy(func(job *entity.BulkReminderJob) bool {
		return job.Status == entity.BulkJobPending && job.TotalItems == 1
	})).Return((*app_errors.AppError)(nil))

	taskQueue.On("EnqueueProcessBulkReminders", mock.MatchedBy(func(p *worker_task.ProcessBulkRemindersPayload) bool {
		return len(p.AssignmentIDs) == 1 && p.AssignmentIDs[0] == ids[0]
	})).Return(nil)

	resp, err := service.SubmitBulkReminders(ctx, &queue_dto.BulkReminderRequest{AssignmentIDs: ids})

	assert.Nil(t, err)
	assert.NotNil(t, resp)
	assert.NotEmpty(t, resp.JobID)

	repo.AssertExpectations(t)
	jobs.AssertExpectations(t)
	taskQueue.AssertExpectations(t)
}

// Test when no selected assignment has an assignee
func TestSubmitBulkReminders_NoEligibleAssignments(t *testing.T) {
	ctx := context.Background()

	repo := new(MockAssignmentRepo)
	jobs := new(MockJobRepo)
	taskQueue := new(MockTaskQueue)
	service := &QueueService{
		repo:      repo,
		jobs:      jobs,
		taskQueue: taskQueue,
	}

	ids := []string{"0191b2c4-0000-7000-8000-000000000009"}
	assignments := []entity.AssignmentEntity{
		{ID: ids[0], AssigneeID: nil, Status: entity.AssignmentPending},
	}

	repo.On("ListAssignmentsByIDs", ctx, ids).Return(assignments, (*app_errors.AppError)(nil))

	resp, err := service.SubmitBulkReminders(ctx, &queue_dto.BulkReminderRequest{AssignmentIDs: ids})

	assert.Nil(t, resp)
	assert.NotNil(t, err)
	assert.Equal(t, 422, err.Code)
	assert.Equal(t, app_errors.ErrEmptySelection, err.Type)

	jobs.AssertNotCalled(t, "SaveJob", mock.Anything, mock.Anything)
	taskQueue.AssertNotCalled(t, "EnqueueProcessBulkReminders", mock.Anything)
	repo.AssertExpectations(t)
}

// Test reading back a terminal job record
func TestGetBulkJobStatus_Terminal(t *testing.T) {
	ctx := context.Background()

	jobs := new(MockJobRepo)
	service := &QueueService{jobs: jobs}

	job := &entity.BulkReminderJob{
		ID:              "0191b2c4-0000-7000-8000-00000000000a",
		Status:          entity.BulkJobCompleted,
		TotalItems:      3,
		ProcessedItems:  3,
		SuccessfulItems: 2,
		FailedItems:     1,
	}

	jobs.On("GetJobByID", ctx, job.ID).Return(job, (*app_errors.AppError)(nil))

	got, err := service.GetBulkJobStatus(ctx, job.ID)

	assert.Nil(t, err)
	assert.True(t, got.IsTerminal())
	assert.Equal(t, 2, got.SuccessfulItems)
	assert.Equal(t, 1, got.FailedItems)

	jobs.AssertExpectations(t)
}
