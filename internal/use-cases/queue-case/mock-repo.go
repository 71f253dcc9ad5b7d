package queue_case

import (
	"context"
	"time"

	queue_dto "github.com/Xenn-00/warteschlangen-meister/internal/dtos/queue-dto"
	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
	app_errors "github.com/Xenn-00/warteschlangen-meister/internal/errors"
	worker_task "github.com/Xenn-00/warteschlangen-meister/internal/worker/tasks"
	"github.com/stretchr/testify/mock"
)

type MockAssignmentRepo struct {
	mock.Mock
}

// Mocking repository that being used in method
func (m *MockAssignmentRepo) GetAssignmentByID(ctx context.Context, assignmentID string) (*entity.AssignmentEntity, *app_errors.AppError) {
	args := m.Called(ctx, assignmentID)
	return args.Get(0).(*entity.AssignmentEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockAssignmentRepo) ListAssignments(ctx context.Context, operatorID string, filter *queue_dto.AssignmentListFilter) ([]entity.AssignmentEntity, int, *app_errors.AppError) {
	args := m.Called(ctx, operatorID, filter)
	return args.Get(0).([]entity.AssignmentEntity), args.Int(1), args.Get(2).(*app_errors.AppError)
}

func (m *MockAssignmentRepo) ListAssignmentsByIDs(ctx context.Context, assignmentIDs []string) ([]entity.AssignmentEntity, *app_errors.AppError) {
	args := m.Called(ctx, assignmentIDs)
	return args.Get(0).([]entity.AssignmentEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockAssignmentRepo) MarkReminderSent(ctx context.Context, assignmentID string, version int64) (*entity.AssignmentEntity, *app_errors.AppError) {
	args := m.Called(ctx, assignmentID, version)
	return args.Get(0).(*entity.AssignmentEntity), args.Get(1).(*app_errors.AppError)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) SaveJob(ctx context.Context, job *entity.BulkReminderJob) *app_errors.AppError {
	args := m.Called(ctx, job)
	return args.Get(0).(*app_errors.AppError)
}

func (m *MockJobRepo) GetJobByID(ctx context.Context, jobID string) (*entity.BulkReminderJob, *app_errors.AppError) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(*entity.BulkReminderJob), args.Get(1).(*app_errors.AppError)
}

func (m *MockJobRepo) ListStaleRunningJobs(ctx context.Context, cutoff time.Duration) ([]entity.BulkReminderJob, *app_errors.AppError) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]entity.BulkReminderJob), args.Get(1).(*app_errors.AppError)
}

type MockTaskQueue struct {
	mock.Mock
}

func (m *MockTaskQueue) EnqueueProcessBulkReminders(payload *worker_task.ProcessBulkRemindersPayload) error {
	args := m.Called(payload)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendAssignmentReminder(assignment *entity.AssignmentEntity, assigneeEmail string) error {
	args := m.Called(assignment, assigneeEmail)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishChange(ctx context.Context, event entity.ChangeEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
