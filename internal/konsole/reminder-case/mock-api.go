package reminder_case

import (
	"context"

	queue_dto "github.com/Xenn-00/warteschlangen-meister/internal/dtos/queue-dto"
	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
	app_errors "github.com/Xenn-00/warteschlangen-meister/internal/errors"
	"github.com/stretchr/testify/mock"
)

type MockQueueAPI struct {
	mock.Mock
}

func (m *MockQueueAPI) ListAssignments(ctx context.Context, filters entity.FilterCriteria) (*queue_dto.AssignmentListResponse, *app_errors.AppError) {
	args := m.Called(ctx, filters)
	return args.Get(0).(*queue_dto.AssignmentListResponse), args.Get(1).(*app_errors.AppError)
}

func (m *MockQueueAPI) SendReminder(ctx context.Context, assignmentID string) *app_errors.AppError {
	args := m.Called(ctx, assignmentID)
	return args.Get(0).(*app_errors.AppError)
}

func (m *MockQueueAPI) SubmitBulkJob(ctx context.Context, assignmentIDs []string) (string, *app_errors.AppError) {
	args := m.Called(ctx, assignmentIDs)
	return args.String(0), args.Get(1).(*app_errors.AppError)
}

func (m *MockQueueAPI) GetBulkJobStatus(ctx context.Context, jobID string) (*entity.BulkReminderJob, *app_errors.AppError) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(*entity.BulkReminderJob), args.Get(1).(*app_errors.AppError)
}

func (m *MockQueueAPI) GetFilterPreferences(ctx context.Context) (*entity.FilterCriteria, *app_errors.AppError) {
	args := m.Called(ctx)
	return args.Get(0).(*entity.FilterCriteria), args.Get(1).(*app_errors.AppError)
}

func (m *MockQueueAPI) SaveFilterPreferences(ctx context.Context, filters entity.FilterCriteria) *app_errors.AppError {
	args := m.Called(ctx, filters)
	return args.Get(0).(*app_errors.AppError)
}
