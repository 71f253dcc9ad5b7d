package queue_case

import (
	"context"

	"github.com/Xenn-00/warteschlangen-meister/internal/dtos"
	queue_dto "github.com/Xenn-00/warteschlangen-meister/internal/dtos/queue-dto"
	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
	app_errors "github.com/Xenn-00/warteschlangen-meister/internal/errors"
)

type QueueServiceContract interface {
	ListAssignments(ctx context.Context, operatorID string, filter queue_dto.AssignmentListFilter) ([]entity.AssignmentEntity, *dtos.PaginationMeta, *app_errors.AppError)
	SendReminder(ctx context.Context, assignmentID string) *app_errors.AppError
	SubmitBulkReminders(ctx context.Context, req *queue_dto.BulkReminderRequest) (*queue_dto.BulkReminderResponse, *app_errors.AppError)
	GetBulkJobStatus(ctx context.Context, jobID string) (*entity.BulkReminderJob, *app_errors.AppError)
	GetFilterPreference(ctx context.Context, operatorID string) (*entity.FilterCriteria, *app_errors.AppError)
	SaveFilterPreference(ctx context.Context, operatorID string, filters entity.FilterCriteria) *app_errors.AppError
}
