package assignment_repo

import (
	"context"

	queue_dto "github.com/Xenn-00/warteschlangen-meister/internal/dtos/queue-dto"
	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
	app_errors "github.com/Xenn-00/warteschlangen-meister/internal/errors"
)

type AssignmentRepoContract interface {
	GetAssignmentByID(ctx context.Context, assignmentID string) (*entity.AssignmentEntity, *app_errors.AppError)
	ListAssignments(ctx context.Context, operatorID string, filter *queue_dto.AssignmentListFilter) ([]entity.AssignmentEntity, int, *app_errors.AppError)
	ListAssignmentsByIDs(ctx context.Context, assignmentIDs []string) ([]entity.AssignmentEntity, *app_errors.AppError)
	MarkReminderSent(ctx context.Context, assignmentID string, version int64) (*entity.AssignmentEntity, *app_errors.AppError)
}
