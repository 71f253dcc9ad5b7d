package apiclient

import (
	"context"

	queue_dto "github.com/Xenn-00/warteschlangen-meister/internal/dtos/queue-dto"
	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
	app_errors "github.com/Xenn-00/warteschlangen-meister/internal/errors"
)

// QueueAPIContract ist die Sicht der Konsole auf das Backend. Jede Methode
// liefert einen *AppError mit derselben Taxonomie, die auch lokale
// Vorprüfungen verwenden, damit Aufrufer nur einen Behandlungspfad brauchen.
type QueueAPIContract interface {
	ListAssignments(ctx context.Context, filters entity.FilterCriteria) (*queue_dto.AssignmentListResponse, *app_errors.AppError)
	SendReminder(ctx context.Context, assignmentID string) *app_errors.AppError
	SubmitBulkJob(ctx context.Context, assignmentIDs []string) (string, *app_errors.AppError)
	GetBulkJobStatus(ctx context.Context, jobID string) (*entity.BulkReminderJob, *app_errors.AppError)
	GetFilterPreferences(ctx context.Context) (*entity.FilterCriteria, *app_errors.AppError)
	SaveFilterPreferences(ctx context.Context, filters entity.FilterCriteria) *app_errors.AppError
}
