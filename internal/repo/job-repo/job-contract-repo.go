package job_repo

import (
	"context"
	"time"

	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
	app_errors "github.com/Xenn-00/warteschlangen-meister/internal/errors"
)

type JobRepoContract interface {
	SaveJob(ctx context.Context, job *entity.BulkReminderJob) *app_errors.AppError
	GetJobByID(ctx context.Context, jobID string) (*entity.BulkReminderJob, *app_errors.AppError)
	ListStaleRunningJobs(ctx context.Context, cutoff time.Duration) ([]entity.BulkReminderJob, *app_errors.AppError)
}
