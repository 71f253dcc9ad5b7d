package job_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
	app_errors "github.com/Xenn-00/warteschlangen-meister/internal/errors"
	"github.com/Xenn-00/warteschlangen-meister/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Bulk-Jobs leben als JSON-Datensätze in Redis. Der Worker schreibt den
// Fortschritt nach jedem Item, die API liest beim Polling denselben Schlüssel.
const jobTTL = 24 * time.Hour

type JobRepo struct {
	redis *redis.Client
}

func NewJobRepo(redis *redis.Client) JobRepoContract {
	return &JobRepo{redis: redis}
}

func jobKey(jobID string) string {
	return fmt.Sprintf("warteschlange:bulkjob:%s", jobID)
}

func (r *JobRepo) SaveJob(ctx context.Context, job *entity.BulkReminderJob) *app_errors.AppError {
	job.UpdatedAt = time.Now()
	return utils.SetCacheData(ctx, r.redis, jobKey(job.ID), job, jobTTL)
}

// ListStaleRunningJobs liefert Jobs, die seit cutoff keinen Fortschritt mehr
// geschrieben haben und trotzdem nicht terminal sind (abgestürzter Worker).
func (r *JobRepo) ListStaleRunningJobs(ctx context.Context, cutoff time.Duration) ([]entity.BulkReminderJob, *app_errors.AppError) {
	var stale []entity.BulkReminderJob

	iter := r.redis.Scan(ctx, 0, jobKey("*"), 100).Iterator()
	for iter.Next(ctx) {
		job, err := utils.GetCacheData[entity.BulkReminderJob](ctx, r.redis, iter.Val())
		if err != nil || job == nil {
			continue
		}
		if !job.IsTerminal() && time.Since(job.UpdatedAt) > cutoff {
			stale = append(stale, *job)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", err)
	}

	return stale, nil
}

func (r *JobRepo) GetJobByID(ctx context.Context, jobID string) (*entity.BulkReminderJob, *app_errors.AppError) {
	job, err := utils.GetCacheData[entity.BulkReminderJob](ctx, r.redis, jobKey(jobID))
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "job_not_found", nil)
	}
	return job, nil
}
