package worker_handler

import (
	"context"
	"time"

	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

const staleJobCutoff = time.Hour

// SweepStaleJobs markiert Jobs ohne Fortschritt als failed, damit kein Client
// ewig gegen einen verwaisten Job pollt.
func (wh *WorkerHander) SweepStaleJobs() asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		stale, err := wh.jr.ListStaleRunningJobs(ctx, staleJobCutoff)
		if err != nil {
			log.Error().Err(err).Msg("Worker handler: Error occured when listing stale jobs")
			return err
		}

		for _, job := range stale {
			job.Status = entity.BulkJobFailed
			if saveErr := wh.jr.SaveJob(ctx, &job); saveErr != nil {
				log.Error().Err(saveErr).Str("job_id", job.ID).Msg("Worker handler: Failed to fail stale job")
				continue
			}
			log.Warn().Str("job_id", job.ID).Msg("Worker handler: Marked stale bulk job as failed")
		}

		return nil
	}
}
