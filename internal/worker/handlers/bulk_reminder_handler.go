package worker_handler

import (
	"context"
	"fmt"
	"time"

	"github.com/Xenn-00/warteschlangen-meister/internal/cooldown"
	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
	worker_task "github.com/Xenn-00/warteschlangen-meister/internal/worker/tasks"
	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

func (wh *WorkerHander) ProcessBulkReminders() asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p worker_task.ProcessBulkRemindersPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			log.Error().Err(err).Msg("Worker handler: Error occured when trying to unmarshal task payload.")
			return err
		}

		job, err := wh.jr.GetJobByID(ctx, p.JobID)
		if err != nil {
			log.Error().Err(err).Str("job_id", p.JobID).Msg("Worker handler: Job record not readable")
			return err
		}

		// Idempotency check: einmal terminal, immer terminal.
		if job.IsTerminal() {
			return nil
		}

		job.Status = entity.BulkJobRunning
		if err := wh.jr.SaveJob(ctx, job); err != nil {
			log.Error().Err(err).Str("job_id", job.ID).Msg("Worker handler: Failed to mark job running")
			return err
		}

		for _, assignmentID := range p.AssignmentIDs {
			if err := wh.limiter.Wait(ctx); err != nil {
				// Kontext beendet, der Job kann nicht mehr sauber zu Ende laufen.
				job.Status = entity.BulkJobFailed
				if saveErr := wh.jr.SaveJob(context.WithoutCancel(ctx), job); saveErr != nil {
					log.Error().Err(saveErr).Str("job_id", job.ID).Msg("Worker handler: Failed to mark job failed")
				}
				return err
			}

			if wh.remindOne(ctx, assignmentID) {
				job.SuccessfulItems++
			} else {
				job.FailedItems++
			}
			job.ProcessedItems++

			// Fortschritt nach jedem Item schreiben, damit das Polling etwas sieht.
			if err := wh.jr.SaveJob(ctx, job); err != nil {
				log.Error().Err(err).Str("job_id", job.ID).Msg("Worker handler: Failed to save job progress")
			}
		}

		// Teilfehler sind kein Jobfehler: completed mit failed_items > 0 ist das
		// gemischte Ergebnis, das der Client als solches meldet.
		job.Status = entity.BulkJobCompleted
		if err := wh.jr.SaveJob(ctx, job); err != nil {
			log.Error().Err(err).Str("job_id", job.ID).Msg("Worker handler: Failed to mark job completed")
			return err
		}

		log.Info().
			Str("job_id", job.ID).
			Int("successful", job.SuccessfulItems).
			Int("failed", job.FailedItems).
			Msg("Worker handler: Bulk reminder job finished")

		return nil
	}
}

func (wh *WorkerHander) remindOne(ctx context.Context, assignmentID string) bool {
	assignment, err := wh.ar.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		log.Error().Err(err).Str("assignment_id", assignmentID).Msg("Worker handler: Assignment not readable")
		return false
	}

	if assignment.AssigneeID == nil {
		return false
	}

	// Autoritative Cooldown-Prüfung; eine veraltete Client-Sicht zählt nicht.
	state := cooldown.Evaluate(assignment.LastReminderSentAt, time.Now(), cooldown.DefaultHours)
	if state.IsActive {
		return false
	}

	// Erst verbuchen, dann versenden: verliert dieses Item den Versionswettlauf,
	// ist noch keine Mail raus und der Gewinner hat bereits erinnert.
	updated, uErr := wh.ar.MarkReminderSent(ctx, assignment.ID, assignment.Version)
	if uErr != nil {
		log.Error().Err(uErr).Str("assignment_id", assignmentID).Msg("Worker handler: Error occured when trying to update assignment.")
		return false
	}

	if err := wh.mailer.SendAssignmentReminder(assignment, fmt.Sprintf("%s@%s", *assignment.AssigneeID, wh.mailDomain)); err != nil {
		log.Error().Err(err).Str("assignment_id", assignmentID).Msg("Worker handler: Error occured when trying to send email.")
		return false
	}

	if pubErr := wh.publisher.PublishChange(ctx, entity.ChangeEvent{
		EventType: entity.ChangeUpdate,
		New:       updated,
		Old:       assignment,
	}); pubErr != nil {
		log.Error().Err(pubErr).Str("assignment_id", assignmentID).Msg("Worker handler: Feed publish failed")
	}

	return true
}
