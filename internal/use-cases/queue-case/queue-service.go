package queue_case

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Xenn-00/warteschlangen-meister/internal/cooldown"
	"github.com/Xenn-00/warteschlangen-meister/internal/dtos"
	queue_dto "github.com/Xenn-00/warteschlangen-meister/internal/dtos/queue-dto"
	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
	app_errors "github.com/Xenn-00/warteschlangen-meister/internal/errors"
	"github.com/Xenn-00/warteschlangen-meister/internal/feed"
	"github.com/Xenn-00/warteschlangen-meister/internal/mail"
	"github.com/Xenn-00/warteschlangen-meister/internal/queue"
	assignment_repo "github.com/Xenn-00/warteschlangen-meister/internal/repo/assignment-repo"
	job_repo "github.com/Xenn-00/warteschlangen-meister/internal/repo/job-repo"
	"github.com/Xenn-00/warteschlangen-meister/internal/utils"
	worker_task "github.com/Xenn-00/warteschlangen-meister/internal/worker/tasks"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const filterPreferenceTTL = 30 * 24 * time.Hour

type QueueService struct {
	redis      *redis.Client
	repo       assignment_repo.AssignmentRepoContract
	jobs       job_repo.JobRepoContract
	taskQueue  queue.TaskQueueContract
	mailer     mail.Mailer
	publisher  feed.PublisherContract
	mailDomain string
}

func NewQueueService(db *pgxpool.Pool, redis *redis.Client, mailer mail.Mailer, mailDomain string) QueueServiceContract {
	return &QueueService{
		redis:      redis,
		repo:       assignment_repo.NewAssignmentRepo(db),
		jobs:       job_repo.NewJobRepo(redis),
		taskQueue:  queue.NewTaskQueue(redis),
		mailer:     mailer,
		publisher:  feed.NewRedisFeed(redis),
		mailDomain: mailDomain,
	}
}

func (s *QueueService) ListAssignments(ctx context.Context, operatorID string, filter queue_dto.AssignmentListFilter) ([]entity.AssignmentEntity, *dtos.PaginationMeta, *app_errors.AppError) {
	assignments, total, err := s.repo.ListAssignments(ctx, operatorID, &filter)
	if err != nil {
		return nil, nil, err
	}

	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 50
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	meta := &dtos.PaginationMeta{
		Page:       page,
		Limit:      pageSize,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}

	return assignments, meta, nil
}

// SendReminder ist die autoritative Seite des Reminder-Versands: sie prüft
// Assignee und Cooldown erneut und gewinnt gegen jede clientseitige Vorprüfung.
func (s *QueueService) SendReminder(ctx context.Context, assignmentID string) *app_errors.AppError {
	assignment, err := s.repo.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return err
	}

	if assignment.AssigneeID == nil {
		return app_errors.NewAppError(fiber.StatusUnprocessableEntity, app_errors.ErrNoAssignee, "reminder.no_assignee", nil)
	}

	state := cooldown.Evaluate(assignment.LastReminderSentAt, time.Now(), cooldown.DefaultHours)
	if state.IsActive {
		return app_errors.NewCooldownError(state.HoursRemaining)
	}

	// Erst verbuchen, dann versenden: ein Versionskonflikt darf nie hinter
	// einer bereits zugestellten Mail liegen, sonst erinnert der Retry doppelt.
	updated, err := s.repo.MarkReminderSent(ctx, assignment.ID, assignment.Version)
	if err != nil {
		return err
	}

	if mailErr := s.mailer.SendAssignmentReminder(assignment, s.assigneeEmail(*assignment.AssigneeID)); mailErr != nil {
		// Der Reminder ist verbucht, der Cooldown läuft; die verlorene Mail
		// wird als Fehler gemeldet statt still verschluckt.
		log.Error().Err(mailErr).Str("assignment_id", assignment.ID).Msg("Queue service: Reminder mail failed after commit")
		return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", mailErr)
	}

	if pubErr := s.publisher.PublishChange(ctx, entity.ChangeEvent{
		EventType: entity.ChangeUpdate,
		New:       updated,
		Old:       assignment,
	}); pubErr != nil {
		// Der Versand ist gelaufen; ein Feed-Schluckauf darf ihn nicht als Fehler maskieren.
		log.Error().Err(pubErr).Str("assignment_id", assignment.ID).Msg("Queue service: Feed publish failed")
	}

	return nil
}

func (s *QueueService) SubmitBulkReminders(ctx context.Context, req *queue_dto.BulkReminderRequest) (*queue_dto.BulkReminderResponse, *app_errors.AppError) {
	assignments, err := s.repo.ListAssignmentsByIDs(ctx, req.AssignmentIDs)
	if err != nil {
		return nil, err
	}

	// Nur Assignments mit Assignee sind erinnerbar; der Client filtert bereits,
	// der Server verlässt sich aber nicht darauf.
	eligible := []string{}
	for _, assignment := range assignments {
		if assignment.AssigneeID != nil {
			eligible = append(eligible, assignment.ID)
		}
	}

	if len(eligible) == 0 {
		return nil, app_errors.NewAppError(fiber.StatusUnprocessableEntity, app_errors.ErrEmptySelection, "bulk.no_eligible_assignments", nil)
	}

	jobID, idErr := uuid.NewV7()
	if idErr != nil {
		return nil, app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", idErr)
	}

	job := &entity.BulkReminderJob{
		ID:         jobID.String(),
		Status:     entity.BulkJobPending,
		TotalItems: len(eligible),
	}

	if err := s.jobs.SaveJob(ctx, job); err != nil {
		return nil, err
	}

	if qErr := s.taskQueue.EnqueueProcessBulkReminders(&worker_task.ProcessBulkRemindersPayload{
		JobID:         job.ID,
		AssignmentIDs: eligible,
	}); qErr != nil {
		return nil, app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", qErr)
	}

	return &queue_dto.BulkReminderResponse{JobID: job.ID}, nil
}

func (s *QueueService) GetBulkJobStatus(ctx context.Context, jobID string) (*entity.BulkReminderJob, *app_errors.AppError) {
	return s.jobs.GetJobByID(ctx, jobID)
}

func (s *QueueService) GetFilterPreference(ctx context.Context, operatorID string) (*entity.FilterCriteria, *app_errors.AppError) {
	prefs, err := utils.GetCacheData[entity.FilterCriteria](ctx, s.redis, filterPreferenceKey(operatorID))
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		return &entity.FilterCriteria{}, nil
	}
	return prefs, nil
}

// SaveFilterPreference ersetzt die gemerkten Kriterien vollständig (last-write-wins).
// Leere Kriterien löschen den Datensatz, statt einen leeren Blob zu speichern.
func (s *QueueService) SaveFilterPreference(ctx context.Context, operatorID string, filters entity.FilterCriteria) *app_errors.AppError {
	if filters.IsEmpty() {
		if err := utils.DeleteCacheData(ctx, s.redis, filterPreferenceKey(operatorID)); err != nil {
			return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", err)
		}
		return nil
	}
	return utils.SetCacheData(ctx, s.redis, filterPreferenceKey(operatorID), &filters, filterPreferenceTTL)
}

func (s *QueueService) assigneeEmail(assigneeID string) string {
	return fmt.Sprintf("%s@%s", assigneeID, s.mailDomain)
}

func filterPreferenceKey(operatorID string) string {
	return fmt.Sprintf("warteschlange:filterprefs:%s", operatorID)
}
