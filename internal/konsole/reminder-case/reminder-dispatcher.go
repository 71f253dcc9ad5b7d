package reminder_case

import (
	"context"
	"net/http"
	"time"

	"github.com/Xenn-00/warteschlangen-meister/internal/cooldown"
	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
	app_errors "github.com/Xenn-00/warteschlangen-meister/internal/errors"
	"github.com/Xenn-00/warteschlangen-meister/internal/konsole/apiclient"
	"github.com/rs/zerolog/log"
)

type ReminderDispatcher struct {
	api    apiclient.QueueAPIContract
	now    func() time.Time
	onSent func(assignmentID string)
}

// NewReminderDispatcher baut den Dispatcher. onSent markiert nach erfolgreichem
// Versand die gecachte Liste als veraltet (der Server hat Version und
// last_reminder_sent_at inzwischen fortgeschrieben).
func NewReminderDispatcher(api apiclient.QueueAPIContract, onSent func(assignmentID string)) *ReminderDispatcher {
	return &ReminderDispatcher{
		api:    api,
		now:    time.Now,
		onSent: onSent,
	}
}

func (d *ReminderDispatcher) Dispatch(ctx context.Context, assignment *entity.AssignmentEntity) *app_errors.AppError {
	if assignment.AssigneeID == nil {
		return app_errors.NewAppError(http.StatusUnprocessableEntity, app_errors.ErrNoAssignee, "reminder.no_assignee", nil)
	}

	state := cooldown.Evaluate(assignment.LastReminderSentAt, d.now(), cooldown.DefaultHours)
	if state.IsActive {
		return app_errors.NewCooldownError(state.HoursRemaining)
	}

	if err := d.api.SendReminder(ctx, assignment.ID); err != nil {
		return err
	}

	log.Info().Str("assignment_id", assignment.ID).Msg("reminder dispatched")
	if d.onSent != nil {
		d.onSent(assignment.ID)
	}

	return nil
}
