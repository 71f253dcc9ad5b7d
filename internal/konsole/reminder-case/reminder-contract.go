package reminder_case

import (
	"context"

	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
	app_errors "github.com/Xenn-00/warteschlangen-meister/internal/errors"
)

// ReminderDispatcherContract verschickt Einzel-Reminder. Lokal entscheidbare
// Ablehnungen (NO_ASSIGNEE, COOLDOWN_ACTIVE) kosten keinen Netzwerkaufruf und
// tragen dieselben Fehlertypen wie serverseitige Ablehnungen.
type ReminderDispatcherContract interface {
	Dispatch(ctx context.Context, assignment *entity.AssignmentEntity) *app_errors.AppError
}
