package bulkjob_case

import (
	"context"

	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
	app_errors "github.com/Xenn-00/warteschlangen-meister/internal/errors"
)

// BulkJobContract reicht Sammel-Reminder ein und verfolgt den laufenden Job.
// Pro Session ist höchstens ein Job gleichzeitig unterwegs; ein zweiter Submit
// während des Pollings scheitert mit JOB_IN_FLIGHT.
type BulkJobContract interface {
	Submit(ctx context.Context, assignments []entity.AssignmentEntity) (string, *app_errors.AppError)
	InFlight() bool
	Done() <-chan struct{}
}
