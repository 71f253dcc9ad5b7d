package bulkjob_case

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
	app_errors "github.com/Xenn-00/warteschlangen-meister/internal/errors"
	"github.com/Xenn-00/warteschlangen-meister/internal/konsole/apiclient"
	"github.com/Xenn-00/warteschlangen-meister/internal/konsole/notify"
	selection_case "github.com/Xenn-00/warteschlangen-meister/internal/konsole/selection-case"
	"github.com/rs/zerolog/log"
)

type BulkJobOrchestrator struct {
	api          apiclient.QueueAPIContract
	selection    selection_case.SelectionContract
	notifier     notify.Notifier
	invalidate   func()
	pollInterval time.Duration

	mu       sync.Mutex
	inFlight bool
	done     chan struct{}
}

// NewBulkJobOrchestrator baut den Orchestrator. invalidate markiert die
// gecachte Assignment-Liste als veraltet, sobald ein Job terminal geworden ist.
func NewBulkJobOrchestrator(api apiclient.QueueAPIContract, selection selection_case.SelectionContract, notifier notify.Notifier, invalidate func(), pollInterval time.Duration) *BulkJobOrchestrator {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}

	closed := make(chan struct{})
	close(closed)

	return &BulkJobOrchestrator{
		api:          api,
		selection:    selection,
		notifier:     notifier,
		invalidate:   invalidate,
		pollInterval: pollInterval,
		done:         closed,
	}
}

// Submit filtert die übergebene Auswahl auf zuweisbare Assignments, reicht den
// Job ein und startet das Status-Polling. Eine Auswahl ganz ohne zuweisbare
// Einträge scheitert lokal, ohne Netzwerkaufruf.
func (o *BulkJobOrchestrator) Submit(ctx context.Context, assignments []entity.AssignmentEntity) (string, *app_errors.AppError) {
	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return "", app_errors.NewAppError(http.StatusConflict, app_errors.ErrJobInFlight, "bulk.job_in_flight", nil)
	}
	o.mu.Unlock()

	eligible := make([]string, 0, len(assignments))
	skipped := 0
	for _, a := range assignments {
		if a.AssigneeID == nil {
			skipped++
			continue
		}
		eligible = append(eligible, a.ID)
	}

	if len(eligible) == 0 {
		return "", app_errors.NewAppError(http.StatusUnprocessableEntity, app_errors.ErrEmptySelection, "bulk.no_eligible_assignments", nil)
	}

	jobID, err := o.api.SubmitBulkJob(ctx, eligible)
	if err != nil {
		return "", err
	}

	if skipped > 0 {
		o.notifier.Notify(notify.LevelWarning, "bulk.skipped_items", map[string]any{"skipped": skipped})
	}

	o.mu.Lock()
	o.inFlight = true
	o.done = make(chan struct{})
	o.mu.Unlock()

	go o.poll(ctx, jobID)

	log.Info().Str("job_id", jobID).Int("items", len(eligible)).Int("skipped", skipped).Msg("bulk reminder job submitted")
	return jobID, nil
}

func (o *BulkJobOrchestrator) InFlight() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.inFlight
}

// Done ist geschlossen, solange kein Job läuft, und wird pro Job neu angelegt.
func (o *BulkJobOrchestrator) Done() <-chan struct{} {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.done
}

// maxPollFailures: so viele Abfragen dürfen in Folge scheitern, bevor das
// Polling als hart gescheitert gilt.
const maxPollFailures = 5

// poll fragt den Jobstatus zyklisch ab und hört beim ersten terminalen Status
// auf. Die Auswahl wird höchstens einmal geleert, auch wenn der Server den
// terminalen Status mehrfach melden würde. Ein verschwundener Job-Datensatz
// (404, TTL abgelaufen) oder zu viele Fehler in Folge beenden das Polling mit
// einer Fehlermeldung; die Auswahl bleibt dann stehen.
func (o *BulkJobOrchestrator) poll(ctx context.Context, jobID string) {
	defer func() {
		o.mu.Lock()
		o.inFlight = false
		close(o.done)
		o.mu.Unlock()
	}()

	ticker := time.NewTicker(o.pollInterval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("job_id", jobID).Msg("bulk job polling cancelled")
			return
		case <-ticker.C:
			job, err := o.api.GetBulkJobStatus(ctx, jobID)
			if err != nil {
				failures++
				if err.Code == http.StatusNotFound || failures >= maxPollFailures {
					log.Error().Err(err.Err).Str("job_id", jobID).Str("type", err.Type).Msg("bulk job polling aborted")
					o.abort(jobID)
					return
				}
				log.Warn().Err(err.Err).Str("job_id", jobID).Msg("bulk job status poll failed")
				continue
			}
			failures = 0

			if !job.IsTerminal() {
				continue
			}

			o.finish(job)
			return
		}
	}
}

// abort meldet ein hart gescheitertes Polling. Kein terminaler Jobstatus ist
// bekannt, die Auswahl bleibt für einen neuen Versuch erhalten.
func (o *BulkJobOrchestrator) abort(jobID string) {
	o.notifier.Notify(notify.LevelError, "bulk.poll_failed", map[string]any{"job_id": jobID})
	if o.invalidate != nil {
		o.invalidate()
	}
}

func (o *BulkJobOrchestrator) finish(job *entity.BulkReminderJob) {
	switch job.Status {
	case entity.BulkJobCompleted:
		o.selection.Clear()
		if job.FailedItems > 0 {
			o.notifier.Notify(notify.LevelWarning, "bulk.completed_partial", map[string]any{
				"successful": job.SuccessfulItems,
				"failed":     job.FailedItems,
			})
		} else {
			o.notifier.Notify(notify.LevelInfo, "bulk.completed", map[string]any{
				"successful": job.SuccessfulItems,
			})
		}
	case entity.BulkJobFailed:
		// Harte Fehlschläge lassen die Auswahl stehen, damit die Bedienperson
		// den Versuch wiederholen kann.
		o.notifier.Notify(notify.LevelError, "bulk.failed", map[string]any{"job_id": job.ID})
	}

	if o.invalidate != nil {
		o.invalidate()
	}
}
