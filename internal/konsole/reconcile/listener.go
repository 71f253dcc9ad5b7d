package reconcile

import (
	"context"

	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
	"github.com/Xenn-00/warteschlangen-meister/internal/konsole/notify"
	selection_case "github.com/Xenn-00/warteschlangen-meister/internal/konsole/selection-case"
	"github.com/rs/zerolog/log"
)

// Listener konsumiert den Change-Feed und hält Cache und Auswahl konsistent.
// Er ist die einzige Komponente, die die Auswahl als Nebeneffekt fremder
// Ereignisse verändern darf; alle anderen Mutationen gehen von der
// Bedienperson aus.
type Listener struct {
	selection  selection_case.SelectionContract
	notifier   notify.Notifier
	invalidate func()
}

func NewListener(selection selection_case.SelectionContract, notifier notify.Notifier, invalidate func()) *Listener {
	return &Listener{
		selection:  selection,
		notifier:   notifier,
		invalidate: invalidate,
	}
}

// Run verarbeitet Ereignisse bis der Kanal schließt oder der Kontext endet.
func (l *Listener) Run(ctx context.Context, events <-chan entity.ChangeEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			l.Apply(event)
		}
	}
}

// Apply wendet genau ein Ereignis an. Jedes Ereignis invalidiert die
// gecachte Liste genau einmal; nur terminale UPDATEs fassen die Auswahl an.
func (l *Listener) Apply(event entity.ChangeEvent) {
	record := event.Record()
	if record == nil {
		log.Warn().Str("event_type", string(event.EventType)).Msg("change event without record, ignoring")
		return
	}

	if event.EventType == entity.ChangeUpdate && isTerminalStatus(record.Status) {
		l.selection.Remove(record.ID)
		l.notifier.Notify(notify.LevelInfo, "queue.item_left", map[string]any{
			"work_item_id":   record.WorkItemID,
			"work_item_type": string(record.WorkItemType),
			"status":         string(record.Status),
		})
	}

	l.invalidate()
}

func isTerminalStatus(status entity.AssignmentStatus) bool {
	return status == entity.AssignmentCompleted || status == entity.AssignmentCancelled
}
