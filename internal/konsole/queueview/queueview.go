package queueview

import (
	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
)

// VirtualizeThreshold: ab mehr Zeilen als dieser Grenze soll die Render-Schicht
// virtualisieren statt alles zu zeichnen.
const VirtualizeThreshold = 100

// View ist die reine Ableitung aus Liste und aktivem Typ-Tab. Keine Netzwerk-
// oder Mutationsverantwortung; die Render-Schicht konsumiert das Ergebnis.
type View struct {
	Rows             []entity.AssignmentEntity
	CountsByType     map[entity.WorkItemType]int
	FilteredCount    int
	ShouldVirtualize bool
}

// Compose partitioniert die gecachte Liste nach dem aktiven Tab. activeType ==
// nil bedeutet "alle Typen".
func Compose(assignments []entity.AssignmentEntity, activeType *entity.WorkItemType) View {
	counts := make(map[entity.WorkItemType]int, 4)
	rows := make([]entity.AssignmentEntity, 0, len(assignments))

	for _, a := range assignments {
		counts[a.WorkItemType]++
		if activeType == nil || a.WorkItemType == *activeType {
			rows = append(rows, a)
		}
	}

	return View{
		Rows:             rows,
		CountsByType:     counts,
		FilteredCount:    len(rows),
		ShouldVirtualize: len(rows) > VirtualizeThreshold,
	}
}
