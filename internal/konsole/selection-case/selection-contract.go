package selection_case

// MaxSelection begrenzt die Auswahl pro Bulk-Aktion.
const MaxSelection = 100

type ToggleOutcome string

const (
	ToggleAdded    ToggleOutcome = "added"
	ToggleRemoved  ToggleOutcome = "removed"
	ToggleRejected ToggleOutcome = "rejected"
)

// SelectionContract verwaltet die Auswahl einer Session. Keine Methode macht
// I/O; alle Grenzverletzungen lassen die Auswahl unverändert.
type SelectionContract interface {
	Toggle(assignmentID string) ToggleOutcome
	SelectAll(assignmentIDs []string) int
	Remove(assignmentID string) bool
	Clear()
	IsSelected(assignmentID string) bool
	Size() int
	IDs() []string
	CanSelectMore() bool
	MaxReached() bool
}
