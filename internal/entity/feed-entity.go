package entity

type ChangeEventType string

const (
	ChangeInsert ChangeEventType = "INSERT"
	ChangeUpdate ChangeEventType = "UPDATE"
	ChangeDelete ChangeEventType = "DELETE"
)

// ChangeEvent ist eine Nachricht des Change-Feeds für Assignment-Datensätze.
// New ist bei INSERT/UPDATE gesetzt, Old bei UPDATE/DELETE.
type ChangeEvent struct {
	EventType ChangeEventType   `json:"event_type"`
	New       *AssignmentEntity `json:"new,omitempty"`
	Old       *AssignmentEntity `json:"old,omitempty"`
}

// Record liefert den Datensatz, auf den sich das Ereignis bezieht (New vor Old).
func (e ChangeEvent) Record() *AssignmentEntity {
	if e.New != nil {
		return e.New
	}
	return e.Old
}
