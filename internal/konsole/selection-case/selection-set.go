package selection_case

import (
	"slices"
	"sync"
)

// SelectionSet hält die ausgewählten Assignment-IDs in Einfügereihenfolge.
type SelectionSet struct {
	mu      sync.Mutex
	members map[string]struct{}
	order   []string
}

func NewSelectionSet() *SelectionSet {
	return &SelectionSet{
		members: make(map[string]struct{}),
	}
}

// Toggle nimmt eine ID in die Auswahl auf oder entfernt sie wieder. Ist die
// Auswahl voll, bleibt sie unverändert und das Ergebnis ist ToggleRejected.
func (s *SelectionSet) Toggle(assignmentID string) ToggleOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[assignmentID]; ok {
		s.remove(assignmentID)
		return ToggleRemoved
	}

	if len(s.order) >= MaxSelection {
		return ToggleRejected
	}

	s.members[assignmentID] = struct{}{}
	s.order = append(s.order, assignmentID)

	return ToggleAdded
}

// SelectAll ersetzt die Auswahl durch die ersten MaxSelection IDs der
// übergebenen Liste (Listenreihenfolge). Rückgabe ist die Zahl der IDs,
// die wegen der Obergrenze nicht aufgenommen wurden.
func (s *SelectionSet) SelectAll(assignmentIDs []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.members = make(map[string]struct{}, MaxSelection)
	s.order = s.order[:0]

	truncated := 0
	for _, id := range assignmentIDs {
		if _, ok := s.members[id]; ok {
			continue
		}
		if len(s.order) >= MaxSelection {
			truncated++
			continue
		}
		s.members[id] = struct{}{}
		s.order = append(s.order, id)
	}

	return truncated
}

// Remove wird von der Reconciliation benutzt, wenn ein ausgewähltes
// Assignment terminal geworden ist.
func (s *SelectionSet) Remove(assignmentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[assignmentID]; !ok {
		return false
	}

	s.remove(assignmentID)
	return true
}

func (s *SelectionSet) remove(assignmentID string) {
	delete(s.members, assignmentID)
	if i := slices.Index(s.order, assignmentID); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}

func (s *SelectionSet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.members = make(map[string]struct{})
	s.order = s.order[:0]
}

func (s *SelectionSet) IsSelected(assignmentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.members[assignmentID]
	return ok
}

func (s *SelectionSet) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.order)
}

// IDs liefert eine Kopie der Auswahl in Einfügereihenfolge.
func (s *SelectionSet) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.order)
}

func (s *SelectionSet) CanSelectMore() bool {
	return !s.MaxReached()
}

func (s *SelectionSet) MaxReached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.order) >= MaxSelection
}
