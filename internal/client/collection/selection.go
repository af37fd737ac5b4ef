package collection

// Selection is a set of media item IDs scoped to one gallery. It is pure
// local state, independent of network state, and is never persisted.
type Selection struct {
	ids map[string]bool
}

// Toggle flips membership of one ID.
func (s *Selection) Toggle(id string) {
	if s.ids == nil {
		s.ids = make(map[string]bool)
	}
	if s.ids[id] {
		delete(s.ids, id)
	} else {
		s.ids[id] = true
	}
}

// Add inserts an ID.
func (s *Selection) Add(id string) {
	if s.ids == nil {
		s.ids = make(map[string]bool)
	}
	s.ids[id] = true
}

// Remove drops an ID.
func (s *Selection) Remove(id string) {
	delete(s.ids, id)
}

// Has reports membership.
func (s *Selection) Has(id string) bool {
	return s.ids[id]
}

// Count returns the number of selected IDs.
func (s *Selection) Count() int {
	return len(s.ids)
}

// Clear empties the selection. Every bulk action ends with a Clear on
// its completion path.
func (s *Selection) Clear() {
	s.ids = nil
}
