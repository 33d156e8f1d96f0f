package entities

// StringSet is an insertion-ordered set of identifiers.
// The zero value is an empty set. A StringSet is never modified in place:
// With returns a new set, so values can be shared between state snapshots.
type StringSet struct {
	items []string
	index map[string]struct{}
}

// NewStringSet builds a set from items, keeping the first occurrence of each
// duplicate and ignoring empty strings.
func NewStringSet(items ...string) StringSet {
	s := StringSet{
		items: make([]string, 0, len(items)),
		index: make(map[string]struct{}, len(items)),
	}
	for _, id := range items {
		if id == "" {
			continue
		}
		if _, ok := s.index[id]; ok {
			continue
		}
		s.index[id] = struct{}{}
		s.items = append(s.items, id)
	}
	return s
}

// Has reports whether id is a member of the set.
func (s StringSet) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Len returns the number of members.
func (s StringSet) Len() int {
	return len(s.items)
}

// Items returns the members in insertion order. The returned slice is a copy.
func (s StringSet) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// With returns a set that also contains id, and whether id was newly added.
// When id is already present (or empty) the receiver is returned unchanged.
func (s StringSet) With(id string) (StringSet, bool) {
	if id == "" || s.Has(id) {
		return s, false
	}

	next := StringSet{
		items: make([]string, len(s.items), len(s.items)+1),
		index: make(map[string]struct{}, len(s.items)+1),
	}
	copy(next.items, s.items)
	for _, existing := range s.items {
		next.index[existing] = struct{}{}
	}

	next.items = append(next.items, id)
	next.index[id] = struct{}{}
	return next, true
}

// Equal reports whether both sets hold the same members, regardless of order.
func (s StringSet) Equal(other StringSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, id := range s.items {
		if !other.Has(id) {
			return false
		}
	}
	return true
}
