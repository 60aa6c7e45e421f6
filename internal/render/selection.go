package render

// Selection restricts a render pass to a set of matched items, the
// ancestor context needed to reach them, and containers whose subtrees
// should expand in full.
type Selection struct {
	matches  map[int]struct{}
	context  map[int]struct{}
	expanded map[int]struct{}
}

// NewSelection builds a selection from the three id sets.
func NewSelection(matches, context, expanded []int) *Selection {
	s := &Selection{
		matches:  make(map[int]struct{}, len(matches)),
		context:  make(map[int]struct{}, len(context)),
		expanded: make(map[int]struct{}, len(expanded)),
	}
	for _, id := range matches {
		s.matches[id] = struct{}{}
	}
	for _, id := range context {
		s.context[id] = struct{}{}
	}
	for _, id := range expanded {
		s.expanded[id] = struct{}{}
	}
	return s
}

// IsMatch reports whether the item matched the query directly.
func (s *Selection) IsMatch(id int) bool {
	_, ok := s.matches[id]
	return ok
}

// IsExpanded reports whether the item's entire subtree should render.
func (s *Selection) IsExpanded(id int) bool {
	_, ok := s.expanded[id]
	return ok
}

// Contains reports whether the item appears in any of the three sets.
func (s *Selection) Contains(id int) bool {
	if _, ok := s.matches[id]; ok {
		return true
	}
	if _, ok := s.context[id]; ok {
		return true
	}
	_, ok := s.expanded[id]
	return ok
}

// Matches returns the match set as a slice, in unspecified order.
func (s *Selection) Matches() []int {
	out := make([]int, 0, len(s.matches))
	for id := range s.matches {
		out = append(out, id)
	}
	return out
}
