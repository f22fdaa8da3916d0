package domain

import (
	"sort"
)

// ExclusionSet holds the positions the operator removed from the offer.
// It survives re-evaluation; the zero value is an empty set.
type ExclusionSet struct {
	positions map[int]struct{}
}

// NewExclusionSet creates a set holding the given positions
func NewExclusionSet(positions ...int) ExclusionSet {
	set := ExclusionSet{}
	for _, p := range positions {
		set.Add(p)
	}
	return set
}

// Add excludes a position
func (s *ExclusionSet) Add(position int) {
	if s.positions == nil {
		s.positions = make(map[int]struct{})
	}
	s.positions[position] = struct{}{}
}

// Remove re-includes a position
func (s *ExclusionSet) Remove(position int) {
	delete(s.positions, position)
}

// Toggle flips a position and reports whether it is now excluded
func (s *ExclusionSet) Toggle(position int) bool {
	if s.Contains(position) {
		s.Remove(position)
		return false
	}
	s.Add(position)
	return true
}

// Contains reports whether a position is excluded
func (s ExclusionSet) Contains(position int) bool {
	_, ok := s.positions[position]
	return ok
}

// Len returns the number of excluded positions
func (s ExclusionSet) Len() int {
	return len(s.positions)
}

// Positions returns the excluded positions in ascending order
func (s ExclusionSet) Positions() []int {
	positions := make([]int, 0, len(s.positions))
	for p := range s.positions {
		positions = append(positions, p)
	}
	sort.Ints(positions)
	return positions
}

// Clone returns an independent copy
func (s ExclusionSet) Clone() ExclusionSet {
	return NewExclusionSet(s.Positions()...)
}
