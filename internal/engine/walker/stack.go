package walker

import (
	"slices"

	"go.trai.ch/forge/internal/core/domain"
)

// visitStack is the fixed-capacity stack of records on the current include path.
type visitStack struct {
	records  []*domain.DependencyRecord
	capacity int
}

func newVisitStack(capacity int) *visitStack {
	return &visitStack{
		records:  make([]*domain.DependencyRecord, 0, capacity),
		capacity: capacity,
	}
}

// contains reports whether rec is on the stack. Records are compared by identity.
func (s *visitStack) contains(rec *domain.DependencyRecord) bool {
	return slices.Contains(s.records, rec)
}

// push adds rec and reports false if the stack is full.
func (s *visitStack) push(rec *domain.DependencyRecord) bool {
	if len(s.records) >= s.capacity {
		return false
	}
	s.records = append(s.records, rec)
	return true
}

func (s *visitStack) pop() {
	s.records[len(s.records)-1] = nil
	s.records = s.records[:len(s.records)-1]
}
