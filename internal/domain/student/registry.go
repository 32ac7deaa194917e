package student

import (
	"strings"

	"github.com/alem-hub/score-tracker/internal/domain/shared"
	"github.com/alem-hub/score-tracker/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTRY
// ══════════════════════════════════════════════════════════════════════════════

// Registry is the ordered collection of students keyed by id.
// Iteration follows insertion order; ids are unique.
//
// It is not safe for concurrent use: one session owns one registry.
type Registry struct {
	students []*Student
	index    map[int]int // id -> position in students
	clock    timeutil.Clock
}

// NewRegistry returns an empty registry stamping new students with the
// system clock.
func NewRegistry() *Registry {
	return NewRegistryWithClock(timeutil.System)
}

// NewRegistryWithClock returns an empty registry using clock for default
// timestamps.
func NewRegistryWithClock(clock timeutil.Clock) *Registry {
	if clock == nil {
		clock = timeutil.System
	}
	return &Registry{
		students: make([]*Student, 0),
		index:    make(map[int]int),
		clock:    clock,
	}
}

// Add creates a student at the end of the iteration order. An empty
// timestamp defaults to now. Fails with ErrDuplicateID when the id is taken.
func (r *Registry) Add(id int, name, timestamp string) (*Student, error) {
	if _, ok := r.index[id]; ok {
		return nil, shared.ErrDuplicateID
	}
	if id <= 0 {
		return nil, shared.ErrInvalidStudent.WithMessage("Student ID must be a positive number.")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.ErrInvalidStudent.WithMessage("Name cannot be empty.")
	}
	if timestamp == "" {
		timestamp = timeutil.Stamp(r.clock)
	}

	s := &Student{
		ID:        id,
		Name:      name,
		CreatedAt: timestamp,
		scores:    make([]Score, 0),
	}
	r.index[id] = len(r.students)
	r.students = append(r.students, s)
	return s, nil
}

// Find returns the student with the given id.
func (r *Registry) Find(id int) (*Student, bool) {
	pos, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return r.students[pos], true
}

// Remove deletes the student and all its scores. It reports whether a
// student was removed.
func (r *Registry) Remove(id int) bool {
	pos, ok := r.index[id]
	if !ok {
		return false
	}

	r.students = append(r.students[:pos], r.students[pos+1:]...)
	delete(r.index, id)
	for i := pos; i < len(r.students); i++ {
		r.index[r.students[i].ID] = i
	}
	return true
}

// List returns the students in insertion order. The slice is a copy; the
// students are shared.
func (r *Registry) List() []*Student {
	out := make([]*Student, len(r.students))
	copy(out, r.students)
	return out
}

// Len returns the number of students.
func (r *Registry) Len() int {
	return len(r.students)
}

// Now returns the registry clock's current timestamp string.
func (r *Registry) Now() string {
	return timeutil.Stamp(r.clock)
}
