package query

import (
	"github.com/alem-hub/score-tracker/internal/application"
	"github.com/alem-hub/score-tracker/internal/domain/shared"
	"github.com/alem-hub/score-tracker/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT SCORES QUERY
// Backs the update and remove flows: which periods and types a student has,
// and the numbered labels a score is removed by.
// ══════════════════════════════════════════════════════════════════════════════

// StudentScoresResult describes the scores of one student.
type StudentScoresResult struct {
	StudentID int
	Name      string
	Labels    []string // index i is score i+1 for removal
	Periods   []student.Period
	Types     map[student.Period][]string
}

// StudentScoresHandler reads the scores of one student.
type StudentScoresHandler struct {
	session *application.Session
}

// NewStudentScoresHandler creates a new StudentScoresHandler.
func NewStudentScoresHandler(session *application.Session) *StudentScoresHandler {
	return &StudentScoresHandler{session: session}
}

// Handle returns the score selection data for studentID.
func (h *StudentScoresHandler) Handle(studentID int) (*StudentScoresResult, error) {
	s, ok := h.session.Registry.Find(studentID)
	if !ok {
		return nil, shared.ErrStudentNotFound
	}

	periods := s.PeriodsInUse()
	types := make(map[student.Period][]string, len(periods))
	for _, p := range periods {
		types[p] = s.TypesIn(p)
	}

	return &StudentScoresResult{
		StudentID: s.ID,
		Name:      s.Name,
		Labels:    s.ScoreLabels(),
		Periods:   periods,
		Types:     types,
	}, nil
}
