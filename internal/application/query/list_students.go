// Package query contains the read operations of the tracker.
package query

import (
	"github.com/alem-hub/score-tracker/internal/application"
	"github.com/alem-hub/score-tracker/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST STUDENTS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// StudentRow is one row of the students table.
type StudentRow struct {
	StudentID int
	Name      string
	Scores    []string // "<period> - <type>: <score>"
	Total     float64
	AddedAt   string
}

// ListStudentsHandler lists students in registry order.
type ListStudentsHandler struct {
	session *application.Session
}

// NewListStudentsHandler creates a new ListStudentsHandler.
func NewListStudentsHandler(session *application.Session) *ListStudentsHandler {
	return &ListStudentsHandler{session: session}
}

// Handle returns one row per student.
func (h *ListStudentsHandler) Handle() []StudentRow {
	students := h.session.Registry.List()
	rows := make([]StudentRow, 0, len(students))
	for _, s := range students {
		scores := s.Scores()
		summaries := make([]string, len(scores))
		for i, sc := range scores {
			summaries[i] = sc.Summary()
		}
		rows = append(rows, StudentRow{
			StudentID: s.ID,
			Name:      s.Name,
			Scores:    summaries,
			Total:     s.Total(student.Filter{}),
			AddedAt:   s.CreatedAt,
		})
	}
	return rows
}
