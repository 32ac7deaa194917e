// Package activity contains the recent-activity history of the score tracker:
// snapshots of score additions and the bounded log used for undo.
package activity

import (
	"fmt"

	"github.com/alem-hub/score-tracker/internal/domain/student"
)

// Record is a denormalized snapshot of one score addition. It stays
// independent of the student's current state, so undo can tell whether the
// recorded entry still exists unchanged.
type Record struct {
	StudentID   int
	StudentName string
	Period      student.Period
	Type        string
	Score       float64
	Timestamp   string
}

// NewRecord captures the addition of sc to s.
func NewRecord(s *student.Student, sc student.Score) Record {
	return Record{
		StudentID:   s.ID,
		StudentName: s.Name,
		Period:      sc.Period,
		Type:        sc.Type,
		Score:       sc.Value,
		Timestamp:   sc.Timestamp,
	}
}

// AsScore returns the score entry this record describes.
func (r Record) AsScore() student.Score {
	return student.Score{
		Period:    r.Period,
		Type:      r.Type,
		Value:     r.Score,
		Timestamp: r.Timestamp,
	}
}

// String renders "<period> - <type> score <value> for <name>".
func (r Record) String() string {
	return fmt.Sprintf("%s - %s score %s for %s", r.Period, r.Type, student.FormatValue(r.Score), r.StudentName)
}
