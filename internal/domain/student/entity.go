// Package student contains the student domain model of the score tracker:
// the Score value object, the Student entity and the Registry that owns them.
// This is the core of the business logic and has no external dependencies.
package student

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/alem-hub/score-tracker/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student is a tracked student and its ordered scores.
type Student struct {
	// ID is the positive identifier, unique across the registry.
	ID int

	// Name is the trimmed, non-empty display name.
	Name string

	// CreatedAt is the timestamp the student was added at.
	CreatedAt string

	scores []Score
}

// Scores returns a copy of the scores in insertion order.
func (s *Student) Scores() []Score {
	out := make([]Score, len(s.scores))
	copy(out, s.scores)
	return out
}

// ScoreCount returns how many scores the student has.
func (s *Student) ScoreCount() int {
	return len(s.scores)
}

// FindScore returns the first score whose (period, type) matches
// case-insensitively.
func (s *Student) FindScore(period Period, typ string) (Score, int, bool) {
	key := NewScoreKey(period, typ)
	for i, sc := range s.scores {
		if sc.Key() == key {
			return sc, i, true
		}
	}
	return Score{}, -1, false
}

// AddScore appends a new score. It rejects an entry whose (period, type)
// already exists, ignoring case and surrounding whitespace.
func (s *Student) AddScore(period Period, typ string, value float64, timestamp string) (Score, error) {
	typ = strings.TrimSpace(typ)
	if err := validateScore(period, typ, value); err != nil {
		return Score{}, err
	}

	if existing, _, ok := s.FindScore(period, typ); ok {
		return Score{}, shared.ErrDuplicateScore.WithMessage(
			"Score '%s' already exists in %s for %s (%s).", typ, period, s.Name, existing.Summary())
	}

	sc := Score{Period: period, Type: typ, Value: value, Timestamp: timestamp}
	s.scores = append(s.scores, sc)
	return sc, nil
}

// UpdateScore replaces value and timestamp of the score matching
// (period, type) case-insensitively.
func (s *Student) UpdateScore(period Period, typ string, value float64, timestamp string) (Score, error) {
	if err := validateValue(value); err != nil {
		return Score{}, err
	}

	_, idx, ok := s.FindScore(period, typ)
	if !ok {
		return Score{}, shared.ErrScoreNotFound.WithMessage(
			"No %s - %s score for %s.", period, strings.TrimSpace(typ), s.Name)
	}

	s.scores[idx].Value = value
	s.scores[idx].Timestamp = timestamp
	return s.scores[idx], nil
}

// RemoveScoreAt removes the score at the given zero-based position.
// Two entries may render the same label, so removal goes by position.
func (s *Student) RemoveScoreAt(index int) (Score, error) {
	if index < 0 || index >= len(s.scores) {
		return Score{}, shared.ErrScoreNotFound.WithMessage(
			"No score at position %d for %s.", index+1, s.Name)
	}

	removed := s.scores[index]
	s.scores = append(s.scores[:index], s.scores[index+1:]...)
	return removed, nil
}

// RemoveMatching removes the most recent score equal to target on every
// field. It reports whether an entry was removed.
func (s *Student) RemoveMatching(target Score) bool {
	for i := len(s.scores) - 1; i >= 0; i-- {
		if s.scores[i].sameEntry(target) {
			s.scores = append(s.scores[:i], s.scores[i+1:]...)
			return true
		}
	}
	return false
}

// RestoreScore appends a score without validation or duplicate checks. It is
// only meant for replaying persisted documents, which may hold legacy shapes.
func (s *Student) RestoreScore(sc Score) {
	s.scores = append(s.scores, sc)
}

// Filter selects scores by period and type. An empty value or "All" matches
// everything.
type Filter struct {
	Period string
	Type   string
}

// AllFilter is the label that disables a filter dimension.
const AllFilter = "All"

// Matches reports whether sc passes the filter.
func (f Filter) Matches(sc Score) bool {
	return matchesDimension(f.Period, string(sc.Period)) && matchesDimension(f.Type, sc.Type)
}

func matchesDimension(want, got string) bool {
	if want == "" || want == AllFilter {
		return true
	}
	return EqualFold(want, got)
}

// Total sums the scores that pass the filter.
func (s *Student) Total(f Filter) float64 {
	var total float64
	for _, sc := range s.scores {
		if f.Matches(sc) {
			total += sc.Value
		}
	}
	return total
}

// PeriodsInUse returns the distinct periods of the student's scores, sorted.
func (s *Student) PeriodsInUse() []Period {
	seen := make(map[Period]struct{})
	out := make([]Period, 0)
	for _, sc := range s.scores {
		if _, ok := seen[sc.Period]; ok {
			continue
		}
		seen[sc.Period] = struct{}{}
		out = append(out, sc.Period)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// TypesIn returns the score types recorded in the given period, in insertion
// order.
func (s *Student) TypesIn(period Period) []string {
	out := make([]string, 0)
	for _, sc := range s.scores {
		if sc.Period == period {
			out = append(out, sc.Type)
		}
	}
	return out
}

// ScoreLabels returns one selection label per score, index-aligned with
// Scores().
func (s *Student) ScoreLabels() []string {
	out := make([]string, len(s.scores))
	for i, sc := range s.scores {
		out[i] = sc.Label()
	}
	return out
}

// String returns a compact representation for logging.
func (s *Student) String() string {
	return fmt.Sprintf("Student{ID: %d, Name: %s, Scores: %d}", s.ID, s.Name, len(s.scores))
}

func validateScore(period Period, typ string, value float64) error {
	if strings.TrimSpace(string(period)) == "" {
		return shared.ErrInvalidScore.WithMessage("Grading period cannot be empty!")
	}
	if typ == "" {
		return shared.ErrInvalidScore.WithMessage("Score type cannot be empty!")
	}
	return validateValue(value)
}

// validateValue rejects negative scores and values JSON cannot carry.
func validateValue(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return shared.ErrInvalidScore.WithMessage("Score must be a finite number!")
	}
	if value < 0 {
		return shared.ErrInvalidScore.WithMessage("Score cannot be negative!")
	}
	return nil
}
