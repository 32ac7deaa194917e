// Package leaderboard builds the ranking view of the score tracker: students
// ordered by the total of their scores, optionally narrowed to one grading
// period and one score type.
package leaderboard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alem-hub/score-tracker/internal/domain/student"
)

// Rank is a 1-based position in the ranking.
type Rank int

// String renders the rank as "#N".
func (r Rank) String() string {
	return fmt.Sprintf("#%d", r)
}

// Entry is one row of the ranking.
type Entry struct {
	Rank      Rank
	StudentID int
	Name      string
	Total     float64
}

// Ranking is an ordered ranking together with the filter that produced it.
type Ranking struct {
	Filter  student.Filter
	Entries []Entry
}

// Title describes the ranking the way the report headers show it.
func (r Ranking) Title() string {
	return fmt.Sprintf("Rankings (%s, Period: %s)", orAll(r.Filter.Type), orAll(r.Filter.Period))
}

// Build ranks every student by the total of its scores passing the filter.
// Students without matching scores are kept with a zero total. Ties keep
// registry order.
func Build(students []*student.Student, filter student.Filter) Ranking {
	entries := make([]Entry, 0, len(students))
	for _, s := range students {
		entries = append(entries, Entry{
			StudentID: s.ID,
			Name:      s.Name,
			Total:     s.Total(filter),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Total > entries[j].Total
	})
	for i := range entries {
		entries[i].Rank = Rank(i + 1)
	}

	return Ranking{Filter: filter, Entries: entries}
}

// ScoreTypes returns the distinct score types across all students, sorted.
// Types differing only in case are listed separately, as recorded.
func ScoreTypes(students []*student.Student) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, s := range students {
		for _, sc := range s.Scores() {
			if _, ok := seen[sc.Type]; ok {
				continue
			}
			seen[sc.Type] = struct{}{}
			out = append(out, sc.Type)
		}
	}
	sort.Strings(out)
	return out
}

func orAll(v string) string {
	if strings.TrimSpace(v) == "" {
		return student.AllFilter
	}
	return v
}
