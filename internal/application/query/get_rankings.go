package query

import (
	"github.com/alem-hub/score-tracker/internal/application"
	"github.com/alem-hub/score-tracker/internal/domain/leaderboard"
	"github.com/alem-hub/score-tracker/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET RANKINGS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetRankingsQuery narrows the ranking. Empty or "All" disables a filter.
type GetRankingsQuery struct {
	Type   string
	Period string
}

// GetRankingsResult contains the ranking and the choices for its filters.
type GetRankingsResult struct {
	Ranking       leaderboard.Ranking
	TypeOptions   []string // "All" followed by every recorded type
	PeriodOptions []string
}

// Empty reports whether there is nothing to rank.
func (r *GetRankingsResult) Empty() bool {
	return len(r.Ranking.Entries) == 0
}

// GetRankingsHandler builds rankings from the session registry.
type GetRankingsHandler struct {
	session *application.Session
}

// NewGetRankingsHandler creates a new GetRankingsHandler.
func NewGetRankingsHandler(session *application.Session) *GetRankingsHandler {
	return &GetRankingsHandler{session: session}
}

// Handle builds the ranking for q.
func (h *GetRankingsHandler) Handle(q GetRankingsQuery) *GetRankingsResult {
	students := h.session.Registry.List()

	periods := []string{student.AllFilter}
	for _, p := range student.Periods() {
		periods = append(periods, string(p))
	}

	return &GetRankingsResult{
		Ranking:       leaderboard.Build(students, student.Filter{Period: q.Period, Type: q.Type}),
		TypeOptions:   append([]string{student.AllFilter}, leaderboard.ScoreTypes(students)...),
		PeriodOptions: periods,
	}
}
