package query

import (
	"github.com/alem-hub/score-tracker/internal/application"
	"github.com/alem-hub/score-tracker/internal/domain/activity"
)

// RecentAttemptsHandler lists the activity log, oldest first.
type RecentAttemptsHandler struct {
	session *application.Session
}

// NewRecentAttemptsHandler creates a new RecentAttemptsHandler.
func NewRecentAttemptsHandler(session *application.Session) *RecentAttemptsHandler {
	return &RecentAttemptsHandler{session: session}
}

// Handle returns the records in push order; the last one is what undo targets.
func (h *RecentAttemptsHandler) Handle() []activity.Record {
	return h.session.Log.List()
}
