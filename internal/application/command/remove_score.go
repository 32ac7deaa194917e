package command

import (
	"context"
	"fmt"

	"github.com/alem-hub/score-tracker/internal/application"
	"github.com/alem-hub/score-tracker/internal/domain/shared"
	"github.com/alem-hub/score-tracker/internal/domain/student"
	"github.com/alem-hub/score-tracker/internal/infrastructure/persistence"
	"github.com/alem-hub/score-tracker/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REMOVE SCORE COMMAND
// Removes a score by its position in the student's score list. Labels can
// repeat in legacy data, so the position is the only reliable handle.
// ══════════════════════════════════════════════════════════════════════════════

// RemoveScoreCommand removes the Index-th score (1-based) of a student.
type RemoveScoreCommand struct {
	StudentID int `validate:"gte=1"`
	Index     int `validate:"gte=1"`
}

// RemoveScoreResult contains the result of removing a score.
type RemoveScoreResult struct {
	Removed student.Score
	Message string
	Saved   persistence.Outcome
}

// RemoveScoreHandler handles the RemoveScoreCommand.
type RemoveScoreHandler struct {
	session *application.Session
}

// NewRemoveScoreHandler creates a new RemoveScoreHandler.
func NewRemoveScoreHandler(session *application.Session) *RemoveScoreHandler {
	return &RemoveScoreHandler{session: session}
}

// Handle executes the remove score command.
func (h *RemoveScoreHandler) Handle(ctx context.Context, cmd RemoveScoreCommand) (*RemoveScoreResult, error) {
	const op = "score.remove"
	if err := validateCommand(op, cmd); err != nil {
		return nil, h.session.Finish(op, err)
	}

	s, ok := h.session.Registry.Find(cmd.StudentID)
	if !ok {
		return nil, h.session.Finish(op, shared.ErrStudentNotFound)
	}
	if s.ScoreCount() == 0 {
		return nil, h.session.Finish(op, shared.ErrScoreNotFound.WithMessage("No scores to remove."))
	}

	removed, err := s.RemoveScoreAt(cmd.Index - 1)
	if err != nil {
		return nil, h.session.Finish(op, err)
	}

	h.session.Logger().Info("score removed",
		logger.StudentID(s.ID),
		logger.Period(string(removed.Period)),
		logger.ScoreType(removed.Type),
	)

	return &RemoveScoreResult{
		Removed: removed,
		Message: fmt.Sprintf("Removed %s - %s score %s", removed.Period, removed.Type, student.FormatValue(removed.Value)),
		Saved:   h.session.SaveStudents(ctx),
	}, h.session.Finish(op, nil)
}
