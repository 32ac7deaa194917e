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
// UPDATE SCORE COMMAND
// Replaces the value of an existing score. Updates are not recorded in the
// activity log.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateScoreCommand changes the value of the score identified by period and
// type. Any period already in use may be named, including legacy ones.
type UpdateScoreCommand struct {
	StudentID int            `validate:"gte=1"`
	Period    student.Period `validate:"notblank"`
	Type      string         `validate:"notblank"`
	Score     float64        `validate:"finite,gte=0"`
}

// UpdateScoreResult contains the result of updating a score.
type UpdateScoreResult struct {
	Score   student.Score
	Message string
	Saved   persistence.Outcome
}

// UpdateScoreHandler handles the UpdateScoreCommand.
type UpdateScoreHandler struct {
	session *application.Session
}

// NewUpdateScoreHandler creates a new UpdateScoreHandler.
func NewUpdateScoreHandler(session *application.Session) *UpdateScoreHandler {
	return &UpdateScoreHandler{session: session}
}

// Handle executes the update score command.
func (h *UpdateScoreHandler) Handle(ctx context.Context, cmd UpdateScoreCommand) (*UpdateScoreResult, error) {
	const op = "score.update"
	if err := validateCommand(op, cmd); err != nil {
		return nil, h.session.Finish(op, err)
	}

	s, ok := h.session.Registry.Find(cmd.StudentID)
	if !ok {
		return nil, h.session.Finish(op, shared.ErrStudentNotFound)
	}

	sc, err := s.UpdateScore(cmd.Period, cmd.Type, cmd.Score, h.session.Now())
	if err != nil {
		return nil, h.session.Finish(op, err)
	}

	h.session.Logger().Info("score updated",
		logger.StudentID(s.ID),
		logger.Period(string(sc.Period)),
		logger.ScoreType(sc.Type),
		logger.Score(sc.Value),
	)

	return &UpdateScoreResult{
		Score:   sc,
		Message: fmt.Sprintf("Updated %s - %s to %s", sc.Period, sc.Type, student.FormatValue(sc.Value)),
		Saved:   h.session.SaveStudents(ctx),
	}, h.session.Finish(op, nil)
}
