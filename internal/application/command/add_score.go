package command

import (
	"context"
	"fmt"

	"github.com/alem-hub/score-tracker/internal/application"
	"github.com/alem-hub/score-tracker/internal/domain/activity"
	"github.com/alem-hub/score-tracker/internal/domain/shared"
	"github.com/alem-hub/score-tracker/internal/domain/student"
	"github.com/alem-hub/score-tracker/internal/infrastructure/persistence"
	"github.com/alem-hub/score-tracker/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADD SCORE COMMAND
// Adds a score to a student and records the addition in the activity log so
// it can be undone.
// ══════════════════════════════════════════════════════════════════════════════

// AddScoreCommand adds one score. New scores must use a standard period.
type AddScoreCommand struct {
	StudentID int            `validate:"gte=1"`
	Period    student.Period `validate:"oneof=Prelim Midterm Finals"`
	Score     float64        `validate:"finite,gte=0"`
	Type      string         `validate:"notblank"`
}

// AddScoreResult contains the result of adding a score.
type AddScoreResult struct {
	Score   student.Score
	Record  activity.Record
	Message string

	SavedStudents persistence.Outcome
	SavedAttempts persistence.Outcome
}

// AddScoreHandler handles the AddScoreCommand.
type AddScoreHandler struct {
	session *application.Session
}

// NewAddScoreHandler creates a new AddScoreHandler.
func NewAddScoreHandler(session *application.Session) *AddScoreHandler {
	return &AddScoreHandler{session: session}
}

// Handle executes the add score command.
func (h *AddScoreHandler) Handle(ctx context.Context, cmd AddScoreCommand) (*AddScoreResult, error) {
	const op = "score.add"
	cmd.Period = canonicalPeriod(cmd.Period)
	if err := validateCommand(op, cmd); err != nil {
		return nil, h.session.Finish(op, err)
	}

	s, ok := h.session.Registry.Find(cmd.StudentID)
	if !ok {
		return nil, h.session.Finish(op, shared.ErrStudentNotFound)
	}

	sc, err := s.AddScore(cmd.Period, cmd.Type, cmd.Score, h.session.Now())
	if err != nil {
		return nil, h.session.Finish(op, err)
	}

	rec := activity.NewRecord(s, sc)
	h.session.Log.Push(rec)

	h.session.Logger().Info("score added",
		logger.StudentID(s.ID),
		logger.Period(string(sc.Period)),
		logger.ScoreType(sc.Type),
		logger.Score(sc.Value),
	)

	return &AddScoreResult{
		Score:         sc,
		Record:        rec,
		Message:       fmt.Sprintf("%s - %s score %s added for %s", sc.Period, sc.Type, student.FormatValue(sc.Value), s.Name),
		SavedStudents: h.session.SaveStudents(ctx),
		SavedAttempts: h.session.SaveAttempts(ctx),
	}, h.session.Finish(op, nil)
}
