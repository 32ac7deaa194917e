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
// UNDO LAST ATTEMPT COMMAND
// Pops the newest activity record and removes the score entry it describes,
// provided that entry still exists unchanged. The record is consumed even
// when nothing could be removed; documents are only rewritten on success.
// ══════════════════════════════════════════════════════════════════════════════

// UndoStatus tells how an undo ended.
type UndoStatus int

const (
	// UndoNothing means the activity log was empty.
	UndoNothing UndoStatus = iota

	// Undone means the recorded score was removed.
	Undone

	// UndoStudentMissing means the recorded student no longer exists.
	UndoStudentMissing

	// UndoEntryMissing means the student has no entry equal to the record,
	// because it was updated or removed since.
	UndoEntryMissing
)

// String returns the string representation of the status.
func (s UndoStatus) String() string {
	switch s {
	case UndoNothing:
		return "nothing_to_undo"
	case Undone:
		return "undone"
	case UndoStudentMissing:
		return "student_missing"
	case UndoEntryMissing:
		return "entry_missing"
	default:
		return "unknown"
	}
}

// UndoCommand undoes the newest score addition.
type UndoCommand struct{}

// UndoResult contains the result of an undo. Err is nil only for Undone.
type UndoResult struct {
	Status  UndoStatus
	Record  activity.Record
	Message string
	Err     error

	SavedStudents persistence.Outcome
	SavedAttempts persistence.Outcome
}

// OK reports whether a score was removed.
func (r *UndoResult) OK() bool {
	return r.Status == Undone
}

// UndoHandler handles the UndoCommand.
type UndoHandler struct {
	session *application.Session
}

// NewUndoHandler creates a new UndoHandler.
func NewUndoHandler(session *application.Session) *UndoHandler {
	return &UndoHandler{session: session}
}

// Handle executes the undo command. Failures are reported in the result,
// never as a panic or a partially applied change.
func (h *UndoHandler) Handle(ctx context.Context, _ UndoCommand) *UndoResult {
	const op = "activity.undo"

	rec, ok := h.session.Log.Pop()
	if !ok {
		res := &UndoResult{Status: UndoNothing, Err: shared.ErrNothingToUndo}
		res.Message = shared.Message(res.Err)
		_ = h.session.Finish(op, res.Err)
		return res
	}

	res := &UndoResult{Record: rec}
	log := h.session.Logger().With(
		logger.StudentID(rec.StudentID),
		logger.Period(string(rec.Period)),
		logger.ScoreType(rec.Type),
	)

	s, found := h.session.Registry.Find(rec.StudentID)
	switch {
	case !found:
		res.Status = UndoStudentMissing
		res.Err = shared.ErrUndoFailed.WithMessage("Could not undo — student not found.")
	case !s.RemoveMatching(rec.AsScore()):
		res.Status = UndoEntryMissing
		res.Err = shared.ErrUndoFailed.WithMessage("Could not undo — matching score entry not found.")
	default:
		res.Status = Undone
		res.Message = fmt.Sprintf("Undid %s - %s score %s for %s",
			rec.Period, rec.Type, student.FormatValue(rec.Score), s.Name)
		res.SavedStudents = h.session.SaveStudents(ctx)
		res.SavedAttempts = h.session.SaveAttempts(ctx)
		log.Info("attempt undone")
		_ = h.session.Finish(op, nil)
		return res
	}

	res.Message = shared.Message(res.Err)
	log.Warn("undo failed", logger.String("status", res.Status.String()))
	_ = h.session.Finish(op, res.Err)
	return res
}
